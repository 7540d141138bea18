package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Hook releases one resource during shutdown: the HTTP server stops taking
// requests, the payment sweeper drains, the monitor halts, the store clients
// close.
type Hook func(ctx context.Context) error

type namedHook struct {
	name string
	run  Hook
}

// Coordinator tears the service down in the reverse of startup order, so the
// server is released before the sweeper and the sweeper before the pools it
// sweeps through. Teardown runs at most once.
type Coordinator struct {
	grace  time.Duration
	logger *zap.Logger

	mu    sync.Mutex
	stack []namedHook
	done  bool
}

func NewCoordinator(grace time.Duration, logger *zap.Logger) *Coordinator {
	if grace <= 0 {
		grace = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		grace:  grace,
		logger: logger,
	}
}

// OnShutdown pushes a teardown hook. Hooks run LIFO.
func (c *Coordinator) OnShutdown(name string, run Hook) {
	if run == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stack = append(c.stack, namedHook{name: name, run: run})
}

// NotifySignals invokes cancel when SIGTERM or SIGINT arrives.
func (c *Coordinator) NotifySignals(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigCh)
		sig := <-sigCh
		c.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()
}

// Close runs every registered hook within the grace period and reports the
// joined failures. A second Close is a no-op.
func (c *Coordinator) Close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, c.grace)
	defer cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return nil
	}
	c.done = true

	var failures error
	for i := len(c.stack) - 1; i >= 0; i-- {
		h := c.stack[i]
		started := time.Now()
		if err := h.run(ctx); err != nil {
			c.logger.Error("teardown failed",
				zap.String("component", h.name), zap.Error(err))
			failures = errors.Join(failures, err)
			continue
		}
		c.logger.Info("component stopped",
			zap.String("component", h.name),
			zap.Duration("took", time.Since(started)))
	}
	return failures
}
