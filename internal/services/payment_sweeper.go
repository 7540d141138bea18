package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// PendingExpirer is implemented by the payment use case.
type PendingExpirer interface {
	ExpireStalePending(ctx context.Context, maxAge time.Duration) (int64, error)
}

// SweeperConfig controls how frequently stale pending payments are expired.
type SweeperConfig struct {
	Interval time.Duration
	MaxAge   time.Duration
}

// PaymentSweeper periodically expires pending payments whose gateway charge
// never settled.
type PaymentSweeper struct {
	payments PendingExpirer
	monitor  ConnectionHealth
	logger   *zap.Logger
	cron     *cron.Cron
	cfg      SweeperConfig
}

func NewPaymentSweeper(payments PendingExpirer, monitor ConnectionHealth, logger *zap.Logger, cfg SweeperConfig) *PaymentSweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ps := &PaymentSweeper{
		payments: payments,
		monitor:  monitor,
		logger:   logger,
		cfg:      cfg,
		cron:     cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = ps.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := ps.Sweep(ctx); err != nil {
			ps.logger.Error("payment sweep failed", zap.Error(err))
		}
	})

	return ps
}

// Start launches the cron scheduler.
func (ps *PaymentSweeper) Start() {
	if ps == nil || ps.cron == nil {
		return
	}
	ps.cron.Start()
	ps.logger.Info("payment sweeper started")
}

// Stop gracefully stops the scheduler.
func (ps *PaymentSweeper) Stop(ctx context.Context) {
	if ps == nil || ps.cron == nil {
		return
	}
	stopCtx := ps.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	ps.logger.Info("payment sweeper stopped")
}

// Sweep expires stale pending payments once, skipping when the database is
// known to be offline.
func (ps *PaymentSweeper) Sweep(ctx context.Context) error {
	if ps == nil || ps.payments == nil {
		return nil
	}
	if ps.monitor != nil && !ps.monitor.IsOnline() {
		ps.logger.Debug("skipping payment sweep (offline)")
		return nil
	}

	_, err := ps.payments.ExpireStalePending(ctx, ps.cfg.MaxAge)
	return err
}
