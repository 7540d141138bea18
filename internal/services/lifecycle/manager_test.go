package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestClose_RunsHooksInReverseOrder(t *testing.T) {
	c := NewCoordinator(time.Second, nil)

	var order []string
	for _, name := range []string{"pool", "sweeper", "server"} {
		name := name
		c.OnShutdown(name, func(_ context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	want := []string{"server", "sweeper", "pool"}
	if len(order) != len(want) {
		t.Fatalf("ran %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("ran %v, want %v", order, want)
		}
	}
}

func TestClose_CollectsFailuresAndKeepsGoing(t *testing.T) {
	c := NewCoordinator(time.Second, nil)

	serverErr := errors.New("listener wedged")
	poolClosed := false
	c.OnShutdown("pool", func(_ context.Context) error {
		poolClosed = true
		return nil
	})
	c.OnShutdown("server", func(_ context.Context) error {
		return serverErr
	})

	err := c.Close(context.Background())
	if !errors.Is(err, serverErr) {
		t.Errorf("err = %v, want %v", err, serverErr)
	}
	if !poolClosed {
		t.Error("a failing hook must not stop the remaining teardown")
	}
}

func TestClose_SecondCallIsNoOp(t *testing.T) {
	c := NewCoordinator(time.Second, nil)

	runs := 0
	c.OnShutdown("server", func(_ context.Context) error {
		runs++
		return nil
	})

	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("second close failed: %v", err)
	}
	if runs != 1 {
		t.Errorf("hook ran %d times, want 1", runs)
	}
}
