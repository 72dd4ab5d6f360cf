package shutdown

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"
)

func TestHandler_ReverseOrder(t *testing.T) {
	h := NewHandler(time.Second)

	var order []int
	for i := 1; i <= 3; i++ {
		h.OnShutdown(func(context.Context) error {
			order = append(order, i)
			return nil
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.Wait(ctx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	if len(order) != 3 || order[0] != 3 || order[2] != 1 {
		t.Errorf("order = %v, want [3 2 1]", order)
	}
	select {
	case <-h.Done():
	default:
		t.Error("Done() should be closed")
	}
}

func TestHandler_JoinsErrors(t *testing.T) {
	h := NewHandler(time.Second)
	errA := errors.New("a")
	errB := errors.New("b")
	h.OnShutdown(func(context.Context) error { return errA })
	h.OnShutdown(func(context.Context) error { return nil })
	h.OnShutdown(func(context.Context) error { return errB })

	err := h.Run()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Run() error = %v, want both hook errors", err)
	}
	if err := h.Run(); err != nil {
		t.Errorf("second Run() = %v, want nil", err)
	}
}

func TestHandler_HookTimeout(t *testing.T) {
	h := NewHandler(20 * time.Millisecond)
	h.OnShutdown(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	start := time.Now()
	err := h.Run()
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want deadline exceeded", err)
	}
	if time.Since(start) > time.Second {
		t.Error("hook was not bounded by the timeout")
	}
}

func TestHandler_Signal(t *testing.T) {
	h := NewHandler(time.Second)
	h.signals = append(h.signals[:0], syscall.SIGUSR1)

	ran := make(chan struct{})
	h.OnShutdown(func(context.Context) error {
		close(ran)
		return nil
	})

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = syscall.Kill(syscall.Getpid(), syscall.SIGUSR1)
	}()

	if err := h.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Error("hook did not run after signal")
	}
}
