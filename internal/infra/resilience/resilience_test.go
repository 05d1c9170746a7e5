package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boddenberg/financeiro-bfa-go/internal/infra/resilience"

	"go.uber.org/zap"
)

func TestCircuitBreaker_TripsAfterFailures(t *testing.T) {
	cb := resilience.NewCircuitBreaker("test", zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := cb.Execute(func() (any, error) {
			return nil, errors.New("connection refused")
		})
		if err == nil {
			t.Fatalf("call %d: expected error", i)
		}
		if resilience.IsOpen(err) {
			t.Fatalf("call %d: breaker opened too early", i)
		}
	}

	_, err := cb.Execute(func() (any, error) {
		t.Fatal("breaker should not run the call while open")
		return nil, nil
	})
	if !resilience.IsOpen(err) {
		t.Fatalf("expected open-state error, got %v", err)
	}
}

func TestCircuitBreaker_StaysClosedOnSuccess(t *testing.T) {
	cb := resilience.NewCircuitBreaker("test", zap.NewNop())

	for i := 0; i < 10; i++ {
		if _, err := cb.Execute(func() (any, error) { return "ok", nil }); err != nil {
			t.Fatalf("call %d: expected success, got %v", i, err)
		}
	}
}

func TestBulkhead_AcquireRelease(t *testing.T) {
	bh := resilience.NewBulkhead(2)

	if err := bh.Acquire(context.Background()); err != nil {
		t.Fatalf("expected acquire, got %v", err)
	}
	if err := bh.Acquire(context.Background()); err != nil {
		t.Fatalf("expected acquire, got %v", err)
	}

	// Third acquire should block; test with a timeout context
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := bh.Acquire(ctx)
	if err == nil {
		t.Fatal("expected timeout on third acquire")
	}

	// Release one slot
	bh.Release()

	if err := bh.Acquire(context.Background()); err != nil {
		t.Fatalf("expected acquire after release, got %v", err)
	}
}

func TestBulkhead_MinimumOneSlot(t *testing.T) {
	bh := resilience.NewBulkhead(0)

	if err := bh.Acquire(context.Background()); err != nil {
		t.Fatalf("expected acquire, got %v", err)
	}
	bh.Release()
}
