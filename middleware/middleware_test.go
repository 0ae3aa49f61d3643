package middleware_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/xraph/timelock"
	"github.com/xraph/timelock/id"
	"github.com/xraph/timelock/middleware"
)

var caller = id.MustParse("acct_01h2xcejqtf2nbrexx3vqjhp41")

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mk := func(name string) middleware.Middleware {
		return func(ctx context.Context, _ middleware.Op, next middleware.Handler) error {
			order = append(order, name+":before")
			err := next(ctx)
			order = append(order, name+":after")
			return err
		}
	}

	chain := middleware.Chain(mk("outer"), mk("inner"))
	err := chain(context.Background(), middleware.Op{Name: "op"}, func(context.Context) error {
		order = append(order, "handler")
		return nil
	})
	if err != nil {
		t.Fatalf("chain failed: %v", err)
	}

	want := []string{"outer:before", "inner:before", "handler", "inner:after", "outer:after"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestChainEmpty(t *testing.T) {
	t.Parallel()

	called := false
	err := middleware.Chain()(context.Background(), middleware.Op{}, func(context.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("empty chain failed: %v", err)
	}
	if !called {
		t.Fatal("handler not called through empty chain")
	}
}

func TestChainShortCircuit(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	stop := func(_ context.Context, _ middleware.Op, _ middleware.Handler) error {
		return boom
	}

	called := false
	err := middleware.Chain(stop)(context.Background(), middleware.Op{}, func(context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if called {
		t.Fatal("handler must not run after short-circuit")
	}
}

func TestRecoverConvertsPanic(t *testing.T) {
	t.Parallel()

	rec := middleware.Recover(slog.Default())
	err := rec(context.Background(), middleware.Op{Name: "explode", Caller: caller}, func(context.Context) error {
		panic("kaboom")
	})
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
}

func TestRecoverPassesThrough(t *testing.T) {
	t.Parallel()

	rec := middleware.Recover(slog.Default())
	err := rec(context.Background(), middleware.Op{Name: "fine"}, func(context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRateLimitRejectsOverBudget(t *testing.T) {
	t.Parallel()

	rl := middleware.RateLimit(middleware.RateLimitConfig{Limit: 0.001, Burst: 2})
	op := middleware.Op{Name: "place_bid", Caller: caller}
	ok := func(context.Context) error { return nil }
	ctx := context.Background()

	// Burst of 2 allows two calls, then the bucket is dry.
	for i := 0; i < 2; i++ {
		if err := rl(ctx, op, ok); err != nil {
			t.Fatalf("call %d should pass: %v", i, err)
		}
	}
	err := rl(ctx, op, ok)
	if !errors.Is(err, timelock.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestRateLimitPerCaller(t *testing.T) {
	t.Parallel()

	rl := middleware.RateLimit(middleware.RateLimitConfig{Limit: 0.001, Burst: 1})
	ok := func(context.Context) error { return nil }
	ctx := context.Background()

	other := id.MustParse("acct_01h2xcejqtf2nbrexx3vqjhp42")

	if err := rl(ctx, middleware.Op{Name: "op", Caller: caller}, ok); err != nil {
		t.Fatalf("first caller should pass: %v", err)
	}
	// A different caller has its own bucket.
	if err := rl(ctx, middleware.Op{Name: "op", Caller: other}, ok); err != nil {
		t.Fatalf("second caller should pass: %v", err)
	}
	// First caller's bucket is now empty.
	if err := rl(ctx, middleware.Op{Name: "op", Caller: caller}, ok); !errors.Is(err, timelock.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestRateLimitScopedToOps(t *testing.T) {
	t.Parallel()

	rl := middleware.RateLimit(middleware.RateLimitConfig{
		Ops:   []string{"place_bid"},
		Limit: 0.001,
		Burst: 1,
	})
	ok := func(context.Context) error { return nil }
	ctx := context.Background()

	if err := rl(ctx, middleware.Op{Name: "place_bid", Caller: caller}, ok); err != nil {
		t.Fatalf("first bid should pass: %v", err)
	}
	if err := rl(ctx, middleware.Op{Name: "place_bid", Caller: caller}, ok); !errors.Is(err, timelock.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	// Unlisted ops bypass the limiter entirely.
	if err := rl(ctx, middleware.Op{Name: "submit_job", Caller: caller}, ok); err != nil {
		t.Fatalf("unlisted op should pass: %v", err)
	}
}
