package tilesource

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestChain_AppliesOutermostFirst(t *testing.T) {
	var order []string

	mark := func(name string) Middleware {
		return func(next FetchFunc) FetchFunc {
			return func(ctx context.Context, tileX, tileY int) (Raster, error) {
				order = append(order, name)
				return next(ctx, tileX, tileY)
			}
		}
	}

	base := FetchFunc(func(ctx context.Context, tileX, tileY int) (Raster, error) {
		order = append(order, "base")
		return Raster{}, nil
	})

	fetch := Chain(base, mark("outer"), mark("inner"))
	if _, err := fetch(context.Background(), 0, 0); err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}

	want := []string{"outer", "inner", "base"}
	if len(order) != len(want) {
		t.Fatalf("call order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("call order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestChain_NoMiddlewaresReturnsBase(t *testing.T) {
	called := false
	base := FetchFunc(func(ctx context.Context, tileX, tileY int) (Raster, error) {
		called = true
		return Raster{}, nil
	})

	if _, err := Chain(base)(context.Background(), 0, 0); err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	if !called {
		t.Error("Chain with no middlewares should still call base")
	}
}

func TestRetryMiddleware_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	base := FetchFunc(func(ctx context.Context, tileX, tileY int) (Raster, error) {
		attempts++
		if attempts < 3 {
			return Raster{}, errors.New("transient")
		}
		return Raster{Width: 1, Height: 1, Samples: []float64{1}}, nil
	})

	mw := NewRetryMiddleware(RetryConfig{MaxRetries: 3, InitialBackoff: time.Millisecond})
	raster, err := mw(base)(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if len(raster.Samples) != 1 {
		t.Errorf("unexpected raster: %+v", raster)
	}
}

func TestRetryMiddleware_ExhaustionWrapsErrRetryExhausted(t *testing.T) {
	base := FetchFunc(func(ctx context.Context, tileX, tileY int) (Raster, error) {
		return Raster{}, errors.New("permanent")
	})

	mw := NewRetryMiddleware(RetryConfig{MaxRetries: 2, InitialBackoff: time.Millisecond})
	_, err := mw(base)(context.Background(), 0, 0)
	if !errors.Is(err, ErrRetryExhausted) {
		t.Fatalf("error = %v, want wrapping ErrRetryExhausted", err)
	}
}

func TestRetryMiddleware_NonRetryableFailsImmediately(t *testing.T) {
	attempts := 0
	base := FetchFunc(func(ctx context.Context, tileX, tileY int) (Raster, error) {
		attempts++
		return Raster{}, errors.New("fatal")
	})

	mw := NewRetryMiddleware(RetryConfig{
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
		RetryableFunc:  func(error) bool { return false },
	})
	_, err := mw(base)(context.Background(), 0, 0)
	if err == nil {
		t.Fatal("expected an error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no retries for a non-retryable error)", attempts)
	}
}

func TestTimeoutMiddleware_CancelsSlowFetch(t *testing.T) {
	base := FetchFunc(func(ctx context.Context, tileX, tileY int) (Raster, error) {
		select {
		case <-ctx.Done():
			return Raster{}, ctx.Err()
		case <-time.After(50 * time.Millisecond):
			return Raster{}, nil
		}
	})

	mw := NewTimeoutMiddleware(time.Millisecond)
	_, err := mw(base)(context.Background(), 0, 0)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want context.DeadlineExceeded", err)
	}
}

func TestTimeoutMiddleware_AllowsFastFetch(t *testing.T) {
	base := FetchFunc(func(ctx context.Context, tileX, tileY int) (Raster, error) {
		return Raster{Width: 1, Height: 1, Samples: []float64{1}}, nil
	})

	mw := NewTimeoutMiddleware(time.Second)
	raster, err := mw(base)(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	if len(raster.Samples) != 1 {
		t.Errorf("unexpected raster: %+v", raster)
	}
}

func TestLoggingMiddleware_PassesThroughResultAndError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	okBase := FetchFunc(func(ctx context.Context, tileX, tileY int) (Raster, error) {
		return Raster{Width: 1, Height: 1, Samples: []float64{42}}, nil
	})
	raster, err := NewLoggingMiddleware(logger)(okBase)(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	if len(raster.Samples) != 1 || raster.Samples[0] != 42 {
		t.Errorf("unexpected raster: %+v", raster)
	}

	failBase := FetchFunc(func(ctx context.Context, tileX, tileY int) (Raster, error) {
		return Raster{}, errors.New("boom")
	})
	if _, err := NewLoggingMiddleware(logger)(failBase)(context.Background(), 1, 2); err == nil {
		t.Error("expected the underlying error to pass through")
	}
}

func TestNewInMemoryBand_WrapsMiddlewareChain(t *testing.T) {
	attempts := 0
	fill := func(ctx context.Context, tileX, tileY, tw, th int) ([]float64, error) {
		attempts++
		if attempts < 2 {
			return nil, errors.New("transient")
		}
		return make([]float64, tw*th), nil
	}

	band := NewInMemoryBand(4, 4, fill, NewRetryMiddleware(RetryConfig{MaxRetries: 1, InitialBackoff: time.Millisecond}))
	if _, err := band.Tile(context.Background(), 0, 0); err != nil {
		t.Fatalf("Tile returned error: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}
