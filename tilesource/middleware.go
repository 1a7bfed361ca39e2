package tilesource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

// FetchFunc fetches one tile from a band's backing store. It is the base
// unit threaded through the fetch middleware chain.
type FetchFunc func(ctx context.Context, tileX, tileY int) (Raster, error)

// Middleware intercepts and optionally transforms a tile fetch. Middlewares
// are applied outermost-first: the first entry in the slice passed to Chain
// is the outermost wrapper, i.e. the first to run on an incoming request.
type Middleware func(next FetchFunc) FetchFunc

// Chain builds the linear middleware chain around base, applying
// middlewares in reverse so that middlewares[0] ends up outermost.
func Chain(base FetchFunc, middlewares ...Middleware) FetchFunc {
	chain := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		chain = middlewares[i](chain)
	}
	return chain
}

// ErrRetryExhausted is returned by NewRetryMiddleware when every retry
// attempt has been consumed without a successful fetch.
var ErrRetryExhausted = errors.New("tilesource: all retry attempts exhausted")

// RetryConfig tunes NewRetryMiddleware. Zero-valued fields are replaced with
// defaults when the middleware is constructed.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts after the first
	// failure. Default: 2.
	MaxRetries int

	// InitialBackoff is the wait before the first retry. Default: 50ms.
	InitialBackoff time.Duration

	// MaxBackoff caps the computed backoff. Default: 2s.
	MaxBackoff time.Duration

	// BackoffFactor is the exponential growth multiplier per attempt.
	// Default: 2.0.
	BackoffFactor float64

	// JitterFraction adds random noise in [0, JitterFraction*backoff].
	// Default: 0.1.
	JitterFraction float64

	// RetryableFunc decides whether an error should trigger a retry.
	// Default: retry every non-nil error.
	RetryableFunc func(error) bool
}

func applyRetryDefaults(c *RetryConfig) {
	if c.MaxRetries == 0 {
		c.MaxRetries = 2
	}
	if c.InitialBackoff == 0 {
		c.InitialBackoff = 50 * time.Millisecond
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = 2 * time.Second
	}
	if c.BackoffFactor == 0 {
		c.BackoffFactor = 2.0
	}
	if c.JitterFraction == 0 {
		c.JitterFraction = 0.1
	}
	if c.RetryableFunc == nil {
		c.RetryableFunc = func(err error) bool { return err != nil }
	}
}

func computeBackoff(c RetryConfig, attempt int) time.Duration {
	base := float64(c.InitialBackoff) * math.Pow(c.BackoffFactor, float64(attempt))
	if base > float64(c.MaxBackoff) {
		base = float64(c.MaxBackoff)
	}
	jitter := base * c.JitterFraction * rand.Float64() //nolint:gosec // non-cryptographic jitter is intentional
	return time.Duration(base + jitter)
}

// NewRetryMiddleware constructs a Middleware that retries a failed tile
// fetch according to config. On exhaustion the returned error wraps both
// ErrRetryExhausted and the last underlying error.
func NewRetryMiddleware(config RetryConfig) Middleware {
	applyRetryDefaults(&config)

	return func(next FetchFunc) FetchFunc {
		return func(ctx context.Context, tileX, tileY int) (Raster, error) {
			var lastErr error

			for attempt := 0; attempt <= config.MaxRetries; attempt++ {
				if attempt > 0 {
					backoff := computeBackoff(config, attempt-1)
					select {
					case <-ctx.Done():
						return Raster{}, ctx.Err()
					case <-time.After(backoff):
					}
				}

				raster, err := next(ctx, tileX, tileY)
				if err == nil {
					return raster, nil
				}

				lastErr = err
				if !config.RetryableFunc(err) {
					return Raster{}, err
				}
			}

			return Raster{}, fmt.Errorf("%w after %d retries: %w", ErrRetryExhausted, config.MaxRetries, lastErr)
		}
	}
}

// NewTimeoutMiddleware constructs a Middleware enforcing a per-tile deadline.
func NewTimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next FetchFunc) FetchFunc {
		return func(ctx context.Context, tileX, tileY int) (Raster, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return next(ctx, tileX, tileY)
		}
	}
}

// NewLoggingMiddleware constructs a Middleware that emits a structured slog
// entry before and after every tile fetch.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next FetchFunc) FetchFunc {
		return func(ctx context.Context, tileX, tileY int) (Raster, error) {
			logger.DebugContext(ctx, "tile fetch", slog.Int("tile_x", tileX), slog.Int("tile_y", tileY))

			start := time.Now()
			raster, err := next(ctx, tileX, tileY)
			elapsed := time.Since(start)

			if err != nil {
				logger.ErrorContext(ctx, "tile fetch failed",
					slog.Int("tile_x", tileX), slog.Int("tile_y", tileY),
					slog.Duration("duration", elapsed), slog.String("error", err.Error()))
				return Raster{}, err
			}

			logger.DebugContext(ctx, "tile fetch completed",
				slog.Int("tile_x", tileX), slog.Int("tile_y", tileY),
				slog.Duration("duration", elapsed))

			return raster, nil
		}
	}
}
