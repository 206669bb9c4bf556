package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider is a decorator that retries transient errors with
// exponential backoff and jitter.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var resp *Response
	err := r.retry(ctx, func() error {
		var e error
		resp, e = r.inner.Generate(ctx, req)
		return e
	})
	return resp, err
}

// GenerateStream retries only as long as no fragment has reached the
// caller. Once text has been emitted a retry would duplicate output, so
// mid-stream failures surface as-is.
func (r *RetryProvider) GenerateStream(ctx context.Context, req Request, emit func(string)) (*Response, error) {
	var resp *Response
	emitted := false
	wrapped := func(fragment string) {
		emitted = true
		emit(fragment)
	}
	err := r.retry(ctx, func() error {
		var e error
		resp, e = r.inner.GenerateStream(ctx, req, wrapped)
		if e != nil && emitted {
			return &abortRetry{err: e}
		}
		return e
	})
	return resp, err
}

func (r *RetryProvider) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	var result *SearchResult
	err := r.retry(ctx, func() error {
		var e error
		result, e = r.inner.Search(ctx, req)
		return e
	})
	return result, err
}

func (r *RetryProvider) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	var img []byte
	err := r.retry(ctx, func() error {
		var e error
		img, e = r.inner.GenerateImage(ctx, prompt)
		return e
	})
	return img, err
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// abortRetry marks an error that must not be retried regardless of type.
type abortRetry struct{ err error }

func (a *abortRetry) Error() string { return a.err.Error() }
func (a *abortRetry) Unwrap() error { return a.err }

func (r *RetryProvider) retry(ctx context.Context, op func() error) error {
	var lastErr error
	invalidRetried := false

	for attempt := range r.config.MaxAttempts {
		err := op()
		if err == nil {
			return nil
		}

		var abort *abortRetry
		if errors.As(err, &abort) {
			return abort.err
		}
		lastErr = err

		if !r.shouldRetry(err, &invalidRetried) {
			return err
		}

		// Last attempt, don't sleep, just return the error.
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return lastErr
}

// shouldRetry determines if an error is retryable.
func (r *RetryProvider) shouldRetry(err error, invalidRetried *bool) bool {
	// Context errors are never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Max tokens is a configuration issue, not transient.
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return false
	}

	// A capability the provider lacks will never start working.
	var unsup *ErrUnsupported
	if errors.As(err, &unsup) {
		return false
	}

	// Invalid response gets one retry.
	var invResp *ErrInvalidResponse
	if errors.As(err, &invResp) {
		if *invalidRetried {
			return false
		}
		*invalidRetried = true
		return true
	}

	// Rate limit and provider unavailable are retryable.
	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return true
	}
	var unavail *ErrProviderUnavailable
	if errors.As(err, &unavail) {
		return true
	}

	// Other errors (network, etc.) are treated as transient.
	return true
}

// backoff computes the wait duration for the given attempt.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	// Respect RetryAfter for rate limits.
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
