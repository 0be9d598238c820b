package embedding

import (
	"context"
	"errors"
	"time"

	"lightrag/internal/logger"
)

type retrying struct {
	Backend
	maxTries int
	delay    func(attempt int) time.Duration
}

// WithRetry retries failed Embed calls up to maxTries attempts in total with
// exponential backoff. Context errors are returned immediately.
func WithRetry(b Backend, maxTries int) Backend {
	if maxTries <= 1 {
		return b
	}
	return &retrying{Backend: b, maxTries: maxTries, delay: retryDelay}
}

func (r *retrying) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error
	for attempt := 0; attempt < r.maxTries; attempt++ {
		if attempt > 0 {
			t := time.NewTimer(r.delay(attempt - 1))
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, ctx.Err()
			case <-t.C:
			}
		}
		out, err := r.Backend.Embed(ctx, texts)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		lastErr = err
		logger.Debug("embedding attempt failed", "backend", r.Name(), "attempt", attempt+1, "err", err)
	}
	return nil, lastErr
}

// retryDelay doubles from 200ms and caps at 5s.
func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 5 {
		return 5 * time.Second
	}
	d := 200 * time.Millisecond << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
