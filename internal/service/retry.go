package service

import (
	"context"
	"errors"
	"time"

	"church-inventory-backend/internal/domain"
	"church-inventory-backend/internal/logger"
)

const (
	defaultRetryAttempts = 3
	retryBackoff         = 50 * time.Millisecond
)

// withRetry re-runs fn on retryable persistence failures (lost races on the
// per-item section, bounded timeouts) before surfacing the error. Validation
// failures pass through untouched on the first attempt.
func withRetry(ctx context.Context, attempts int, fn func() error) error {
	if attempts <= 0 {
		attempts = defaultRetryAttempts
	}
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrConcurrencyConflict) && !errors.Is(err, domain.ErrPersistenceTimeout) {
			return err
		}
		if i < attempts-1 {
			logger.Warn("Retrying after transient persistence failure", "attempt", i+1, "error", err)
			select {
			case <-time.After(retryBackoff << i):
			case <-ctx.Done():
				return err
			}
		}
	}
	return err
}
