package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gorm.io/gorm"
)

// errRetriesExhausted marks a unit of work that failed with a
// serialization error on every attempt.
var errRetriesExhausted = errors.New("serializable transaction retries exhausted")

// serializable runs fn in a SERIALIZABLE transaction and reruns the whole
// unit on serialization failures and deadlocks.
func serializable(
	ctx context.Context,
	db *gorm.DB,
	maxRetries int,
	fn func(tx *gorm.DB) error,
) error {
	return retrySerializable(ctx, maxRetries, func() error {
		return db.WithContext(ctx).Transaction(fn, &sql.TxOptions{
			Isolation: sql.LevelSerializable,
		})
	})
}

// retrySerializable runs op once plus at most maxRetries retries with
// exponential backoff. Only retryable errors are retried; exhaustion is
// reported as errRetriesExhausted joined with the last failure.
func retrySerializable(ctx context.Context, maxRetries int, op func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 20 * time.Millisecond
	policy.MaxInterval = 500 * time.Millisecond

	var retries uint64
	if maxRetries > 0 {
		retries = uint64(maxRetries)
	}

	var lastErr error
	attempt := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if isRetryable(err) {
			lastErr = err
			return err
		}
		return backoff.Permanent(err)
	}

	err := backoff.Retry(attempt, backoff.WithContext(backoff.WithMaxRetries(policy, retries), ctx))
	if err != nil && isRetryable(err) {
		return errors.Join(errRetriesExhausted, lastErr)
	}
	return err
}

