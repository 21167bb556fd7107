// Package retry re-runs optimistic updates that lost a compare-and-set race.
package retry

import (
	"context"
	"errors"
	"time"

	"auction-marketplace/internal/auctionerrors"

	"github.com/cenkalti/backoff/v5"
)

// Policy bounds how often a conflicting update is retried
type Policy struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultPolicy retries a conflict a handful of times with millisecond backoff
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     5,
		InitialInterval: 2 * time.Millisecond,
		MaxInterval:     50 * time.Millisecond,
	}
}

func (p Policy) backOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	return b
}

// OnConflict runs op until it succeeds, fails with anything other than
// auctionerrors.ErrConflict, or attempts run out.
// The last conflict is returned to the caller once attempts run out.
func OnConflict[T any](ctx context.Context, p Policy, op func() (T, error)) (T, error) {
	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}

	res, err := backoff.Retry(ctx, func() (T, error) {
		v, err := op()
		if err == nil {
			return v, nil
		}
		if errors.Is(err, auctionerrors.ErrConflict) {
			return v, err
		}
		return v, backoff.Permanent(err)
	}, backoff.WithBackOff(p.backOff()), backoff.WithMaxTries(attempts))

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Err
	}
	return res, err
}

// Do runs an idempotent op until it succeeds or attempts run out, retrying every error
func Do(ctx context.Context, p Policy, op func() error) error {
	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, op()
	}, backoff.WithBackOff(p.backOff()), backoff.WithMaxTries(attempts))
	return err
}
