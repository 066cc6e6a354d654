package scraper

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds how often a single unit is re-fetched before the
// failure is handed to the pipeline.
type RetryPolicy struct {
	Attempts        int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// WithRetry wraps f so each Fetch is attempted up to policy.Attempts times
// with exponential backoff. Attempts <= 1 returns f unchanged.
func WithRetry[U, P any](f Fetcher[U, P], policy RetryPolicy) Fetcher[U, P] {
	if policy.Attempts <= 1 {
		return f
	}
	return &retryFetcher[U, P]{next: f, policy: policy}
}

type retryFetcher[U, P any] struct {
	next   Fetcher[U, P]
	policy RetryPolicy
}

func (r *retryFetcher[U, P]) Fetch(ctx context.Context, unit U) (P, error) {
	eb := backoff.NewExponentialBackOff()
	if r.policy.InitialInterval > 0 {
		eb.InitialInterval = r.policy.InitialInterval
	}
	if r.policy.MaxInterval > 0 {
		eb.MaxInterval = r.policy.MaxInterval
	}
	eb.MaxElapsedTime = 0

	b := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(r.policy.Attempts-1)), ctx)

	var out P
	err := backoff.Retry(func() error {
		p, err := r.next.Fetch(ctx, unit)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		out = p
		return nil
	}, b)
	return out, err
}
