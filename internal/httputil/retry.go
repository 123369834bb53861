// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the retry schedule and fetch metrics shared by
// network-facing packages.
package httputil

import (
	"context"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Defaults for Policy fields left at their zero value.
const (
	DefaultBaseDelay   = 3 * time.Second
	DefaultScaling     = 1.5
	DefaultMaxAttempts = 10
)

// Policy is a fixed exponential retry schedule. The wait before attempt
// i+1 (i counted from zero) is BaseDelay × Scaling^i. There is no jitter
// and no ceiling on a single wait; MaxAttempts is the only bound.
type Policy struct {
	BaseDelay   time.Duration
	Scaling     float64
	MaxAttempts int
}

// WithDefaults fills zero fields with the package defaults.
func (p Policy) WithDefaults() Policy {
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultBaseDelay
	}
	if p.Scaling <= 0 {
		p.Scaling = DefaultScaling
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	return p
}

// NewBackOff returns a fresh backoff for one retry loop. Each call gets its
// own attempt counter.
func (p Policy) NewBackOff() backoff.BackOff {
	p = p.WithDefaults()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.Multiplier = p.Scaling
	b.RandomizationFactor = 0
	b.MaxInterval = time.Duration(math.MaxInt64)
	b.MaxElapsedTime = 0
	b.Reset()

	return backoff.WithMaxRetries(b, uint64(p.MaxAttempts-1))
}

// NotifyFunc is called after a failed attempt that will be retried.
// attempt is one-based; wait is the delay before the next attempt.
type NotifyFunc func(attempt int, err error, wait time.Duration)

// Retry runs op until it succeeds, the policy is exhausted, or ctx is
// cancelled. It returns the number of attempts made and the last error.
// timer may be nil, in which case real time is used.
func Retry(ctx context.Context, p Policy, timer backoff.Timer, op func(attempt int) error, notify NotifyFunc) (int, error) {
	attempt := 0
	operation := func() error {
		attempt++
		fetchAttempts.Inc()
		if err := op(attempt); err != nil {
			fetchFailures.Inc()
			return err
		}
		return nil
	}

	var onRetry backoff.Notify
	if notify != nil {
		onRetry = func(err error, wait time.Duration) {
			notify(attempt, err, wait)
		}
	}

	err := backoff.RetryNotifyWithTimer(operation, backoff.WithContext(p.NewBackOff(), ctx), onRetry, timer)
	if err != nil {
		fetchExhausted.Inc()
	}
	return attempt, err
}
