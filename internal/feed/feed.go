// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed retrieves and parses Atom feeds, masking transient failures
// behind a bounded exponential retry loop. It knows nothing about what the
// feed contains or how its URLs are built.
package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/mmcdole/gofeed"
	log "github.com/sirupsen/logrus"

	"github.com/pdiddy/sieve/internal/httputil"
	"github.com/pdiddy/sieve/pkg/types"
)

var (
	// ErrTransientFetch marks a single failed attempt. Transport errors,
	// non-2xx responses, and parse failures are not told apart.
	ErrTransientFetch = errors.New("transient fetch failure")

	// ErrFeedUnavailable is returned once the retry budget is spent.
	ErrFeedUnavailable = errors.New("feed unavailable")
)

// Page is one parsed feed response. Entries keep the order of the feed.
type Page struct {
	URL     string
	Entries []*gofeed.Item
}

// Fetcher downloads and parses feeds.
type Fetcher struct {
	Client    *http.Client
	UserAgent string
	Policy    httputil.Policy
	Log       *log.Entry

	// timer replaces the wall clock in tests.
	timer backoff.Timer
}

// NewFetcher builds a Fetcher from the fetch configuration. A zero Timeout
// leaves requests without a deadline.
func NewFetcher(cfg types.FetchConfig) *Fetcher {
	return &Fetcher{
		Client:    &http.Client{Timeout: cfg.Timeout},
		UserAgent: cfg.UserAgent,
		Policy: httputil.Policy{
			BaseDelay:   cfg.BaseDelay,
			Scaling:     cfg.BackoffScaling,
			MaxAttempts: cfg.MaxAttempts,
		},
	}
}

// Fetch returns the parsed feed at url. Failed attempts are retried
// sequentially; the wait after attempt i (zero-based) is
// BaseDelay × Scaling^i. When every attempt fails the error wraps both
// ErrFeedUnavailable and the last attempt's failure.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	policy := f.Policy.WithDefaults()
	logger := f.logger().WithField("url", url)

	var page *Page
	attempts, err := httputil.Retry(ctx, policy, f.timer,
		func(int) error {
			p, err := f.fetchOnce(ctx, url)
			if err != nil {
				return err
			}
			page = p
			return nil
		},
		func(attempt int, err error, wait time.Duration) {
			logger.WithFields(log.Fields{
				"attempt":      attempt,
				"max_attempts": policy.MaxAttempts,
				"wait":         wait,
				"error":        err,
			}).Warn("feed fetch failed, retrying")
		},
	)
	if err != nil {
		logger.WithFields(log.Fields{
			"attempts": attempts,
			"error":    err,
		}).Error("feed unavailable")
		return nil, fmt.Errorf("%w: %s after %d attempt(s): %w", ErrFeedUnavailable, url, attempts, err)
	}
	return page, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (*Page, error) {
	parser := gofeed.NewParser()
	if f.Client != nil {
		parser.Client = f.Client
	}
	if f.UserAgent != "" {
		parser.UserAgent = f.UserAgent
	}

	// ParseURLWithContext closes the response body before returning.
	parsed, err := parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransientFetch, err)
	}
	return &Page{URL: url, Entries: parsed.Items}, nil
}

func (f *Fetcher) logger() *log.Entry {
	if f.Log != nil {
		return f.Log
	}
	return log.WithField("component", "feed")
}
