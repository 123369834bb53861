// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv turns an arXiv search query into a lazy, paginated stream
// of normalized records.
package arxiv

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pdiddy/sieve/internal/feed"
	"github.com/pdiddy/sieve/pkg/types"
)

var (
	// ErrNoStopCondition is returned when a query has neither Until nor
	// MaxResults and would page through the whole archive.
	ErrNoStopCondition = errors.New("query needs a stop condition: set until or max results")

	// ErrInvalidQuery is returned for out-of-range query parameters.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrFeedUnavailable is returned when a page could not be fetched
	// within the retry budget.
	ErrFeedUnavailable = feed.ErrFeedUnavailable
)

// QueryParams describes one search. At least one of Until and MaxResults
// must be set.
type QueryParams struct {
	// Query is the raw arXiv query, e.g. `cat:cs.LG AND ti:"diffusion"`.
	Query string

	// Until stops the stream after the first record published strictly
	// before it. That record is still produced.
	Until time.Time

	// MaxResults stops the stream once this many records were produced.
	// Zero means no cap.
	MaxResults int
}

// Validate checks the stop conditions.
func (q QueryParams) Validate() error {
	if q.MaxResults < 0 {
		return fmt.Errorf("%w: max results %d is negative", ErrInvalidQuery, q.MaxResults)
	}
	if q.Until.IsZero() && q.MaxResults == 0 {
		return ErrNoStopCondition
	}
	return nil
}

func (q QueryParams) pageSize() int {
	if q.MaxResults > 0 && q.MaxResults < MaxPageSize {
		return q.MaxResults
	}
	return MaxPageSize
}

// Fetcher retrieves one parsed feed page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*feed.Page, error)
}

// Client runs paginated queries against the arXiv API.
type Client struct {
	BaseURL string
	Fetcher Fetcher
	Log     *log.Entry
}

// NewClient returns a Client that fetches through a retrying feed.Fetcher.
func NewClient(cfg types.FetchConfig) *Client {
	return &Client{
		BaseURL: cfg.BaseURL,
		Fetcher: feed.NewFetcher(cfg),
	}
}

// Query validates q and returns the record stream. Nothing is fetched
// until the stream is ranged over, and every range starts again from the
// first page. Records arrive in feed order (newest submission first).
//
// The stream ends cleanly when a stop condition fires or a page comes back
// empty. On a fetch or parse failure it yields a single error and ends;
// records yielded before the failure stay delivered. Breaking out of the
// loop abandons pagination without further requests.
func (c *Client) Query(ctx context.Context, q QueryParams) (iter.Seq2[types.Record, error], error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	base := c.BaseURL
	if base == "" {
		base = types.DefaultBaseURL
	}
	size := q.pageSize()
	logger := c.logger().WithField("query", q.Query)

	return func(yield func(types.Record, error) bool) {
		emitted := 0
		for page := 0; ; page++ {
			p, err := c.Fetcher.Fetch(ctx, buildURL(base, q.Query, page, size))
			if err != nil {
				yield(types.Record{}, fmt.Errorf("fetching page %d: %w", page, err))
				return
			}

			logger.WithFields(log.Fields{
				"page":    page,
				"start":   page * size,
				"entries": len(p.Entries),
			}).Debug("fetched page")

			if len(p.Entries) == 0 {
				return
			}

			for _, item := range p.Entries {
				rec, err := NormalizeEntry(item)
				if err != nil {
					yield(types.Record{}, fmt.Errorf("page %d: %w", page, err))
					return
				}
				if !yield(rec, nil) {
					return
				}

				emitted++
				if q.MaxResults > 0 && emitted >= q.MaxResults {
					return
				}
				if !q.Until.IsZero() && rec.Published.Before(q.Until) {
					return
				}
			}
		}
	}, nil
}

func (c *Client) logger() *log.Entry {
	if c.Log != nil {
		return c.Log
	}
	return log.WithField("component", "arxiv")
}

// Collect drains seq. It returns every record produced before the first
// error together with that error.
func Collect(seq iter.Seq2[types.Record, error]) ([]types.Record, error) {
	var records []types.Record
	for rec, err := range seq {
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}
