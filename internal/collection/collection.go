// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collection persists the records gathered for one arXiv query in a
// single JSON file. The file is always read and written whole.
package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/pdiddy/sieve/internal/arxiv"
	"github.com/pdiddy/sieve/pkg/types"
)

// ErrPaperNotFound is returned by Paper for an unknown identifier.
var ErrPaperNotFound = errors.New("paper not found")

// Querier produces the record stream for a query.
type Querier interface {
	Query(ctx context.Context, q arxiv.QueryParams) (iter.Seq2[types.Record, error], error)
}

// Backend exposes the records and tags stored in a collection file.
type Backend struct {
	path       string
	collection types.Collection
	now        func() time.Time
}

// Initialize creates a collection for query at path and writes it. Records
// published before initialDate are never fetched.
func Initialize(path, query string, initialDate time.Time) (*Backend, error) {
	if query == "" {
		return nil, fmt.Errorf("collection query is empty")
	}
	if initialDate.IsZero() {
		return nil, fmt.Errorf("collection start date is required")
	}

	b := &Backend{
		path: path,
		collection: types.Collection{
			QueryString: query,
			DateUpdated: initialDate.UTC(),
			Papers:      []types.Record{},
			Tags:        []types.Tag{},
		},
		now: time.Now,
	}
	if err := b.Dump(); err != nil {
		return nil, err
	}
	return b, nil
}

// Load reads the collection stored at path.
func Load(path string) (*Backend, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading collection: %w", err)
	}

	var c types.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing collection %s: %w", path, err)
	}
	if c.QueryString == "" {
		return nil, fmt.Errorf("collection %s has no query_string", path)
	}
	if c.Papers == nil {
		c.Papers = []types.Record{}
	}
	if c.Tags == nil {
		c.Tags = []types.Tag{}
	}

	return &Backend{path: path, collection: c, now: time.Now}, nil
}

// Path returns the collection file path.
func (b *Backend) Path() string { return b.path }

// Query returns the arXiv query the collection tracks.
func (b *Backend) Query() string { return b.collection.QueryString }

// DateUpdated returns the time of the last successful update.
func (b *Backend) DateUpdated() time.Time { return b.collection.DateUpdated }

// Len returns the number of stored records.
func (b *Backend) Len() int { return len(b.collection.Papers) }

// Dump writes the whole collection to its file. The write goes to a
// temporary file first and is renamed into place.
func (b *Backend) Dump() error {
	return b.write(b.collection)
}

func (b *Backend) write(c types.Collection) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling collection: %w", err)
	}

	if dir := filepath.Dir(b.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing collection: %w", err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing collection: %w", err)
	}
	return nil
}

// IDs iterates over the identifiers of all stored records.
func (b *Backend) IDs() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, p := range b.collection.Papers {
			if !yield(p.ID) {
				return
			}
		}
	}
}

// Papers iterates over all stored records in insertion order.
func (b *Backend) Papers() iter.Seq[types.Record] {
	return func(yield func(types.Record) bool) {
		for _, p := range b.collection.Papers {
			if !yield(p) {
				return
			}
		}
	}
}

// Tags iterates over all stored tags.
func (b *Backend) Tags() iter.Seq[types.Tag] {
	return func(yield func(types.Tag) bool) {
		for _, t := range b.collection.Tags {
			if !yield(t) {
				return
			}
		}
	}
}

// Paper returns the first record with the given identifier.
func (b *Backend) Paper(id string) (types.Record, error) {
	for p := range b.Papers() {
		if p.ID == id {
			return p, nil
		}
	}
	return types.Record{}, fmt.Errorf("%w: %s", ErrPaperNotFound, id)
}

// Update fetches every record published since the last update, appends
// them, and writes the collection. The stream's boundary record (the first
// one older than the last update) is appended as well; records are not
// deduplicated. If the stream or the write fails nothing is stored: the
// file and the in-memory collection are left untouched. It returns the number of records added.
func (b *Backend) Update(ctx context.Context, q Querier) (int, error) {
	started := b.now().UTC()

	seq, err := q.Query(ctx, arxiv.QueryParams{
		Query: b.collection.QueryString,
		Until: b.collection.DateUpdated,
	})
	if err != nil {
		return 0, fmt.Errorf("querying %q: %w", b.collection.QueryString, err)
	}

	records, err := arxiv.Collect(seq)
	if err != nil {
		return 0, fmt.Errorf("updating collection after %d record(s): %w", len(records), err)
	}

	next := b.collection
	next.Papers = slices.Concat(b.collection.Papers, records)
	next.DateUpdated = started
	if err := b.write(next); err != nil {
		return 0, err
	}
	b.collection = next
	return len(records), nil
}
