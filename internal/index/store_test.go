// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sieve/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.IndexConfig{
		Path:       filepath.Join(t.TempDir(), "nested", "test.db"),
		MaxResults: 10,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func day(d int) time.Time {
	return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC)
}

func sampleRecords() []types.Record {
	return []types.Record{
		{
			ID:        "http://arxiv.org/abs/2403.00001v1",
			Title:     "Diffusion Models for Protein Design",
			Authors:   []string{"Ada Lovelace", "Alan Turing"},
			Abstract:  "We apply score-based generative models to protein backbones.",
			Published: day(1),
			Updated:   day(2),
		},
		{
			ID:        "http://arxiv.org/abs/2403.00002v1",
			Title:     "Sparse Attention at Scale",
			Authors:   []string{"Grace Hopper"},
			Abstract:  "A study of attention sparsity with diffusion of gradients.",
			Published: day(5),
			Updated:   day(5),
		},
		{
			ID:        "http://arxiv.org/abs/2403.00003v1",
			Title:     "Graph Neural Networks",
			Abstract:  "Message passing on molecules.",
			Published: day(9),
			Updated:   day(9),
		},
	}
}

func ids(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}

func TestOpenCreatesSchema(t *testing.T) {
	s := openTestStore(t)

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s, err := Open(types.IndexConfig{Path: path})
	require.NoError(t, err)
	_, err = s.Ingest(ctx, "q", slices.Values(sampleRecords()))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(types.IndexConfig{Path: path})
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestIngestCountsAddedAndUpdated(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	summary, err := s.Ingest(ctx, "ti:diffusion", slices.Values(sampleRecords()))
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Added: 3}, summary)

	changed := sampleRecords()[:1]
	changed[0].Title = "Diffusion Models for Protein Design (revised)"
	summary, err = s.Ingest(ctx, "ti:protein", slices.Values(changed))
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Updated: 1}, summary)
	assert.Equal(t, 1, summary.Total())

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	results, err := s.Search(ctx, Query{Text: "revised"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ti:protein", results[0].Source)
}

func TestIngestCollapsesDuplicateIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	recs := sampleRecords()
	recs = append(recs, recs[0])

	summary, err := s.Ingest(ctx, "q", slices.Values(recs))
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Added: 3, Updated: 1}, summary)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSearchMatchesTitleAndAbstract(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, err := s.Ingest(ctx, "q", slices.Values(sampleRecords()))
	require.NoError(t, err)

	results, err := s.Search(ctx, Query{Text: "diffusion"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"http://arxiv.org/abs/2403.00002v1",
		"http://arxiv.org/abs/2403.00001v1",
	}, ids(results))

	results, err = s.Search(ctx, Query{Text: "molecules"})
	require.NoError(t, err)
	assert.Equal(t, []string{"http://arxiv.org/abs/2403.00003v1"}, ids(results))

	results, err = s.Search(ctx, Query{Text: "quantum"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchRoundTripsFields(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, err := s.Ingest(ctx, "ti:protein", slices.Values(sampleRecords()[:1]))
	require.NoError(t, err)

	results, err := s.Search(ctx, Query{Text: "protein"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	want := sampleRecords()[0]
	got := results[0]
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Authors, got.Authors)
	assert.Equal(t, want.Abstract, got.Abstract)
	assert.True(t, want.Published.Equal(got.Published))
	assert.True(t, want.Updated.Equal(got.Updated))
	assert.Equal(t, "ti:protein", got.Source)
}

func TestSearchFilters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	recs := sampleRecords()
	_, err := s.Ingest(ctx, "first", slices.Values(recs[:2]))
	require.NoError(t, err)
	_, err = s.Ingest(ctx, "second", slices.Values(recs[2:]))
	require.NoError(t, err)

	results, err := s.Search(ctx, Query{Since: day(5)})
	require.NoError(t, err)
	assert.Equal(t, []string{recs[2].ID, recs[1].ID}, ids(results))

	results, err = s.Search(ctx, Query{Source: "first"})
	require.NoError(t, err)
	assert.Equal(t, []string{recs[1].ID, recs[0].ID}, ids(results))

	results, err = s.Search(ctx, Query{Text: "diffusion", Since: day(3)})
	require.NoError(t, err)
	assert.Equal(t, []string{recs[1].ID}, ids(results))
}

func TestSearchLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, err := s.Ingest(ctx, "q", slices.Values(sampleRecords()))
	require.NoError(t, err)

	results, err := s.Search(ctx, Query{MaxResults: 2})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "http://arxiv.org/abs/2403.00003v1", results[0].ID)
}

func TestQueryIsEmpty(t *testing.T) {
	assert.True(t, Query{}.IsEmpty())
	assert.True(t, Query{MaxResults: 5}.IsEmpty())
	assert.False(t, Query{Text: "x"}.IsEmpty())
	assert.False(t, Query{Since: day(1)}.IsEmpty())
	assert.False(t, Query{Source: "q"}.IsEmpty())
}
