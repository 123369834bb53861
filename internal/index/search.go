// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/sieve/pkg/types"
)

// Query holds parameters for an index search.
type Query struct {
	// Text is an FTS4 match expression over title and abstract.
	Text string

	// Since keeps records published at or after this time.
	Since time.Time

	// Source keeps records ingested from this source.
	Source string

	// MaxResults limits the result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q Query) IsEmpty() bool {
	return q.Text == "" && q.Since.IsZero() && q.Source == ""
}

// Result is an indexed record with the source it came from.
type Result struct {
	types.Record
	Source string `json:"source" yaml:"source"`
}

// Search returns matching records, newest publication first.
func (s *Store) Search(ctx context.Context, q Query) ([]Result, error) {
	limit := q.MaxResults
	if limit <= 0 {
		limit = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)

	if q.Text != "" {
		qb.WriteString(
			`SELECT r.id, r.title, r.authors, r.abstract, r.published, r.updated, r.source
			FROM records_fts
			JOIN records r ON r.rowid = records_fts.docid
			WHERE records_fts MATCH ?`)
		args = append(args, q.Text)
	} else {
		qb.WriteString(
			`SELECT r.id, r.title, r.authors, r.abstract, r.published, r.updated, r.source
			FROM records r
			WHERE 1=1`)
	}

	if !q.Since.IsZero() {
		qb.WriteString(` AND r.published >= ?`)
		args = append(args, formatTime(q.Since))
	}
	if q.Source != "" {
		qb.WriteString(` AND r.source = ?`)
		args = append(args, q.Source)
	}

	qb.WriteString(` ORDER BY r.published DESC, r.id LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			res         Result
			authorsJSON sql.NullString
			abstract    sql.NullString
			published   sql.NullString
			updated     sql.NullString
			source      sql.NullString
		)
		if err := rows.Scan(&res.ID, &res.Title, &authorsJSON, &abstract, &published, &updated, &source); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		if authorsJSON.Valid {
			json.Unmarshal([]byte(authorsJSON.String), &res.Authors)
		}
		res.Abstract = abstract.String
		res.Published = parseTime(published.String)
		res.Updated = parseTime(updated.String)
		res.Source = source.String

		results = append(results, res)
	}
	return results, rows.Err()
}
