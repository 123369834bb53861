// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collection

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sieve/pkg/types"
)

// Export is the document written by ExportYAML and ExportJSON.
type Export struct {
	Query       string         `json:"query" yaml:"query"`
	DateUpdated time.Time      `json:"date_updated" yaml:"date_updated"`
	Total       int            `json:"total" yaml:"total"`
	Papers      []ExportRecord `json:"papers" yaml:"papers"`
}

// ExportRecord is a Record without its embedding.
type ExportRecord struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Authors   []string  `json:"authors" yaml:"authors"`
	Published time.Time `json:"date_published" yaml:"date_published"`
	Updated   time.Time `json:"date_updated" yaml:"date_updated"`
	Abstract  string    `json:"abstract" yaml:"abstract"`
}

// ExportYAML writes the collection's records to w as YAML.
func (b *Backend) ExportYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b.export()); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes the collection's records to w as indented JSON.
func (b *Backend) ExportJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b.export()); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func (b *Backend) export() Export {
	out := Export{
		Query:       b.collection.QueryString,
		DateUpdated: b.collection.DateUpdated,
		Total:       len(b.collection.Papers),
		Papers:      make([]ExportRecord, 0, len(b.collection.Papers)),
	}
	for _, p := range b.collection.Papers {
		out.Papers = append(out.Papers, exportRecord(p))
	}
	return out
}

func exportRecord(r types.Record) ExportRecord {
	return ExportRecord{
		ID:        r.ID,
		Title:     r.Title,
		Authors:   r.Authors,
		Published: r.Published,
		Updated:   r.Updated,
		Abstract:  r.Abstract,
	}
}
