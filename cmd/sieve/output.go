// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/sieve/pkg/types"
)

const dateLayout = "2006-01-02"

// parseDate reads a YYYY-MM-DD flag value as midnight UTC.
func parseDate(flag, value string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: want YYYY-MM-DD", flag, value)
	}
	return t, nil
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// writeRecord prints one record as an indented text block.
func writeRecord(w io.Writer, n int, r types.Record) {
	fmt.Fprintf(w, "[%d] %s\n", n, strings.Join(strings.Fields(r.Title), " "))
	fmt.Fprintf(w, "    id:        %s\n", r.ID)
	if len(r.Authors) > 0 {
		fmt.Fprintf(w, "    authors:   %s\n", strings.Join(r.Authors, ", "))
	}
	fmt.Fprintf(w, "    published: %s\n", r.Published.Format(time.RFC3339))
	fmt.Fprintf(w, "    updated:   %s\n", r.Updated.Format(time.RFC3339))
}

// writeRecordDetail prints a record including its abstract.
func writeRecordDetail(w io.Writer, r types.Record) {
	writeRecord(w, 1, r)
	if r.Abstract != "" {
		fmt.Fprintf(w, "\n%s\n", strings.Join(strings.Fields(r.Abstract), " "))
	}
}

// writeRecordTable prints records one per line.
func writeRecordTable(w io.Writer, records []types.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No records.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-10s  %-36s  %s\n", "#", "Published", "ID", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for i, r := range records {
		fmt.Fprintf(w, "%-4d  %-10s  %-36s  %s\n",
			i+1, r.Published.Format(dateLayout), truncate(r.ID, 36), truncate(r.Title, 50))
	}
	fmt.Fprintf(w, "\n%d records\n", len(records))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
