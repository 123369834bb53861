// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sieve/internal/index"
	"github.com/pdiddy/sieve/pkg/types"
)

var feedStart = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

const feedSize = 10

// feedServer serves a fixed feed of feedSize entries, each 30 days older
// than the one before, honouring start and max_results.
func feedServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		max, _ := strconv.Atoi(r.URL.Query().Get("max_results"))

		var b strings.Builder
		b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ArXiv Query</title>
  <id>http://arxiv.org/api/test</id>
  <updated>2024-06-01T00:00:00Z</updated>
`)
		for i := start; i < start+max && i < feedSize; i++ {
			ts := feedStart.Add(-time.Duration(i) * 30 * 24 * time.Hour).Format(time.RFC3339)
			fmt.Fprintf(&b, `  <entry>
    <id>http://arxiv.org/abs/2406.%05dv1</id>
    <updated>%s</updated>
    <published>%s</published>
    <title>Diffusion paper %d</title>
    <summary>We study diffusion models, part %d.</summary>
    <author><name>Ada Lovelace</name></author>
  </entry>
`, i, ts, ts, i, i)
		}
		b.WriteString("</feed>\n")

		w.Header().Set("Content-Type", "application/atom+xml")
		io.WriteString(w, b.String())
	}))
	t.Cleanup(srv.Close)

	t.Setenv("SIEVE_FETCH_BASE_URL", srv.URL)
	t.Setenv("SIEVE_FETCH_MAX_ATTEMPTS", "1")
	return srv
}

// execute runs the root command with args and returns what it wrote to
// stdout. Flags are reset first since cobra keeps values between runs.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append(args, "--secrets-dir="+t.TempDir()))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "sieve dev\n", out)
}

func TestLogLevelFlag(t *testing.T) {
	t.Cleanup(func() { log.SetLevel(log.InfoLevel) })

	_, err := execute(t, "version", "--log-level", "debug")
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	_, err = execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}

func TestLogLevelFlagInvalid(t *testing.T) {
	_, err := execute(t, "version", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log level "loud"`)
}

func TestQueryText(t *testing.T) {
	feedServer(t)

	out, err := execute(t, "query", "--max-results", "2", "ti:diffusion")
	require.NoError(t, err)
	assert.Contains(t, out, "[1] Diffusion paper 0")
	assert.Contains(t, out, "[2] Diffusion paper 1")
	assert.NotContains(t, out, "Diffusion paper 2")
	assert.Contains(t, out, "authors:   Ada Lovelace")
	assert.Contains(t, out, "\n2 records\n")
}

func TestQueryJSONUntil(t *testing.T) {
	feedServer(t)

	out, err := execute(t, "query", "--json", "--max-results", "0", "--until", "2024-04-01", "ti:diffusion")
	require.NoError(t, err)

	dec := json.NewDecoder(strings.NewReader(out))
	var got []types.Record
	for dec.More() {
		var r types.Record
		require.NoError(t, dec.Decode(&r))
		got = append(got, r)
	}

	// Entries 0-2 are on or after April 1; entry 3 is the boundary record.
	require.Len(t, got, 4)
	assert.Equal(t, "http://arxiv.org/abs/2406.00003v1", got[3].ID)
	assert.True(t, got[3].Published.Before(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestQueryRequiresStopCondition(t *testing.T) {
	feedServer(t)

	_, err := execute(t, "query", "--max-results", "0", "ti:diffusion")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stop condition")
}

func TestQueryInvalidUntil(t *testing.T) {
	_, err := execute(t, "query", "--until", "April", "ti:diffusion")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestInitRequiresSince(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.json")

	_, err := execute(t, "init", path, "ti:diffusion")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--since")
	assert.NoFileExists(t, path)
}

func TestCollectionWorkflow(t *testing.T) {
	feedServer(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "diffusion.json")

	out, err := execute(t, "init", path, "ti:diffusion", "--since", "2024-04-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized")

	metrics := filepath.Join(dir, "sieve.prom")
	out, err = execute(t, "update", path, "--metrics-file", metrics)
	require.NoError(t, err)
	assert.Contains(t, out, "Added 4 record(s)")

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sieve_fetch_attempts_total")

	out, err = execute(t, "list", path, "--json")
	require.NoError(t, err)
	var listed []types.Record
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 4)
	assert.Equal(t, "Diffusion paper 0", listed[0].Title)

	out, err = execute(t, "list", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Query:   ti:diffusion")
	assert.Contains(t, out, "4 records")

	out, err = execute(t, "show", path, "http://arxiv.org/abs/2406.00001v1")
	require.NoError(t, err)
	assert.Contains(t, out, "Diffusion paper 1")
	assert.Contains(t, out, "We study diffusion models, part 1.")

	_, err = execute(t, "show", path, "http://arxiv.org/abs/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paper not found")

	exported := filepath.Join(dir, "export.json")
	_, err = execute(t, "export", path, "--format", "json", "--output", exported)
	require.NoError(t, err)
	data, err = os.ReadFile(exported)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total": 4`)

	out, err = execute(t, "export", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ti:diffusion")
	assert.Contains(t, out, "total: 4")

	_, err = execute(t, "export", path, "--format", "xml")
	require.Error(t, err)

	db := filepath.Join(dir, "sieve.db")
	out, err = execute(t, "index", path, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "4 record(s), 4 added, 0 updated")
	assert.Contains(t, out, "Index: 4 record(s)")

	out, err = execute(t, "index", path, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "4 record(s), 0 added, 4 updated")
	assert.Contains(t, out, "Index: 4 record(s)")

	out, err = execute(t, "search", "part", "--db", db, "--since", "2024-04-01", "--json")
	require.NoError(t, err)
	var results []index.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 3)
	assert.Equal(t, "ti:diffusion", results[0].Source)

	out, err = execute(t, "search", "quantum", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")

	_, err = execute(t, "search", "--db", db)
	require.Error(t, err)
}

func TestUpdateFailureLeavesFileUnchanged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	t.Setenv("SIEVE_FETCH_BASE_URL", srv.URL)
	t.Setenv("SIEVE_FETCH_MAX_ATTEMPTS", "1")

	path := filepath.Join(t.TempDir(), "c.json")
	_, err := execute(t, "init", path, "ti:diffusion", "--since", "2024-04-01")
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = execute(t, "update", path)
	require.Error(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("since", "2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)

	_, err = parseDate("since", "2024-13-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--since")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b", truncate("a\n   b", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
