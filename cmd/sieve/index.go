// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sieve/internal/collection"
	"github.com/pdiddy/sieve/internal/index"
)

// --- index subcommand ---

var indexCmd = &cobra.Command{
	Use:   "index <file...>",
	Short: "Add collections to the local search index",
	Long: `Index loads each collection and writes its records into a SQLite
database with full-text search over titles and abstracts. Each record is
tagged with its collection's query. Records already indexed are replaced,
so the index holds one row per arXiv identifier.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	store, err := openIndex(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	w := cmd.OutOrStdout()
	for _, path := range args {
		b, err := collection.Load(path)
		if err != nil {
			return err
		}

		summary, err := store.Ingest(cmd.Context(), b.Query(), b.Papers())
		if err != nil {
			return fmt.Errorf("indexing %s: %w", path, err)
		}
		fmt.Fprintf(w, "  indexed %s: %d record(s), %d added, %d updated\n",
			path, summary.Total(), summary.Added, summary.Updated)
	}

	n, err := store.Count(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Index: %d record(s)\n", n)
	return nil
}

// --- search subcommand ---

var searchCmd = &cobra.Command{
	Use:   "search [terms...]",
	Short: "Search indexed records",
	Long: `Search runs a full-text query over indexed titles and abstracts,
optionally filtered by publication date or source query. Results are
ordered newest first.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	since, _ := cmd.Flags().GetString("since")
	source, _ := cmd.Flags().GetString("source")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	q := index.Query{
		Text:       strings.Join(args, " "),
		Source:     source,
		MaxResults: limit,
	}
	if since != "" {
		t, err := parseDate("since", since)
		if err != nil {
			return err
		}
		q.Since = t
	}
	if q.IsEmpty() {
		return fmt.Errorf("search terms or filter required: provide terms, --since, or --source")
	}

	store, err := openIndex(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Search(cmd.Context(), q)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		if results == nil {
			results = []index.Result{}
		}
		return writeJSON(w, results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-10s  %-36s  %-50s  %s\n", "Rank", "Published", "ID", "Title", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 130))
	for i, r := range results {
		fmt.Fprintf(w, "%-4d  %-10s  %-36s  %-50s  %s\n",
			i+1, r.Published.Format(dateLayout), truncate(r.ID, 36), truncate(r.Title, 50), truncate(r.Source, 24))
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

func openIndex(cmd *cobra.Command) (*index.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.Index.Path = db
	}
	return index.Open(cfg.Index)
}

func init() {
	indexCmd.Flags().String("db", "", "index database path (default from config, sieve.db)")

	searchCmd.Flags().String("db", "", "index database path (default from config, sieve.db)")
	searchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	searchCmd.Flags().String("since", "", "only records published on or after this date (YYYY-MM-DD)")
	searchCmd.Flags().String("source", "", "only records indexed from this query")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(searchCmd)
}
