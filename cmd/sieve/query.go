// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sieve/internal/arxiv"
)

var queryCmd = &cobra.Command{
	Use:   "query <query...>",
	Short: "Stream arXiv records matching a query",
	Long: `Query runs an arXiv search query and prints records as they arrive,
newest submission first. The query uses arXiv's field syntax, for example
'ti:"diffusion model" AND cat:cs.LG'.

The stream stops after --max-results records or at the first record
published before --until. At least one of the two must be set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().Int("max-results", 10, "stop after this many records (0 = no cap)")
	queryCmd.Flags().String("until", "", "stop at the first record published before this date (YYYY-MM-DD)")
	queryCmd.Flags().Bool("json", false, "print one JSON object per record")

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	maxResults, _ := cmd.Flags().GetInt("max-results")
	until, _ := cmd.Flags().GetString("until")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	params := arxiv.QueryParams{
		Query:      strings.Join(args, " "),
		MaxResults: maxResults,
	}
	if until != "" {
		t, err := parseDate("until", until)
		if err != nil {
			return err
		}
		params.Until = t
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	seq, err := arxiv.NewClient(cfg.Fetch).Query(cmd.Context(), params)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	enc := json.NewEncoder(w)
	n := 0
	for r, err := range seq {
		if err != nil {
			return fmt.Errorf("after %d record(s): %w", n, err)
		}
		n++
		if jsonOutput {
			if err := enc.Encode(r); err != nil {
				return err
			}
			continue
		}
		writeRecord(w, n, r)
	}

	if !jsonOutput {
		fmt.Fprintf(w, "\n%d records\n", n)
	}
	return nil
}
