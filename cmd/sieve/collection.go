// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"slices"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/sieve/internal/arxiv"
	"github.com/pdiddy/sieve/internal/collection"
	"github.com/pdiddy/sieve/internal/httputil"
	"github.com/pdiddy/sieve/pkg/types"
)

// --- init subcommand ---

var initCmd = &cobra.Command{
	Use:   "init <file> <query...>",
	Short: "Create a collection for a saved query",
	Long: `Init writes a new collection file holding the query and a start date.
The first update fetches every record published since that date.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	since, _ := cmd.Flags().GetString("since")
	if since == "" {
		return fmt.Errorf("--since is required")
	}
	start, err := parseDate("since", since)
	if err != nil {
		return err
	}

	path := args[0]
	query := strings.Join(args[1:], " ")
	if _, err := collection.Initialize(path, query, start); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s: %q since %s\n", path, query, start.Format(dateLayout))
	return nil
}

// --- update subcommand ---

var updateCmd = &cobra.Command{
	Use:   "update <file>",
	Short: "Fetch records published since the collection's last update",
	Long: `Update queries arXiv for records newer than the collection's last update,
appends them, and saves the file. If retrieval fails the file is left
unchanged and the next update retries the same window.

With --metrics-file the fetch counters are written in the Prometheus
textfile format after the run, whether it succeeded or not.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	metricsFile, _ := cmd.Flags().GetString("metrics-file")

	b, err := collection.Load(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	started := time.Now()
	added, updateErr := b.Update(cmd.Context(), arxiv.NewClient(cfg.Fetch))

	if metricsFile != "" {
		if err := httputil.WriteMetrics(metricsFile); err != nil {
			log.WithError(err).WithField("path", metricsFile).Warn("could not write metrics")
		}
	}
	if updateErr != nil {
		return updateErr
	}

	log.WithFields(log.Fields{
		"collection": b.Path(),
		"added":      added,
		"total":      b.Len(),
		"elapsed":    time.Since(started).Round(time.Millisecond),
	}).Info("collection updated")
	fmt.Fprintf(cmd.OutOrStdout(), "Added %d record(s) to %s (%d total)\n", added, b.Path(), b.Len())
	return nil
}

// --- list subcommand ---

var listCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "List the records in a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	b, err := collection.Load(args[0])
	if err != nil {
		return err
	}

	papers := slices.Collect(b.Papers())
	w := cmd.OutOrStdout()
	if jsonOutput {
		if papers == nil {
			papers = []types.Record{}
		}
		return writeJSON(w, papers)
	}

	fmt.Fprintf(w, "Query:   %s\nUpdated: %s\n\n", b.Query(), b.DateUpdated().Format(time.RFC3339))
	writeRecordTable(w, papers)
	return nil
}

// --- show subcommand ---

var showCmd = &cobra.Command{
	Use:   "show <file> <id>",
	Short: "Show one record from a collection",
	Args:  cobra.ExactArgs(2),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	b, err := collection.Load(args[0])
	if err != nil {
		return err
	}
	r, err := b.Paper(args[1])
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), r)
	}
	writeRecordDetail(cmd.OutOrStdout(), r)
	return nil
}

func init() {
	initCmd.Flags().String("since", "", "fetch records published on or after this date (YYYY-MM-DD)")
	updateCmd.Flags().String("metrics-file", "", "write fetch metrics to this Prometheus textfile")
	listCmd.Flags().Bool("json", false, "output records as JSON")
	showCmd.Flags().Bool("json", false, "output the record as JSON")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
}
