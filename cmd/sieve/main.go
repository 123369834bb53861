// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sieve CLI. sieve queries the arXiv
// API, keeps collections of records for a saved query up to date, and
// indexes collections for local full-text search.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/sieve/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds values loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the sieve CLI.
var rootCmd = &cobra.Command{
	Use:   "sieve",
	Short: "Track arXiv queries and search the papers they return",
	Long: `sieve retrieves paper records from the arXiv Atom API. A one-off query
streams records to the terminal; a collection saves a query with the date it
was last updated so later runs only fetch what is new.

Collections can be exported to YAML or JSON and indexed into a local SQLite
database for full-text search across collections.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}

		secretsDir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(secretsDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			log.WithField("keys", keys).Debug("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./sieve.yaml or ~/.config/sieve/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default info)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory of secret files")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
