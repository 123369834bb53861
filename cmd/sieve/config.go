// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sieve/internal/secrets"
	"github.com/pdiddy/sieve/pkg/types"
)

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sieve")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sieve"))
		}
	}

	setConfigDefaults()

	viper.SetEnvPrefix("SIEVE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setConfigDefaults registers every key so environment overrides are seen
// by Unmarshal. The user agent has no default here; it is derived from the
// version and the contact email when unset.
func setConfigDefaults() {
	d := types.DefaultConfig()
	viper.SetDefault("fetch.timeout", d.Fetch.Timeout)
	viper.SetDefault("fetch.user_agent", "")
	viper.SetDefault("fetch.base_url", d.Fetch.BaseURL)
	viper.SetDefault("fetch.base_delay", d.Fetch.BaseDelay)
	viper.SetDefault("fetch.backoff_scaling", d.Fetch.BackoffScaling)
	viper.SetDefault("fetch.max_attempts", d.Fetch.MaxAttempts)
	viper.SetDefault("index.path", d.Index.Path)
	viper.SetDefault("index.max_results", d.Index.MaxResults)
	viper.SetDefault("log_level", d.LogLevel)
}

// loadConfig decodes the merged configuration (defaults, file, environment).
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = secrets.UserAgent(version, secrets.ContactEmail(loadedSecrets))
	}
	return cfg, nil
}

// setupLogging reads the level from the inherited --log-level flag, falling
// back to the log_level config key.
func setupLogging(cmd *cobra.Command) error {
	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		level = viper.GetString("log_level")
	}
	if level == "" {
		level = "info"
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return nil
}
