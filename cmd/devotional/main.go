// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the devotional CLI. It scrapes the
// daily devotional page, keeps a bounded JSON history, and offers read-only
// views over that history.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/devotional/internal/logger"
	"github.com/pdiddy/devotional/internal/store"
	"github.com/pdiddy/devotional/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the devotional CLI.
var rootCmd = &cobra.Command{
	Use:   "devotional",
	Short: "Scrape and archive the daily devotional",
	Long: `devotional fetches the daily devotional page, extracts the date, scripture,
reference, and commentary, and merges the record into a bounded history
(devotionals.json) plus a snapshot of the newest record (latest.json).

Run "devotional scrape" once a day; the other subcommands read the history.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./devotional.yaml or ~/.config/devotional/devotional.yaml)")
	rootCmd.PersistentFlags().String("storage-path", types.DefaultStoragePath, "directory holding devotionals.json and latest.json")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", logger.FormatText, "log format: text, json, or pretty")

	viper.BindPFlag("storage_path", rootCmd.PersistentFlags().Lookup("storage-path"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	setDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("devotional")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "devotional"))
		}
	}

	viper.SetEnvPrefix("DEVOTIONAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every recognized key so that environment variables
// reach nested options during Unmarshal.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("storage_path", d.StoragePath)
	v.SetDefault("max_history", d.MaxHistory)
	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
	v.SetDefault("http.max_attempts", d.HTTP.MaxAttempts)
	v.SetDefault("http.retry_delay", d.HTTP.RetryDelay)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("schedule.spec", d.Schedule.Spec)
	v.SetDefault("schedule.timezone", d.Schedule.Timezone)
}

// loadConfig decodes and validates the merged configuration.
func loadConfig(v *viper.Viper) (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg types.Config) *slog.Logger {
	return logger.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)
}

// openStore loads the configuration and returns a store over its storage path.
func openStore() (types.Config, *store.Store, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return cfg, nil, err
	}
	return cfg, store.New(cfg.Store(), newLogger(cfg)), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Printf("❌ Error: %v\n", err)
		os.Exit(1)
	}
}
