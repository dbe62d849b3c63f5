// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/devotional/internal/extract"
	"github.com/pdiddy/devotional/internal/fetch"
	"github.com/pdiddy/devotional/internal/scrape"
	"github.com/pdiddy/devotional/internal/store"
	"github.com/pdiddy/devotional/pkg/types"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch today's devotional and merge it into the history",
	Long: `Scrape downloads the devotional page, extracts the record, and merges it
into devotionals.json (newest first, one record per date, bounded by
max_history). latest.json is overwritten with the record.

Nothing is written when the fetch fails or the commentary is shorter than
50 characters. Scraping twice on the same day updates that day's record.`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().String("url", "", "devotional page URL (default base_url)")
	scrapeCmd.Flags().Int("max-history", 0, "maximum number of stored records (default max_history)")

	viper.BindPFlag("base_url", scrapeCmd.Flags().Lookup("url"))
	viper.BindPFlag("max_history", scrapeCmd.Flags().Lookup("max-history"))

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	d, err := newRunner(cfg, newLogger(cfg)).Run(cmd.Context(), cfg.BaseURL)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Successfully scraped devotional: %s\n", d.Title)
	return nil
}

// newRunner wires one scrape run. Every run gets its own run_id.
func newRunner(cfg types.Config, base *slog.Logger) *scrape.Runner {
	log := base.With("run_id", uuid.NewString())
	return scrape.NewRunner(
		fetch.New(nil, cfg.HTTP, log),
		extract.New(cfg.Extract()),
		store.New(cfg.Store(), log),
		log,
	)
}
