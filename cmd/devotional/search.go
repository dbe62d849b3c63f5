// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/devotional/internal/index"
	"github.com/pdiddy/devotional/internal/store"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search stored devotionals by keyword",
	Long: `Search rebuilds the SQLite index at <storage_path>/index/devotionals.db
from devotionals.json, then lists records whose commentary, scripture, or
reference contains every word of the query, newest first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 20, "maximum number of results")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, s, err := openStore()
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	hits, err := searchHistory(cmd.Context(), cfg.StoragePath, s, strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		if hits == nil {
			hits = []index.Hit{}
		}
		return writeJSON(cmd, hits)
	}

	out := cmd.OutOrStdout()
	if len(hits) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}
	t := newTable(out)
	t.AppendHeader(table.Row{"Date", "Reference", "Excerpt"})
	t.SetColumnConfigs([]table.ColumnConfig{{Name: "Excerpt", WidthMax: 60}})
	for _, h := range hits {
		t.AppendRow(table.Row{h.Date, h.ScriptureReference, h.Excerpt})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d results", len(hits))})
	t.Render()
	return nil
}

// searchHistory rebuilds the index under storagePath from the stored history
// and runs query against it.
func searchHistory(ctx context.Context, storagePath string, s *store.Store, query string, limit int) ([]index.Hit, error) {
	idx, err := index.Open(index.Path(storagePath))
	if err != nil {
		return nil, err
	}
	defer idx.Close()

	if err := idx.Sync(ctx, s.Load()); err != nil {
		return nil, fmt.Errorf("syncing index: %w", err)
	}
	indexed, err := idx.Count(ctx)
	if err != nil {
		return nil, err
	}
	if indexed == 0 {
		return nil, fmt.Errorf("no devotionals stored in %s: run \"devotional scrape\" first", s.CollectionPath())
	}

	return idx.Search(ctx, query, limit)
}
