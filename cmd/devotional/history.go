// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/devotional/internal/store"
	"github.com/pdiddy/devotional/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the stored devotional history (list, show, export)",
	Long: `History reads devotionals.json, newest first. A missing or damaged
history file reads as empty.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored dates and scripture references",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	_, s, err := openStore()
	if err != nil {
		return err
	}

	c := s.Load()
	limit, _ := cmd.Flags().GetInt("limit")
	if limit > 0 && limit < len(c) {
		c = c[:limit]
	}

	out := cmd.OutOrStdout()
	if len(c) == 0 {
		fmt.Fprintln(out, "No devotionals stored.")
		return nil
	}

	t := newTable(out)
	t.AppendHeader(table.Row{"#", "Date", "Reference", "Scraped at"})
	t.SetColumnConfigs([]table.ColumnConfig{{Name: "Reference", WidthMax: 30}})
	for i, d := range c {
		t.AppendRow(table.Row{i + 1, d.Date, types.StringOrEmpty(d.ScriptureReference), d.ScrapedAt})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d devotionals", len(c))})
	t.Render()
	return nil
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show <date>",
	Short: `Print one stored record, e.g. show "March 15, 2024"`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	_, s, err := openStore()
	if err != nil {
		return err
	}

	date := strings.Join(args, " ")
	c := s.Load()
	i := c.Find(date)
	if i < 0 {
		return fmt.Errorf("no devotional stored for %q", date)
	}
	return writeJSON(cmd, c[i])
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the history to JSON or YAML",
	Long: `Export writes the full history to --out, or to standard output when
--out is empty. The JSON form is identical to devotionals.json.`,
	RunE: runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")

	_, s, err := openStore()
	if err != nil {
		return err
	}

	if outPath == "" {
		return s.Export(cmd.OutOrStdout(), format)
	}
	if err := s.ExportFile(outPath, format); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", outPath)
	return nil
}

// --- shared helpers ---

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	historyListCmd.Flags().Int("limit", 0, "show only the newest N records (0 = all)")

	historyExportCmd.Flags().String("format", store.FormatJSON, "export format: json or yaml")
	historyExportCmd.Flags().String("out", "", "output file (default standard output)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
