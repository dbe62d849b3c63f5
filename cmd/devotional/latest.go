// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/pdiddy/devotional/pkg/types"
)

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Print the most recently scraped devotional",
	Long: `Latest prints latest.json, the record written by the last successful
scrape. Use --json for the raw record.`,
	RunE: runLatest,
}

func init() {
	latestCmd.Flags().Bool("json", false, "output the record as JSON")
	rootCmd.AddCommand(latestCmd)
}

func runLatest(cmd *cobra.Command, args []string) error {
	_, s, err := openStore()
	if err != nil {
		return err
	}

	d, err := s.LoadLatest()
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("no devotional saved yet in %s: run \"devotional scrape\" first", s.LatestPath())
	}
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return writeJSON(cmd, d)
	}
	printDevotional(cmd, d)
	return nil
}

// printDevotional renders a record for reading in a terminal.
func printDevotional(cmd *cobra.Command, d *types.Devotional) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n%s\n\n", d.Title, d.Date)
	if ref := types.StringOrEmpty(d.ScriptureReference); ref != "" {
		fmt.Fprintf(out, "%s\n", ref)
	}
	if text := types.StringOrEmpty(d.Scripture); text != "" {
		fmt.Fprintf(out, "%s\n", text)
	}
	if d.Scripture != nil || d.ScriptureReference != nil {
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "%s\n\n— %s\n", d.Content, d.Author)
}
