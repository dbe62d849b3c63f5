// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/devotional/internal/schedule"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Scrape on a cron schedule until interrupted",
	Long: `Watch stays in the foreground and runs a scrape at every activation of
schedule.spec (default "0 6 * * *", every day at 06:00) in schedule.timezone.
A failed run is logged and the next activation proceeds normally. Stop with
Ctrl-C or SIGTERM; a run in progress finishes first.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("schedule", "", "cron expression or descriptor (default schedule.spec)")
	watchCmd.Flags().String("timezone", "", "IANA time zone for the schedule (default local)")
	watchCmd.Flags().Bool("now", false, "run one scrape immediately before waiting")

	viper.BindPFlag("schedule.spec", watchCmd.Flags().Lookup("schedule"))
	viper.BindPFlag("schedule.timezone", watchCmd.Flags().Lookup("timezone"))

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	loc, err := cfg.Schedule.Location()
	if err != nil {
		return err
	}
	sched := schedule.New(loc, log)

	scrapeOnce := func(ctx context.Context) {
		// The runner logs failures; the schedule carries on either way.
		newRunner(cfg, log).Run(ctx, cfg.BaseURL)
		if next, err := sched.Next(cfg.Schedule.Spec, time.Now()); err == nil {
			log.Info("next scrape scheduled", "at", next.Format(time.RFC3339))
		}
	}

	ctx := cmd.Context()
	if err := sched.Add(ctx, cfg.Schedule.Spec, scrapeOnce); err != nil {
		return err
	}

	if now, _ := cmd.Flags().GetBool("now"); now {
		scrapeOnce(ctx)
	}

	if next, err := sched.Next(cfg.Schedule.Spec, time.Now()); err == nil {
		log.Info("watching for devotionals", "schedule", cfg.Schedule.Spec, "next", next.Format(time.RFC3339))
	}
	return sched.Run(ctx)
}
