// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schedule repeats a job on a cron schedule until its context ends.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Logger receives scheduler events. *slog.Logger satisfies it.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// Scheduler runs registered jobs at their activation times. A job still
// running at its next activation is skipped for that activation.
type Scheduler struct {
	cron *cron.Cron
	loc  *time.Location
}

// New returns a Scheduler evaluating specs in loc (local time when nil).
func New(loc *time.Location, log Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	cl := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.SkipIfStillRunning(cl), cron.Recover(cl)),
		),
		loc: loc,
	}
}

// Add registers job under spec, a five-field cron expression or a
// descriptor such as "@daily". ctx is passed to every invocation.
func (s *Scheduler) Add(ctx context.Context, spec string, job func(context.Context)) error {
	if _, err := s.cron.AddFunc(spec, func() { job(ctx) }); err != nil {
		return fmt.Errorf("parsing schedule %q: %w", spec, err)
	}
	return nil
}

// Run starts the scheduler and blocks until ctx is done, then waits for
// running jobs to return.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
	return nil
}

// Next returns the first activation of spec strictly after from, in the
// scheduler's location.
func (s *Scheduler) Next(spec string, from time.Time) (time.Time, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing schedule %q: %w", spec, err)
	}
	return sched.Next(from.In(s.loc)), nil
}

// cronLogger adapts Logger to cron.Logger.
type cronLogger struct {
	log Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Info("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err.Error())...)
}
