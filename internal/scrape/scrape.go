// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape runs one fetch, extract, and persist cycle. Runs are
// independent; repeating a run for the same date updates that date's record.
package scrape

import (
	"context"
	"fmt"

	"github.com/pdiddy/devotional/pkg/types"
)

// Fetcher retrieves a page as text.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Extractor turns page text into a validated record.
type Extractor interface {
	Extract(rawHTML string) (*types.Devotional, error)
	Validate(d *types.Devotional) error
}

// Saver merges a record into the history.
type Saver interface {
	Save(d *types.Devotional) (types.Collection, error)
}

// Logger receives run progress. *slog.Logger satisfies it.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// Runner wires the stages together.
type Runner struct {
	fetcher   Fetcher
	extractor Extractor
	saver     Saver
	log       Logger
}

// NewRunner returns a Runner over the given stages.
func NewRunner(f Fetcher, e Extractor, s Saver, log Logger) *Runner {
	return &Runner{fetcher: f, extractor: e, saver: s, log: log}
}

// Run fetches url, extracts the devotional, and saves it. Nothing is written
// unless extraction and validation succeed. The returned error carries the
// failure kind (see types.KindOf).
func (r *Runner) Run(ctx context.Context, url string) (*types.Devotional, error) {
	r.log.Info("starting daily devotional scrape", "url", url)

	page, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, r.fail(err)
	}

	d, err := r.extractor.Extract(page)
	if err != nil {
		return nil, r.fail(fmt.Errorf("parsing devotional: %w", err))
	}

	if err := r.extractor.Validate(d); err != nil {
		return nil, r.fail(fmt.Errorf("scraped content rejected: %w", err))
	}

	if _, err := r.saver.Save(d); err != nil {
		return nil, r.fail(err)
	}

	r.log.Info("successfully scraped and saved daily devotional", "date", d.Date)
	return d, nil
}

func (r *Runner) fail(err error) error {
	r.log.Error("error scraping devotional", "kind", types.KindOf(err), "error", err.Error())
	return err
}
