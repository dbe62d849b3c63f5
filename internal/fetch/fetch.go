// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves the devotional page as UTF-8 text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/net/html/charset"

	"github.com/pdiddy/devotional/internal/httputil"
	"github.com/pdiddy/devotional/pkg/types"
)

// maxBodySize caps how much of a page is read.
const maxBodySize = 4 << 20

// Logger receives retry warnings. *slog.Logger satisfies it.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Fetcher downloads pages with the configured User-Agent, timeout, and retry
// policy.
type Fetcher struct {
	client *http.Client
	cfg    types.HTTPConfig
	log    Logger
}

// New returns a Fetcher. A nil client gets one with cfg.Timeout.
func New(client *http.Client, cfg types.HTTPConfig, log Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = types.DefaultUserAgent
	}
	return &Fetcher{client: client, cfg: cfg, log: log}
}

// Fetch returns the body of url decoded to UTF-8 using the charset declared
// in the response. Exhausted retries carry KindFetchFailure.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", types.NewError(types.KindFetchFailure, fmt.Sprintf("creating request for %s", url), err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	f.log.Info("fetching page", "url", url)
	resp, err := httputil.DoWithRetry(ctx, f.client, req, httputil.Policy{
		MaxAttempts: f.cfg.MaxAttempts,
		Delay:       f.cfg.RetryDelay,
		OnRetry: func(attempt int, err error) {
			f.log.Warn("fetch attempt failed", "url", url, "attempt", attempt, "error", err.Error())
		},
	})
	if err != nil {
		return "", types.NewError(types.KindFetchFailure, fmt.Sprintf("fetching %s", url), err)
	}
	defer resp.Body.Close()

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", types.NewError(types.KindFetchFailure, fmt.Sprintf("decoding %s", url), err)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", types.NewError(types.KindFetchFailure, fmt.Sprintf("reading %s", url), err)
	}
	return string(data), nil
}
