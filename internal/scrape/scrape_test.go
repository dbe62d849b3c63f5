// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/devotional/internal/extract"
	"github.com/pdiddy/devotional/internal/fetch"
	"github.com/pdiddy/devotional/internal/store"
	"github.com/pdiddy/devotional/pkg/types"
)

const devotionalPage = `<!DOCTYPE html>
<html><body>
<div class="daily-devotional-commentary">
  <p>Today we reflect on the patience of God in the wilderness.</p>
  <p>Let us pray for strength to follow Him today.</p>
</div>
</body></html>`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- fakes ---

type stubFetcher struct {
	page string
	err  error
}

func (s stubFetcher) Fetch(context.Context, string) (string, error) { return s.page, s.err }

type countingSaver struct{ calls int }

func (c *countingSaver) Save(*types.Devotional) (types.Collection, error) {
	c.calls++
	return nil, nil
}

// --- tests ---

func TestRun_EndToEnd(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, devotionalPage)
	}))
	defer ts.Close()

	dir := filepath.Join(t.TempDir(), "data")
	log := discardLogger()
	f := fetch.New(ts.Client(), types.HTTPConfig{MaxAttempts: 1, RetryDelay: time.Millisecond}, log)
	e := extract.New(types.ExtractConfig{Now: func() time.Time {
		return time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)
	}})
	s := store.New(types.StoreConfig{StoragePath: dir, MaxHistory: 365}, log)

	d, err := NewRunner(f, e, s, log).Run(context.Background(), ts.URL)
	require.NoError(t, err)

	assert.Equal(t, "March 15, 2024", d.Date)
	assert.Equal(t, "Today we reflect on the patience of God in the wilderness.\n\nLet us pray for strength to follow Him today.", d.Content)
	assert.FileExists(t, filepath.Join(dir, "devotionals.json"))
	assert.FileExists(t, filepath.Join(dir, "latest.json"))

	// A second run on the same day updates rather than appends.
	_, err = NewRunner(f, e, s, log).Run(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Len(t, s.Load(), 1)
}

func TestRun_FetchFailureSkipsSave(t *testing.T) {
	saver := &countingSaver{}
	fetchErr := types.NewError(types.KindFetchFailure, "fetching", errors.New("connection refused"))
	r := NewRunner(stubFetcher{err: fetchErr}, extract.New(types.ExtractConfig{}), saver, discardLogger())

	_, err := r.Run(context.Background(), "http://example.invalid")

	require.Error(t, err)
	assert.Equal(t, types.KindFetchFailure, types.KindOf(err))
	assert.Zero(t, saver.calls)
}

func TestRun_ShortContentSkipsSave(t *testing.T) {
	saver := &countingSaver{}
	page := `<div class="daily-devotional-commentary"><p>Too short.</p></div>`
	r := NewRunner(stubFetcher{page: page}, extract.New(types.ExtractConfig{}), saver, discardLogger())

	_, err := r.Run(context.Background(), "http://example.invalid")

	require.Error(t, err)
	assert.Equal(t, types.KindContentTooShortOrMissing, types.KindOf(err))
	assert.Zero(t, saver.calls)
}

func TestRun_PersistenceFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	log := discardLogger()
	s := store.New(types.StoreConfig{StoragePath: blocker}, log)
	r := NewRunner(stubFetcher{page: devotionalPage}, extract.New(types.ExtractConfig{}), s, log)

	_, err := r.Run(context.Background(), "http://example.invalid")

	require.Error(t, err)
	assert.Equal(t, types.KindPersistenceFailure, types.KindOf(err))
}
