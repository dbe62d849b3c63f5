// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/devotional/internal/store"
	"github.com/pdiddy/devotional/pkg/types"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("DEVOTIONAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newTestViper())
	require.NoError(t, err)
	assert.Equal(t, types.DefaultConfig(), cfg)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("DEVOTIONAL_MAX_HISTORY", "30")
	t.Setenv("DEVOTIONAL_HTTP_RETRY_DELAY", "250ms")
	t.Setenv("DEVOTIONAL_LOG_FORMAT", "json")

	cfg, err := loadConfig(newTestViper())
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.MaxHistory)
	assert.Equal(t, 250*time.Millisecond, cfg.HTTP.RetryDelay)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devotional.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: https://example.com/devotional
storage_path: archive
http:
  timeout: 10s
  max_attempts: 5
`), 0o644))

	v := newTestViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/devotional", cfg.BaseURL)
	assert.Equal(t, "archive", cfg.StoragePath)
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 5, cfg.HTTP.MaxAttempts)
	assert.Equal(t, types.DefaultUserAgent, cfg.HTTP.UserAgent)
}

func TestLoadConfig_Invalid(t *testing.T) {
	v := newTestViper()
	v.Set("max_history", 0)

	_, err := loadConfig(v)
	assert.ErrorContains(t, err, "max_history")
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	versionCmd.Run(cmd, nil)
	assert.Equal(t, "devotional dev\n", buf.String())
}

func TestPrintDevotional(t *testing.T) {
	ref := "Psalm 23:1"
	d := &types.Devotional{
		Date:               "March 15, 2024",
		Title:              types.DefaultTitle,
		ScriptureReference: &ref,
		Content:            "The Lord is my shepherd.",
		Author:             types.DefaultAuthor,
	}

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	printDevotional(cmd, d)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, types.DefaultTitle+"\nMarch 15, 2024\n"))
	assert.Contains(t, out, "Psalm 23:1\n")
	assert.Contains(t, out, "The Lord is my shepherd.")
	assert.Contains(t, out, types.DefaultAuthor)
}

func TestSearchHistory(t *testing.T) {
	dir := t.TempDir()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := store.New(types.StoreConfig{StoragePath: dir}, quiet)
	ctx := context.Background()

	_, err := searchHistory(ctx, dir, s, "grace", 0)
	assert.ErrorContains(t, err, "no devotionals stored")

	_, err = s.Save(&types.Devotional{
		Date:    "March 15, 2024",
		Content: "My grace is sufficient for thee, for my strength is made perfect in weakness.",
	})
	require.NoError(t, err)

	hits, err := searchHistory(ctx, dir, s, "grace", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "March 15, 2024", hits[0].Date)
	assert.FileExists(t, filepath.Join(dir, "index", "devotionals.db"))
}
