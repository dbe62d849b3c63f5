//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main contains Mage build targets for devotional developer tooling.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/pdiddy/devotional/internal/index"
	"github.com/pdiddy/devotional/internal/store"
	"github.com/pdiddy/devotional/pkg/types"
)

const (
	binDir  = "bin"
	binName = "devotional"
	cmdPkg  = "./cmd/devotional"
)

// storagePath honors DEVOTIONAL_STORAGE_PATH like the CLI does.
func storagePath() string {
	if p := os.Getenv("DEVOTIONAL_STORAGE_PATH"); p != "" {
		return p
	}
	return types.DefaultStoragePath
}

// Init creates the data directory and its index subdirectory.
func Init() error {
	dirs := []string{storagePath(), filepath.Dir(index.Path(storagePath()))}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Data directories initialized.")
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Scrape builds the CLI and runs one scrape.
func Scrape() error {
	mg.Deps(Init, Build)
	return sh.RunV(filepath.Join(binDir, binName), "scrape")
}

// Stats prints Go production/test line counts and the stored history size.
func Stats() error {
	prodLines, err := countGoLines(".", false)
	if err != nil {
		return err
	}
	testLines, err := countGoLines(".", true)
	if err != nil {
		return err
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	history := store.New(types.StoreConfig{StoragePath: storagePath()}, quiet).Load()

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Stored devotionals:              %d\n", len(history))
	if len(history) > 0 {
		fmt.Printf("Newest:                          %s\n", history[0].Date)
		fmt.Printf("Oldest:                          %s\n", history[len(history)-1].Date)
	}
	return nil
}

// countGoLines counts non-blank lines in Go files under root, skipping
// _examples. If testOnly is true, only _test.go files are counted.
func countGoLines(root string, testOnly bool) (int, error) {
	total := 0
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), "_") || info.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		if strings.HasSuffix(path, "_test.go") != testOnly {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				total++
			}
		}
		return nil
	})
	return total, err
}
