// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index mirrors the devotional history into SQLite for keyword
// search. The JSON history stays the source of truth; the index is rebuilt
// from it on every Sync.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/devotional/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "devotionals.db"

	defaultLimit = 20
)

// Index is a SQLite database of devotional records.
type Index struct {
	db *sql.DB
}

// Hit is one search result.
type Hit struct {
	// Position is the record's index in the history (0 is newest).
	Position           int    `json:"position"`
	Date               string `json:"date"`
	ScriptureReference string `json:"scripture_reference"`
	Excerpt            string `json:"excerpt"`
}

// Path returns the database location under a storage directory.
func Path(storagePath string) string {
	return filepath.Join(storagePath, indexDir, dbFile)
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	idx := &Index{db: db}
	if err := idx.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return idx, nil
}

// Close releases the database connection.
func (i *Index) Close() error {
	return i.db.Close()
}

func (i *Index) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS devotionals (
			date TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			scraped_at TEXT,
			scripture TEXT,
			scripture_reference TEXT,
			content TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_devotionals_position ON devotionals(position)`,
	}
	for _, stmt := range statements {
		if _, err := i.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Sync replaces the indexed rows with c in one transaction.
func (i *Index) Sync(ctx context.Context, c types.Collection) error {
	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM devotionals`); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO devotionals (date, position, scraped_at, scripture, scripture_reference, content)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for pos, d := range c {
		_, err := stmt.ExecContext(ctx,
			d.Date, pos, d.ScrapedAt,
			types.StringOrEmpty(d.Scripture), types.StringOrEmpty(d.ScriptureReference),
			d.Content,
		)
		if err != nil {
			return fmt.Errorf("indexing %s: %w", d.Date, err)
		}
	}

	return tx.Commit()
}

// Count returns the number of indexed records.
func (i *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := i.db.QueryRowContext(ctx, `SELECT count(*) FROM devotionals`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// Search returns records whose content, scripture, or reference contains
// every word of query (case-insensitive for ASCII), newest first. A
// non-positive limit selects 20.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	words := strings.Fields(query)
	if len(words) == 0 {
		return nil, fmt.Errorf("empty search query")
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	var (
		clauses []string
		args    []any
	)
	for _, w := range words {
		pattern := "%" + escapeLike(w) + "%"
		clauses = append(clauses,
			`(content LIKE ? ESCAPE '\' OR scripture LIKE ? ESCAPE '\' OR scripture_reference LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	args = append(args, limit)

	q := `SELECT position, date, scripture_reference, content FROM devotionals WHERE ` +
		strings.Join(clauses, " AND ") +
		` ORDER BY position LIMIT ?`

	rows, err := i.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var (
			h       Hit
			content string
		)
		if err := rows.Scan(&h.Position, &h.Date, &h.ScriptureReference, &content); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		h.Excerpt = excerpt(content, words[0])
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// excerpt returns up to 80 characters of content around the first match of
// word, or the start of content when the word is not in it.
func excerpt(content, word string) string {
	const width = 80
	runes := []rune(content)
	start := 0
	if i := indexFold(runes, []rune(word)); i >= 0 {
		start = i - width/4
		if start < 0 {
			start = 0
		}
	}
	end := start + width
	if end > len(runes) {
		end = len(runes)
	}
	out := strings.ReplaceAll(string(runes[start:end]), "\n\n", " ")
	if start > 0 {
		out = "…" + out
	}
	if end < len(runes) {
		out += "…"
	}
	return out
}

// indexFold returns the rune index of the first case-insensitive match of
// needle in haystack, or -1. Runes are compared one to one, so the index is
// valid for haystack.
func indexFold(haystack, needle []rune) int {
	if len(needle) == 0 {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, r := range needle {
			if unicode.ToLower(haystack[i+j]) != unicode.ToLower(r) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
