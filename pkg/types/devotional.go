// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the devotional pipeline:
// the extracted record, the persisted history, run errors, and stage
// configuration.
package types

// Devotional is one day's structured extract of the devotional page.
// Field order is the JSON key order of the persisted files.
type Devotional struct {
	// ScrapedAt is the RFC 3339 timestamp of extraction. Informational only.
	ScrapedAt string `json:"scraped_at" yaml:"scraped_at"`

	// Date is the human-readable date of the post (e.g. "March 15, 2024").
	// It is the unique key of the history.
	Date string `json:"date" yaml:"date"`

	// Title is a fixed display label.
	Title string `json:"title" yaml:"title"`

	// Scripture is the verse text, nil when the page has none.
	Scripture *string `json:"scripture" yaml:"scripture"`

	// ScriptureReference is the verse citation, nil when the page has none.
	ScriptureReference *string `json:"scripture_reference" yaml:"scripture_reference"`

	// Content is the commentary, paragraphs separated by a blank line.
	Content string `json:"content" yaml:"content"`

	// Author is a fixed attribution string.
	Author string `json:"author" yaml:"author"`
}

// Collection is the persisted history: newest first, unique by Date.
type Collection []Devotional

// Find returns the index of the first record with the given date, or -1.
func (c Collection) Find(date string) int {
	for i, d := range c {
		if d.Date == date {
			return i
		}
	}
	return -1
}

// StringOrEmpty dereferences an optional text field.
func StringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
