// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns the raw HTML of the devotional page into a validated
// Devotional record. It is read-only: nothing is written and no state is
// kept between calls.
package extract

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/devotional/pkg/types"
)

// Class selectors of the four page regions. Only the commentary is required.
const (
	dateSelector       = "div.daily-devotional-date"
	scriptureSelector  = "div.daily-devotional-scripture"
	referenceSelector  = "div.daily-devotional-scripture-reference"
	commentarySelector = "div.daily-devotional-commentary"
)

// paragraphSeparator joins paragraphs in Content.
const paragraphSeparator = "\n\n"

// dateLayout renders the fallback date, e.g. "March 05, 2024".
const dateLayout = "January 02, 2006"

// Extractor parses devotional pages.
type Extractor struct {
	title     string
	author    string
	minLength int
	now       func() time.Time
}

// New returns an Extractor. Zero values in cfg fall back to the defaults.
func New(cfg types.ExtractConfig) *Extractor {
	e := &Extractor{
		title:     cfg.Title,
		author:    cfg.Author,
		minLength: cfg.MinContentLength,
		now:       cfg.Now,
	}
	if e.title == "" {
		e.title = types.DefaultTitle
	}
	if e.author == "" {
		e.author = types.DefaultAuthor
	}
	if e.minLength <= 0 {
		e.minLength = types.DefaultMinContentLength
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Extract locates the date, scripture, reference, and commentary regions,
// normalizes each field once, and validates the result. Failures carry
// KindContentTooShortOrMissing or KindDateMissing.
func (e *Extractor) Extract(rawHTML string) (*types.Devotional, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	now := e.now()
	d := &types.Devotional{
		ScrapedAt: now.Format(time.RFC3339),
		Title:     e.title,
		Author:    e.author,
	}

	if sel := doc.Find(dateSelector).First(); sel.Length() > 0 {
		d.Date = Normalize(joinedText(sel, ""))
	} else {
		d.Date = now.Format(dateLayout)
	}

	if sel := doc.Find(scriptureSelector).First(); sel.Length() > 0 {
		s := Normalize(joinedText(sel, ""))
		d.Scripture = &s
	}

	if sel := doc.Find(referenceSelector).First(); sel.Length() > 0 {
		s := Normalize(joinedText(sel, ""))
		d.ScriptureReference = &s
	}

	if sel := doc.Find(commentarySelector).First(); sel.Length() > 0 {
		d.Content = Normalize(commentary(sel))
	}

	if err := e.validate(d); err != nil {
		return nil, err
	}
	return d, nil
}

// commentary joins the text of each non-empty paragraph. A region without
// paragraphs falls back to all of its text, one block per text node.
func commentary(region *goquery.Selection) string {
	paragraphs := region.Find("p")
	if paragraphs.Length() == 0 {
		return joinedText(region, paragraphSeparator)
	}

	var parts []string
	paragraphs.Each(func(_ int, p *goquery.Selection) {
		if text := joinedText(p, " "); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, paragraphSeparator)
}

func (e *Extractor) validate(d *types.Devotional) error {
	if n := utf8.RuneCountInString(d.Content); n < e.minLength {
		return types.NewError(types.KindContentTooShortOrMissing,
			fmt.Sprintf("failed to extract devotional content: got %d characters, need at least %d", n, e.minLength), nil)
	}
	if d.Date == "" {
		return types.NewError(types.KindDateMissing, "failed to extract devotional date", nil)
	}
	return nil
}

// Validate checks an already extracted record against the content length
// rule. The run loop calls it again before persisting.
func (e *Extractor) Validate(d *types.Devotional) error {
	return e.validate(d)
}
