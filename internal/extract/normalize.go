// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
)

// mojibake lists UTF-8 punctuation that was decoded as Windows-1252 or
// Latin-1, paired with the intended character. A sequence must come
// before any shorter sequence that is its prefix: strings.Replacer tries
// patterns in argument order at each position, so the bare "â€" entry is
// only reached when nothing longer matches.
//
// The bare "â€" is what remains when the third byte of a quote was dropped.
// It is ambiguous between ’ and “; we map it to ’ since apostrophes are far
// more frequent in the commentary text.
var mojibake = []string{
	// Windows-1252 decoding.
	"â€¦", "…",
	"â€”", "—",
	"â€“", "–",
	"â€œ", "“",
	"â€\u009d", "”",
	"â€˜", "‘",
	"â€™", "’",
	// Latin-1 decoding keeps the C1 control code points.
	"â\u0080¦", "…",
	"â\u0080\u0094", "—",
	"â\u0080\u0093", "–",
	"â\u0080\u009c", "“",
	"â\u0080\u009d", "”",
	"â\u0080\u0098", "‘",
	"â\u0080\u0099", "’",
	"Â\u00a0", " ",
	"â€", "’",
}

var (
	mojibakeReplacer = strings.NewReplacer(mojibake...)
	nbspReplacer     = strings.NewReplacer("\u00a0", " ")
	multiSpace       = regexp.MustCompile(` {2,}`)
)

// Normalize repairs mojibake punctuation, turns non-breaking spaces into
// spaces, collapses runs of spaces, and trims the result. Newlines are kept
// so paragraph separators survive. Normalize(Normalize(s)) == Normalize(s):
// no replacement produces text that any pattern matches.
func Normalize(s string) string {
	s = mojibakeReplacer.Replace(s)
	s = nbspReplacer.Replace(s)
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
