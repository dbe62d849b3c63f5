// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "Hello world", "Hello world"},
		{"trims", "  \n Hello \t ", "Hello"},
		{"collapses spaces", "a   b    c", "a b c"},
		{"keeps paragraph breaks", "one\n\ntwo", "one\n\ntwo"},
		{"non-breaking space", "a\u00a0b\u00a0\u00a0c", "a b c"},
		{"apostrophe cp1252", "Godâ€™s love", "God’s love"},
		{"apostrophe latin-1", "Godâ\u0080\u0099s love", "God’s love"},
		{"quotes", "â€œPeaceâ€\u009d", "“Peace”"},
		{"single open quote", "â€˜tisâ€™", "‘tis’"},
		{"em dash", "waitâ€”listen", "wait—listen"},
		{"en dash", "1â€“3", "1–3"},
		{"ellipsis wins over apostrophe", "andâ€¦", "and…"},
		{"latin-1 ellipsis", "andâ\u0080¦", "and…"},
		{"bare sequence", "donâ€t", "don’t"},
		{"mojibake nbsp", "aÂ\u00a0b", "a b"},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	var every []string
	for i := 0; i < len(mojibake); i += 2 {
		every = append(every, mojibake[i])
	}
	inputs := []string{
		strings.Join(every, ""),
		strings.Join(every, "  "),
		"â€â€¦â€™â€",
		"ââ€€™",
		"Â\u00a0\u00a0Â\u00a0 x",
		"  lead and trail \u00a0",
		"mixed\n\n  paragraphs  \n\n here",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestMojibakeTableOrdering(t *testing.T) {
	// Every pattern must precede any other pattern that is its prefix.
	for i := 0; i < len(mojibake); i += 2 {
		for j := i + 2; j < len(mojibake); j += 2 {
			assert.False(t, strings.HasPrefix(mojibake[j], mojibake[i]) && mojibake[i] != mojibake[j],
				"pattern %q listed before longer pattern %q", mojibake[i], mojibake[j])
		}
	}
}

func FuzzNormalizeIdempotent(f *testing.F) {
	for i := 0; i < len(mojibake); i += 2 {
		f.Add(mojibake[i])
	}
	f.Add("  Today we reflect â€¦ \u00a0 ")
	f.Fuzz(func(t *testing.T, s string) {
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", s, once, twice)
		}
	})
}
