// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// strippedStrings returns the whitespace-trimmed, non-empty text nodes under
// the selection in document order. Script and style bodies are skipped.
func strippedStrings(sel *goquery.Selection) []string {
	var out []string
	for _, n := range sel.Nodes {
		collectText(n, &out)
	}
	return out
}

func collectText(n *html.Node, out *[]string) {
	switch n.Type {
	case html.TextNode:
		if s := strings.TrimSpace(n.Data); s != "" {
			*out = append(*out, s)
		}
		return
	case html.ElementNode:
		if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
			return
		}
	case html.CommentNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, out)
	}
}

// joinedText joins the stripped strings under sel with sep.
func joinedText(sel *goquery.Selection, sep string) string {
	return strings.Join(strippedStrings(sel), sep)
}
