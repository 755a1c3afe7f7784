// Package scanner is the consumer side of the relay: it gathers page text,
// posts it for analysis and renders the outcome with package sidebar.
package scanner

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/stake-plus/medshield/src/cache"
	"github.com/stake-plus/medshield/src/sidebar"
)

var hiddenTags = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Head:     true,
}

var blockTags = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Br: true, atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Figcaption: true, atom.Figure: true, atom.Footer: true, atom.Form: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true, atom.Nav: true,
	atom.Ol: true, atom.P: true, atom.Pre: true, atom.Section: true, atom.Table: true,
	atom.Tr: true, atom.Td: true, atom.Th: true, atom.Ul: true,
}

// PageText is the title, the meta description and the visible body text,
// one per line, cut to cache.MaxTextRunes characters.
func PageText(doc *goquery.Document) string {
	title := strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
	meta := doc.Find(`meta[name='description']`).First().AttrOr("content", "")

	var body strings.Builder
	if n := doc.Find("body").Get(0); n != nil {
		visibleText(n, &body)
	}

	return cache.NormalizeText(title + "\n" + meta + "\n" + tidyLines(body.String()))
}

func visibleText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(collapse(n.Data))
		return
	case html.ElementNode:
		if hiddenTags[n.DataAtom] {
			return
		}
		for _, a := range n.Attr {
			if a.Key == "hidden" || (a.Key == "id" && a.Val == sidebar.SidebarID) {
				return
			}
		}
	}

	block := n.Type == html.ElementNode && blockTags[n.DataAtom]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		visibleText(c, b)
	}
	if block {
		b.WriteByte('\n')
	}
}

// collapse folds runs of whitespace into a single space, keeping a leading or
// trailing space so adjacent inline text does not run together.
func collapse(s string) string {
	if s == "" {
		return ""
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return " "
	}
	out := strings.Join(fields, " ")
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r' || c == '\f'
}

func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
