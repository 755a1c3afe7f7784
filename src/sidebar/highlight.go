package sidebar

import (
	"iter"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	minNeedleRunes = 4
	maxNeedleRunes = 200

	// MarkClass tags the <mark> elements this package creates.
	MarkClass = "medshield-mark"
)

var skipTags = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Textarea: true,
	atom.Input:    true,
	atom.Iframe:   true,
	atom.Noscript: true,
	atom.Svg:      true,
}

// Highlight wraps every case-insensitive occurrence of needle in text under
// root with <mark class="medshield-mark">. It returns the number of marks added.
func Highlight(root *html.Node, needle string) int {
	trimmed := strings.TrimSpace(needle)
	if n := utf8.RuneCountInString(trimmed); n < minNeedleRunes || n >= maxNeedleRunes || root == nil {
		return 0
	}
	expr := regexp.MustCompile("(?i)" + regexp.QuoteMeta(trimmed))

	// Collect first: splitting a node while walking would revisit new siblings.
	nodes := slices.Collect(textNodes(root))

	marks := 0
	for _, node := range nodes {
		marks += splitAndMark(node, expr)
	}
	return marks
}

// textNodes yields non-blank text nodes that are eligible for marking.
func textNodes(root *html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		var walk func(n *html.Node) bool
		walk = func(n *html.Node) bool {
			if n.Type == html.ElementNode && excluded(n) {
				return true
			}
			if n.Type == html.TextNode {
				if strings.TrimSpace(n.Data) == "" {
					return true
				}
				return yield(n)
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if !walk(c) {
					return false
				}
			}
			return true
		}
		walk(root)
	}
}

func excluded(n *html.Node) bool {
	if skipTags[n.DataAtom] {
		return true
	}
	if attr(n, "id") == SidebarID {
		return true
	}
	return n.DataAtom == atom.Mark && hasClass(n, MarkClass)
}

func splitAndMark(node *html.Node, expr *regexp.Regexp) int {
	text := node.Data
	if !expr.MatchString(text) || node.Parent == nil {
		return 0
	}

	var frags []*html.Node
	last, pos, marks := 0, 0, 0
	for pos <= len(text) {
		loc := expr.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if start > last {
			frags = append(frags, &html.Node{Type: html.TextNode, Data: text[last:start]})
		}
		if end > start {
			mark := &html.Node{
				Type:     html.ElementNode,
				DataAtom: atom.Mark,
				Data:     "mark",
				Attr:     []html.Attribute{{Key: "class", Val: MarkClass}},
			}
			mark.AppendChild(&html.Node{Type: html.TextNode, Data: text[start:end]})
			frags = append(frags, mark)
			marks++
			last = end
			pos = end
			continue
		}
		// zero-width match: step over one rune
		if end >= len(text) {
			break
		}
		_, size := utf8.DecodeRuneInString(text[end:])
		pos = end + size
	}
	if last < len(text) {
		frags = append(frags, &html.Node{Type: html.TextNode, Data: text[last:]})
	}

	parent := node.Parent
	for _, f := range frags {
		parent.InsertBefore(f, node)
	}
	parent.RemoveChild(node)
	return marks
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	return slices.Contains(strings.Fields(attr(n, "class")), class)
}
