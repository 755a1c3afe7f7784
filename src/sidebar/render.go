// Package sidebar renders scan results into a page and highlights
// misinformation claims in the page text.
package sidebar

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/stake-plus/medshield/src/claims"
)

const (
	// SidebarID is the id of the injected panel.
	SidebarID = "medshield-sidebar"

	styleMarker = "data-medshield"
	placeholder = "—"
	emptyNotice = "No health misinformation detected ✅"
	footerText  = "MedShield AI · Trusted sources: WHO / CDC / PubMed"
)

// Renderer builds the results panel. The zero value is not usable; call New.
type Renderer struct {
	policy *bluemonday.Policy
	dark   bool
	logger *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithDarkTheme adds the dark-theme class to <body> on every render.
func WithDarkTheme(dark bool) Option {
	return func(r *Renderer) { r.dark = dark }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) { r.logger = logger }
}

func New(opts ...Option) *Renderer {
	r := &Renderer{policy: bluemonday.StrictPolicy(), logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Show replaces any previous panel with one built from results and
// highlights misinformation claims in the page body. It returns the number
// of marks added to the page.
func (r *Renderer) Show(doc *goquery.Document, results []claims.Record) int {
	doc.Find("#" + SidebarID).Remove()
	r.injectStyle(doc)

	body := doc.Find("body").First()
	if r.dark && body.Length() > 0 {
		body.AddClass("dark-theme")
	}

	sidebar := element(atom.Div, "id", SidebarID)
	sidebar.AppendChild(r.header())

	content := element(atom.Div, "class", "ms-content")
	marks := 0
	if len(results) == 0 {
		card := element(atom.Div, "class", "ms-card")
		card.AppendChild(textElement(atom.P, emptyNotice))
		content.AppendChild(card)
	} else {
		content.AppendChild(summaryCard(results))
		content.AppendChild(controls(
			button("sign-in", "Sign in (Google)"),
			button("history", "History"),
			button("copy-all", "Copy all sources"),
		))
		for _, rec := range results {
			card, misinformation := r.claimCard(rec)
			content.AppendChild(card)
			if misinformation && body.Length() > 0 {
				marks += Highlight(body.Get(0), r.clean(rec.Claim))
			}
		}
	}
	sidebar.AppendChild(content)

	footer := element(atom.Div, "id", "medshield-footer")
	footer.AppendChild(textNode(footerText))
	sidebar.AppendChild(footer)

	root := doc.Find("html").First()
	if root.Length() == 0 {
		root = doc.Selection
	}
	root.Get(0).AppendChild(sidebar)

	r.logger.Debug("sidebar rendered", "claims", len(results), "marks", marks)
	return marks
}

func (r *Renderer) injectStyle(doc *goquery.Document) {
	if doc.Find("style["+styleMarker+"]").Length() > 0 {
		return
	}
	style := element(atom.Style, styleMarker, "1")
	style.AppendChild(textNode(Stylesheet))

	target := doc.Find("head").First()
	if target.Length() == 0 {
		target = doc.Find("html").First()
	}
	if target.Length() > 0 {
		target.Get(0).AppendChild(style)
	}
}

func (r *Renderer) header() *html.Node {
	header := element(atom.Div, "class", "ms-header")
	title := element(atom.Div, "class", "ms-header-title")
	icon := element(atom.Span, "class", "ms-icon")
	icon.AppendChild(textNode("🛡️"))
	title.AppendChild(icon)
	title.AppendChild(textNode(" MedShield AI"))
	header.AppendChild(title)

	closeBtn := element(atom.Button, "class", "ms-close-btn", "data-action", "close")
	closeBtn.AppendChild(textNode("✕"))
	header.AppendChild(closeBtn)
	return header
}

func summaryCard(results []claims.Record) *html.Node {
	severe := claims.CountSevere(results)

	card := element(atom.Div, "class", "ms-card")
	card.AppendChild(textElement(atom.H3, "Analysis Summary"))

	p := element(atom.P)
	strong := textElement(atom.Strong, "Detected:")
	p.AppendChild(strong)
	p.AppendChild(textNode(fmt.Sprintf(" %d claims, ", len(results))))
	count := element(atom.Span, "class", "ms-verdict misinformation")
	count.AppendChild(textNode(fmt.Sprintf("%d high/critical", severe)))
	p.AppendChild(count)
	card.AppendChild(p)

	level := "low"
	if severe > 0 {
		level = "high"
	}
	card.AppendChild(dangerMeter(level))
	return card
}

func (r *Renderer) claimCard(rec claims.Record) (*html.Node, bool) {
	card := element(atom.Div, "class", "ms-card")

	claim := r.clean(rec.Claim)
	if claim == "" {
		claim = placeholder
	}
	card.AppendChild(textElement(atom.H3, "Claim"))
	card.AppendChild(textElement(atom.P, claim))

	class := claims.Classify(rec.Verdict)
	verdict := r.clean(string(rec.Verdict))
	if verdict == "" {
		verdict = placeholder
	}
	card.AppendChild(textElement(atom.Div, verdict, "class", "ms-verdict "+string(class)))

	if expl := r.clean(rec.Explanation); expl != "" {
		card.AppendChild(textElement(atom.H3, "Why"))
		card.AppendChild(textElement(atom.P, expl))
	}

	if danger := r.clean(string(rec.Danger)); danger != "" {
		card.AppendChild(textElement(atom.H3, "Danger Level"))
		card.AppendChild(textElement(atom.P, danger))
		card.AppendChild(dangerMeter(claims.Level(rec.Danger)))
	}

	if links := safeLinks(rec.Sources); len(links) > 0 {
		card.AppendChild(textElement(atom.H3, "Sources"))
		for _, href := range links {
			a := element(atom.A,
				"href", href,
				"class", "ms-source-link",
				"target", "_blank",
				"rel", "noopener noreferrer",
			)
			a.AppendChild(textNode(href))
			card.AppendChild(a)
		}
	}

	card.AppendChild(controls(
		button("copy", "Copy sources"),
		button("share", "Share"),
		button("report", "Reverify / Report"),
	))
	return card, class == claims.ClassMisinformation
}

// clean strips markup from model text and returns plain text.
func (r *Renderer) clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(r.policy.Sanitize(s)))
}

// safeLinks keeps absolute http and https URLs.
func safeLinks(sources []string) []string {
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		u, err := url.Parse(strings.TrimSpace(s))
		if err != nil || u.Host == "" {
			continue
		}
		if u.Scheme == "http" || u.Scheme == "https" {
			out = append(out, u.String())
		}
	}
	return out
}

func dangerMeter(level string) *html.Node {
	meter := element(atom.Div, "class", "ms-danger-meter")
	meter.AppendChild(element(atom.Div, "class", "ms-danger-level "+level))
	return meter
}

func controls(buttons ...*html.Node) *html.Node {
	wrap := element(atom.Div, "class", "ms-controls")
	for _, b := range buttons {
		wrap.AppendChild(b)
	}
	return wrap
}

func button(action, label string) *html.Node {
	return textElement(atom.Button, label, "data-action", action)
}

// element builds a node from alternating attribute keys and values.
func element(a atom.Atom, kv ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return n
}

func textElement(a atom.Atom, text string, kv ...string) *html.Node {
	n := element(a, kv...)
	n.AppendChild(textNode(text))
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
