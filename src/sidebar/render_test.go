package sidebar

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stake-plus/medshield/src/claims"
	"github.com/stake-plus/medshield/src/logging"
)

const page = `<html><head><title>Wellness</title></head><body><h1>Tips</h1><p>Some say vitamin C cures cancer. Exercise improves mood.</p></body></html>`

func results() []claims.Record {
	return []claims.Record{
		{
			Claim:       "vitamin C cures cancer",
			Verdict:     claims.VerdictMisinformation,
			Explanation: "No clinical evidence.",
			Danger:      claims.DangerCritical,
			Sources:     []string{"https://www.cancer.gov/about-cancer", "javascript:alert(1)", "https://pubmed.ncbi.nlm.nih.gov/1"},
		},
		{
			Claim:   "Exercise improves mood",
			Verdict: "Mostly accurate",
			Danger:  "low ",
			Sources: []string{"https://www.nih.gov"},
		},
		{
			Claim:   "Magnets fix arthritis",
			Verdict: "UNCLEAR",
			Danger:  "Weird",
		},
	}
}

func TestShowRendersCardsAndHighlights(t *testing.T) {
	doc := parse(t, page)
	r := New(WithLogger(logging.Discard()))

	marks := r.Show(doc, results())

	assert.Equal(t, 1, marks)
	assert.Equal(t, "vitamin C cures cancer", doc.Find("body p mark").Text())

	panel := doc.Find("#" + SidebarID)
	require.Equal(t, 1, panel.Length())
	assert.Contains(t, panel.Find(".ms-card").First().Text(), "Detected: 3 claims, 1 high/critical")
	assert.True(t, panel.Find(".ms-card").First().Find(".ms-danger-level").HasClass("high"))

	verdicts := panel.Find(".ms-verdict").Slice(1, 4)
	assert.True(t, verdicts.Eq(0).HasClass("misinformation"))
	assert.True(t, verdicts.Eq(1).HasClass("true"))
	assert.True(t, verdicts.Eq(2).HasClass("unclear"))

	levels := panel.Find(".ms-danger-level")
	assert.True(t, levels.Eq(1).HasClass("critical"))
	assert.True(t, levels.Eq(2).HasClass("low"))
	assert.True(t, levels.Eq(3).HasClass("low"), "unknown danger falls back to low")

	links := panel.Find("a.ms-source-link")
	require.Equal(t, 3, links.Length())
	links.Each(func(_ int, a *goquery.Selection) {
		assert.Equal(t, "_blank", a.AttrOr("target", ""))
		assert.Equal(t, "noopener noreferrer", a.AttrOr("rel", ""))
		assert.NotContains(t, a.AttrOr("href", ""), "javascript")
	})

	assert.Equal(t, 3, panel.Find(`.ms-controls button[data-action="report"]`).Length())
	assert.Equal(t, 1, panel.Find(`button[data-action="copy-all"]`).Length())
	assert.Equal(t, 1, panel.Find("#medshield-footer").Length())
}

func TestShowEmptyResults(t *testing.T) {
	doc := parse(t, page)
	marks := New().Show(doc, nil)

	assert.Equal(t, 0, marks)
	cards := doc.Find("#" + SidebarID + " .ms-card")
	require.Equal(t, 1, cards.Length())
	assert.Equal(t, "No health misinformation detected ✅", cards.Text())
	assert.Equal(t, 0, doc.Find("mark").Length())
}

func TestShowReplacesPanelAndInjectsStyleOnce(t *testing.T) {
	doc := parse(t, page)
	r := New()

	r.Show(doc, results())
	r.Show(doc, nil)

	assert.Equal(t, 1, doc.Find("#"+SidebarID).Length())
	assert.Equal(t, 1, doc.Find(`style[data-medshield="1"]`).Length())
	assert.Equal(t, 1, doc.Find("mark").Length(), "highlights survive and are not doubled")
}

func TestShowSanitizesModelText(t *testing.T) {
	doc := parse(t, page)
	recs := []claims.Record{{
		Claim:       `<img src=x onerror=alert(1)>Detox <b>water</b> cures flu`,
		Verdict:     "FALSE",
		Explanation: `<script>steal()</script>Not supported & risky.`,
		Danger:      "Moderate",
	}}

	New().Show(doc, recs)

	panel := doc.Find("#" + SidebarID)
	assert.Equal(t, 0, panel.Find("img").Length())
	assert.Equal(t, 0, panel.Find("script").Length())
	assert.Equal(t, 0, panel.Find("b").Length())
	assert.Contains(t, panel.Text(), "Detox water cures flu")
	assert.Contains(t, panel.Text(), "Not supported & risky.")
	assert.True(t, panel.Find(".ms-verdict").Last().HasClass("misinformation"))
}

func TestShowDarkTheme(t *testing.T) {
	doc := parse(t, page)
	New(WithDarkTheme(true)).Show(doc, nil)
	assert.True(t, doc.Find("body").HasClass("dark-theme"))
}

func TestSafeLinks(t *testing.T) {
	got := safeLinks([]string{"https://who.int", "ftp://x.org/a", "/relative", " http://cdc.gov ", "data:text/html,hi"})
	assert.Equal(t, []string{"https://who.int", "http://cdc.gov"}, got)
}
