package claims

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	p := BuildPrompt("Drinking bleach cures covid", "https://example.com/a")
	assert.Contains(t, p, `"""Drinking bleach cures covid"""`)
	assert.Contains(t, p, "(Page URL: https://example.com/a)")
	assert.Contains(t, p, "- Veterinary health")
	assert.Contains(t, p, "at least 2 reputable SOURCES")
	for _, v := range []string{"MISINFORMATION", "TRUE", "UNCLEAR", "Low", "Moderate", "High", "Critical"} {
		assert.True(t, strings.Contains(p, v), v)
	}

	assert.Contains(t, BuildPrompt("x", "  "), "(Page URL: unknown)")
}
