package claims

import (
	"fmt"
	"strings"
)

// Topics the classifier is restricted to.
var Topics = []string{
	"Medicine",
	"Health & wellness",
	"Fitness",
	"Mental health",
	"Psychology",
	"Veterinary health",
	"Pharmaceuticals",
	"Human anatomy & physiology",
}

const promptTemplate = `You are a strict medical fact-checker AI.

FOCUS ONLY on:
%s

INSTRUCTIONS:
1. Identify ALL specific health-related claims from the text.
2. For each claim, classify VERDICT as:
   - MISINFORMATION → Factually incorrect or misleading.
   - TRUE → Supported by reputable medical consensus.
   - UNCLEAR → Insufficient evidence or mixed results.
3. Assign DANGER LEVEL:
   - Low → Harmless or irrelevant to health.
   - Moderate → Could cause minor harm or delay treatment.
   - High → Could cause serious harm, permanent injury, or major health risks.
   - Critical → Could cause death or life-threatening consequences.
4. Include EXPLANATION for MISINFORMATION or UNCLEAR claims.
5. Always provide at least 2 reputable SOURCES (WHO, CDC, PubMed, NIH, Mayo Clinic, etc.) for your classification.

Return JSON ONLY in this format:
{
  "results": [
    {
      "claim": "<claim>",
      "verdict": "MISINFORMATION|TRUE|UNCLEAR",
      "explanation": "<required if MISINFORMATION or UNCLEAR>",
      "danger": "Low|Moderate|High|Critical",
      "sources": ["https://...", "https://..."]
    }
  ]
}

TEXT TO ANALYZE:
"""%s"""
(Page URL: %s)
`

// BuildPrompt renders the classification instruction for normalized page text.
func BuildPrompt(text, pageURL string) string {
	topics := make([]string, len(Topics))
	for i, t := range Topics {
		topics[i] = "- " + t
	}
	if strings.TrimSpace(pageURL) == "" {
		pageURL = "unknown"
	}
	return fmt.Sprintf(promptTemplate, strings.Join(topics, "\n"), text, pageURL)
}
