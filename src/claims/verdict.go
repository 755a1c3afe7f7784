package claims

import "strings"

// VerdictClass is the display bucket for a verdict.
type VerdictClass string

const (
	ClassMisinformation VerdictClass = "misinformation"
	ClassTrue           VerdictClass = "true"
	ClassUnclear        VerdictClass = "unclear"
)

// Classify buckets a free-text verdict. Matching is a case-insensitive substring
// check because the model does not always echo the requested enum verbatim
// ("Misinformation (partially)", "False", "Mostly accurate").
func Classify(v Verdict) VerdictClass {
	raw := strings.ToLower(string(v))
	switch {
	case strings.Contains(raw, "misinformation") || strings.Contains(raw, "false"):
		return ClassMisinformation
	case strings.Contains(raw, "true") || strings.Contains(raw, "accurate"):
		return ClassTrue
	default:
		return ClassUnclear
	}
}

// IsMisinformation reports whether the claim should be highlighted in the page.
func IsMisinformation(v Verdict) bool {
	return Classify(v) == ClassMisinformation
}

// Level normalizes a danger string to one of low, moderate, high, critical.
// Unknown values map to low.
func Level(d Danger) string {
	switch lvl := strings.ToLower(strings.TrimSpace(string(d))); lvl {
	case "low", "moderate", "high", "critical":
		return lvl
	default:
		return "low"
	}
}

// IsSevere is true for High and Critical danger.
func IsSevere(d Danger) bool {
	lvl := strings.ToLower(strings.TrimSpace(string(d)))
	return lvl == "high" || lvl == "critical"
}

// CountSevere counts High/Critical records.
func CountSevere(records []Record) int {
	n := 0
	for _, r := range records {
		if IsSevere(r.Danger) {
			n++
		}
	}
	return n
}
