package claims

import "strings"

// Verdict is the model's classification of a claim. It is kept as free text;
// the constants are the values the prompt asks for.
type Verdict string

const (
	VerdictMisinformation Verdict = "MISINFORMATION"
	VerdictTrue           Verdict = "TRUE"
	VerdictUnclear        Verdict = "UNCLEAR"
)

// Danger is the severity of acting on a claim.
type Danger string

const (
	DangerLow      Danger = "Low"
	DangerModerate Danger = "Moderate"
	DangerHigh     Danger = "High"
	DangerCritical Danger = "Critical"
)

// Record is one classified health claim.
type Record struct {
	Claim       string   `json:"claim"`
	Verdict     Verdict  `json:"verdict"`
	Explanation string   `json:"explanation,omitempty"`
	Danger      Danger   `json:"danger"`
	Sources     []string `json:"sources"`
}

func (r Record) valid() bool {
	return strings.TrimSpace(r.Claim) != "" &&
		strings.TrimSpace(string(r.Verdict)) != "" &&
		strings.TrimSpace(string(r.Danger)) != ""
}
