package claims

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrNoJSON means none of the extraction stages found parseable JSON.
	ErrNoJSON = errors.New("claims: no JSON found in model output")
	// ErrNoResults means JSON was found but "results" is missing or not an array.
	ErrNoResults = errors.New("claims: results is not an array")
)

// Stage identifies which step of the extraction ladder produced the envelope.
type Stage int

const (
	StageNone Stage = iota
	StageDirect
	StageFence
	StageObject
	StageArray
)

func (s Stage) String() string {
	switch s {
	case StageDirect:
		return "direct"
	case StageFence:
		return "fence"
	case StageObject:
		return "object"
	case StageArray:
		return "array"
	default:
		return "none"
	}
}

var (
	fenceExpr  = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)```")
	objectExpr = regexp.MustCompile(`(?s)\{.*\}`)
	arrayExpr  = regexp.MustCompile(`(?s)\[.*\]`)
)

// Envelope is the top-level object the model is asked to return.
type Envelope struct {
	Results json.RawMessage `json:"results"`
}

// Records decodes the results array, dropping entries that lack a claim,
// verdict or danger.
func (e Envelope) Records() ([]Record, error) {
	raw := bytes.TrimSpace(e.Results)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, ErrNoResults
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoResults, err)
	}

	out := make([]Record, 0, len(items))
	for _, item := range items {
		var r Record
		if err := json.Unmarshal(item, &r); err != nil {
			continue
		}
		if !r.valid() {
			continue
		}
		if r.Sources == nil {
			r.Sources = []string{}
		}
		out = append(out, r)
	}
	return out, nil
}

type stage struct {
	id  Stage
	run func(string) (Envelope, bool)
}

var ladder = []stage{
	{StageDirect, parseValue},
	{StageFence, func(text string) (Envelope, bool) {
		m := fenceExpr.FindStringSubmatch(text)
		if m == nil || m[1] == "" {
			return Envelope{}, false
		}
		return parseValue(m[1])
	}},
	{StageObject, func(text string) (Envelope, bool) {
		span := objectExpr.FindString(text)
		if span == "" {
			return Envelope{}, false
		}
		return parseObject(span)
	}},
	{StageArray, func(text string) (Envelope, bool) {
		span := arrayExpr.FindString(text)
		if span == "" || !json.Valid([]byte(span)) {
			return Envelope{}, false
		}
		return Envelope{Results: json.RawMessage(span)}, true
	}},
}

// Extract recovers the JSON envelope from free-form model output. Stages run in
// order and the first one that parses wins: the whole text, a fenced code block,
// the widest {...} span, then the widest [...] span wrapped as results. The
// first two stages take any valid JSON value; a top-level array there is not
// unwrapped.
func Extract(text string) (Envelope, Stage, error) {
	if text == "" {
		return Envelope{}, StageNone, ErrNoJSON
	}
	for _, s := range ladder {
		if env, ok := s.run(text); ok {
			return env, s.id, nil
		}
	}
	return Envelope{}, StageNone, ErrNoJSON
}

// ExtractRecords is Extract followed by Envelope.Records.
func ExtractRecords(text string) ([]Record, Stage, error) {
	env, st, err := Extract(text)
	if err != nil {
		return nil, st, err
	}
	records, err := env.Records()
	if err != nil {
		return nil, st, err
	}
	return records, st, nil
}

// parseValue accepts any JSON value. Only an object can carry results, so
// anything else yields an empty envelope and Records reports ErrNoResults.
func parseValue(text string) (Envelope, bool) {
	trimmed := bytes.TrimSpace([]byte(text))
	if !json.Valid(trimmed) {
		return Envelope{}, false
	}
	if trimmed[0] != '{' {
		return Envelope{}, true
	}
	var env Envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Envelope{}, false
	}
	return env, true
}

func parseObject(text string) (Envelope, bool) {
	trimmed := bytes.TrimSpace([]byte(text))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Envelope{}, false
	}
	var env Envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Envelope{}, false
	}
	return env, true
}
