package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/stake-plus/medshield/src/api/types"
	"github.com/stake-plus/medshield/src/claims"
)

// Message actions and types understood by the Dispatcher.
const (
	ActionShowResults = "showResults"
	ActionTriggerScan = "triggerScan"
	TypeScan          = "medshield:scan"
)

// Message is an extension runtime message. Content messages use Action;
// background messages use Type.
type Message struct {
	Action  string          `json:"action,omitempty"`
	Type    string          `json:"type,omitempty"`
	Results json.RawMessage `json:"results,omitempty"`
	Text    string          `json:"text,omitempty"`
	URL     string          `json:"url,omitempty"`
}

// Reply answers showResults and triggerScan.
type Reply struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

var errNotArray = errors.New("results is not an array")

// Dispatcher routes messages for one page.
type Dispatcher struct {
	scanner *Scanner
	poster  Poster
	doc     *goquery.Document
	pageURL string
}

func NewDispatcher(s *Scanner, poster Poster, doc *goquery.Document, pageURL string) *Dispatcher {
	return &Dispatcher{scanner: s, poster: poster, doc: doc, pageURL: pageURL}
}

// Handle returns the reply for msg and false when the message is not for us.
func (d *Dispatcher) Handle(ctx context.Context, msg Message) (any, bool) {
	if msg.Type == TypeScan {
		return d.poster.Post(ctx, types.ScanRequest{Text: msg.Text, URL: msg.URL}), true
	}

	switch msg.Action {
	case ActionShowResults:
		results, err := decodeResults(msg.Results)
		if err != nil {
			if errors.Is(err, errNotArray) {
				return nil, false
			}
			return Reply{Success: false, Error: err.Error()}, true
		}
		d.scanner.Show(d.doc, results)
		return Reply{Success: true}, true
	case ActionTriggerScan:
		d.scanner.Scan(ctx, d.doc, d.pageURL)
		return Reply{Success: true}, true
	default:
		return nil, false
	}
}

func decodeResults(raw json.RawMessage) ([]claims.Record, error) {
	if len(raw) == 0 || raw[0] != '[' {
		return nil, errNotArray
	}
	var out []claims.Record
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return out, nil
}
