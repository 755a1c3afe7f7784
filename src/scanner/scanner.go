package scanner

import (
	"context"
	"log/slog"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/stake-plus/medshield/src/api/types"
	"github.com/stake-plus/medshield/src/claims"
	"github.com/stake-plus/medshield/src/logging"
	"github.com/stake-plus/medshield/src/sidebar"
)

// Poster sends a scan request to the relay.
type Poster interface {
	Post(ctx context.Context, req types.ScanRequest) Result
}

// Scanner analyzes one document at a time and renders the panel into it.
type Scanner struct {
	mu       sync.Mutex
	poster   Poster
	renderer *sidebar.Renderer
	logger   *slog.Logger
}

func New(poster Poster, renderer *sidebar.Renderer, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Scanner{poster: poster, renderer: renderer, logger: logger}
}

// Scan posts the page text and renders whatever comes back. Any failure
// renders the empty panel; the returned records are what was rendered.
func (s *Scanner) Scan(ctx context.Context, doc *goquery.Document, pageURL string) []claims.Record {
	res := s.poster.Post(ctx, types.ScanRequest{Text: PageText(doc), URL: pageURL})

	results := []claims.Record{}
	if res.OK {
		resp := res.Response()
		results = resp.Results
		if resp.Warning != "" {
			s.logger.Warn("relay returned a warning", "warning", resp.Warning)
		}
	} else {
		s.logger.Error("scan request failed", "status", res.Status, "data", logging.Excerpt(string(res.Data), 300))
	}

	s.Show(doc, results)
	return results
}

// Show renders results into doc.
func (s *Scanner) Show(doc *goquery.Document, results []claims.Record) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderer.Show(doc, results)
}
