package webserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"

	"github.com/stake-plus/medshield/src/ai/core"
	"github.com/stake-plus/medshield/src/api/types"
	"github.com/stake-plus/medshield/src/cache"
	"github.com/stake-plus/medshield/src/claims"
	"github.com/stake-plus/medshield/src/logging"
	"github.com/stake-plus/medshield/src/webclient"
)

const rawExcerptLimit = 500

// Scans serves POST /scan.
type Scans struct {
	ai      core.Client
	store   cache.Store
	group   singleflight.Group
	metrics *Metrics
	logger  *slog.Logger
}

func NewScans(ai core.Client, store cache.Store, metrics *Metrics, logger *slog.Logger) *Scans {
	return &Scans{ai: ai, store: store, metrics: metrics, logger: logger}
}

// scanBody mirrors types.ScanRequest but keeps text raw so non-string values
// can be coerced.
type scanBody struct {
	Text json.RawMessage `json:"text"`
	URL  string          `json:"url"`
}

// text returns the scan text. Strings pass through, non-zero numbers and true
// become their literal, and null, false or zero read as empty. Objects and
// arrays are rejected.
func (b scanBody) text() (string, bool) {
	raw := bytes.TrimSpace(b.Text)
	if len(raw) == 0 {
		return "", true
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	case '{', '[':
		return "", false
	case 'n', 'f':
		return "", true
	case 't':
		return "true", true
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return "", false
	}
	if f == 0 {
		return "", true
	}
	return string(raw), true
}

type scanOutcome struct {
	records []claims.Record
	cached  bool
	warning string
}

func (h *Scans) Scan(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		if isTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{Error: types.ErrBodyTooLarge})
			return
		}
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: types.ErrInvalidJSON})
		return
	}

	var req scanBody
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &req); err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: types.ErrInvalidJSON})
			return
		}
	}
	reqText, ok := req.text()
	if !ok {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: types.ErrInvalidJSON})
		return
	}
	if reqText == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: types.ErrNoText})
		return
	}

	ctx := c.Request.Context()
	text := cache.NormalizeText(reqText)
	key := cache.Fingerprint(text, req.URL)

	if records, ok := h.lookup(ctx, key); ok {
		c.JSON(http.StatusOK, types.ScanResponse{Cached: true, Results: records})
		return
	}

	v, err, _ := h.group.Do(key, func() (interface{}, error) {
		return h.analyze(context.WithoutCancel(ctx), key, text, req.URL)
	})
	if err != nil {
		upstreamStatus := 0
		var se *webclient.StatusError
		if errors.As(err, &se) {
			upstreamStatus = se.Status
		}
		h.logger.Error("upstream failed",
			"upstream_status", upstreamStatus,
			"rate_limited", logging.IsRateLimit(err),
			"request_id", c.GetString("request_id"),
			"error", err,
		)
		c.JSON(http.StatusBadGateway, types.UpstreamErrorResponse{
			Error:  types.ErrUpstream,
			Status: http.StatusServiceUnavailable,
			Detail: err.Error(),
		})
		return
	}

	out := v.(scanOutcome)
	results := out.records
	if results == nil {
		results = []claims.Record{}
	}
	c.JSON(http.StatusOK, types.ScanResponse{Cached: out.cached, Results: results, Warning: out.warning})
}

func (h *Scans) lookup(ctx context.Context, key string) ([]claims.Record, bool) {
	records, ok, err := h.store.Get(ctx, key)
	if err != nil {
		h.logger.Warn("cache read failed", "error", err)
		return nil, false
	}
	return records, ok
}

// analyze runs once per key among concurrent misses.
func (h *Scans) analyze(ctx context.Context, key, text, pageURL string) (scanOutcome, error) {
	if records, ok := h.lookup(ctx, key); ok {
		return scanOutcome{records: records, cached: true}, nil
	}

	start := time.Now()
	reply, err := h.ai.Respond(ctx, claims.BuildPrompt(text, pageURL), core.Options{})
	if err != nil {
		h.metrics.upstreamCall("error", time.Since(start))
		return scanOutcome{}, err
	}
	h.metrics.upstreamCall("ok", time.Since(start))

	records, stage, err := claims.ExtractRecords(reply)
	h.metrics.extraction(stage.String())
	if err != nil {
		h.logger.Warn("could not extract results",
			"error", err,
			"raw", logging.Excerpt(reply, rawExcerptLimit),
		)
		return scanOutcome{records: []claims.Record{}, warning: types.WarningInvalidResults}, nil
	}

	if err := h.store.Set(ctx, key, records); err != nil {
		h.logger.Warn("cache write failed", "error", err)
	}
	h.logger.Debug("scan analyzed", "claims", len(records), "stage", stage.String())
	return scanOutcome{records: records}, nil
}
