package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/stake-plus/medshield/src/api/types"
	"github.com/stake-plus/medshield/src/claims"
	"github.com/stake-plus/medshield/src/webclient"
)

const (
	DefaultEndpoint = "http://localhost:5000/scan"
	DefaultTimeout  = 15 * time.Second

	maxReplyBytes = 4 << 20
)

// Result is what the relay answered. Post never fails; transport problems
// show up as OK=false, Status=0 and an error message in Data.
type Result struct {
	OK     bool            `json:"ok"`
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// Response decodes Data as a scan response. A non-array results field
// decodes as no results.
func (r Result) Response() types.ScanResponse {
	var probe struct {
		Cached  bool            `json:"cached"`
		Results json.RawMessage `json:"results"`
		Warning string          `json:"warning"`
	}
	if err := json.Unmarshal(r.Data, &probe); err != nil {
		return types.ScanResponse{Results: []claims.Record{}}
	}

	out := types.ScanResponse{Cached: probe.Cached, Warning: probe.Warning, Results: []claims.Record{}}
	raw := bytes.TrimSpace(probe.Results)
	if len(raw) > 0 && raw[0] == '[' {
		var recs []claims.Record
		if err := json.Unmarshal(raw, &recs); err == nil && recs != nil {
			out.Results = recs
		}
	}
	return out
}

// Client posts page text to the relay.
type Client struct {
	endpoint string
	timeout  time.Duration
	http     *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{endpoint: endpoint, timeout: timeout, http: webclient.NewDefault(timeout)}
}

func (c *Client) Post(ctx context.Context, req types.ScanRequest) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(req)
	if err != nil {
		return failure(err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return failure(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return failure(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil || !json.Valid(body) {
		body = []byte("{}")
	}
	return Result{
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status: resp.StatusCode,
		Data:   body,
	}
}

func failure(err error) Result {
	data, _ := json.Marshal(types.ErrorResponse{Error: err.Error()})
	return Result{OK: false, Status: 0, Data: data}
}
