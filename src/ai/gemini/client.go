package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stake-plus/medshield/src/ai/core"
	"github.com/stake-plus/medshield/src/webclient"
)

const (
	DefaultBaseURL   = "https://generativelanguage.googleapis.com/v1beta"
	defaultMaxTokens = 8192
	maxResponseBytes = 4 << 20
)

func init() {
	core.RegisterProvider("gemini", newClient, "gemini25")
}

type client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	policy     webclient.Policy
	defaults   core.Options
	logger     *slog.Logger
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.GeminiKey == "" {
		return nil, fmt.Errorf("gemini: API key not configured")
	}
	return New(cfg), nil
}

// New builds a Gemini generateContent client without going through the registry.
func New(cfg core.FactoryConfig) core.Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}

	policy := webclient.DefaultPolicy()
	if cfg.Attempts > 0 {
		policy.Attempts = cfg.Attempts
	}
	if cfg.RetryDelay > 0 {
		policy.Delay = cfg.RetryDelay
	}
	policy.RetryClientErrors = cfg.RetryClientErrors

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &client{
		apiKey:     cfg.GeminiKey,
		baseURL:    base,
		httpClient: webclient.NewDefault(timeout),
		policy:     policy,
		defaults: core.Options{
			Model:               core.ResolveModelName(orString(cfg.Provider, "gemini"), cfg.Model),
			Temperature:         cfg.Temperature,
			MaxCompletionTokens: orInt(cfg.MaxCompletionTokens, defaultMaxTokens),
			SystemPrompt:        cfg.SystemPrompt,
		},
		logger: logger,
	}
}

func (c *client) Respond(ctx context.Context, input string, opts core.Options) (string, error) {
	merged := c.merge(opts)
	return c.send(ctx, merged.Model, c.buildRequestBody(merged, input))
}

func (c *client) buildRequestBody(opts core.Options, userText string) map[string]interface{} {
	content := map[string]interface{}{
		"role": "user",
		"parts": []map[string]string{
			{"text": userText},
		},
	}

	generation := map[string]interface{}{
		"maxOutputTokens": maxTokens(opts.MaxCompletionTokens),
	}
	if opts.Temperature != 0 {
		generation["temperature"] = opts.Temperature
	}

	body := map[string]interface{}{
		"contents":         []map[string]interface{}{content},
		"generationConfig": generation,
	}

	if strings.TrimSpace(opts.SystemPrompt) != "" {
		body["systemInstruction"] = map[string]interface{}{
			"parts": []map[string]string{
				{"text": opts.SystemPrompt},
			},
		}
	}

	return body
}

func (c *client) send(ctx context.Context, model string, payload map[string]interface{}) (string, error) {
	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, normalizeModel(model), url.QueryEscape(c.apiKey))
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("gemini: marshal request: %w", err)
	}

	policy := c.policy
	policy.OnRetry = func(attempt int, err error) {
		c.logger.Warn("gemini attempt failed, retrying", "attempt", attempt, "delay", policy.Delay, "error", err)
	}

	_, body, err := webclient.DoWithRetry(ctx, policy, func() (int, []byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return 0, nil, err
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return 0, nil, err
		}
		return resp.StatusCode, b, nil
	})
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	var result generateContentResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}
	return result.FirstText(), nil
}

func (c *client) merge(opts core.Options) core.Options {
	out := c.defaults
	if strings.TrimSpace(opts.Model) != "" {
		out.Model = opts.Model
	}
	if opts.Temperature != 0 {
		out.Temperature = opts.Temperature
	}
	if opts.MaxCompletionTokens != 0 {
		out.MaxCompletionTokens = opts.MaxCompletionTokens
	}
	if strings.TrimSpace(opts.SystemPrompt) != "" {
		out.SystemPrompt = opts.SystemPrompt
	}
	return out
}

func maxTokens(requested int) int {
	if requested <= 0 {
		return defaultMaxTokens
	}
	return requested
}

func normalizeModel(model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		model = core.DefaultModelForProvider("gemini")
	}
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// FirstText is the first candidate's first part; later candidates and parts are ignored.
func (r generateContentResponse) FirstText() string {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return r.Candidates[0].Content.Parts[0].Text
}

func orInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func orString(v, def string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return def
}
