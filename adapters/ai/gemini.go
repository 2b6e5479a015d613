package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/elum-utils/safetymonitor/models"
	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-1.5-flash"
	DefaultTimeout = 15 * time.Second
)

// Finish and block reasons the provider uses for its own safety refusals.
var safetyReasons = map[string]struct{}{
	"SAFETY":             {},
	"BLOCKLIST":          {},
	"PROHIBITED_CONTENT": {},
	"SPII":               {},
}

// GeminiAdapter calls the generateContent endpoint of the Generative Language API.
type GeminiAdapter struct {
	baseURL  string
	model    string
	client   *resty.Client
	endpoint string
}

// GeminiOptions configures the adapter.
type GeminiOptions struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewGeminiAdapter creates adapter instance.
func NewGeminiAdapter(opt GeminiOptions) (*GeminiAdapter, error) {
	if strings.TrimSpace(opt.APIKey) == "" {
		return nil, errors.New("ai: API key is required")
	}
	if strings.TrimSpace(opt.BaseURL) == "" {
		opt.BaseURL = DefaultBaseURL
	}
	if strings.TrimSpace(opt.Model) == "" {
		opt.Model = DefaultModel
	}
	if opt.Timeout <= 0 {
		opt.Timeout = DefaultTimeout
	}
	base := strings.TrimRight(opt.BaseURL, "/")
	return &GeminiAdapter{
		baseURL:  base,
		model:    opt.Model,
		endpoint: buildGenerateContentURL(base, opt.Model),
		client: resty.New().
			SetTimeout(opt.Timeout).
			SetQueryParam("key", opt.APIKey).
			SetHeader("Content-Type", "application/json"),
	}, nil
}

func (g *GeminiAdapter) Name() string { return "gemini" }

// Generate sends a single-turn prompt and returns the first candidate's text.
func (g *GeminiAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := buildPayload(prompt)
	if err != nil {
		return "", err
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(g.endpoint)
	if err != nil {
		return "", err
	}
	if resp.StatusCode() >= http.StatusMultipleChoices {
		return "", fmt.Errorf("ai: status %d: %s", resp.StatusCode(), resp.String())
	}
	return extractText(resp.Body())
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

func buildPayload(prompt string) ([]byte, error) {
	return json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
}

func extractText(body []byte) (string, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt %s", models.ErrSafetyBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("ai: candidates is empty")
	}
	first := resp.Candidates[0]
	if _, blocked := safetyReasons[first.FinishReason]; blocked {
		return "", fmt.Errorf("%w: response %s", models.ErrSafetyBlocked, first.FinishReason)
	}
	var b strings.Builder
	for _, p := range first.Content.Parts {
		b.WriteString(p.Text)
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", errors.New("ai: response content is empty")
	}
	return b.String(), nil
}

func buildGenerateContentURL(base, model string) string {
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimRight(base, "/") + "/models/" + url.PathEscape(model) + ":generateContent"
}
