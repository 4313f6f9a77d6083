package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/amishk599/careerpath/internal/model"
)

const defaultMaxTokens = 1024

// HTTPProvider calls a message-style text-generation endpoint.
type HTTPProvider struct {
	url        string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewHTTPProvider creates a provider that POSTs to url with a bearer token.
func NewHTTPProvider(url, apiKey, model string, httpClient *http.Client) *HTTPProvider {
	return &HTTPProvider{
		url:        url,
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}
}

// generateRequest is the request body the endpoint expects.
type generateRequest struct {
	Message     string  `json:"message"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// generateResponse covers both the success envelope and the 429 body.
type generateResponse struct {
	Response   string   `json:"response"`
	RetryAfter *float64 `json:"retryAfter,omitempty"`
}

// Complete sends one request and returns the reply text. It does not retry;
// wrap it with retry.RetryProvider for that.
func (p *HTTPProvider) Complete(ctx context.Context, c model.Completion) (string, error) {
	maxTokens := c.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	body, err := json.Marshal(generateRequest{
		Message:     c.Prompt,
		Model:       p.model,
		Temperature: min(max(c.Temperature, 0), 1),
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal llm request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create llm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read llm response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: retryAfterHint(respBytes, resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("llm rate limited"),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("llm returned: %s", truncate(string(respBytes), 200)),
		}
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBytes, &genResp); err != nil {
		return "", fmt.Errorf("parse llm response: %w", err)
	}
	if strings.TrimSpace(genResp.Response) == "" {
		return "", model.ErrEmptyResponse
	}
	return genResp.Response, nil
}

// retryAfterHint reads the wait hint from a 429 body ("retryAfter" seconds),
// falling back to the Retry-After header. Zero means no hint.
func retryAfterHint(body []byte, header string) time.Duration {
	var r generateResponse
	if err := json.Unmarshal(body, &r); err == nil && r.RetryAfter != nil && *r.RetryAfter > 0 {
		return time.Duration(*r.RetryAfter * float64(time.Second))
	}
	return model.ParseRetryAfter(header)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
