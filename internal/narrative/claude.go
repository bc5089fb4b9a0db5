package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hollowaylabs/sonar/internal/logging"
)

// Compile-time interface satisfaction check
var _ Provider = (*ClaudeProvider)(nil)

const defaultClaudeEndpoint = "https://api.anthropic.com/v1/messages"

// ClaudeProvider implements the Provider interface for Anthropic's Claude
type ClaudeProvider struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewClaudeProvider creates a new Claude provider
func NewClaudeProvider(apiKey, model string) *ClaudeProvider {
	if model == "" {
		model = "claude-sonnet-4-5-20250929"
	}
	return &ClaudeProvider{
		apiKey:   apiKey,
		model:    model,
		endpoint: defaultClaudeEndpoint,
		client: &http.Client{
			Timeout: 120 * time.Second, // Generous timeout for long analysis responses
		},
	}
}

func (c *ClaudeProvider) Name() string {
	return "claude"
}

func (c *ClaudeProvider) Available() bool {
	return c.apiKey != ""
}

func (c *ClaudeProvider) Generate(ctx context.Context, req Request) (Response, error) {
	if !c.Available() {
		logging.Warn("Claude provider not configured")
		return Response{}, fmt.Errorf("claude provider not configured")
	}

	logging.Debug("Claude API request starting", "model", c.model)

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2048 // Reasonable default for analysis tasks
	}

	body := map[string]interface{}{
		"model":      c.model,
		"max_tokens": maxTokens,
		"messages": []map[string]string{
			{"role": "user", "content": req.UserPrompt},
		},
	}
	if req.SystemPrompt != "" {
		body["system"] = req.SystemPrompt
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return Response{}, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logging.Error("Claude API error", "status", resp.StatusCode, "body", string(respBody))
		return Response{}, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text,omitempty"`
		} `json:"content"`
		Model      string `json:"model"`
		StopReason string `json:"stop_reason"`
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		return Response{}, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.StopReason == "max_tokens" {
		logging.Warn("Claude response truncated due to max tokens",
			"model", result.Model,
			"max_tokens", maxTokens)
	}

	// Join all text blocks into the main content
	var textParts []string
	for _, block := range result.Content {
		if block.Type == "text" && block.Text != "" {
			textParts = append(textParts, block.Text)
		}
	}
	content := strings.Join(textParts, "\n\n")

	logging.Debug("Claude API response parsed",
		"stop_reason", result.StopReason,
		"content_blocks", len(result.Content),
		"content_length", len(content),
		"model", result.Model)

	return Response{
		Content:     content,
		Model:       result.Model,
		RawResponse: string(respBody),
	}, nil
}
