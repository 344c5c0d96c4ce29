// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm abstracts the Generative AI API behind a small completion
// interface so every pipeline stage can be tested with a mock.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mohanganesh3/fitplanner/internal/httputil"
	"github.com/mohanganesh3/fitplanner/pkg/types"
)

// Completer produces one completion for an instruction and a user prompt.
// Temperature is in [0,1]; lower values give more deterministic output.
type Completer interface {
	Complete(ctx context.Context, instruction, prompt string, temperature float64) (string, error)
}

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// ClaudeClient calls the Claude Messages API.
type ClaudeClient struct {
	APIKey     string
	Model      string
	MaxRetries int
	Client     *http.Client
}

// NewClaudeClient builds a client from shared AI settings.
func NewClaudeClient(cfg types.AIConfig) *ClaudeClient {
	client := &http.Client{}
	if cfg.Timeout > 0 {
		client.Timeout = cfg.Timeout
	}
	return &ClaudeClient{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		MaxRetries: cfg.MaxRetries,
		Client:     client,
	}
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	System      string          `json:"system,omitempty"`
	Temperature float64         `json:"temperature"`
	Messages    []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Complete sends one user message with a system instruction and returns
// the concatenated text blocks of the reply.
func (c *ClaudeClient) Complete(ctx context.Context, instruction, prompt string, temperature float64) (string, error) {
	reqBody := claudeRequest{
		Model:       c.Model,
		MaxTokens:   4096,
		System:      instruction,
		Temperature: temperature,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	var buf bytes.Buffer
	for _, block := range cResp.Content {
		if block.Type == "text" {
			buf.WriteString(block.Text)
		}
	}
	if buf.Len() == 0 {
		return "", fmt.Errorf("Claude API returned no text content")
	}

	return buf.String(), nil
}
