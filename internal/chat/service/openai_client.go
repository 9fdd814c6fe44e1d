// Package service provides the language model client and the prompt building used by chat.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gegcuk/kidsgpt-backend/internal/chat/domain"
)

// OpenAIConfig holds the provider settings.
type OpenAIConfig struct {
	APIKey          string
	BaseURL         string
	ChatModel       string
	ModerationModel string
	Timeout         time.Duration
}

// ProviderError is a non-200 answer from the provider.
type ProviderError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("openai: %d %s: %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("openai: %d: %s", e.StatusCode, e.Message)
}

// OpenAIClient talks to an OpenAI-compatible API: /v1/moderations and /v1/chat/completions.
type OpenAIClient struct {
	httpClient *http.Client
	config     OpenAIConfig
}

// NewOpenAIClient creates a client. A nil httpClient gets a default client bounded by
// config.Timeout.
func NewOpenAIClient(config OpenAIConfig, httpClient *http.Client) *OpenAIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	return &OpenAIClient{
		httpClient: httpClient,
		config:     config,
	}
}

// Model returns the configured chat model.
func (c *OpenAIClient) Model() string {
	return c.config.ChatModel
}

type moderationRequest struct {
	Model string `json:"model,omitempty"`
	Input string `json:"input"`
}

type moderationResponse struct {
	Results []struct {
		Flagged    bool            `json:"flagged"`
		Categories map[string]bool `json:"categories"`
	} `json:"results"`
}

// Moderate classifies text. The result is flagged when any returned result is flagged;
// Categories lists the flagged category names in sorted order.
func (c *OpenAIClient) Moderate(ctx context.Context, text string) (*domain.ModerationResult, error) {
	var wire moderationResponse
	err := c.post(ctx, "/v1/moderations", moderationRequest{
		Model: c.config.ModerationModel,
		Input: text,
	}, &wire)
	if err != nil {
		return nil, err
	}

	result := &domain.ModerationResult{}
	for _, r := range wire.Results {
		if !r.Flagged {
			continue
		}
		result.Flagged = true
		for name, hit := range r.Categories {
			if hit {
				result.Categories = append(result.Categories, name)
			}
		}
	}
	sort.Strings(result.Categories)
	return result, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type completionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete sends a system and a user message and returns the first choice. A response
// without choices yields an empty Text.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (*domain.Completion, error) {
	var wire completionResponse
	err := c.post(ctx, "/v1/chat/completions", completionRequest{
		Model: c.config.ChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}, &wire)
	if err != nil {
		return nil, err
	}

	completion := &domain.Completion{Model: wire.Model}
	if len(wire.Choices) > 0 {
		completion.Text = wire.Choices[0].Message.Content
	}
	if wire.Usage != nil {
		completion.TotalTokens = wire.Usage.TotalTokens
	}
	return completion, nil
}

func (c *OpenAIClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("openai: marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("openai: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("openai: sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readProviderError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("openai: decoding response: %w", err)
	}
	return nil
}

// readProviderError parses {"error":{"type":"...","message":"..."}}, falling back to the
// raw body.
func readProviderError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var wire struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &wire) == nil && wire.Error.Message != "" {
		return &ProviderError{
			StatusCode: resp.StatusCode,
			Type:       wire.Error.Type,
			Message:    wire.Error.Message,
		}
	}

	return &ProviderError{
		StatusCode: resp.StatusCode,
		Message:    string(body),
	}
}
