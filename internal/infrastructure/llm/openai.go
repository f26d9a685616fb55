package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labelcheck/backend/internal/domain"
	"golang.org/x/time/rate"
)

const maxAttempts = 3

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type jsonSchemaFormat struct {
	Name   string                 `json:"name"`
	Schema map[string]interface{} `json:"schema"`
	Strict bool                   `json:"strict"`
}

type responseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *jsonSchemaFormat `json:"json_schema,omitempty"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// OpenAIClient talks to an OpenAI-compatible chat completions API
type OpenAIClient struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewOpenAIClient creates a chat completions client. requestsPerMinute <= 0 disables limiting.
func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration, requestsPerMinute int) *OpenAIClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Limit(float64(requestsPerMinute) / 60)
	}

	return &OpenAIClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiKey:      apiKey,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		model:       model,
		rateLimiter: rate.NewLimiter(limit, 5),
	}
}

// SetDebug enables request/response logging
func (c *OpenAIClient) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the wait before retrying after the given attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// Generate sends the system and user prompts and returns the first choice's content
func (c *OpenAIClient) Generate(ctx context.Context, prompt domain.Prompt) (string, error) {
	body, err := json.Marshal(c.buildRequest(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: rate limiter: %v", domain.ErrRateLimited, err)
		}

		content, retry, err := c.do(ctx, body)
		if err == nil {
			return content, nil
		}
		lastErr = err
		log.Printf("[LLM] Request failed (attempt %d): %v", attempt, err)
		if !retry || attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", domain.ErrLLMFailure, ctx.Err())
		case <-time.After(exponentialBackoff(attempt)):
		}
	}

	return "", lastErr
}

func (c *OpenAIClient) buildRequest(prompt domain.Prompt) chatRequest {
	req := chatRequest{Model: c.model}
	if prompt.System != "" {
		req.Messages = append(req.Messages, chatMessage{Role: "system", Content: prompt.System})
	}
	req.Messages = append(req.Messages, chatMessage{Role: "user", Content: prompt.User})

	if prompt.JSONSchema != nil {
		name := prompt.SchemaName
		if name == "" {
			name = "response"
		}
		req.ResponseFormat = &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchemaFormat{
				Name:   name,
				Schema: prompt.JSONSchema,
				Strict: true,
			},
		}
	}
	return req
}

// do executes one attempt; retry reports whether the failure is transient
func (c *OpenAIClient) do(ctx context.Context, body []byte) (content string, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", "LabelCheck/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", ctx.Err() == nil, fmt.Errorf("%w: %v", domain.ErrLLMFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("%w: reading response: %v", domain.ErrLLMFailure, err)
	}

	if c.debug {
		log.Printf("[LLM] Status: %d, Body: %s", resp.StatusCode, string(respBody))
	}

	if resp.StatusCode != http.StatusOK {
		transient := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", transient, fmt.Errorf("%w: status %d: %s", domain.ErrLLMFailure, resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", false, fmt.Errorf("%w: failed to decode response: %v", domain.ErrLLMFailure, err)
	}
	if len(parsed.Choices) == 0 {
		return "", false, fmt.Errorf("%w: no content generated", domain.ErrLLMFailure)
	}

	return parsed.Choices[0].Message.Content, false, nil
}
