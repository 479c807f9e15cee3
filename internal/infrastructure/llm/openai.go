package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ArticleEnhancer/internal/config"
)

// ChatCompletionsClient talks to OpenAI-compatible chat completion endpoints.
// OpenRouter shares the wire format and adds attribution headers.
type ChatCompletionsClient struct {
	name       string
	endpoint   string
	model      string
	apiKey     string
	headers    map[string]string
	httpClient *http.Client
}

var _ Backend = (*ChatCompletionsClient)(nil)

// NewOpenAIClient builds the OpenAI backend.
func NewOpenAIClient(cfg config.BackendConfig, client *http.Client) *ChatCompletionsClient {
	return newChatCompletionsClient("openai", cfg, nil, client)
}

// NewOpenRouterClient builds the OpenRouter backend; referer is sent as HTTP-Referer.
func NewOpenRouterClient(cfg config.BackendConfig, referer string, client *http.Client) *ChatCompletionsClient {
	headers := map[string]string{"X-Title": openRouterTitle}
	if referer != "" {
		headers["HTTP-Referer"] = referer
	}
	return newChatCompletionsClient("openrouter", cfg, headers, client)
}

const openRouterTitle = "BeyondChats Article Enhancement"

func newChatCompletionsClient(name string, cfg config.BackendConfig, headers map[string]string, client *http.Client) *ChatCompletionsClient {
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	return &ChatCompletionsClient{
		name:       name,
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		headers:    headers,
		httpClient: client,
	}
}

// Name identifies the backend in logs.
func (c *ChatCompletionsClient) Name() string {
	return c.name
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate posts a system and a user message and returns the first choice.
func (c *ChatCompletionsClient) Generate(ctx context.Context, r Request) (string, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("%s client misconfigured", c.name)
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: r.System},
			{Role: "user", Content: r.User},
		},
		Temperature: r.Temperature,
		MaxTokens:   r.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal %s payload: %w", c.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request: %w", c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", statusError(c.name, resp)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode %s response: %w", c.name, err)
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
