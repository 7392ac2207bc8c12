package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/johnquangdev/meeting-analyzer/pkg/config"
)

// GroqClient is a minimal client for Groq chat completions used for transcript analysis
type GroqClient struct {
	apiKey     string
	baseURL    string
	model      string
	client     *http.Client
	maxElapsed time.Duration
}

// NewGroqClient creates a Groq client from config
func NewGroqClient(cfg *config.GroqConfig) *GroqClient {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.groq.com"
	}
	model := cfg.Model
	if model == "" {
		model = "llama-3.1-70b-versatile"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &GroqClient{
		apiKey:     cfg.APIKey,
		baseURL:    base,
		model:      model,
		client:     &http.Client{Timeout: timeout},
		maxElapsed: 30 * time.Second,
	}
}

// Configured reports whether an API key is present
func (g *GroqClient) Configured() bool {
	return g != nil && g.apiKey != ""
}

// ChatMessage is a single chat turn
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []ChatMessage `json:"messages,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed if repeated
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Complete sends a single user prompt and returns the assistant content.
// Rate limits and 5xx responses are retried with exponential backoff.
func (g *GroqClient) Complete(ctx context.Context, prompt string) (string, error) {
	if !g.Configured() {
		return "", fmt.Errorf("groq api key is not configured")
	}

	reqBody := ChatRequest{
		Model:       g.model,
		Messages:    []ChatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.2,
		MaxTokens:   4000,
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	var content string
	op := func() error {
		c, err := g.do(ctx, b)
		if err != nil {
			if se, ok := err.(*StatusError); ok && !se.Retryable() {
				return backoff.Permanent(err)
			}
			return err
		}
		content = c
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = g.maxElapsed

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return "", err
	}
	return content, nil
}

func (g *GroqClient) do(ctx context.Context, body []byte) (string, error) {
	endpoint := g.baseURL + "/openai/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &StatusError{Service: "groq", StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", backoff.Permanent(fmt.Errorf("decode groq response: %w", err))
	}
	if len(cr.Choices) == 0 {
		return "", backoff.Permanent(fmt.Errorf("empty response from groq"))
	}
	return cr.Choices[0].Message.Content, nil
}
