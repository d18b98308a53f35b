package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	groqBaseURL      = "https://api.groq.com/openai/v1/chat/completions"
	groqModel        = "llama-3.3-70b-versatile"
	groqTemperature  = 0.2
	groqMaxRetries   = 2
	groqInitialDelay = 1 * time.Second
)

// ErrUpstream marks transport, auth or rate-limit failures of the text
// generation backend. Callers decide whether to surface or degrade.
var ErrUpstream = errors.New("text generation upstream failure")

// Message is one turn of optional chat history.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Client talks to Groq's OpenAI-compatible chat completions endpoint.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type chatError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   groqModel,
		baseURL: groqBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// WithBaseURL overrides the endpoint; used in tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

// WithHTTPClient swaps the underlying HTTP client; used in tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.client = hc
	return c
}

// Chat sends a single-turn completion request.
func (c *Client) Chat(ctx context.Context, message, systemPrompt string) (string, error) {
	return c.ChatWithHistory(ctx, message, systemPrompt, nil)
}

// ChatWithHistory sends a completion request with prior turns included.
func (c *Client) ChatWithHistory(ctx context.Context, message, systemPrompt string, history []Message) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: GROQ_API_KEY not set", ErrUpstream)
	}

	messages := make([]Message, 0, len(history)+2)
	if systemPrompt != "" {
		messages = append(messages, Message{Role: "system", Content: systemPrompt})
	}
	for _, m := range history {
		if m.Role == "user" || m.Role == "assistant" {
			messages = append(messages, m)
		}
	}
	messages = append(messages, Message{Role: "user", Content: message})

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: groqTemperature,
	})
	if err != nil {
		return "", err
	}

	var lastErr error
	delay := groqInitialDelay
	for attempt := 0; attempt <= groqMaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", ErrUpstream, ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", ErrUpstream, err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%w: reading response: %v", ErrUpstream, err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			var apiErr chatError
			_ = json.Unmarshal(respBody, &apiErr)
			lastErr = fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, apiErr.Error.Message)
			// retry only on rate limits and server errors
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				continue
			}
			return "", lastErr
		}

		var out chatResponse
		if err := json.Unmarshal(respBody, &out); err != nil {
			return "", fmt.Errorf("%w: decoding response: %v", ErrUpstream, err)
		}
		if len(out.Choices) == 0 {
			return "", fmt.Errorf("%w: empty choices", ErrUpstream)
		}
		return out.Choices[0].Message.Content, nil
	}
	return "", lastErr
}
