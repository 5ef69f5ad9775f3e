package examgen

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Completer sends one prompt to a completion service and returns the raw
// generated text. Implementations may call a hosted model or return canned
// results (for tests).
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const (
	// Groq exposes an OpenAI-compatible API, so the standard client works
	// against it with a swapped base URL.
	groqBaseURL = "https://api.groq.com/openai/v1"

	// DefaultModel is the fixed model identifier used for every call
	DefaultModel = "llama3-8b-8192"

	DefaultMaxTokens   = 2048
	DefaultTemperature = 0.7
	DefaultCallTimeout = 60 * time.Second
)

// Client is the production Completer backed by the Groq completion service.
// One attempt per call, no automatic retry; the per-call timeout is the only
// cancellation mechanism beyond the caller's context.
type Client struct {
	api         *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
}

// ClientOption adjusts sampling parameters on a new Client
type ClientOption func(*Client)

func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

func WithMaxTokens(n int) ClientOption {
	return func(c *Client) { c.maxTokens = n }
}

func WithTemperature(t float32) ClientOption {
	return func(c *Client) { c.temperature = t }
}

func WithCallTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// NewClient creates a completion client for the given API key
func NewClient(apiKey string, opts ...ClientOption) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL

	c := &Client{
		api:         openai.NewClientWithConfig(cfg),
		model:       DefaultModel,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		timeout:     DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends a single blocking chat completion request and returns the
// generated text. Failures come back as *ServiceError classified by kind.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	VerboseLog("Sending completion request (%d chars) to model %s", len(prompt), c.model)

	resp, err := c.api.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   c.maxTokens,
			Temperature: c.temperature,
		},
	)
	if err != nil {
		return "", classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &ServiceError{Kind: FailureBadResponse, Err: errors.New("no choices in response")}
	}

	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", &ServiceError{Kind: FailureBadResponse, Err: errors.New("empty completion text")}
	}

	VerboseLog("Received completion response (%d chars)", len(text))
	return text, nil
}

func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ServiceError{Kind: FailureTimeout, Err: err}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 401, 403:
			return &ServiceError{Kind: FailureAuth, Err: err}
		case 429:
			return &ServiceError{Kind: FailureRateLimit, Err: err}
		default:
			return &ServiceError{Kind: FailureBadResponse, Err: err}
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.HTTPStatusCode {
		case 401, 403:
			return &ServiceError{Kind: FailureAuth, Err: err}
		case 429:
			return &ServiceError{Kind: FailureRateLimit, Err: err}
		}
		return &ServiceError{Kind: FailureBadResponse, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ServiceError{Kind: FailureTimeout, Err: err}
	}

	return &ServiceError{Kind: FailureNetwork, Err: fmt.Errorf("completion request failed: %w", err)}
}
