// Package completion talks to the external text-completion service. The
// service is treated as unreliable: calls are rate limited process-wide,
// time limited, and retried with bounded exponential backoff.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lss-analytics/training-api/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Message is one role-tagged entry in a completion conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Roles used in completion conversations.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Completer produces one text completion for an ordered list of messages.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Config holds the settings for the OpenAI-compatible chat endpoint.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	// Timeout bounds a single completion call. Expiry counts as a
	// downstream failure.
	Timeout time.Duration
	// MaxRetries bounds the retry budget for transient failures.
	MaxRetries int
	// RequestsPerMinute is the process-wide ceiling on outbound calls.
	// Callers at the ceiling wait; they are never rejected for it.
	RequestsPerMinute int
}

// Client is an OpenAI chat-completions client. All outbound calls serialize
// through one shared limiter, so concurrent callers experience added
// latency rather than rejection while within the retry budget.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient builds a completion client from config, applying defaults for
// unset fields.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 50
	}

	limiter := rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)

	logger.Info("completion client initialized",
		zap.String("model", cfg.Model),
		zap.Float64("temperature", cfg.Temperature),
		zap.Int("max_tokens", cfg.MaxTokens),
		zap.Duration("timeout", cfg.Timeout),
		zap.Int("requests_per_minute", cfg.RequestsPerMinute),
	)

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		logger:     logger,
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the messages and returns the completion text. Transient
// failures (5xx, 429, transport errors, timeouts) are retried with
// exponential backoff; after the budget is exhausted a CompletionError is
// returned. Client errors other than 429 are not retried.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	// The wait here is the rate limit; it is invisible to the caller
	// except as latency.
	if err := c.limiter.Wait(ctx); err != nil {
		return "", &domain.CompletionError{Err: err}
	}

	var answer string
	operation := func() error {
		var err error
		answer, err = c.complete(ctx, messages)
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.cfg.MaxRetries)),
		ctx,
	)

	if err := backoff.Retry(operation, policy); err != nil {
		c.logger.Error("completion call failed after retries", zap.Error(err))
		return "", &domain.CompletionError{Err: err}
	}
	return answer, nil
}

func (c *Client) complete(ctx context.Context, messages []Message) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("completion request failed", zap.Error(err))
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("completion service returned status %d", resp.StatusCode)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			c.logger.Warn("transient completion failure",
				zap.Int("status", resp.StatusCode),
			)
			return "", err
		}
		return "", backoff.Permanent(err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", backoff.Permanent(fmt.Errorf("failed to parse completion response: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return "", backoff.Permanent(fmt.Errorf("completion response contained no choices"))
	}

	c.logger.Debug("completion call succeeded",
		zap.Duration("latency", time.Since(start)),
		zap.Int("messages", len(messages)),
	)

	return parsed.Choices[0].Message.Content, nil
}
