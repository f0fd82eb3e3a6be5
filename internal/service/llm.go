package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fridgechef/backend/config"
	"github.com/fridgechef/backend/internal/apperr"
	"github.com/go-resty/resty/v2"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Message is one chat message in an OpenAI-compatible request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatClient talks to an OpenAI-compatible chat completions endpoint
// (Upstage Solar by default).
type ChatClient struct {
	client    *resty.Client
	model     string
	maxTokens int
	timeout   time.Duration
	breaker   *gobreaker.CircuitBreaker[string]
	logger    *zap.Logger
}

// NewChatClient builds a client from the text generator settings.
func NewChatClient(cfg config.TextAIConfig, breaker config.BreakerConfig, logger *zap.Logger) *ChatClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json")

	return &ChatClient{
		client:    client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		breaker:   newBreaker[string]("upstage-chat", breaker, logger),
		logger:    logger,
	}
}

// Complete sends the system and user prompts and returns the first choice.
// The call is bounded by the configured timeout.
func (c *ChatClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := make([]Message, 0, 2)
	if system != "" {
		messages = append(messages, Message{Role: "system", Content: system})
	}
	messages = append(messages, Message{Role: "user", Content: prompt})

	start := time.Now()
	content, err := c.breaker.Execute(func() (string, error) {
		return c.send(ctx, chatRequest{Model: c.model, Messages: messages, MaxTokens: c.maxTokens})
	})
	AICallDuration.WithLabelValues(kindText).Observe(time.Since(start).Seconds())

	if err != nil {
		outcome := "failure"
		if isBreakerRejection(err) {
			outcome = "rejected"
		} else if errors.Is(err, context.DeadlineExceeded) {
			outcome = "timeout"
		}
		AICallsTotal.WithLabelValues(kindText, outcome).Inc()
		return "", apperr.Upstream("text generation failed", err)
	}
	AICallsTotal.WithLabelValues(kindText, "success").Inc()
	return content, nil
}

func (c *ChatClient) send(ctx context.Context, req chatRequest) (string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to send chat request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("chat API returned status %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}

	var result chatResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse chat response: %w", err)
	}
	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", errors.New("no content in chat response")
	}

	c.logger.Debug("chat completion received", zap.Int("length", len(result.Choices[0].Message.Content)))
	return result.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
