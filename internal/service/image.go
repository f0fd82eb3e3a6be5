package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fridgechef/backend/config"
	"github.com/fridgechef/backend/internal/apperr"
	"github.com/go-resty/resty/v2"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// PlaceholderMarker identifies placeholder image URLs that a generated image
// may replace.
const PlaceholderMarker = "unsplash"

// IsPlaceholderImage reports whether image is a stock photo search URL.
func IsPlaceholderImage(image string) bool {
	return strings.Contains(image, PlaceholderMarker)
}

// PlaceholderImageURL fills the template with the escaped recipe name.
func PlaceholderImageURL(template, name string) string {
	return fmt.Sprintf(template, url.QueryEscape(name))
}

type generateContentRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// GeminiImageClient generates dish photos with Gemini generateContent.
type GeminiImageClient struct {
	client  *resty.Client
	apiKey  string
	model   string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  *zap.Logger
}

func NewGeminiImageClient(cfg config.ImageAIConfig, breaker config.BreakerConfig, logger *zap.Logger) *GeminiImageClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err == nil && r.StatusCode() >= http.StatusInternalServerError
		})

	return &GeminiImageClient{
		client:  client,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		breaker: newBreaker[[]byte]("gemini-image", breaker, logger),
		logger:  logger,
	}
}

// GenerateImage returns the decoded bytes of the first inline image part.
func (c *GeminiImageClient) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	data, err := c.breaker.Execute(func() ([]byte, error) {
		return c.generate(ctx, prompt)
	})
	AICallDuration.WithLabelValues(kindImage).Observe(time.Since(start).Seconds())

	if err != nil {
		outcome := "failure"
		if isBreakerRejection(err) {
			outcome = "rejected"
		} else if errors.Is(err, context.DeadlineExceeded) {
			outcome = "timeout"
		}
		AICallsTotal.WithLabelValues(kindImage, outcome).Inc()
		return nil, apperr.Upstream("image generation failed", err)
	}
	AICallsTotal.WithLabelValues(kindImage, "success").Inc()
	return data, nil
}

func (c *GeminiImageClient) generate(ctx context.Context, prompt string) ([]byte, error) {
	body := generateContentRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(body).
		Post(fmt.Sprintf("/models/%s:generateContent", c.model))
	if err != nil {
		return nil, fmt.Errorf("failed to send image request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("image API returned status %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}

	var result generateContentResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse image response: %w", err)
	}
	if len(result.Candidates) == 0 {
		return nil, errors.New("no candidates in image response")
	}
	for _, part := range result.Candidates[0].Content.Parts {
		if part.InlineData == nil || part.InlineData.Data == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image data: %w", err)
		}
		if len(data) == 0 {
			break
		}
		c.logger.Debug("image generated", zap.String("mime_type", part.InlineData.MimeType), zap.Int("bytes", len(data)))
		return data, nil
	}
	return nil, errors.New("no image data in response")
}
