package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/akhmetov/cv-matcher/internal/embedding"
	"github.com/akhmetov/cv-matcher/internal/utils"
)

const (
	defaultModel = "gemini-embedding-001"
	// Rough input limit; the API rejects texts beyond ~8k tokens.
	maxInputRunes = 50000

	logPreviewLength = 120
)

var waitFor = utils.WaitFor

// contentEmbedder is the slice of the genai API the client depends on.
type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Client implements embedding.Provider on top of the Gemini API.
type Client struct {
	embedder   contentEmbedder
	model      string
	maxRetries int
	logger     *zap.Logger
}

// New creates a Client configured for the Gemini API backend.
func New(ctx context.Context, apiKey, model string, maxRetries int, logger *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if maxRetries <= 0 {
		maxRetries = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		embedder:   client.Models,
		model:      model,
		maxRetries: maxRetries,
		logger:     logger,
	}, nil
}

// Embed returns the embedding vector for the given text. Transient API
// failures are retried; a terminal failure is reported as
// embedding.ErrUnavailable so the caller can degrade gracefully.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if c == nil || c.embedder == nil {
		return nil, errors.New("gemini embedding client is not initialized")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("text to embed must not be empty")
	}

	if runes := []rune(text); len(runes) > maxInputRunes {
		text = string(runes[:maxInputRunes])
	}

	c.logger.Debug("embed content request",
		zap.Int("text_length", len(text)),
		zap.String("text_preview", utils.TruncateForLog(text, logPreviewLength)),
	)

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		resp, err := c.embedder.EmbedContent(ctx, c.model, genai.Text(text), nil)
		if err == nil {
			return vectorFromResponse(resp)
		}

		lastErr = err
		if !isRetryable(err) || attempt == c.maxRetries {
			break
		}

		c.logger.Warn("embedding request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", c.maxRetries),
			zap.Error(err),
		)

		if err := waitFor(ctx, time.Duration(attempt)*time.Second); err != nil {
			lastErr = err
			break
		}
	}

	return nil, fmt.Errorf("%w: %v", embedding.ErrUnavailable, lastErr)
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

func vectorFromResponse(resp *genai.EmbedContentResponse) ([]float64, error) {
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, fmt.Errorf("%w: api returned no embeddings", embedding.ErrUnavailable)
	}

	values := resp.Embeddings[0].Values
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: api returned an empty vector", embedding.ErrUnavailable)
	}

	vector := make([]float64, len(values))
	for i, v := range values {
		vector[i] = float64(v)
	}
	return vector, nil
}

func isRetryable(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code >= http.StatusInternalServerError || apiErr.Code == http.StatusTooManyRequests
}
