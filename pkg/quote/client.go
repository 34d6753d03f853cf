package quote

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/philipparndt/cadquote/pkg/analysis"
)

// DefaultModel is used when Config.Model is empty
const DefaultModel = "gpt-4.1"

// Config holds the hosted model settings
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	// Prompt replaces EstimatorPrompt when set
	Prompt string
}

// Client requests quotes from an OpenAI-compatible chat completions API
type Client struct {
	api    *openai.Client
	model  string
	prompt string
	logger *zap.Logger
}

// NewClient creates a client from cfg. The API key is required.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	c := &Client{
		api:    openai.NewClientWithConfig(apiCfg),
		model:  cfg.Model,
		prompt: cfg.Prompt,
		logger: logger,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.prompt == "" {
		c.prompt = EstimatorPrompt
	}
	return c, nil
}

// Model returns the model name requests are sent to
func (c *Client) Model() string {
	return c.model
}

// Quote sends the views and metadata in one request and returns the
// validated reply
func (c *Client) Quote(ctx context.Context, images, labels []string, material string, metadata *analysis.Metadata) (*Quote, error) {
	parts, err := BuildContent(c.prompt, material, metadata, images, labels)
	if err != nil {
		return nil, err
	}

	c.logger.Info("requesting quote",
		zap.String("model", c.model),
		zap.String("material", material),
		zap.Int("views", len(images)))

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{{
			Role:         openai.ChatMessageRoleUser,
			MultiContent: parts,
		}},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: reply has no choices", ErrInvalidQuote)
	}

	c.logger.Debug("quote reply received",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens))

	q, err := ParseQuote(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	c.logger.Info("quote received",
		zap.Float64("price_total_usd", q.PriceTotalUSD),
		zap.Int("bodies", len(q.Bodies)))
	return q, nil
}
