package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spacesedan/feedbackflow/internal/backend"
)

const (
	DefaultAnthropicModel     = "claude-3-5-haiku-latest"
	defaultAnthropicMaxTokens = 256
)

type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type AnthropicClient struct {
	client anthropic.Client
	model  string
}

func NewAnthropicClient(cfg AnthropicConfig) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("[AnthropicClient] missing ANTHROPIC_API_KEY: %w", backend.ErrUnavailable)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultAnthropicModel
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	slog.Info("[AnthropicClient] Anthropic client initialized", slog.String("model", cfg.Model))
	return &AnthropicClient{
		client: anthropic.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

func (a *AnthropicClient) Generate(ctx context.Context, prompt string, opts backend.GenerateOptions) (string, error) {
	maxTokens := int64(opts.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			slog.Debug("[AnthropicClient] Completion received",
				slog.Int64("tokens_in", message.Usage.InputTokens),
				slog.Int64("tokens_out", message.Usage.OutputTokens))
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", errors.New("no text content in Anthropic response")
}
