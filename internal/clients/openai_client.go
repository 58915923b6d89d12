package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spacesedan/feedbackflow/internal/backend"
)

const (
	openAIRequestTimeout = 60 * time.Second // Timeout for individual OpenAI API requests
	DefaultOpenAIModel   = openai.GPT4oMini
)

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// OpenAIClient serves both as a recommendation generator and as a
// condenser for the pain/praise summaries.
type OpenAIClient struct {
	Client *openai.Client
	model  string
}

func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("[OpenAIClient] missing OPENAI_API_KEY: %w", backend.ErrUnavailable)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = openAIRequestTimeout
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	config.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	slog.Info("[OpenAIClient] OpenAI client initialized",
		slog.String("model", cfg.Model),
		slog.Duration("timeout", cfg.Timeout))
	return &OpenAIClient{
		Client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
	}, nil
}

func (o *OpenAIClient) Generate(ctx context.Context, prompt string, opts backend.GenerateOptions) (string, error) {
	return o.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}, opts.MaxTokens)
}

func (o *OpenAIClient) Condense(ctx context.Context, text string, opts backend.CondenseOptions) (string, error) {
	instruction := "Summarize the following user feedback in one or two plain sentences."
	if opts.MinLength > 0 && opts.MaxLength > 0 {
		instruction = fmt.Sprintf("Summarize the following user feedback in %d to %d words of plain prose.",
			opts.MinLength, opts.MaxLength)
	}
	return o.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: instruction},
		{Role: openai.ChatMessageRoleUser, Content: text},
	}, 0)
}

func (o *OpenAIClient) complete(ctx context.Context, messages []openai.ChatCompletionMessage, maxTokens int) (string, error) {
	start := time.Now()
	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.model,
		Messages:  messages,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}

	slog.Debug("[OpenAIClient] Completion received",
		slog.String("finish_reason", string(resp.Choices[0].FinishReason)),
		slog.Int("completion_tokens", resp.Usage.CompletionTokens),
		slog.Duration("elapsed", time.Since(start)))
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
