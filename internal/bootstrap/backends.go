// Package bootstrap turns a config.Config into the long-lived pieces the
// binaries share: the backend bundle, the lexicon, the pipeline and the
// feedback store.
package bootstrap

import (
	"context"
	"log/slog"

	"github.com/spacesedan/feedbackflow/config"
	"github.com/spacesedan/feedbackflow/internal/analysis"
	"github.com/spacesedan/feedbackflow/internal/backend"
	"github.com/spacesedan/feedbackflow/internal/clients"
	"github.com/spacesedan/feedbackflow/internal/lexicon"
	"github.com/spacesedan/feedbackflow/internal/monitoring"
	"github.com/spacesedan/feedbackflow/internal/sentiment"
)

// Backends builds the backend bundle once. A backend that cannot be built
// or fails its startup probe is left out; the pipeline then uses its
// fallback for that step. The returned func releases local model sessions.
func Backends(ctx context.Context, cfg config.Config) (backend.Backends, func()) {
	var hf *clients.HuggingFaceClient
	if cfg.ScorerProvider == config.ProviderHuggingFace || cfg.SummarizerProvider == config.ProviderHuggingFace {
		hf = clients.NewHuggingFaceClient(clients.HuggingFaceConfig{
			SentimentEndpoint: cfg.HFSentimentEndpoint,
			SummaryEndpoint:   cfg.HFSummaryEndpoint,
			Token:             cfg.HFAPIToken,
			Timeout:           cfg.HFTimeout,
		})
	}

	var openAI *clients.OpenAIClient
	if cfg.SummarizerProvider == config.ProviderOpenAI || cfg.GeneratorProvider == config.ProviderOpenAI {
		c, err := clients.NewOpenAIClient(clients.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
			Timeout: cfg.GenerateTimeout,
		})
		if err != nil {
			unavailable("openai", err)
		} else {
			openAI = c
		}
	}

	scorer, closeScorer := buildScorer(ctx, cfg, hf)
	condenser := buildCondenser(ctx, cfg, hf, openAI)
	generator := buildGenerator(cfg, openAI)

	slog.Info("[Bootstrap] Backends ready",
		slog.Bool("scorer", scorer.Present()),
		slog.Bool("condenser", condenser.Present()),
		slog.Bool("generator", generator.Present()))
	return backend.NewBackends(scorer, condenser, generator), closeScorer
}

func buildScorer(ctx context.Context, cfg config.Config, hf *clients.HuggingFaceClient) (backend.Optional[backend.Scorer], func()) {
	noop := func() {}

	switch cfg.ScorerProvider {
	case config.ProviderHuggingFace:
		if cfg.HFSentimentEndpoint == "" {
			unavailable("huggingface scorer", backend.ErrUnavailable)
			return backend.None[backend.Scorer](), noop
		}
		if !monitoring.Probe(ctx, "huggingface scorer", healthCheck(hf, cfg.HFSentimentHealth)) {
			return backend.None[backend.Scorer](), noop
		}
		return backend.Some[backend.Scorer](hf), noop
	case config.ProviderHugot:
		local, err := clients.NewHugotScorer(cfg.HugotModelPath)
		if err != nil {
			unavailable("hugot scorer", err)
			return backend.None[backend.Scorer](), noop
		}
		closeFn := func() {
			if err := local.Close(); err != nil {
				slog.Warn("[Bootstrap] Failed to close local model session", slog.String("error", err.Error()))
			}
		}
		return backend.Some(backend.SerializeScorer(local)), closeFn
	case config.ProviderVader:
		return backend.Some[backend.Scorer](sentiment.NewVaderScorer()), noop
	default:
		return backend.None[backend.Scorer](), noop
	}
}

func buildCondenser(ctx context.Context, cfg config.Config, hf *clients.HuggingFaceClient, openAI *clients.OpenAIClient) backend.Optional[backend.Condenser] {
	switch cfg.SummarizerProvider {
	case config.ProviderHuggingFace:
		if cfg.HFSummaryEndpoint == "" {
			unavailable("huggingface summarizer", backend.ErrUnavailable)
			return backend.None[backend.Condenser]()
		}
		if !monitoring.Probe(ctx, "huggingface summarizer", healthCheck(hf, cfg.HFSummaryHealth)) {
			return backend.None[backend.Condenser]()
		}
		return backend.Some[backend.Condenser](hf)
	case config.ProviderOpenAI:
		if openAI == nil {
			return backend.None[backend.Condenser]()
		}
		return backend.Some[backend.Condenser](openAI)
	default:
		return backend.None[backend.Condenser]()
	}
}

func buildGenerator(cfg config.Config, openAI *clients.OpenAIClient) backend.Optional[backend.Generator] {
	switch cfg.GeneratorProvider {
	case config.ProviderOpenAI:
		if openAI == nil {
			return backend.None[backend.Generator]()
		}
		return backend.Some[backend.Generator](openAI)
	case config.ProviderAnthropic:
		c, err := clients.NewAnthropicClient(clients.AnthropicConfig{
			APIKey:  cfg.AnthropicAPIKey,
			Model:   cfg.AnthropicModel,
			BaseURL: cfg.AnthropicBaseURL,
			Timeout: cfg.GenerateTimeout,
		})
		if err != nil {
			unavailable("anthropic", err)
			return backend.None[backend.Generator]()
		}
		return backend.Some[backend.Generator](c)
	default:
		return backend.None[backend.Generator]()
	}
}

func healthCheck(hf *clients.HuggingFaceClient, endpoint string) monitoring.HealthCheck {
	if endpoint == "" {
		return nil
	}
	return func(ctx context.Context) bool {
		return hf.HealthCheck(ctx, endpoint)
	}
}

func unavailable(name string, err error) {
	slog.Warn("[Bootstrap] Backend unavailable, using fallback",
		slog.String("backend", name),
		slog.String("error", err.Error()))
}

func Lexicon(cfg config.Config) (lexicon.Lexicon, error) {
	if cfg.LexiconPath == "" {
		return lexicon.Default(), nil
	}
	return lexicon.LoadFile(cfg.LexiconPath)
}

// Pipeline wires the lexicon and backends into an analysis.Pipeline.
func Pipeline(ctx context.Context, cfg config.Config) (*analysis.Pipeline, func(), error) {
	lex, err := Lexicon(cfg)
	if err != nil {
		return nil, nil, err
	}
	backends, closeFn := Backends(ctx, cfg)
	return analysis.New(lex, backends, analysis.Settings{
		MaxInputRunes:   cfg.MaxInputRunes,
		ScoreTimeout:    cfg.ScoreTimeout,
		SummaryTimeout:  cfg.SummaryTimeout,
		GenerateTimeout: cfg.GenerateTimeout,
	}), closeFn, nil
}
