package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spacesedan/feedbackflow/config"
)

func baseConfig() config.Config {
	return config.Config{
		ScorerProvider:     config.ProviderNone,
		SummarizerProvider: config.ProviderNone,
		GeneratorProvider:  config.ProviderNone,
		FeedbackStore:      config.StorePostgres,
		MaxInputRunes:      512,
	}
}

func TestBackendsNone(t *testing.T) {
	b, closeFn := Backends(context.Background(), baseConfig())
	defer closeFn()

	if b.Scorer().Present() || b.Condenser().Present() || b.Generator().Present() {
		t.Fatal("no backend should be configured")
	}
}

func TestBackendsVaderScorer(t *testing.T) {
	cfg := baseConfig()
	cfg.ScorerProvider = config.ProviderVader

	b, closeFn := Backends(context.Background(), cfg)
	defer closeFn()
	if !b.Scorer().Present() {
		t.Fatal("vader scorer should be present")
	}
}

func TestBackendsProbeHuggingFace(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer healthy.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	cfg := baseConfig()
	cfg.ScorerProvider = config.ProviderHuggingFace
	cfg.SummarizerProvider = config.ProviderHuggingFace
	cfg.HFSentimentEndpoint = healthy.URL
	cfg.HFSentimentHealth = healthy.URL
	cfg.HFSummaryEndpoint = down.URL
	cfg.HFSummaryHealth = down.URL

	b, closeFn := Backends(context.Background(), cfg)
	defer closeFn()
	if !b.Scorer().Present() {
		t.Fatal("healthy scorer should be present")
	}
	if b.Condenser().Present() {
		t.Fatal("summarizer failing its probe should be absent")
	}
}

func TestBackendsMissingEndpointOrKey(t *testing.T) {
	cfg := baseConfig()
	cfg.ScorerProvider = config.ProviderHuggingFace
	cfg.SummarizerProvider = config.ProviderOpenAI
	cfg.GeneratorProvider = config.ProviderAnthropic

	b, closeFn := Backends(context.Background(), cfg)
	defer closeFn()
	if b.Scorer().Present() || b.Condenser().Present() || b.Generator().Present() {
		t.Fatal("backends without endpoint or key should be absent")
	}
}

func TestBackendsHugotMissingModel(t *testing.T) {
	cfg := baseConfig()
	cfg.ScorerProvider = config.ProviderHugot
	cfg.HugotModelPath = filepath.Join(t.TempDir(), "missing")

	b, closeFn := Backends(context.Background(), cfg)
	defer closeFn()
	if b.Scorer().Present() {
		t.Fatal("hugot scorer without a model should be absent")
	}
}

func TestBackendsWithKeys(t *testing.T) {
	cfg := baseConfig()
	cfg.SummarizerProvider = config.ProviderOpenAI
	cfg.GeneratorProvider = config.ProviderAnthropic
	cfg.OpenAIAPIKey = "sk-test"
	cfg.AnthropicAPIKey = "test"

	b, closeFn := Backends(context.Background(), cfg)
	defer closeFn()
	if !b.Condenser().Present() || !b.Generator().Present() {
		t.Fatal("configured backends should be present")
	}
}

func TestLexicon(t *testing.T) {
	lex, err := Lexicon(baseConfig())
	if err != nil || !lex.HasNegative("it crashes") {
		t.Fatalf("default lexicon: %v", err)
	}

	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	if err := os.WriteFile(path, []byte("negative: [laggy]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := baseConfig()
	cfg.LexiconPath = path
	lex, err = Lexicon(cfg)
	if err != nil || !lex.HasNegative("so laggy") || lex.HasNegative("it crashes") {
		t.Fatalf("file lexicon: %v", err)
	}

	cfg.LexiconPath = filepath.Join(t.TempDir(), "nope.yaml")
	if _, err := Lexicon(cfg); err == nil {
		t.Fatal("expected error for missing lexicon file")
	}
}

func TestPipeline(t *testing.T) {
	p, closeFn, err := Pipeline(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("Pipeline: %v", err)
	}
	defer closeFn()
	if got := p.Analyze(context.Background(), nil); got.Recommendation == "" {
		t.Fatal("empty analysis should still carry a recommendation")
	}
}

func TestFeedbackStoreUnknown(t *testing.T) {
	cfg := baseConfig()
	cfg.FeedbackStore = "sqlite"
	if _, _, err := FeedbackStore(context.Background(), cfg); err == nil {
		t.Fatal("expected error")
	}
}
