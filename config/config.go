package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	ProviderNone        = "none"
	ProviderHuggingFace = "huggingface"
	ProviderHugot       = "hugot"
	ProviderVader       = "vader"
	ProviderOpenAI      = "openai"
	ProviderAnthropic   = "anthropic"

	StorePostgres = "postgres"
	StoreDynamoDB = "dynamodb"
)

type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"dev"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	ScorerProvider     string `envconfig:"SCORER_PROVIDER" default:"none"`
	SummarizerProvider string `envconfig:"SUMMARIZER_PROVIDER" default:"none"`
	GeneratorProvider  string `envconfig:"GENERATOR_PROVIDER" default:"none"`

	HFSentimentEndpoint string        `envconfig:"HF_SENTIMENT_ENDPOINT"`
	HFSummaryEndpoint   string        `envconfig:"HF_SUMMARY_ENDPOINT"`
	HFSentimentHealth   string        `envconfig:"HF_SENTIMENT_HEALTH_ENDPOINT"`
	HFSummaryHealth     string        `envconfig:"HF_SUMMARY_HEALTH_ENDPOINT"`
	HFAPIToken          string        `envconfig:"HF_API_TOKEN"`
	HFTimeout           time.Duration `envconfig:"HF_TIMEOUT" default:"60s"`
	HugotModelPath      string        `envconfig:"HUGOT_MODEL_PATH" default:"./models/bert-base-multilingual-uncased-sentiment"`

	OpenAIAPIKey     string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel      string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL    string `envconfig:"OPENAI_BASE_URL"`
	AnthropicAPIKey  string `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicModel   string `envconfig:"ANTHROPIC_MODEL" default:"claude-sonnet-4-5-20250929"`
	AnthropicBaseURL string `envconfig:"ANTHROPIC_BASE_URL"`

	ScoreTimeout    time.Duration `envconfig:"SCORE_TIMEOUT" default:"30s"`
	SummaryTimeout  time.Duration `envconfig:"SUMMARY_TIMEOUT" default:"60s"`
	GenerateTimeout time.Duration `envconfig:"GENERATE_TIMEOUT" default:"60s"`
	MaxInputRunes   int           `envconfig:"MAX_INPUT_RUNES" default:"512"`
	LexiconPath     string        `envconfig:"LEXICON_PATH"`

	FeedbackStore string `envconfig:"FEEDBACK_STORE" default:"postgres"`
	DatabaseURL   string `envconfig:"DATABASE_URL"`
	DynamoTable   string `envconfig:"DYNAMODB_FEEDBACK_TABLE" default:"Feedback"`
	AWSRegion     string `envconfig:"AWS_REGION" default:"us-west-2"`
	AWSEndpoint   string `envconfig:"AWS_ENDPOINT"`

	KafkaBroker       string        `envconfig:"KAFKA_BROKER" default:"localhost:29092"`
	KafkaGroupID      string        `envconfig:"KAFKA_CONSUMER_GROUP_ID" default:"feedbackflow-analysis"`
	KafkaRequestTopic string        `envconfig:"KAFKA_REQUEST_TOPIC" default:"feedback-analysis-requests"`
	KafkaResultTopic  string        `envconfig:"KAFKA_RESULT_TOPIC" default:"feedback-analysis-results"`
	BatchWindow       time.Duration `envconfig:"ANALYSIS_BATCH_WINDOW" default:"5s"`
}

// Load reads config/envs/.env.<APP_ENV> into the environment and decodes
// the environment into a Config.
func Load() (Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	LoadEnv(env)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := oneOf("SCORER_PROVIDER", c.ScorerProvider, ProviderNone, ProviderHuggingFace, ProviderHugot, ProviderVader); err != nil {
		return err
	}
	if err := oneOf("SUMMARIZER_PROVIDER", c.SummarizerProvider, ProviderNone, ProviderHuggingFace, ProviderOpenAI); err != nil {
		return err
	}
	if err := oneOf("GENERATOR_PROVIDER", c.GeneratorProvider, ProviderNone, ProviderOpenAI, ProviderAnthropic); err != nil {
		return err
	}
	if err := oneOf("FEEDBACK_STORE", c.FeedbackStore, StorePostgres, StoreDynamoDB); err != nil {
		return err
	}
	if c.MaxInputRunes <= 0 {
		return fmt.Errorf("MAX_INPUT_RUNES must be positive, got %d", c.MaxInputRunes)
	}
	return nil
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %v, got %q", key, allowed, value)
}
