package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"quiz-gen/internal/config"
	"quiz-gen/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangchainClient implements domain.CompletionClient on top of any langchaingo model.
type LangchainClient struct {
	model       llms.Model
	name        string
	temperature *float64
}

// NewLangchainClient wraps an already constructed langchaingo model.
// A nil temperature leaves the provider default in place.
func NewLangchainClient(model llms.Model, name string, temperature *float64) *LangchainClient {
	return &LangchainClient{
		model:       model,
		name:        name,
		temperature: temperature,
	}
}

// New builds the client for the configured provider. The API key comes only from cfg.
func New(ctx context.Context, cfg config.LLMConfig) (*LangchainClient, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm model name cannot be empty")
	}
	name := cfg.Provider + "/" + cfg.Model

	var (
		model llms.Model
		err   error
	)
	switch cfg.Provider {
	case config.ProviderGoogleAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("googleai API key cannot be empty")
		}
		model, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
		)
	case config.ProviderOllama:
		httpClient := &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     30 * time.Second,
			},
		}
		model, err = ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(httpClient),
		)
	case config.ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai API key cannot be empty")
		}
		model, err = openai.New(
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
		)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}

	return NewLangchainClient(model, name, cfg.Temperature), nil
}

// Complete sends prompt as a single human message and returns the first choice's text.
func (c *LangchainClient) Complete(ctx context.Context, prompt string) (string, error) {
	var opts []llms.CallOption
	if c.temperature != nil {
		opts = append(opts, llms.WithTemperature(*c.temperature))
	}

	completion, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt, opts...)
	if err != nil {
		return "", fmt.Errorf("%s completion failed: %w", c.name, err)
	}
	return completion, nil
}

// Name returns "<provider>/<model>".
func (c *LangchainClient) Name() string {
	return c.name
}

var _ domain.CompletionClient = (*LangchainClient)(nil)
