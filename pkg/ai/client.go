package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/mistral"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	ProviderGoogleAI  = "googleai"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderMistral   = "mistral"
)

// Generator is the part of llms.Model the extractor needs.
type Generator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// ProviderConfig selects and configures the vision model.
type ProviderConfig struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	MaxTokens int
}

// NewGenerator creates the langchaingo model for cfg.Provider.
func NewGenerator(ctx context.Context, cfg ProviderConfig) (llms.Model, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderGoogleAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("google AI API key is not set")
		}
		return googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
		)
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is not set")
		}
		opts := []openai.Option{
			openai.WithModel(cfg.Model),
			openai.WithToken(cfg.APIKey),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		return openai.New(opts...)
	case ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic API key is not set")
		}
		return anthropic.New(
			anthropic.WithModel(cfg.Model),
			anthropic.WithToken(cfg.APIKey),
		)
	case ProviderOllama:
		host := cfg.BaseURL
		if host == "" {
			host = "http://127.0.0.1:11434"
		}
		return ollama.New(
			ollama.WithModel(cfg.Model),
			ollama.WithServerURL(host),
		)
	case ProviderMistral:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("mistral API key is not set")
		}
		return mistral.New(
			mistral.WithModel(cfg.Model),
			mistral.WithAPIKey(cfg.APIKey),
		)
	}
	return nil, fmt.Errorf("unsupported vision LLM provider: %s", cfg.Provider)
}

// imageAsDataURL reports whether provider expects images as data URLs rather
// than binary parts.
func imageAsDataURL(provider string) bool {
	p := strings.ToLower(provider)
	return p == ProviderOpenAI || p == ProviderMistral
}
