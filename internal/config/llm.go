package config

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/ridevoice/pkg/log"
)

type LLMConfig struct {
	Provider string `env:"LLM_PROVIDER" envDefault:"azure"`
	Model    string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`

	AzureAPIKey     string `env:"AZURE_OPENAI_KEY"`
	AzureEndpoint   string `env:"AZURE_OPENAI_ENDPOINT"`
	AzureDeployment string `env:"AZURE_OPENAI_DEPLOYMENT_NAME"`
	AzureAPIVersion string `env:"AZURE_OPENAI_API_VERSION" envDefault:"2024-02-15-preview"`

	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`
	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`

	OllamaBaseURL string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaAPIKey  string `env:"OLLAMA_API_KEY"`

	CustomOpenAIBaseURL string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"CUSTOM_OPENAI_API_KEY"`
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c, err := loadLLMConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	return c
}

func loadLLMConfig() (*LLMConfig, error) {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	return c, c.validate()
}

func (c *LLMConfig) validate() error {
	switch c.Provider {
	case "azure":
		if c.AzureEndpoint == "" || c.AzureDeployment == "" {
			return fmt.Errorf("azure provider requires AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_DEPLOYMENT_NAME")
		}
	case "custom":
		if c.CustomOpenAIBaseURL == "" {
			return fmt.Errorf("custom provider requires CUSTOM_OPENAI_BASE_URL")
		}
	case "openai", "openrouter", "anthropic", "ollama":
	default:
		return fmt.Errorf("unknown llm provider: %s", c.Provider)
	}
	return nil
}
