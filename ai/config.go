package ai

import (
	"errors"
	"time"

	"github.com/hrygo/homebox/ai/core/llm"
	"github.com/hrygo/homebox/internal/profile"
)

// Config represents AI configuration.
type Config struct {
	LLM     LLMConfig // conversational replies, streamed
	Intent  LLMConfig // intent parsing, non-streaming and near-deterministic
	RPS     float64   // remote intent parse budget per second, <= 0 means unlimited
	Enabled bool
}

// LLMConfig represents one LLM call profile.
type LLMConfig struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// NewConfigFromProfile creates AI config from profile.
func NewConfigFromProfile(p *profile.Profile) *Config {
	cfg := &Config{
		Enabled: p.IsAIEnabled(),
		RPS:     p.IntentRPS,
	}

	if !cfg.Enabled {
		return cfg
	}

	cfg.LLM = LLMConfig{
		Provider:    p.LLMProvider,
		Model:       p.LLMModel,
		APIKey:      p.LLMAPIKey,
		BaseURL:     p.LLMBaseURL,
		MaxTokens:   600,
		Temperature: 0.7,
		Timeout:     time.Duration(p.LLMTimeout) * time.Second,
	}

	// Intent parsing shares provider and key, and may use a cheaper model.
	cfg.Intent = cfg.LLM
	cfg.Intent.Model = p.IntentModel
	cfg.Intent.Temperature = 0.05
	cfg.Intent.Timeout = time.Duration(p.IntentTimeout) * time.Second
	if cfg.Intent.Model == "" {
		cfg.Intent.Model = p.LLMModel
	}

	return cfg
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.LLM.Provider == "" {
		return errors.New("LLM provider is required")
	}
	if c.LLM.Provider != "ollama" && c.LLM.APIKey == "" {
		return errors.New("LLM API key is required")
	}
	if c.LLM.Model == "" || c.Intent.Model == "" {
		return errors.New("LLM model is required")
	}
	if c.Intent.Timeout <= 0 {
		return errors.New("intent timeout must be positive")
	}

	return nil
}

// ServiceConfig converts the call profile into an llm.Config.
func (c LLMConfig) ServiceConfig() *llm.Config {
	return &llm.Config{
		Provider:    c.Provider,
		Model:       c.Model,
		APIKey:      c.APIKey,
		BaseURL:     c.BaseURL,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
		Timeout:     c.Timeout,
	}
}
