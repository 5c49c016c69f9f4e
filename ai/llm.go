package ai

import (
	"github.com/pkg/errors"

	"github.com/hrygo/homebox/ai/core/llm"
)

// Services holds the LLM clients used by the assistant.
// Both are nil when AI is disabled; callers then run the local parser only.
type Services struct {
	Reply  llm.Service
	Intent llm.Service
}

// NewServices creates the reply and intent LLM clients from cfg.
func NewServices(cfg *Config) (*Services, error) {
	if cfg == nil || !cfg.Enabled {
		return &Services{}, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid AI config")
	}

	reply, err := llm.NewService(cfg.LLM.ServiceConfig())
	if err != nil {
		return nil, errors.Wrap(err, "failed to create reply LLM")
	}
	intent, err := llm.NewService(cfg.Intent.ServiceConfig())
	if err != nil {
		return nil, errors.Wrap(err, "failed to create intent LLM")
	}
	return &Services{Reply: reply, Intent: intent}, nil
}
