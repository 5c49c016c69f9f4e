package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/homebox/internal/version"
)

// Profile is configuration to start the homebox assistant.
type Profile struct {
	// Unified LLM configuration (OpenAI-compatible protocol).
	// Replies and intent parsing share provider and key; intent parsing may use its own model.
	LLMProvider string // openrouter, deepseek, openai, siliconflow, dashscope, zai, ollama
	LLMAPIKey   string
	LLMBaseURL  string // optional, has default per provider
	LLMModel    string
	LLMTimeout  int // reply request timeout in seconds (default: 120)

	// Intent parsing configuration
	IntentModel   string  // defaults to LLMModel
	IntentTimeout int     // seconds, bounds the remote parse (default: 20)
	IntentRPS     float64 // remote parse budget per second, <= 0 disables limiting

	Mode     string
	Addr     string
	Port     int
	Data     string
	Driver   string
	DSN      string
	LogLevel string
	Version  string
}

// Provider default configurations for LLM.
// Used when HOMEBOX_LLM_BASE_URL or HOMEBOX_LLM_MODEL is not explicitly set.
var llmProviderDefaults = map[string]struct {
	BaseURL string
	Model   string
}{
	"openrouter": {
		BaseURL: "https://openrouter.ai/api/v1",
		Model:   "stepfun/step-3.5-flash:free",
	},
	"deepseek": {
		BaseURL: "https://api.deepseek.com",
		Model:   "deepseek-chat",
	},
	"openai": {
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
	},
	"siliconflow": {
		BaseURL: "https://api.siliconflow.cn/v1",
		Model:   "Qwen/Qwen2.5-7B-Instruct",
	},
	"dashscope": {
		BaseURL: "https://dashscope.aliyuncs.com/compatible-mode/v1",
		Model:   "qwen-plus",
	},
	"zai": {
		BaseURL: "https://open.bigmodel.cn/api/paas/v4",
		Model:   "glm-4-flash",
	},
	"ollama": {
		BaseURL: "http://localhost:11434/v1",
		Model:   "qwen2.5",
	},
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if an LLM API key is configured.
// Ollama runs locally and needs no key.
func (p *Profile) IsAIEnabled() bool {
	return p.LLMAPIKey != "" || p.LLMProvider == "ollama"
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvOrDefaultFloat returns environment variable value as float64 or default value.
func getEnvOrDefaultFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// FromEnv loads LLM configuration from environment variables.
func (p *Profile) FromEnv() {
	p.LLMProvider = getEnvOrDefault("HOMEBOX_LLM_PROVIDER", "openrouter")
	p.LLMAPIKey = getEnvOrDefault("HOMEBOX_LLM_API_KEY", "")
	p.LLMBaseURL = getEnvOrDefault("HOMEBOX_LLM_BASE_URL", "")
	p.LLMModel = getEnvOrDefault("HOMEBOX_LLM_MODEL", "")
	p.LLMTimeout = getEnvOrDefaultInt("HOMEBOX_LLM_TIMEOUT_SECONDS", 120)

	p.IntentModel = getEnvOrDefault("HOMEBOX_INTENT_MODEL", "")
	p.IntentTimeout = getEnvOrDefaultInt("HOMEBOX_INTENT_TIMEOUT_SECONDS", 20)
	p.IntentRPS = getEnvOrDefaultFloat("HOMEBOX_INTENT_RPS", 1)

	p.applyProviderDefaults()
}

func (p *Profile) applyProviderDefaults() {
	if _, ok := llmProviderDefaults[p.LLMProvider]; !ok {
		slog.Warn("Unknown LLM provider, using default: openrouter", "provider", p.LLMProvider)
		p.LLMProvider = "openrouter"
	}
	defaults := llmProviderDefaults[p.LLMProvider]
	if p.LLMBaseURL == "" {
		p.LLMBaseURL = defaults.BaseURL
	}
	if p.LLMModel == "" {
		p.LLMModel = defaults.Model
	}
	if p.IntentModel == "" {
		p.IntentModel = p.LLMModel
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		absDir, err := filepath.Abs(dataDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Version != "" && !version.IsValid(p.Version) {
		return errors.Errorf("invalid build version %q", p.Version)
	}
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}
	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported driver %q", p.Driver)
	}

	if p.Driver == "postgres" {
		if p.DSN == "" {
			return errors.New("dsn is required for postgres")
		}
		return nil
	}

	if p.DSN != "" {
		return nil
	}

	if p.Data == "" {
		p.Data = "."
	}
	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", p.Data), slog.String("error", err.Error()))
		return err
	}
	p.Data = dataDir
	p.DSN = filepath.Join(dataDir, fmt.Sprintf("homebox_%s.db", p.Mode))
	return nil
}
