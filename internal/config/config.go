// Package config loads scout configuration from the platform-native
// backend with environment variable overrides.
package config

import (
	"fmt"
	"strings"
)

type Config struct {
	Server   ServerConfig
	LLM      LLMConfig
	Ollama   OllamaConfig
	Proxy    ProxyConfig
	Storage  StorageConfig
	Log      LogConfig
	Matcher  MatcherConfig
	Sessions SessionsConfig
}

type ServerConfig struct {
	Port  int
	Token string
}

type LLMConfig struct {
	// Provider selects the generation backend: "ollama", "openrouter"
	// or "mock".
	Provider string
}

type OllamaConfig struct {
	BaseURL      string
	ChatModel    string
	ExtractModel string
}

type ProxyConfig struct {
	OpenRouterAPIKey string
	DefaultModel     string
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

type MatcherConfig struct {
	Threshold float64
	TopK      int
}

type SessionsConfig struct {
	RetentionDays int
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4000,
		},
		LLM: LLMConfig{
			Provider: "ollama",
		},
		Ollama: OllamaConfig{
			BaseURL:      "http://localhost:11434",
			ChatModel:    "llama3.1",
			ExtractModel: "phi3.5",
		},
		Proxy: ProxyConfig{
			DefaultModel: "anthropic/claude-opus-4",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
		Matcher: MatcherConfig{
			Threshold: 0.1,
			TopK:      3,
		},
		Sessions: SessionsConfig{
			RetentionDays: 30,
		},
	}
}

// Load reads configuration from the platform-native backend, environment
// variables, and platform secret store.
//
// On macOS the backend is UserDefaults (domain: com.scout.app) and secrets
// fall back to macOS Keychain.
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/scout/config.json
// and secrets live in $XDG_DATA_HOME/scout/secrets.json.
//
// Environment variables (SCOUT_*) override backend values on all platforms.
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), keychainReader{})
}

// keychain abstracts Keychain access for testing.
type keychain interface {
	Get(service, account string) (string, error)
}

func loadWith(b ConfigBackend, kc keychain) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	// Try the platform keychain for the API key if still empty.
	if cfg.Proxy.OpenRouterAPIKey == "" {
		if key, err := kc.Get("scout", "openrouter_api_key"); err == nil && key != "" {
			cfg.Proxy.OpenRouterAPIKey = key
		}
	}

	if cfg.LLM.Provider == "openrouter" && cfg.Proxy.OpenRouterAPIKey == "" {
		msg := "missing required config: OpenRouter API key. " +
			"Set it via environment variable SCOUT_OPENROUTER_API_KEY" +
			apiKeyHint()
		return Config{}, fmt.Errorf("%s", msg)
	}

	switch cfg.LLM.Provider {
	case "ollama", "openrouter", "mock":
	default:
		return Config{}, fmt.Errorf("unknown llm provider %q; expected ollama, openrouter or mock", cfg.LLM.Provider)
	}

	return cfg, nil
}

// keychainReader reads from the platform secret store.
type keychainReader struct{}

func (keychainReader) Get(service, account string) (string, error) {
	out, err := keychainExec(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
