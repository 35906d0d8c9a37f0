package config

import (
	"errors"
	"os"
	"strings"

	"github.com/ShayCichocki/pycoder/internal/llm"
)

// ErrNoAPIKey is returned when a hosted provider has no API key.
var ErrNoAPIKey = errors.New("no API key configured")

// KeySource represents where an API key was loaded from.
type KeySource string

const (
	KeySourceEnv    KeySource = "environment"
	KeySourceConfig KeySource = "config_file"
	KeySourceNone   KeySource = "none"
)

// apiKeyEnv maps providers to their conventional key variable.
var apiKeyEnv = map[string]string{
	llm.ProviderAnthropic: "ANTHROPIC_API_KEY",
	llm.ProviderOpenAI:    "OPENAI_API_KEY",
}

// APIKeyEnv returns the environment variable consulted for provider's key,
// or "" if the provider needs none.
func APIKeyEnv(provider string) string {
	return apiKeyEnv[provider]
}

// GetAPIKey returns the API key for the configured provider.
// It checks in order: provider environment variable, config file.
// Ollama needs no key and always returns "".
func GetAPIKey(cfg *Config) (string, error) {
	key, source := resolveAPIKey(cfg)
	if source == KeySourceNone {
		if cfg != nil && cfg.Backend.Provider == llm.ProviderOllama {
			return "", nil
		}
		return "", ErrNoAPIKey
	}
	return key, nil
}

// GetAPIKeySource returns where the API key was sourced from.
func GetAPIKeySource(cfg *Config) KeySource {
	_, source := resolveAPIKey(cfg)
	return source
}

func resolveAPIKey(cfg *Config) (string, KeySource) {
	if cfg == nil {
		return "", KeySourceNone
	}

	if env := APIKeyEnv(cfg.Backend.Provider); env != "" {
		if key := os.Getenv(env); key != "" {
			return key, KeySourceEnv
		}
	}

	if cfg.Backend.APIKey != "" {
		key := os.ExpandEnv(cfg.Backend.APIKey)
		if key != "" && !strings.HasPrefix(key, "${") {
			return key, KeySourceConfig
		}
	}

	return "", KeySourceNone
}

// GetBaseURL returns the backend endpoint. For ollama, OLLAMA_HOST wins
// over the config file.
func GetBaseURL(cfg *Config) string {
	if cfg.Backend.Provider == llm.ProviderOllama {
		if host := os.Getenv("OLLAMA_HOST"); host != "" {
			return llm.NormalizeBaseURL(host, llm.DefaultOllamaURL)
		}
	}
	return cfg.Backend.BaseURL
}

// MaskAPIKey returns a masked version of the API key for display.
// Shows the first 7 and last 4 characters.
func MaskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}

	if len(key) <= 15 {
		return "***"
	}

	return key[:7] + "..." + key[len(key)-4:]
}
