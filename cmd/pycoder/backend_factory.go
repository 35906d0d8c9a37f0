package main

import (
	"fmt"
	"log/slog"

	"github.com/ShayCichocki/pycoder/internal/config"
	"github.com/ShayCichocki/pycoder/internal/llm"
)

// createBackend builds the configured model backend, bounded by the
// configured per-call timeout.
func createBackend(cfg *config.Config, tracker *llm.UsageTracker, logger *slog.Logger) (llm.Backend, error) {
	b := cfg.Backend
	baseURL := config.GetBaseURL(cfg)

	var backend llm.Backend
	switch b.Provider {
	case llm.ProviderOllama:
		ollama, err := llm.NewOllama(llm.OllamaConfig{
			BaseURL:     baseURL,
			Model:       b.Model,
			MaxTokens:   b.MaxTokens,
			Temperature: b.Temperature,
			Tracker:     tracker,
		})
		if err != nil {
			return nil, fmt.Errorf("create ollama backend: %w", err)
		}
		backend = ollama

	case llm.ProviderOpenAI:
		key, _ := config.GetAPIKey(cfg)
		backend = llm.NewOpenAI(llm.OpenAIConfig{
			BaseURL:     baseURL,
			APIKey:      key,
			MaxTokens:   b.MaxTokens,
			Temperature: float32(b.Temperature),
			Tracker:     tracker,
		})

	case llm.ProviderAnthropic:
		var key string
		if !b.UseBedrock {
			var err error
			key, err = config.GetAPIKey(cfg)
			if err != nil {
				return nil, fmt.Errorf("anthropic backend: %w (set %s or backend.api_key)", err, config.APIKeyEnv(b.Provider))
			}
		}
		anthropic, err := llm.NewAnthropic(llm.AnthropicConfig{
			APIKey:        key,
			MaxTokens:     int64(b.MaxTokens),
			Temperature:   b.Temperature,
			UseAWSBedrock: b.UseBedrock,
			AWSRegion:     b.AWSRegion,
			AWSProfile:    b.AWSProfile,
			Tracker:       tracker,
		})
		if err != nil {
			return nil, fmt.Errorf("create anthropic backend: %w", err)
		}
		backend = anthropic

	default:
		return nil, fmt.Errorf("unknown provider %q", b.Provider)
	}

	logger.Debug("backend ready",
		"provider", backend.Name(),
		"model", b.Model,
		"base_url", baseURL,
		"timeout", b.Timeout,
		"api_key_source", config.GetAPIKeySource(cfg))

	return llm.WithTimeout(backend, b.Timeout), nil
}
