package config

import (
	"errors"
	"testing"
)

func TestGetAPIKey(t *testing.T) {
	t.Run("env wins", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "sk-ant-from-env-1234567890")
		cfg := Default()
		cfg.Backend.Provider = "anthropic"
		cfg.Backend.APIKey = "sk-ant-from-config-12345"

		key, err := GetAPIKey(cfg)
		if err != nil {
			t.Fatalf("GetAPIKey failed: %v", err)
		}
		if key != "sk-ant-from-env-1234567890" {
			t.Errorf("expected env key, got %q", key)
		}
		if GetAPIKeySource(cfg) != KeySourceEnv {
			t.Errorf("expected env source, got %q", GetAPIKeySource(cfg))
		}
	})

	t.Run("config fallback", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		cfg := Default()
		cfg.Backend.Provider = "openai"
		cfg.Backend.APIKey = "sk-local"

		key, err := GetAPIKey(cfg)
		if err != nil {
			t.Fatalf("GetAPIKey failed: %v", err)
		}
		if key != "sk-local" {
			t.Errorf("expected config key, got %q", key)
		}
		if GetAPIKeySource(cfg) != KeySourceConfig {
			t.Errorf("expected config source, got %q", GetAPIKeySource(cfg))
		}
	})

	t.Run("unexpanded reference", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "")
		cfg := Default()
		cfg.Backend.Provider = "anthropic"
		cfg.Backend.APIKey = "${PYCODER_UNSET_VARIABLE}"

		if _, err := GetAPIKey(cfg); !errors.Is(err, ErrNoAPIKey) {
			t.Errorf("expected ErrNoAPIKey, got %v", err)
		}
	})

	t.Run("ollama needs none", func(t *testing.T) {
		key, err := GetAPIKey(Default())
		if err != nil || key != "" {
			t.Errorf("GetAPIKey = %q, %v", key, err)
		}
		if GetAPIKeySource(Default()) != KeySourceNone {
			t.Error("expected no key source for ollama")
		}
	})
}

func TestGetBaseURL(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "127.0.0.1:11500")
	cfg := Default()
	cfg.Backend.BaseURL = "http://ignored:1"

	if got := GetBaseURL(cfg); got != "http://127.0.0.1:11500" {
		t.Errorf("GetBaseURL = %q", got)
	}

	cfg.Backend.Provider = "openai"
	if got := GetBaseURL(cfg); got != "http://ignored:1" {
		t.Errorf("OLLAMA_HOST should only affect ollama, got %q", got)
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", "(not set)"},
		{"short", "***"},
		{"sk-ant-REDACTED", "sk-ant-...mnop"},
	}

	for _, tt := range tests {
		if got := MaskAPIKey(tt.key); got != tt.want {
			t.Errorf("MaskAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestGetAndSet(t *testing.T) {
	cfg := Default()

	if err := Set(cfg, "retry.max_retries", "5"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, _ := Get(cfg, "retry.max_retries"); got != "5" {
		t.Errorf("Get = %q, want 5", got)
	}

	if err := Set(cfg, "Backend.Timeout", "30s"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, _ := Get(cfg, "backend.timeout"); got != "30s" {
		t.Errorf("Get = %q, want 30s", got)
	}

	if err := Set(cfg, "backend.api_key", "sk-ant-REDACTED"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, _ := Get(cfg, "backend.api_key"); got != "sk-ant-...mnop" {
		t.Errorf("api key should be masked, got %q", got)
	}
}

func TestSetRejectsInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"retry.max_retries", "many"},
		{"retry.max_retries", "-1"},
		{"backend.provider", "gemini"},
		{"backend.timeout", "soon"},
		{"backend.use_bedrock", "maybe"},
		{"review.verdict", "fuzzy"},
		{"no.such.key", "x"},
	}

	for _, tt := range tests {
		cfg := Default()
		if err := Set(cfg, tt.key, tt.value); err == nil {
			t.Errorf("Set(%q, %q) should fail", tt.key, tt.value)
		}
		if cfg.Retry.MaxRetries != 3 || cfg.Backend.Provider != "ollama" {
			t.Errorf("Set(%q, %q) modified config on failure", tt.key, tt.value)
		}
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()
	if len(keys) == 0 || keys[0] != "backend.provider" {
		t.Errorf("unexpected keys %v", keys)
	}
	for _, k := range keys {
		if _, err := Get(Default(), k); err != nil {
			t.Errorf("Get(%q) failed: %v", k, err)
		}
	}
}
