package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ShayCichocki/pycoder/internal/config"
)

func TestSetConfigKeyWritesUserFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	if err := setConfigKey(&out, "retry.max_retries", "5"); err != nil {
		t.Fatalf("setConfigKey failed: %v", err)
	}
	if !strings.Contains(out.String(), "Set retry.max_retries = 5") {
		t.Errorf("output = %q", out.String())
	}

	cfg, err := config.LoadUser()
	if err != nil {
		t.Fatalf("LoadUser failed: %v", err)
	}
	if cfg.Retry.MaxRetries != 5 {
		t.Errorf("max_retries = %d, want 5", cfg.Retry.MaxRetries)
	}
}

func TestSetConfigKeyRejectsInvalid(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := setConfigKey(&bytes.Buffer{}, "session.mode", "forever"); err == nil {
		t.Error("expected error for invalid mode")
	}
}

func TestDisplayAllConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	if err := displayAllConfig(&out, config.Default()); err != nil {
		t.Fatalf("displayAllConfig failed: %v", err)
	}

	for _, want := range []string{
		"backend.provider: ollama",
		"backend.api_key: (not set)",
		"retry.max_retries: 3",
		"output.path: generated_script.py",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}
}
