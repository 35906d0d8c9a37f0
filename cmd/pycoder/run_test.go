package main

import (
	"context"
	"errors"
	"testing"

	"github.com/ShayCichocki/pycoder/internal/config"
	"github.com/ShayCichocki/pycoder/internal/control"
	"github.com/ShayCichocki/pycoder/internal/orchestrator"
)

func changedSet(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestApplyFlags_OnlyChanged(t *testing.T) {
	cfg := config.Default()
	f := sessionFlags{
		mode:       "single",
		model:      "codellama",
		provider:   "OpenAI",
		maxRetries: 0,
		output:     "out.py",
		verdict:    "leading",
	}

	if err := applyFlags(cfg, f, changedSet("model", "provider", "max-retries")); err != nil {
		t.Fatalf("applyFlags failed: %v", err)
	}

	if cfg.Backend.Model != "codellama" {
		t.Errorf("model = %q", cfg.Backend.Model)
	}
	if cfg.Backend.Provider != "openai" {
		t.Errorf("provider = %q", cfg.Backend.Provider)
	}
	if cfg.Retry.MaxRetries != 0 {
		t.Errorf("max retries = %d, want 0", cfg.Retry.MaxRetries)
	}
	if cfg.Session.Mode != "loop" {
		t.Errorf("unchanged mode flag should keep config, got %q", cfg.Session.Mode)
	}
	if cfg.Output.Path != "generated_script.py" {
		t.Errorf("unchanged output flag should keep config, got %q", cfg.Output.Path)
	}
}

func TestApplyFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		f    sessionFlags
		flag string
	}{
		{"mode", sessionFlags{mode: "forever"}, "mode"},
		{"verdict", sessionFlags{verdict: "vibes"}, "verdict"},
		{"provider", sessionFlags{provider: "gemini"}, "provider"},
		{"retries", sessionFlags{maxRetries: -2}, "max-retries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := applyFlags(config.Default(), tt.f, changedSet(tt.flag)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	if got := exitCode(errors.New("boom")); got != 1 {
		t.Errorf("generic error = %d", got)
	}
	if got := exitCode(orchestrator.ErrEmptyRequest); got != 2 {
		t.Errorf("empty request = %d", got)
	}
	if got := exitCode(interrupted(canceledCtx(nil), context.Canceled)); got != 130 {
		t.Errorf("interrupted = %d", got)
	}
}

func TestInterrupted(t *testing.T) {
	cause := errors.New("backend down")
	if got := interrupted(context.Background(), cause); got != cause {
		t.Errorf("live context should pass error through, got %v", got)
	}

	err := interrupted(canceledCtx(control.ErrStopRequested), context.Canceled)
	if !errors.Is(err, errInterrupted) {
		t.Errorf("err = %v, want errInterrupted", err)
	}
	if err.Error() != "interrupted: stop requested" {
		t.Errorf("message = %q", err.Error())
	}
}

func canceledCtx(cause error) context.Context {
	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(cause)
	return ctx
}
