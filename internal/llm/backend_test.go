package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

// slowBackend blocks until its context is done.
type slowBackend struct{}

func (slowBackend) Chat(ctx context.Context, model string, messages []Message) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (slowBackend) Name() string { return "slow" }

// staticBackend returns a canned reply.
type staticBackend struct {
	reply string
	err   error
}

func (s staticBackend) Chat(ctx context.Context, model string, messages []Message) (string, error) {
	return s.reply, s.err
}

func (staticBackend) Name() string { return "static" }

func TestWithTimeout_DeadlineBecomesBackendError(t *testing.T) {
	b := WithTimeout(slowBackend{}, 10*time.Millisecond)

	_, err := b.Chat(context.Background(), "m", nil)
	if err == nil {
		t.Fatal("expected timeout error")
	}

	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected *BackendError, got %T", err)
	}
	if be.Provider != "slow" {
		t.Errorf("Provider = %q, want %q", be.Provider, "slow")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected error to wrap context.DeadlineExceeded, got %v", err)
	}
}

func TestWithTimeout_PassesReplyThrough(t *testing.T) {
	b := WithTimeout(staticBackend{reply: "ok"}, time.Second)

	got, err := b.Chat(context.Background(), "m", nil)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if got != "ok" {
		t.Errorf("reply = %q, want %q", got, "ok")
	}
	if b.Name() != "static" {
		t.Errorf("Name = %q, want %q", b.Name(), "static")
	}
}

func TestWithTimeout_ZeroReturnsSameBackend(t *testing.T) {
	inner := staticBackend{reply: "ok"}
	if got := WithTimeout(inner, 0); got != Backend(inner) {
		t.Error("WithTimeout(0) should return the backend unchanged")
	}
}

func TestWithTimeout_KeepsExistingBackendError(t *testing.T) {
	original := &BackendError{Provider: "static", Model: "m", Err: errors.New("refused")}
	b := WithTimeout(staticBackend{err: original}, time.Second)

	_, err := b.Chat(context.Background(), "m", nil)
	if err != original {
		t.Errorf("expected original error, got %v", err)
	}
}

func TestBackendError(t *testing.T) {
	inner := errors.New("connection refused")
	err := &BackendError{Provider: "ollama", Model: "qwen2.5-coder:14b", Err: inner}

	want := "ollama backend (model qwen2.5-coder:14b): connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, inner) {
		t.Error("BackendError should unwrap to the inner error")
	}
}

func TestValidProvider(t *testing.T) {
	for _, name := range []string{"ollama", "openai", "anthropic", "Ollama"} {
		if !ValidProvider(name) {
			t.Errorf("ValidProvider(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"", "gemini"} {
		if ValidProvider(name) {
			t.Errorf("ValidProvider(%q) = true, want false", name)
		}
	}
}

func TestSplitSystem(t *testing.T) {
	system, rest := splitSystem([]Message{
		{Role: RoleSystem, Content: "be terse"},
		{Role: RoleUser, Content: "hi"},
		{Role: RoleSystem, Content: "python only"},
		{Role: RoleAssistant, Content: "hello"},
	})

	if system != "be terse\n\npython only" {
		t.Errorf("system = %q", system)
	}
	if len(rest) != 2 {
		t.Fatalf("len(rest) = %d, want 2", len(rest))
	}
	if rest[0].Role != RoleUser || rest[1].Role != RoleAssistant {
		t.Errorf("unexpected roles: %v, %v", rest[0].Role, rest[1].Role)
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		raw, fallback, want string
	}{
		{"", DefaultOllamaURL, "http://localhost:11434"},
		{"127.0.0.1:11434", DefaultOllamaURL, "http://127.0.0.1:11434"},
		{"https://gpu-box:11434/", DefaultOllamaURL, "https://gpu-box:11434"},
		{"  http://localhost:1234/v1 ", DefaultOpenAIURL, "http://localhost:1234/v1"},
	}

	for _, tt := range tests {
		if got := NormalizeBaseURL(tt.raw, tt.fallback); got != tt.want {
			t.Errorf("NormalizeBaseURL(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestUsageTracker(t *testing.T) {
	tracker := NewUsageTracker()

	tracker.Add(100, 50)
	tracker.Add(200, 100)

	input, output := tracker.Total()
	if input != 300 || output != 150 {
		t.Errorf("Total() = (%d, %d), want (300, 150)", input, output)
	}
	if tracker.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", tracker.Calls())
	}

	tracker.Reset()
	input, output = tracker.Total()
	if input != 0 || output != 0 || tracker.Calls() != 0 {
		t.Error("Reset should clear all counters")
	}
}

func TestUsageTracker_NilSafe(t *testing.T) {
	var tracker *UsageTracker
	tracker.Add(1, 1)
	if tracker.Calls() != 0 {
		t.Error("nil tracker should report zero calls")
	}
}
