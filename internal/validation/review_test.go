package validation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ShayCichocki/pycoder/internal/llm"
	"github.com/ShayCichocki/pycoder/pkg/models"
)

type cannedBackend struct {
	reply string
	err   error
	got   []llm.Message
	calls int
}

func (c *cannedBackend) Chat(ctx context.Context, model string, messages []llm.Message) (string, error) {
	c.calls++
	c.got = messages
	return c.reply, c.err
}

func (c *cannedBackend) Name() string { return "canned" }

func TestReviewer_Pass(t *testing.T) {
	backend := &cannedBackend{reply: "PASS — looks fine\n"}
	r := NewReviewer(ReviewerConfig{Backend: backend, Model: "m"})

	v, err := r.Review(context.Background(), "print(1)")
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}

	if !v.Passed {
		t.Error("expected pass")
	}
	if v.Kind != models.VerdictReview {
		t.Errorf("Kind = %q", v.Kind)
	}
	if v.Message != "PASS — looks fine" {
		t.Errorf("Message = %q", v.Message)
	}
	if backend.calls != 1 {
		t.Errorf("backend calls = %d, want 1", backend.calls)
	}
	if len(backend.got) != 1 || !strings.Contains(backend.got[0].Content, "print(1)") {
		t.Error("review prompt should include the candidate")
	}
}

func TestReviewer_Critique(t *testing.T) {
	backend := &cannedBackend{reply: "The while loop on line 3 never terminates."}
	r := NewReviewer(ReviewerConfig{Backend: backend})

	v, err := r.Review(context.Background(), "while True:\n    pass")
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if v.Passed {
		t.Error("critique without token should fail")
	}
	if v.Message != "The while loop on line 3 never terminates." {
		t.Errorf("Message = %q", v.Message)
	}
}

func TestReviewer_LeadingMode(t *testing.T) {
	backend := &cannedBackend{reply: "This does NOT PASS: division by zero."}
	r := NewReviewer(ReviewerConfig{Backend: backend, Mode: VerdictLeading})

	v, err := r.Review(context.Background(), "print(1/0)")
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if v.Passed {
		t.Error("leading mode should not pass a negated token")
	}
}

func TestReviewer_CustomTokenInPrompt(t *testing.T) {
	backend := &cannedBackend{reply: "LGTM"}
	r := NewReviewer(ReviewerConfig{Backend: backend, PassToken: "LGTM"})

	v, err := r.Review(context.Background(), "print(1)")
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if !v.Passed {
		t.Error("expected pass with custom token")
	}
	if !strings.Contains(backend.got[0].Content, "reply 'LGTM'") {
		t.Error("review prompt should ask for the configured token")
	}
}

func TestReviewer_BackendError(t *testing.T) {
	cause := &llm.BackendError{Provider: "canned", Err: errors.New("timeout")}
	r := NewReviewer(ReviewerConfig{Backend: &cannedBackend{err: cause}})

	_, err := r.Review(context.Background(), "print(1)")

	var be *llm.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected *llm.BackendError, got %v", err)
	}
}
