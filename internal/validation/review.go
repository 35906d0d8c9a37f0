package validation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ShayCichocki/pycoder/internal/llm"
	"github.com/ShayCichocki/pycoder/internal/prompts"
	"github.com/ShayCichocki/pycoder/pkg/models"
)

// ReviewerConfig contains configuration for a Reviewer.
type ReviewerConfig struct {
	// Backend is the model service. Required.
	Backend llm.Backend
	// Model is the model identifier passed on every call.
	Model string
	// Prompts supplies the review template. Defaults to prompts.Default().
	Prompts *prompts.Set
	// PassToken is the marker that signals approval. Defaults to "PASS".
	PassToken string
	// Mode decides how replies are interpreted. Defaults to VerdictSubstring.
	Mode VerdictMode
	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

// Reviewer asks the model to judge a candidate for infinite-loop risk,
// nonexistent libraries and logical errors.
type Reviewer struct {
	backend   llm.Backend
	model     string
	prompts   *prompts.Set
	passToken string
	mode      VerdictMode
	logger    *slog.Logger
}

// NewReviewer creates a new Reviewer.
func NewReviewer(cfg ReviewerConfig) *Reviewer {
	r := &Reviewer{
		backend:   cfg.Backend,
		model:     cfg.Model,
		prompts:   cfg.Prompts,
		passToken: cfg.PassToken,
		mode:      cfg.Mode,
		logger:    cfg.Logger,
	}
	if r.prompts == nil {
		r.prompts = prompts.Default()
	}
	if r.passToken == "" {
		r.passToken = DefaultPassToken
	}
	if r.mode == "" {
		r.mode = VerdictSubstring
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Review makes one backend call and interprets the reply. The verdict
// message is the reply text, trimmed.
func (r *Reviewer) Review(ctx context.Context, code string) (models.Verdict, error) {
	prompt, err := r.prompts.Review(prompts.Data{Code: code, PassToken: r.passToken})
	if err != nil {
		return models.Verdict{}, err
	}

	reply, err := r.backend.Chat(ctx, r.model, []llm.Message{
		{Role: llm.RoleUser, Content: prompt},
	})
	if err != nil {
		return models.Verdict{}, fmt.Errorf("review: %w", err)
	}

	passed := IsPass(reply, r.passToken, r.mode)
	r.logger.Debug("review verdict", "passed", passed, "mode", r.mode, "reply_bytes", len(reply))

	return models.Verdict{
		Kind:    models.VerdictReview,
		Passed:  passed,
		Message: strings.TrimSpace(reply),
	}, nil
}
