package validation

import (
	"fmt"
	"strings"

	"github.com/ShayCichocki/pycoder/pkg/models"
)

// RetryConfig configures retry behavior.
type RetryConfig struct {
	// MaxRetries is the number of regenerations allowed after the initial
	// draft (default: 3). Zero means the draft is the only attempt.
	MaxRetries int
	// InjectFailureContext indicates whether failure details are passed to
	// the next generation.
	InjectFailureContext bool
}

// DefaultRetryConfig returns sensible defaults for retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:           3,
		InjectFailureContext: true,
	}
}

// RetryHandler decides whether another regeneration is allowed and builds
// the error context for it. The regeneration budget is shared by syntax and
// review failures.
type RetryHandler struct {
	config RetryConfig
}

// NewRetryHandler creates a new retry handler.
func NewRetryHandler(config RetryConfig) *RetryHandler {
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	return &RetryHandler{
		config: config,
	}
}

// MaxRetries returns the regeneration ceiling.
func (h *RetryHandler) MaxRetries() int {
	return h.config.MaxRetries
}

// ShouldRetry reports whether a regeneration may follow, given how many
// have already been made.
func (h *RetryHandler) ShouldRetry(regenerations int) bool {
	return regenerations < h.config.MaxRetries
}

// Feedback turns a failed verdict into the error context for the next
// generation. It returns "" when failure context injection is disabled.
func (h *RetryHandler) Feedback(v models.Verdict) string {
	if !h.config.InjectFailureContext {
		return ""
	}

	switch v.Kind {
	case models.VerdictSyntax:
		msg := strings.TrimPrefix(v.Message, fmt.Sprintf("line %d: ", v.Line))
		if v.Line > 0 {
			return fmt.Sprintf("SyntaxError on line %d: %s", v.Line, msg)
		}
		return "SyntaxError: " + msg
	case models.VerdictReview:
		return "Code review found problems:\n" + v.Message
	default:
		return v.Message
	}
}
