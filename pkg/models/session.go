package models

import (
	"strings"
	"time"
)

// State is the position of a coding session in the draft/validate/retry cycle.
type State string

const (
	// StateDrafting means a candidate is being generated from the raw request.
	StateDrafting State = "drafting"
	// StateSyntaxCheck means the current candidate is being parsed.
	StateSyntaxCheck State = "syntax_check"
	// StateReviewCheck means the current candidate is with the reviewer.
	StateReviewCheck State = "review_check"
	// StateAccepted means the candidate passed every check.
	StateAccepted State = "accepted"
	// StateExhausted means the retry ceiling was reached without a clean pass.
	StateExhausted State = "exhausted"
)

// Valid returns true if the state is a known value.
func (s State) Valid() bool {
	switch s {
	case StateDrafting, StateSyntaxCheck, StateReviewCheck, StateAccepted, StateExhausted:
		return true
	default:
		return false
	}
}

// Terminal returns true if no further transitions can happen.
func (s State) Terminal() bool {
	return s == StateAccepted || s == StateExhausted
}

// Mode selects which session flow runs.
type Mode string

const (
	// ModeLoop drafts, syntax-checks, reviews and retries.
	ModeLoop Mode = "loop"
	// ModeSingle drafts once and asks for a single review.
	ModeSingle Mode = "single"
)

// Valid returns true if the mode is a known value.
func (m Mode) Valid() bool {
	return m == ModeLoop || m == ModeSingle
}

// ParseMode converts a user supplied string into a Mode.
// Unknown values return ModeLoop and false.
func ParseMode(s string) (Mode, bool) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return ModeLoop, true
	}
	if !m.Valid() {
		return ModeLoop, false
	}
	return m, true
}

// Session is the in-memory record of one request. Nothing in it outlives
// the process.
type Session struct {
	// ID identifies the session in logs and events.
	ID string
	// Request is the task description, fixed for the session.
	Request string
	// Candidate is the latest generated code.
	Candidate string
	// State is the current position in the cycle.
	State State
	// GeneratorCalls counts every call to the generator, including the draft.
	GeneratorCalls int
	// Regenerations counts generator calls made after the initial draft.
	Regenerations int
	// LastSyntax is the verdict for the most recent syntax check.
	LastSyntax *Verdict
	// LastReview is the verdict for the most recent review.
	LastReview *Verdict
	// StartedAt is when the session began.
	StartedAt time.Time
}

// NewSession creates a session in the drafting state.
func NewSession(id, request string) *Session {
	return &Session{
		ID:        id,
		Request:   request,
		State:     StateDrafting,
		StartedAt: time.Now(),
	}
}

// ReviewPassed reports whether the last review contained the pass token.
func (s *Session) ReviewPassed() bool {
	return s.LastReview != nil && s.LastReview.Passed
}
