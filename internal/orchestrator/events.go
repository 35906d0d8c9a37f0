package orchestrator

import (
	"time"

	"github.com/ShayCichocki/pycoder/pkg/models"
)

// EventType represents the type of session event.
type EventType string

const (
	// EventDrafting indicates the generator was called.
	EventDrafting EventType = "drafting"
	// EventSyntaxChecked indicates a syntax verdict is available.
	EventSyntaxChecked EventType = "syntax_checked"
	// EventReviewing indicates a review call is about to be made.
	EventReviewing EventType = "reviewing"
	// EventReviewed indicates a review verdict is available.
	EventReviewed EventType = "reviewed"
	// EventRetrying indicates a failed verdict will trigger regeneration.
	EventRetrying EventType = "retrying"
	// EventAccepted indicates the candidate passed every check.
	EventAccepted EventType = "accepted"
	// EventExhausted indicates the retry ceiling was reached.
	EventExhausted EventType = "exhausted"
	// EventSaved indicates the candidate was written to disk.
	EventSaved EventType = "saved"
	// EventDiscarded indicates the user declined saving.
	EventDiscarded EventType = "discarded"
)

// Event describes one step of a session. Events are delivered synchronously,
// in order, on the session goroutine.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// SessionID is the ID of the session.
	SessionID string
	// State is the session state after the step.
	State models.State
	// Request is the task description.
	Request string
	// Regeneration is the number of regenerations made so far.
	Regeneration int
	// MaxRetries is the retry ceiling.
	MaxRetries int
	// Verdict is set for checked and retrying events.
	Verdict *models.Verdict
	// Message provides additional context, e.g. the saved path.
	Message string
	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// EventHandler receives session events.
type EventHandler func(Event)
