package main

import (
	"fmt"

	"github.com/ShayCichocki/pycoder/internal/orchestrator"
	"github.com/ShayCichocki/pycoder/pkg/models"
)

// statusConsole is the part of the console the reporter writes to.
type statusConsole interface {
	Info(format string, args ...any)
	Section(title, body string)
	Success(message string)
	Warn(message string)
	Failure(message string)
}

// reporter turns session events into console progress lines.
type reporter struct {
	con statusConsole
}

func newReporter(con statusConsole) *reporter {
	return &reporter{con: con}
}

// Handle implements orchestrator.EventHandler.
func (r *reporter) Handle(e orchestrator.Event) {
	switch e.Type {
	case orchestrator.EventDrafting:
		if e.Regeneration == 0 {
			r.con.Info("[Coder] Drafting code for: '%s'...", e.Request)
		} else {
			r.con.Info("[Coder] Rewriting code (attempt %d/%d)...", e.Regeneration, e.MaxRetries)
		}

	case orchestrator.EventSyntaxChecked:
		if e.Verdict == nil {
			return
		}
		if e.Verdict.Passed {
			r.con.Success("Syntax OK")
		} else {
			r.con.Failure("SyntaxError: " + e.Verdict.Message)
		}

	case orchestrator.EventReviewing:
		r.con.Info("[Coder] Reviewing for bugs...")

	case orchestrator.EventReviewed:
		if e.Verdict != nil {
			r.con.Section("AI CRITIQUE", e.Verdict.Message)
		}

	case orchestrator.EventRetrying:
		r.con.Warn(fmt.Sprintf("%s check failed, retrying (%d/%d)", checkName(e.Verdict), e.Regeneration+1, e.MaxRetries))

	case orchestrator.EventAccepted:
		r.con.Success("All checks passed")

	case orchestrator.EventExhausted:
		r.con.Warn(fmt.Sprintf("No clean pass after %d regenerations; showing the last attempt", e.Regeneration))

	case orchestrator.EventSaved:
		r.con.Info("Success! Saved to %s", e.Message)

	case orchestrator.EventDiscarded:
		r.con.Info("Discarded.")
	}
}

func checkName(v *models.Verdict) string {
	if v == nil {
		return "Validation"
	}
	switch v.Kind {
	case models.VerdictSyntax:
		return "Syntax"
	case models.VerdictReview:
		return "Review"
	default:
		return "Validation"
	}
}
