package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ShayCichocki/pycoder/internal/validation"
	"github.com/ShayCichocki/pycoder/pkg/models"
)

var (
	// ErrEmptyRequest is returned when Run is given a blank request.
	ErrEmptyRequest = errors.New("request must not be empty")
	// ErrRetryExhausted is reported by Result.Err when no candidate passed.
	ErrRetryExhausted = errors.New("retry ceiling reached without a clean pass")
	// ErrDiscarded is reported by Result.Err when the user declined saving.
	ErrDiscarded = errors.New("candidate discarded")
)

// Generator drafts a candidate for a request, optionally fixing a previous failure.
type Generator interface {
	Generate(ctx context.Context, request, errorContext string) (string, error)
}

// SyntaxChecker parses a candidate without executing it.
type SyntaxChecker interface {
	Check(ctx context.Context, code string) (models.Verdict, error)
}

// Reviewer asks the model to judge a candidate.
type Reviewer interface {
	Review(ctx context.Context, code string) (models.Verdict, error)
}

// Console shows the final preview and asks for confirmation.
type Console interface {
	ShowPreview(preview string)
	Confirm(ctx context.Context, question string) (bool, error)
}

// Saver persists the final candidate and returns where it was written.
type Saver interface {
	Save(code string) (string, error)
}

// Result is the outcome of a session.
type Result struct {
	// Session is the final session record.
	Session *models.Session
	// Saved is true when the candidate was written.
	Saved bool
	// Path is where the candidate was written, if saved.
	Path string
	// Discarded is true when the user declined saving.
	Discarded bool
}

// Err returns ErrDiscarded when the user declined saving, or
// ErrRetryExhausted when the session ended without a clean pass.
func (r *Result) Err() error {
	switch {
	case r == nil || r.Session == nil:
		return nil
	case r.Discarded:
		return ErrDiscarded
	case r.Session.State == models.StateExhausted:
		return ErrRetryExhausted
	}
	return nil
}

// Orchestrator drives the draft, syntax check, review and retry cycle for a
// single request. It is not safe for concurrent use.
type Orchestrator struct {
	generator Generator
	syntax    SyntaxChecker
	reviewer  Reviewer
	retry     *validation.RetryHandler

	mode         models.Mode
	previewChars int
	autoConfirm  bool
	console      Console
	saver        Saver
	logger       *slog.Logger
	onEvent      EventHandler
	newID        func() string
}

// New creates an Orchestrator.
func New(req RequiredConfig, opts ...Option) (*Orchestrator, error) {
	if req.Generator == nil {
		return nil, errors.New("orchestrator: generator is required")
	}
	if req.Syntax == nil {
		return nil, errors.New("orchestrator: syntax checker is required")
	}
	if req.Reviewer == nil {
		return nil, errors.New("orchestrator: reviewer is required")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !o.mode.Valid() {
		return nil, fmt.Errorf("orchestrator: unknown mode %q", o.mode)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return &Orchestrator{
		generator:    req.Generator,
		syntax:       req.Syntax,
		reviewer:     req.Reviewer,
		retry:        validation.NewRetryHandler(o.retry),
		mode:         o.mode,
		previewChars: o.previewChars,
		autoConfirm:  o.autoConfirm,
		console:      o.console,
		saver:        o.saver,
		logger:       o.logger,
		onEvent:      o.onEvent,
		newID:        o.newID,
	}, nil
}

// Run refines a candidate for request and then offers it for saving.
// Backend failures end the session with an error; validation failures never
// do.
func (o *Orchestrator) Run(ctx context.Context, request string) (*Result, error) {
	session, err := o.Refine(ctx, request)
	if err != nil {
		return nil, err
	}
	return o.Finish(ctx, session)
}

// Refine runs the validation cycle and returns the session in a terminal
// state.
func (o *Orchestrator) Refine(ctx context.Context, request string) (*models.Session, error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return nil, ErrEmptyRequest
	}

	s := models.NewSession(o.newID(), request)
	o.logger.Info("session started", "session", s.ID, "mode", o.mode, "max_retries", o.retry.MaxRetries())

	var err error
	switch o.mode {
	case models.ModeSingle:
		err = o.refineSingle(ctx, s)
	default:
		err = o.refineLoop(ctx, s)
	}
	if err != nil {
		o.logger.Error("session failed", "session", s.ID, "state", s.State, "error", err)
		return s, err
	}

	o.logger.Info("session refined",
		"session", s.ID,
		"state", s.State,
		"generator_calls", s.GeneratorCalls,
		"duration", time.Since(s.StartedAt).Round(time.Millisecond))
	return s, nil
}

// refineLoop implements the bounded retry cycle. Every regenerated candidate
// goes back through the syntax check, and the last one is still validated
// before the session is marked exhausted.
func (o *Orchestrator) refineLoop(ctx context.Context, s *models.Session) error {
	if err := o.generate(ctx, s, ""); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		failed, err := o.check(ctx, s)
		if err != nil {
			return err
		}
		if failed == nil {
			o.transition(s, models.StateAccepted, EventAccepted, nil, "")
			return nil
		}

		if !o.retry.ShouldRetry(s.Regenerations) {
			o.transition(s, models.StateExhausted, EventExhausted, failed, "")
			return nil
		}

		o.emit(s, EventRetrying, failed, "")
		s.Regenerations++
		if err := o.generate(ctx, s, o.retry.Feedback(*failed)); err != nil {
			return err
		}
	}
}

// check runs the syntax validator and, if it passes, the reviewer. It
// returns the failing verdict, or nil when both passed.
func (o *Orchestrator) check(ctx context.Context, s *models.Session) (*models.Verdict, error) {
	o.transition(s, models.StateSyntaxCheck, "", nil, "")
	syntax, err := o.syntax.Check(ctx, s.Candidate)
	if err != nil {
		return nil, fmt.Errorf("syntax check: %w", err)
	}
	s.LastSyntax = &syntax
	o.emit(s, EventSyntaxChecked, &syntax, "")
	if !syntax.Passed {
		return &syntax, nil
	}

	review, err := o.review(ctx, s)
	if err != nil {
		return nil, err
	}
	if !review.Passed {
		return review, nil
	}
	return nil, nil
}

// refineSingle drafts once and reviews once.
func (o *Orchestrator) refineSingle(ctx context.Context, s *models.Session) error {
	if err := o.generate(ctx, s, ""); err != nil {
		return err
	}

	review, err := o.review(ctx, s)
	if err != nil {
		return err
	}
	if review.Passed {
		o.transition(s, models.StateAccepted, EventAccepted, nil, "")
		return nil
	}
	o.transition(s, models.StateExhausted, EventExhausted, review, "")
	return nil
}

func (o *Orchestrator) review(ctx context.Context, s *models.Session) (*models.Verdict, error) {
	o.transition(s, models.StateReviewCheck, EventReviewing, nil, "")
	review, err := o.reviewer.Review(ctx, s.Candidate)
	if err != nil {
		return nil, err
	}
	s.LastReview = &review
	o.emit(s, EventReviewed, &review, "")
	return &review, nil
}

func (o *Orchestrator) generate(ctx context.Context, s *models.Session, errorContext string) error {
	o.transition(s, models.StateDrafting, EventDrafting, nil, errorContext)
	s.GeneratorCalls++

	code, err := o.generator.Generate(ctx, s.Request, errorContext)
	if err != nil {
		return err
	}
	s.Candidate = code
	return nil
}

// Finish shows the preview and saves the candidate if the review passed or
// the user confirms.
func (o *Orchestrator) Finish(ctx context.Context, s *models.Session) (*Result, error) {
	if s == nil {
		return nil, errors.New("orchestrator: no session to finish")
	}
	if o.console == nil || o.saver == nil {
		return nil, errors.New("orchestrator: console and saver are required to finish a session")
	}

	result := &Result{Session: s}
	o.console.ShowPreview(Preview(s.Candidate, o.previewChars))

	save := s.ReviewPassed() || o.autoConfirm
	if !save {
		ok, err := o.console.Confirm(ctx, "Save anyway? (y/n): ")
		if err != nil {
			return result, fmt.Errorf("confirm save: %w", err)
		}
		save = ok
	}

	if !save {
		result.Discarded = true
		o.emit(s, EventDiscarded, nil, "")
		o.logger.Info("candidate discarded", "session", s.ID)
		return result, nil
	}

	path, err := o.saver.Save(s.Candidate)
	if err != nil {
		return result, fmt.Errorf("save candidate: %w", err)
	}
	result.Saved = true
	result.Path = path
	o.emit(s, EventSaved, nil, path)
	o.logger.Info("candidate saved", "session", s.ID, "path", path, "state", s.State)
	return result, nil
}

// transition moves the session to state and, if typ is set, emits an event.
func (o *Orchestrator) transition(s *models.Session, state models.State, typ EventType, v *models.Verdict, msg string) {
	if s.State != state {
		o.logger.Debug("state transition", "session", s.ID, "from", s.State, "to", state)
	}
	s.State = state
	if typ != "" {
		o.emit(s, typ, v, msg)
	}
}

func (o *Orchestrator) emit(s *models.Session, typ EventType, v *models.Verdict, msg string) {
	if o.onEvent == nil {
		return
	}
	o.onEvent(Event{
		Type:         typ,
		SessionID:    s.ID,
		State:        s.State,
		Request:      s.Request,
		Regeneration: s.Regenerations,
		MaxRetries:   o.retry.MaxRetries(),
		Verdict:      v,
		Message:      msg,
		Timestamp:    time.Now(),
	})
}

// Preview returns at most limit characters of code, marking truncation.
// A non-positive limit returns code unchanged.
func Preview(code string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(code) <= limit {
		return code
	}
	runes := []rune(code)
	return string(runes[:limit]) + "...\n(truncated)"
}
