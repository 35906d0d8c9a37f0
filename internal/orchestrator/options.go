package orchestrator

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/ShayCichocki/pycoder/internal/validation"
	"github.com/ShayCichocki/pycoder/pkg/models"
)

// DefaultPreviewChars is how much of the final candidate is shown before
// asking to save.
const DefaultPreviewChars = 500

// RequiredConfig contains the minimal required configuration for an Orchestrator.
// All fields are required and have no defaults.
type RequiredConfig struct {
	// Generator drafts candidates.
	Generator Generator
	// Syntax parses candidates offline.
	Syntax SyntaxChecker
	// Reviewer asks the model for a verdict.
	Reviewer Reviewer
}

// Option configures an Orchestrator. Use With* functions to create Options.
type Option func(*orchestratorOptions)

// orchestratorOptions holds all optional configuration.
type orchestratorOptions struct {
	mode         models.Mode
	retry        validation.RetryConfig
	previewChars int
	autoConfirm  bool
	console      Console
	saver        Saver
	logger       *slog.Logger
	onEvent      EventHandler
	newID        func() string
}

func defaultOptions() orchestratorOptions {
	return orchestratorOptions{
		mode:         models.ModeLoop,
		retry:        validation.DefaultRetryConfig(),
		previewChars: DefaultPreviewChars,
		newID:        uuid.NewString,
	}
}

// WithMode selects the session flow.
func WithMode(m models.Mode) Option {
	return func(o *orchestratorOptions) { o.mode = m }
}

// WithMaxRetries sets the regeneration ceiling shared by both checks.
func WithMaxRetries(n int) Option {
	return func(o *orchestratorOptions) { o.retry.MaxRetries = n }
}

// WithFailureContext toggles passing failure details to the next generation.
func WithFailureContext(inject bool) Option {
	return func(o *orchestratorOptions) { o.retry.InjectFailureContext = inject }
}

// WithPreviewChars sets the preview length in characters.
func WithPreviewChars(n int) Option {
	return func(o *orchestratorOptions) { o.previewChars = n }
}

// WithAutoConfirm saves without prompting even when the review did not pass.
func WithAutoConfirm(b bool) Option {
	return func(o *orchestratorOptions) { o.autoConfirm = b }
}

// WithConsole sets where previews are shown and confirmation is asked.
func WithConsole(c Console) Option {
	return func(o *orchestratorOptions) { o.console = c }
}

// WithSaver sets where accepted candidates are written.
func WithSaver(s Saver) Option {
	return func(o *orchestratorOptions) { o.saver = s }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *orchestratorOptions) { o.logger = l }
}

// WithEventHandler registers a handler for session events.
func WithEventHandler(h EventHandler) Option {
	return func(o *orchestratorOptions) { o.onEvent = h }
}
