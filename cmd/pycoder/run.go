package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/pycoder/internal/coder"
	"github.com/ShayCichocki/pycoder/internal/config"
	"github.com/ShayCichocki/pycoder/internal/console"
	"github.com/ShayCichocki/pycoder/internal/control"
	"github.com/ShayCichocki/pycoder/internal/llm"
	"github.com/ShayCichocki/pycoder/internal/orchestrator"
	"github.com/ShayCichocki/pycoder/internal/output"
	"github.com/ShayCichocki/pycoder/internal/prompts"
	"github.com/ShayCichocki/pycoder/internal/validation"
	"github.com/ShayCichocki/pycoder/pkg/models"
)

const banner = "=== LOCAL AI CODER ==="

// errInterrupted marks a session ended by a signal or a stop file.
var errInterrupted = errors.New("interrupted")

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyFlags(cfg, flags, cmd.Flags().Changed); err != nil {
		return err
	}

	logger := newLogger(os.Stderr, flags.verbose)
	con := console.Std()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, release := watchStop(ctx, logger)
	defer release()

	con.ClearScreen()
	con.Banner(banner)

	request := strings.TrimSpace(strings.Join(args, " "))
	if request == "" {
		request, err = con.AskRequest(ctx)
		if err != nil {
			return interrupted(ctx, err)
		}
	}
	if request == "" {
		return orchestrator.ErrEmptyRequest
	}

	tracker := llm.NewUsageTracker()
	orch, err := buildOrchestrator(cfg, con, tracker, logger)
	if err != nil {
		return err
	}

	result, err := orch.Run(ctx, request)
	if err != nil {
		return interrupted(ctx, err)
	}

	in, out := tracker.Total()
	logger.Info("session complete",
		"session", result.Session.ID,
		"state", result.Session.State,
		"saved", result.Saved,
		"backend_calls", tracker.Calls(),
		"input_tokens", in,
		"output_tokens", out)

	return nil
}

// buildOrchestrator wires the backend, prompts, validators and console.
func buildOrchestrator(cfg *config.Config, con *console.Console, tracker *llm.UsageTracker, logger *slog.Logger) (*orchestrator.Orchestrator, error) {
	backend, err := createBackend(cfg, tracker, logger)
	if err != nil {
		return nil, err
	}

	set, err := prompts.Load(cfg.Prompts.File)
	if err != nil {
		return nil, err
	}

	verdict, err := validation.ParseVerdictMode(cfg.Review.Verdict)
	if err != nil {
		return nil, err
	}
	mode, _ := models.ParseMode(cfg.Session.Mode)

	generator := coder.NewGenerator(coder.GeneratorConfig{
		Backend: backend,
		Model:   cfg.Backend.Model,
		Prompts: set,
		Logger:  logger,
	})
	reviewer := validation.NewReviewer(validation.ReviewerConfig{
		Backend:   backend,
		Model:     cfg.Backend.Model,
		Prompts:   set,
		PassToken: cfg.Review.PassToken,
		Mode:      verdict,
		Logger:    logger,
	})

	return orchestrator.New(orchestrator.RequiredConfig{
		Generator: generator,
		Syntax:    validation.NewSyntaxValidator(),
		Reviewer:  reviewer,
	},
		orchestrator.WithMode(mode),
		orchestrator.WithMaxRetries(cfg.Retry.MaxRetries),
		orchestrator.WithPreviewChars(cfg.Output.PreviewChars),
		orchestrator.WithAutoConfirm(flags.yes),
		orchestrator.WithConsole(con),
		orchestrator.WithSaver(output.NewWriter(cfg.Output.Path)),
		orchestrator.WithLogger(logger),
		orchestrator.WithEventHandler(newReporter(con).Handle),
	)
}

// applyFlags copies explicitly set flags over cfg and validates the result.
func applyFlags(cfg *config.Config, f sessionFlags, changed func(string) bool) error {
	if changed("mode") {
		cfg.Session.Mode = f.mode
	}
	if changed("model") {
		cfg.Backend.Model = f.model
	}
	if changed("provider") {
		cfg.Backend.Provider = strings.ToLower(f.provider)
	}
	if changed("max-retries") {
		cfg.Retry.MaxRetries = f.maxRetries
	}
	if changed("output") {
		cfg.Output.Path = f.output
	}
	if changed("verdict") {
		cfg.Review.Verdict = f.verdict
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// watchStop cancels ctx when `pycoder stop` is run in the same directory.
func watchStop(ctx context.Context, logger *slog.Logger) (context.Context, func()) {
	cwd, err := os.Getwd()
	if err != nil {
		logger.Warn("stop signal disabled", "error", err)
		return ctx, func() {}
	}
	watched, release, err := control.Watch(ctx, cwd, logger)
	if err != nil {
		logger.Warn("stop signal disabled", "error", err)
		return ctx, func() {}
	}
	return watched, release
}

// interrupted reports err as errInterrupted when ctx was canceled.
func interrupted(ctx context.Context, err error) error {
	if ctx.Err() == nil {
		return err
	}
	if errors.Is(context.Cause(ctx), control.ErrStopRequested) {
		return fmt.Errorf("%w: stop requested", errInterrupted)
	}
	return fmt.Errorf("%w: %v", errInterrupted, err)
}
