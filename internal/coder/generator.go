// Package coder turns a natural-language request into a Python candidate.
package coder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ShayCichocki/pycoder/internal/llm"
	"github.com/ShayCichocki/pycoder/internal/prompts"
)

// ErrEmptyRequest is returned when the request has no content.
var ErrEmptyRequest = errors.New("request must not be empty")

// GeneratorConfig contains configuration for a Generator.
type GeneratorConfig struct {
	// Backend is the model service. Required.
	Backend llm.Backend
	// Model is the model identifier passed on every call.
	Model string
	// Prompts supplies the templates. Defaults to prompts.Default().
	Prompts *prompts.Set
	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

// Generator drafts Python code from a request. It makes exactly one backend
// call per Generate and never retries on its own.
type Generator struct {
	backend llm.Backend
	model   string
	prompts *prompts.Set
	logger  *slog.Logger
}

// NewGenerator creates a new Generator.
func NewGenerator(cfg GeneratorConfig) *Generator {
	p := cfg.Prompts
	if p == nil {
		p = prompts.Default()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		backend: cfg.Backend,
		model:   cfg.Model,
		prompts: p,
		logger:  logger,
	}
}

// Generate asks the backend for a script. When errorContext is non-empty the
// instruction switches to a fix-this-error framing, with the request still
// included for context. The returned code has formatting fences removed.
func (g *Generator) Generate(ctx context.Context, request, errorContext string) (string, error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return "", ErrEmptyRequest
	}

	instruction, err := g.instruction(request, errorContext)
	if err != nil {
		return "", err
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: g.prompts.System},
		{Role: llm.RoleUser, Content: instruction},
	}

	g.logger.Debug("generating candidate",
		"backend", g.backend.Name(),
		"model", g.model,
		"fix", errorContext != "")

	raw, err := g.backend.Chat(ctx, g.model, messages)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	code := StripFences(raw)
	g.logger.Debug("candidate generated", "raw_bytes", len(raw), "code_bytes", len(code))
	return code, nil
}

func (g *Generator) instruction(request, errorContext string) (string, error) {
	data := prompts.Data{Request: request, Error: strings.TrimSpace(errorContext)}
	if data.Error == "" {
		return g.prompts.Draft(data)
	}
	return g.prompts.Fix(data)
}
