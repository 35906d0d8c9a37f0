// Package llm provides the model backends pycoder talks to.
// Every backend is a synchronous request/response call: a model name and an
// ordered list of role-tagged messages in, a single text response out.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role tags a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a chat conversation.
type Message struct {
	Role    Role
	Content string
}

// Backend is an opaque language-model service.
type Backend interface {
	// Chat sends messages to the named model and returns the reply text.
	Chat(ctx context.Context, model string, messages []Message) (string, error)
	// Name returns the provider name used in logs and errors.
	Name() string
}

// BackendError is returned when a model call fails. It is always fatal to
// the session.
type BackendError struct {
	Provider string
	Model    string
	Err      error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend (model %s): %v", e.Provider, e.Model, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Provider names accepted by the factory.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// ValidProvider reports whether name is a supported provider.
func ValidProvider(name string) bool {
	switch strings.ToLower(name) {
	case ProviderOllama, ProviderOpenAI, ProviderAnthropic:
		return true
	default:
		return false
	}
}

// timeoutBackend bounds every call with a deadline.
type timeoutBackend struct {
	inner   Backend
	timeout time.Duration
}

// WithTimeout wraps b so each Chat call is cancelled after d.
// A non-positive d returns b unchanged.
func WithTimeout(b Backend, d time.Duration) Backend {
	if d <= 0 {
		return b
	}
	return &timeoutBackend{inner: b, timeout: d}
}

func (t *timeoutBackend) Chat(ctx context.Context, model string, messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	reply, err := t.inner.Chat(ctx, model, messages)
	if err != nil {
		if ctx.Err() != nil && !isBackendError(err) {
			return "", &BackendError{Provider: t.inner.Name(), Model: model, Err: ctx.Err()}
		}
		return "", err
	}
	return reply, nil
}

func (t *timeoutBackend) Name() string {
	return t.inner.Name()
}

func isBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}

// splitSystem separates system messages from the conversation. Providers
// that take the system prompt out of band use this.
func splitSystem(messages []Message) (system string, rest []Message) {
	var parts []string
	for _, m := range messages {
		if m.Role == RoleSystem {
			parts = append(parts, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(parts, "\n\n"), rest
}
