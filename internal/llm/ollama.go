package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// DefaultOllamaURL is where a local Ollama server listens by default.
const DefaultOllamaURL = "http://localhost:11434"

// OllamaConfig contains configuration for the local Ollama backend.
type OllamaConfig struct {
	// BaseURL is the Ollama server. Bare host:port values get an http scheme.
	BaseURL string
	// Model is the default model, used when Chat is called without one.
	Model string
	// MaxTokens caps the reply length when positive.
	MaxTokens int
	// Temperature is passed through when positive.
	Temperature float64
	// HTTPClient overrides the transport. Optional.
	HTTPClient *http.Client
	// Tracker receives token usage. Optional.
	Tracker *UsageTracker
}

// OllamaBackend talks to a locally hosted model through langchaingo.
type OllamaBackend struct {
	model       llms.Model
	name        string
	maxTokens   int
	temperature float64
	tracker     *UsageTracker
}

// NewOllama creates a backend for a local Ollama server.
func NewOllama(cfg OllamaConfig) (*OllamaBackend, error) {
	opts := []ollama.Option{
		ollama.WithServerURL(NormalizeBaseURL(cfg.BaseURL, DefaultOllamaURL)),
	}
	if cfg.Model != "" {
		opts = append(opts, ollama.WithModel(cfg.Model))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, ollama.WithHTTPClient(cfg.HTTPClient))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}

	return newLangchainBackend(ProviderOllama, client, cfg.MaxTokens, cfg.Temperature, cfg.Tracker), nil
}

func newLangchainBackend(name string, model llms.Model, maxTokens int, temperature float64, tracker *UsageTracker) *OllamaBackend {
	return &OllamaBackend{
		model:       model,
		name:        name,
		maxTokens:   maxTokens,
		temperature: temperature,
		tracker:     tracker,
	}
}

// Name implements Backend.
func (b *OllamaBackend) Name() string {
	return b.name
}

// Chat implements Backend.
func (b *OllamaBackend) Chat(ctx context.Context, model string, messages []Message) (string, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		content = append(content, llms.TextParts(chatMessageType(m.Role), m.Content))
	}

	var callOpts []llms.CallOption
	if model != "" {
		callOpts = append(callOpts, llms.WithModel(model))
	}
	if b.maxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(b.maxTokens))
	}
	if b.temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(b.temperature))
	}

	resp, err := b.model.GenerateContent(ctx, content, callOpts...)
	if err != nil {
		return "", &BackendError{Provider: b.name, Model: model, Err: err}
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", &BackendError{Provider: b.name, Model: model, Err: fmt.Errorf("empty response")}
	}

	choice := resp.Choices[0]
	b.tracker.Add(intInfo(choice.GenerationInfo, "PromptTokens"), intInfo(choice.GenerationInfo, "CompletionTokens"))

	return choice.Content, nil
}

func chatMessageType(role Role) llms.ChatMessageType {
	switch role {
	case RoleSystem:
		return llms.ChatMessageTypeSystem
	case RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

// intInfo reads a numeric generation-info entry; providers differ in the
// concrete type they store.
func intInfo(info map[string]any, key string) int64 {
	switch v := info[key].(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// NormalizeBaseURL trims trailing slashes and adds a scheme to bare
// host:port values such as OLLAMA_HOST=127.0.0.1:11434.
func NormalizeBaseURL(raw, fallback string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = fallback
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	return strings.TrimRight(raw, "/")
}
