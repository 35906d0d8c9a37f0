package llm

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultOpenAIURL targets LM Studio's OpenAI-compatible server.
const DefaultOpenAIURL = "http://localhost:1234/v1"

// OpenAIConfig contains configuration for OpenAI-compatible servers
// (LM Studio, llama.cpp server, vLLM).
type OpenAIConfig struct {
	// BaseURL is the API root including the /v1 suffix.
	BaseURL string
	// APIKey is sent as a bearer token. Local servers usually ignore it.
	// If empty, uses OPENAI_API_KEY env var.
	APIKey string
	// MaxTokens caps the reply length when positive.
	MaxTokens int
	// Temperature is passed through when positive.
	Temperature float32
	// Tracker receives token usage. Optional.
	Tracker *UsageTracker
}

// chatCompleter is the subset of *openai.Client used here.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIBackend talks to any server implementing the chat completions API.
type OpenAIBackend struct {
	client      chatCompleter
	maxTokens   int
	temperature float32
	tracker     *UsageTracker
}

// NewOpenAI creates a backend for an OpenAI-compatible server.
func NewOpenAI(cfg OpenAIConfig) *OpenAIBackend {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		apiKey = "local"
	}

	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = NormalizeBaseURL(cfg.BaseURL, DefaultOpenAIURL)

	return &OpenAIBackend{
		client:      openai.NewClientWithConfig(clientCfg),
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		tracker:     cfg.Tracker,
	}
}

// Name implements Backend.
func (b *OpenAIBackend) Name() string {
	return ProviderOpenAI
}

// Chat implements Backend.
func (b *OpenAIBackend) Chat(ctx context.Context, model string, messages []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		MaxTokens:   b.maxTokens,
		Temperature: b.temperature,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    openAIRole(m.Role),
			Content: m.Content,
		})
	}

	resp, err := b.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", &BackendError{Provider: ProviderOpenAI, Model: model, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &BackendError{Provider: ProviderOpenAI, Model: model, Err: fmt.Errorf("no choices in response")}
	}

	b.tracker.Add(int64(resp.Usage.PromptTokens), int64(resp.Usage.CompletionTokens))

	return resp.Choices[0].Message.Content, nil
}

func openAIRole(role Role) string {
	switch role {
	case RoleSystem:
		return openai.ChatMessageRoleSystem
	case RoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}
