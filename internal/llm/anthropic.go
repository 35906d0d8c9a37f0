package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/config"
)

// AnthropicConfig contains configuration for the Claude backend.
type AnthropicConfig struct {
	// APIKey is the Anthropic API key. If empty, uses ANTHROPIC_API_KEY env var.
	APIKey string
	// MaxTokens caps the reply length. Defaults to 4096.
	MaxTokens int64
	// Temperature is passed through when positive.
	Temperature float64
	// UseAWSBedrock indicates whether to use AWS Bedrock instead of direct API.
	UseAWSBedrock bool
	// AWSRegion is the AWS region for Bedrock (e.g., "us-west-2").
	AWSRegion string
	// AWSProfile is the optional AWS profile name to use.
	AWSProfile string
	// Tracker receives token usage. Optional.
	Tracker *UsageTracker
}

// AnthropicBackend talks to Claude through the Anthropic SDK, directly or
// via Bedrock.
type AnthropicBackend struct {
	inner       anthropic.Client
	bedrock     bool
	maxTokens   int64
	temperature float64
	tracker     *UsageTracker
}

// NewAnthropic creates a new Claude backend.
func NewAnthropic(cfg AnthropicConfig) (*AnthropicBackend, error) {
	var opts []option.RequestOption

	if cfg.UseAWSBedrock {
		ctx := context.Background()

		var loadOpts []func(*config.LoadOptions) error
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, config.WithRegion(cfg.AWSRegion))
		}
		if cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.AWSProfile))
		}

		opts = append(opts, bedrock.WithLoadDefaultConfig(ctx, loadOpts...))
	} else {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	return &AnthropicBackend{
		inner:       anthropic.NewClient(opts...),
		bedrock:     cfg.UseAWSBedrock,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		tracker:     cfg.Tracker,
	}, nil
}

// Name implements Backend.
func (b *AnthropicBackend) Name() string {
	return ProviderAnthropic
}

// Chat implements Backend.
func (b *AnthropicBackend) Chat(ctx context.Context, model string, messages []Message) (string, error) {
	if model == "" {
		model = string(anthropic.ModelClaudeSonnet4_20250514)
	}
	resolved := anthropic.Model(model)
	if b.bedrock {
		resolved = translateModelForBedrock(resolved)
	}

	system, rest := splitSystem(messages)
	params := anthropic.MessageNewParams{
		Model:     resolved,
		MaxTokens: b.maxTokens,
		Messages:  toAnthropicMessages(rest),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if b.temperature > 0 {
		params.Temperature = anthropic.Float(b.temperature)
	}

	resp, err := b.inner.Messages.New(ctx, params)
	if err != nil {
		return "", &BackendError{Provider: ProviderAnthropic, Model: model, Err: err}
	}

	b.tracker.Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var sb strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(variant.Text)
		}
	}
	return sb.String(), nil
}

func toAnthropicMessages(messages []Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(block))
			continue
		}
		out = append(out, anthropic.NewUserMessage(block))
	}
	return out
}

// translateModelForBedrock converts standard Anthropic model names to Bedrock inference profile format.
// Bedrock uses cross-region inference profiles: us.anthropic.{model}-v1:0
func translateModelForBedrock(model anthropic.Model) anthropic.Model {
	bedrockModels := map[anthropic.Model]string{
		anthropic.ModelClaudeSonnet4_20250514:   "us.anthropic.claude-sonnet-4-20250514-v1:0",
		anthropic.ModelClaudeSonnet4_5_20250929: "us.anthropic.claude-sonnet-4-5-20250929-v1:0",
		anthropic.ModelClaudeHaiku4_5_20251001:  "us.anthropic.claude-haiku-4-5-20251001-v1:0",
		anthropic.ModelClaudeOpus4_1_20250805:   "us.anthropic.claude-opus-4-1-20250805-v1:0",
		anthropic.ModelClaude3_7Sonnet20250219:  "us.anthropic.claude-3-7-sonnet-20250219-v1:0",
		anthropic.ModelClaude3_5Haiku20241022:   "us.anthropic.claude-3-5-haiku-20241022-v1:0",
	}

	if bedrockModel, ok := bedrockModels[model]; ok {
		return anthropic.Model(bedrockModel)
	}

	// Already Bedrock format or a custom model.
	return model
}
