package llm

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
)

func TestNewAnthropic_WithAPIKey(t *testing.T) {
	b, err := NewAnthropic(AnthropicConfig{APIKey: "test-key-123"})
	if err != nil {
		t.Fatalf("NewAnthropic failed: %v", err)
	}
	if b.Name() != ProviderAnthropic {
		t.Errorf("Name = %q", b.Name())
	}
	if b.maxTokens != 4096 {
		t.Errorf("maxTokens = %d, want 4096", b.maxTokens)
	}
}

func TestNewAnthropic_WithEnvVar(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-test-key")

	if _, err := NewAnthropic(AnthropicConfig{}); err != nil {
		t.Fatalf("NewAnthropic failed: %v", err)
	}
}

func TestNewAnthropic_NoAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := NewAnthropic(AnthropicConfig{})
	if err == nil {
		t.Fatal("NewAnthropic should fail without API key")
	}

	expected := "ANTHROPIC_API_KEY environment variable is not set"
	if err.Error() != expected {
		t.Errorf("Error = %q, want %q", err.Error(), expected)
	}
}

func TestTranslateModelForBedrock(t *testing.T) {
	got := translateModelForBedrock(anthropic.ModelClaudeSonnet4_20250514)
	if got != "us.anthropic.claude-sonnet-4-20250514-v1:0" {
		t.Errorf("translate = %q", got)
	}

	custom := anthropic.Model("us.anthropic.custom-v1:0")
	if translateModelForBedrock(custom) != custom {
		t.Error("unknown models should pass through unchanged")
	}
}

func TestToAnthropicMessages(t *testing.T) {
	msgs := toAnthropicMessages([]Message{
		{Role: RoleUser, Content: "write code"},
		{Role: RoleAssistant, Content: "print(1)"},
		{Role: RoleUser, Content: "review it"},
	})

	if len(msgs) != 3 {
		t.Fatalf("len = %d, want 3", len(msgs))
	}
	if msgs[0].Role != anthropic.MessageParamRoleUser {
		t.Errorf("msgs[0].Role = %q", msgs[0].Role)
	}
	if msgs[1].Role != anthropic.MessageParamRoleAssistant {
		t.Errorf("msgs[1].Role = %q", msgs[1].Role)
	}
}
