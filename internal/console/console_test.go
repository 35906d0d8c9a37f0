package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func newTestConsole(input string) (*Console, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return New(strings.NewReader(input), out), out
}

func TestNew_NotInteractiveForBuffers(t *testing.T) {
	c, _ := newTestConsole("")
	if c.Interactive() {
		t.Error("buffers are not terminals")
	}
}

func TestAskRequest(t *testing.T) {
	c, out := newTestConsole("  A snake game  \n")

	got, err := c.AskRequest(context.Background())
	if err != nil {
		t.Fatalf("AskRequest failed: %v", err)
	}
	if got != "A snake game" {
		t.Errorf("request = %q", got)
	}
	if out.String() != RequestPrompt {
		t.Errorf("prompt = %q", out.String())
	}
}

func TestAskRequest_EOFWithoutNewline(t *testing.T) {
	c, _ := newTestConsole("fizzbuzz")

	got, err := c.AskRequest(context.Background())
	if err != nil {
		t.Fatalf("AskRequest failed: %v", err)
	}
	if got != "fizzbuzz" {
		t.Errorf("request = %q", got)
	}
}

func TestAskRequest_EmptyInput(t *testing.T) {
	c, _ := newTestConsole("")

	got, err := c.AskRequest(context.Background())
	if err != nil {
		t.Fatalf("AskRequest failed: %v", err)
	}
	if got != "" {
		t.Errorf("request = %q, want empty", got)
	}
}

func TestAskRequest_Canceled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	c := New(r, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.AskRequest(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{" YES \r\n", true},
		{"n\n", false},
		{"no\n", false},
		{"sure\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		c, out := newTestConsole(tt.input)
		got, err := c.Confirm(context.Background(), "Save anyway? (y/n): ")
		if err != nil {
			t.Fatalf("Confirm(%q) failed: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Save anyway? (y/n): ") {
			t.Errorf("question not printed: %q", out.String())
		}
	}
}

func TestConfirm_ReadsSuccessiveLines(t *testing.T) {
	c, _ := newTestConsole("make a game\ny\n")

	req, err := c.AskRequest(context.Background())
	if err != nil || req != "make a game" {
		t.Fatalf("AskRequest = %q, %v", req, err)
	}
	ok, err := c.Confirm(context.Background(), "Save? ")
	if err != nil || !ok {
		t.Errorf("Confirm = %v, %v", ok, err)
	}
}

func TestShowPreview_Plain(t *testing.T) {
	c, out := newTestConsole("")

	c.ShowPreview("print('hi')")

	if !strings.Contains(out.String(), "--- DRAFT CODE ---\nprint('hi')\n") {
		t.Errorf("preview = %q", out.String())
	}
}

func TestClearScreen_NotOnPipe(t *testing.T) {
	c, out := newTestConsole("")

	c.ClearScreen()

	if out.Len() != 0 {
		t.Errorf("clear screen should be skipped when piped, wrote %q", out.String())
	}
}

func TestStatusLines(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	c, out := newTestConsole("")

	c.Success("Syntax OK")
	c.Failure("SyntaxError on line 3")
	c.Warn("Retry 1/3")
	c.Info("[Coder] Reviewing for bugs...")
	c.Section("AI CRITIQUE", "PASS")

	for _, want := range []string{
		"✓ Syntax OK",
		"✗ SyntaxError on line 3",
		"⚠ Retry 1/3",
		"\n[Coder] Reviewing for bugs...\n",
		"\n--- AI CRITIQUE ---\nPASS\n",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}
