package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCanceled is returned when the user leaves the prompt without submitting.
var ErrCanceled = errors.New("prompt canceled")

// RequestSubmittedMsg is sent when the user submits a request.
type RequestSubmittedMsg struct {
	Request string
}

// InputField is a single-line prompt for the script request.
type InputField struct {
	label     string
	input     textinput.Model
	width     int
	value     string
	submitted bool
	canceled  bool
}

// NewInputField creates an InputField showing label above the input.
func NewInputField(label string) *InputField {
	ti := textinput.New()
	ti.Placeholder = "A snake game"
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 60

	return &InputField{
		label: label,
		input: ti,
		width: 80,
	}
}

// SetWidth sets the width of the input field.
func (f *InputField) SetWidth(width int) {
	f.width = width
	f.input.Width = width - 4 // Account for prompt and padding
}

// Value returns the submitted request.
func (f *InputField) Value() string {
	return f.value
}

// Canceled reports whether the user left without submitting.
func (f *InputField) Canceled() bool {
	return f.canceled
}

// Init implements tea.Model.
func (f *InputField) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (f *InputField) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.SetWidth(msg.Width)
		return f, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			text := strings.TrimSpace(f.input.Value())
			if text == "" {
				return f, nil
			}
			f.value = text
			f.submitted = true
			return f, tea.Sequence(
				func() tea.Msg { return RequestSubmittedMsg{Request: text} },
				tea.Quit,
			)
		case tea.KeyEsc, tea.KeyCtrlC:
			f.canceled = true
			return f, tea.Quit
		}
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

// View implements tea.Model.
func (f *InputField) View() string {
	if f.submitted || f.canceled {
		return ""
	}

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	promptStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Bold(true)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Width(f.width - 2)

	prompt := promptStyle.Render("> ")
	return labelStyle.Render(f.label) + "\n" + boxStyle.Render(prompt+f.input.View()) + "\n"
}

// PromptRequest runs an InputField on the given terminal streams and returns
// the submitted text.
func PromptRequest(ctx context.Context, in io.Reader, out io.Writer, label string) (string, error) {
	field := NewInputField(label)
	p := tea.NewProgram(field,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	final, err := p.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("request prompt: %w", err)
	}

	field, ok := final.(*InputField)
	if !ok {
		return "", fmt.Errorf("request prompt: unexpected model %T", final)
	}
	if field.Canceled() || field.Value() == "" {
		return "", ErrCanceled
	}
	return field.Value(), nil
}
