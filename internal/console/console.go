// Package console handles user-facing terminal I/O: the request prompt,
// save confirmation, status lines and the final preview.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/ShayCichocki/pycoder/internal/tui"
)

// RequestPrompt is shown when asking for a request.
const RequestPrompt = "What script should I write? (e.g., 'A snake game'): "

// Console reads answers from in and writes to out. It is not safe for
// concurrent use.
type Console struct {
	rawIn       io.Reader
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	tty         bool
}

// New creates a Console over in and out. Terminal features are enabled
// only when both are terminals.
func New(in io.Reader, out io.Writer) *Console {
	outTTY := isTerminal(out)
	return &Console{
		rawIn:       in,
		in:          bufio.NewReader(in),
		out:         out,
		interactive: outTTY && isTerminal(in),
		tty:         outTTY,
	}
}

// Std returns a Console on the process standard streams.
func Std() *Console {
	return New(os.Stdin, os.Stdout)
}

// Interactive reports whether the TUI prompt is used.
func (c *Console) Interactive() bool {
	return c.interactive
}

// Out returns the output stream.
func (c *Console) Out() io.Writer {
	return c.out
}

// ClearScreen clears the terminal. It does nothing when output is piped.
func (c *Console) ClearScreen() {
	if c.tty {
		fmt.Fprint(c.out, "\033[H\033[2J")
	}
}

// Banner prints the session banner.
func (c *Console) Banner(text string) {
	if c.tty {
		fmt.Fprintln(c.out, tui.RenderBanner(text))
		return
	}
	fmt.Fprintln(c.out, text)
}

// AskRequest asks what script to write.
func (c *Console) AskRequest(ctx context.Context) (string, error) {
	if c.interactive {
		request, err := tui.PromptRequest(ctx, c.rawIn, c.out, strings.TrimSuffix(RequestPrompt, ": "))
		if errors.Is(err, tui.ErrCanceled) {
			return "", nil
		}
		return request, err
	}

	fmt.Fprint(c.out, RequestPrompt)
	line, err := c.readLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm prints question and reports whether the answer was y or yes.
// End of input counts as no.
func (c *Console) Confirm(ctx context.Context, question string) (bool, error) {
	fmt.Fprint(c.out, "\n"+question)
	line, err := c.readLine(ctx)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ShowPreview prints the final candidate preview.
func (c *Console) ShowPreview(preview string) {
	if c.tty {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, tui.RenderPreview("--- DRAFT CODE ---", preview))
		return
	}
	fmt.Fprintln(c.out, "\n--- DRAFT CODE ---")
	fmt.Fprintln(c.out, preview)
}

// Section prints a titled block, such as the model critique.
func (c *Console) Section(title, body string) {
	fmt.Fprintf(c.out, "\n--- %s ---\n%s\n", title, body)
}

// Info prints a progress line.
func (c *Console) Info(format string, args ...any) {
	fmt.Fprintf(c.out, "\n"+format+"\n", args...)
}

// Status prints a status line with a coloured symbol.
func (c *Console) Status(symbol, message string, colorAttr color.Attribute) {
	s := color.New(colorAttr)
	fmt.Fprintf(c.out, "%s %s\n", s.Sprint(symbol), message)
}

// Success prints a green check line.
func (c *Console) Success(message string) {
	c.Status("✓", message, color.FgGreen)
}

// Warn prints a yellow warning line.
func (c *Console) Warn(message string) {
	c.Status("⚠", message, color.FgYellow)
}

// Failure prints a red cross line.
func (c *Console) Failure(message string) {
	c.Status("✗", message, color.FgRed)
}

// readLine reads one line, returning early if ctx is done. A final line
// without a newline is returned as is; io.EOF with no data yields "".
func (c *Console) readLine(ctx context.Context) (string, error) {
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := c.in.ReadString('\n')
		ch <- result{line, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.err != nil && !errors.Is(r.err, io.EOF) {
			return "", fmt.Errorf("read input: %w", r.err)
		}
		return strings.TrimRight(r.line, "\r\n"), nil
	}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
