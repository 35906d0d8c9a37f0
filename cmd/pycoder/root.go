package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/pycoder/internal/orchestrator"
)

// sessionFlags holds root command flags that override configuration.
type sessionFlags struct {
	mode       string
	model      string
	provider   string
	maxRetries int
	output     string
	verdict    string
	yes        bool
	verbose    bool
}

var flags sessionFlags

var rootCmd = &cobra.Command{
	Use:   "pycoder [request...]",
	Short: "Write Python scripts with a local model",
	Long: `pycoder asks a language model to write a Python script, checks that it
parses, asks the model to review it for bugs, and retries with the error
until the script is clean or the retry limit is reached.

The request can be given as arguments or typed at the prompt:

  pycoder "A snake game"
  pycoder --mode single --model codellama "fizzbuzz"

The result is written to generated_script.py unless --output is set.
Backends: ollama (default), openai (any OpenAI-compatible server), anthropic.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSession,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to process exit codes. An interrupted or stopped
// session exits 130 like a shell would on SIGINT.
func exitCode(err error) int {
	switch {
	case errors.Is(err, errInterrupted):
		return 130
	case errors.Is(err, orchestrator.ErrEmptyRequest):
		return 2
	default:
		return 1
	}
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flags.mode, "mode", "", "Session flow: loop (syntax check, review, retry) or single (one draft, one review)")
	f.StringVar(&flags.model, "model", "", "Model name passed to the backend")
	f.StringVar(&flags.provider, "provider", "", "Backend provider: ollama, openai, anthropic")
	f.IntVar(&flags.maxRetries, "max-retries", -1, "Maximum regenerations after the first draft")
	f.StringVarP(&flags.output, "output", "o", "", "Where to save the script")
	f.StringVar(&flags.verdict, "verdict", "", "How review replies are read: substring or leading")
	f.BoolVarP(&flags.yes, "yes", "y", false, "Save without asking even if the review did not pass")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging on stderr")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(stopCmd)
}
