package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/pycoder/internal/control"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a session running in this directory",
	Long: `Stop asks a pycoder session running in the current directory to end.

The running session notices the request immediately, abandons any backend
call in flight and exits without saving.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		if err := control.SendStop(cwd); err != nil {
			return fmt.Errorf("send stop signal: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Stop requested.")
		return nil
	},
}
