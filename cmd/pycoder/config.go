package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/pycoder/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify pycoder configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/pycoder/config.yaml
Project-specific overrides can be placed in .pycoder.yaml
Environment variables such as PYCODER_BACKEND_MODEL override both.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		out := cmd.OutOrStdout()
		switch len(args) {
		case 0:
			return displayAllConfig(out, cfg)
		case 1:
			value, err := config.Get(cfg, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, value)
			return nil
		default:
			return setConfigKey(out, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(out io.Writer, cfg *config.Config) error {
	for _, key := range config.Keys() {
		value, err := config.Get(cfg, key)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %s\n", key, value)
	}
	fmt.Fprintf(out, "\nuser config: %s\n", config.GetUserConfigPath())
	if project := config.GetProjectConfigPath(); project != "" {
		fmt.Fprintf(out, "project config: %s\n", project)
	}
	return nil
}

// setConfigKey sets a value in the user config file.
func setConfigKey(out io.Writer, key, value string) error {
	cfg, err := config.LoadUser()
	if err != nil {
		return fmt.Errorf("load user config: %w", err)
	}
	if err := config.Set(cfg, key, value); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	shown, _ := config.Get(cfg, key)
	fmt.Fprintf(out, "Set %s = %s\n", key, shown)
	return nil
}
