// Package config handles configuration loading and management for pycoder.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ShayCichocki/pycoder/internal/llm"
	"github.com/ShayCichocki/pycoder/internal/validation"
	"github.com/ShayCichocki/pycoder/pkg/models"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. PYCODER_BACKEND_MODEL.
	EnvPrefix = "PYCODER"
	// ProjectFile is the project-level override file name.
	ProjectFile = ".pycoder.yaml"
	// DefaultModel is the model used when none is configured.
	DefaultModel = "qwen2.5-coder:14b"
)

// Config holds all configuration for pycoder.
type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	Retry   RetryConfig   `mapstructure:"retry"`
	Review  ReviewConfig  `mapstructure:"review"`
	Output  OutputConfig  `mapstructure:"output"`
	Prompts PromptsConfig `mapstructure:"prompts"`
	Session SessionConfig `mapstructure:"session"`
}

// BackendConfig selects and tunes the model backend.
type BackendConfig struct {
	// Provider is one of ollama, openai, anthropic.
	Provider string `mapstructure:"provider"`
	// Model is the model name passed to the provider.
	Model string `mapstructure:"model"`
	// BaseURL overrides the provider endpoint.
	BaseURL string `mapstructure:"base_url"`
	// APIKey is used by hosted providers. ${VAR} references are expanded.
	APIKey string `mapstructure:"api_key"`
	// Timeout bounds every backend call.
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxTokens caps each reply. Zero leaves the provider default.
	MaxTokens int `mapstructure:"max_tokens"`
	// Temperature is the sampling temperature. Zero leaves the provider default.
	Temperature float64 `mapstructure:"temperature"`
	// AWSRegion and AWSProfile are used with UseBedrock.
	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
	// UseBedrock routes anthropic requests through AWS Bedrock.
	UseBedrock bool `mapstructure:"use_bedrock"`
}

// RetryConfig holds the regeneration ceiling.
type RetryConfig struct {
	MaxRetries int `mapstructure:"max_retries"`
}

// ReviewConfig holds review verdict settings.
type ReviewConfig struct {
	PassToken string `mapstructure:"pass_token"`
	Verdict   string `mapstructure:"verdict"`
}

// OutputConfig holds where and how the result is written.
type OutputConfig struct {
	Path         string `mapstructure:"path"`
	PreviewChars int    `mapstructure:"preview_chars"`
}

// PromptsConfig points at an optional prompt override file.
type PromptsConfig struct {
	File string `mapstructure:"file"`
}

// SessionConfig holds session flow settings.
type SessionConfig struct {
	Mode string `mapstructure:"mode"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (PYCODER_*, ANTHROPIC_API_KEY, OPENAI_API_KEY, OLLAMA_HOST)
// 2. Project config (.pycoder.yaml in current directory or parent)
// 3. User config (~/.config/pycoder/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	return load(getUserConfigDir(), findProjectConfig())
}

func load(userConfigDir, projectConfig string) (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading project config %s: %w", projectConfig, err)
		}
		if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific path. Environment
// overrides still apply.
func LoadFromPath(path string) (*Config, error) {
	v := newViper()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	return unmarshal(v)
}

// LoadUser reads only the user config file, without project overrides,
// environment overrides or ${VAR} expansion, so that it can be edited and
// saved back unchanged. A missing file yields the defaults.
func LoadUser() (*Config, error) {
	return loadFileOnly(GetUserConfigPath())
}

func loadFileOnly(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// newViper returns a viper instance with defaults and environment bindings.
func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Backend.APIKey = expandEnv(cfg.Backend.APIKey)
	cfg.Backend.Provider = strings.ToLower(strings.TrimSpace(cfg.Backend.Provider))

	return cfg, nil
}

// Save writes cfg to the user config file.
func Save(cfg *Config) error {
	return saveTo(GetUserConfigPath(), cfg)
}

func saveTo(configPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.Set("backend.provider", cfg.Backend.Provider)
	v.Set("backend.model", cfg.Backend.Model)
	v.Set("backend.base_url", cfg.Backend.BaseURL)
	v.Set("backend.api_key", cfg.Backend.APIKey)
	v.Set("backend.timeout", cfg.Backend.Timeout.String())
	v.Set("backend.max_tokens", cfg.Backend.MaxTokens)
	v.Set("backend.temperature", cfg.Backend.Temperature)
	v.Set("backend.aws_region", cfg.Backend.AWSRegion)
	v.Set("backend.aws_profile", cfg.Backend.AWSProfile)
	v.Set("backend.use_bedrock", cfg.Backend.UseBedrock)
	v.Set("retry.max_retries", cfg.Retry.MaxRetries)
	v.Set("review.pass_token", cfg.Review.PassToken)
	v.Set("review.verdict", cfg.Review.Verdict)
	v.Set("output.path", cfg.Output.Path)
	v.Set("output.preview_chars", cfg.Output.PreviewChars)
	v.Set("prompts.file", cfg.Prompts.File)
	v.Set("session.mode", cfg.Session.Mode)

	return v.WriteConfig()
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if !llm.ValidProvider(c.Backend.Provider) {
		return fmt.Errorf("backend.provider: unknown provider %q", c.Backend.Provider)
	}
	if strings.TrimSpace(c.Backend.Model) == "" {
		return errors.New("backend.model: must not be empty")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout: must be positive, got %s", c.Backend.Timeout)
	}
	if c.Backend.MaxTokens < 0 {
		return fmt.Errorf("backend.max_tokens: must not be negative, got %d", c.Backend.MaxTokens)
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries: must not be negative, got %d", c.Retry.MaxRetries)
	}
	if strings.TrimSpace(c.Review.PassToken) == "" {
		return errors.New("review.pass_token: must not be empty")
	}
	if _, err := validation.ParseVerdictMode(c.Review.Verdict); err != nil {
		return fmt.Errorf("review.verdict: %w", err)
	}
	if c.Output.PreviewChars < 0 {
		return fmt.Errorf("output.preview_chars: must not be negative, got %d", c.Output.PreviewChars)
	}
	if _, ok := models.ParseMode(c.Session.Mode); !ok {
		return fmt.Errorf("session.mode: unknown mode %q", c.Session.Mode)
	}
	return nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values. Every key needs a default so that
// AutomaticEnv picks it up during Unmarshal.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("backend.provider", d.Backend.Provider)
	v.SetDefault("backend.model", d.Backend.Model)
	v.SetDefault("backend.base_url", d.Backend.BaseURL)
	v.SetDefault("backend.api_key", d.Backend.APIKey)
	v.SetDefault("backend.timeout", d.Backend.Timeout.String())
	v.SetDefault("backend.max_tokens", d.Backend.MaxTokens)
	v.SetDefault("backend.temperature", d.Backend.Temperature)
	v.SetDefault("backend.aws_region", d.Backend.AWSRegion)
	v.SetDefault("backend.aws_profile", d.Backend.AWSProfile)
	v.SetDefault("backend.use_bedrock", d.Backend.UseBedrock)

	v.SetDefault("retry.max_retries", d.Retry.MaxRetries)

	v.SetDefault("review.pass_token", d.Review.PassToken)
	v.SetDefault("review.verdict", d.Review.Verdict)

	v.SetDefault("output.path", d.Output.Path)
	v.SetDefault("output.preview_chars", d.Output.PreviewChars)

	v.SetDefault("prompts.file", d.Prompts.File)

	v.SetDefault("session.mode", d.Session.Mode)
}

// getUserConfigDir returns the XDG config directory for pycoder.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "pycoder")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "pycoder")
	}
	return filepath.Join(home, ".config", "pycoder")
}

// findProjectConfig searches for .pycoder.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findProjectConfigFrom(cwd)
}

func findProjectConfigFrom(dir string) string {
	for {
		configPath := filepath.Join(dir, ProjectFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			Provider: llm.ProviderOllama,
			Model:    DefaultModel,
			Timeout:  5 * time.Minute,
		},
		Retry: RetryConfig{
			MaxRetries: validation.DefaultRetryConfig().MaxRetries,
		},
		Review: ReviewConfig{
			PassToken: validation.DefaultPassToken,
			Verdict:   string(validation.VerdictSubstring),
		},
		Output: OutputConfig{
			Path:         "generated_script.py",
			PreviewChars: 500,
		},
		Session: SessionConfig{
			Mode: string(models.ModeLoop),
		},
	}
}
