package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// field binds a dot-notation key to a Config value.
type field struct {
	key    string
	secret bool
	get    func(c *Config) string
	set    func(c *Config, value string) error
}

var fields = []field{
	{key: "backend.provider",
		get: func(c *Config) string { return c.Backend.Provider },
		set: func(c *Config, v string) error { c.Backend.Provider = strings.ToLower(v); return nil }},
	{key: "backend.model",
		get: func(c *Config) string { return c.Backend.Model },
		set: func(c *Config, v string) error { c.Backend.Model = v; return nil }},
	{key: "backend.base_url",
		get: func(c *Config) string { return c.Backend.BaseURL },
		set: func(c *Config, v string) error { c.Backend.BaseURL = v; return nil }},
	{key: "backend.api_key", secret: true,
		get: func(c *Config) string { return c.Backend.APIKey },
		set: func(c *Config, v string) error { c.Backend.APIKey = v; return nil }},
	{key: "backend.timeout",
		get: func(c *Config) string { return c.Backend.Timeout.String() },
		set: func(c *Config, v string) error { return setDuration(&c.Backend.Timeout, "backend.timeout", v) }},
	{key: "backend.max_tokens",
		get: func(c *Config) string { return strconv.Itoa(c.Backend.MaxTokens) },
		set: func(c *Config, v string) error { return setInt(&c.Backend.MaxTokens, "backend.max_tokens", v) }},
	{key: "backend.temperature",
		get: func(c *Config) string { return strconv.FormatFloat(c.Backend.Temperature, 'g', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for backend.temperature: %w", err)
			}
			c.Backend.Temperature = f
			return nil
		}},
	{key: "backend.aws_region",
		get: func(c *Config) string { return c.Backend.AWSRegion },
		set: func(c *Config, v string) error { c.Backend.AWSRegion = v; return nil }},
	{key: "backend.aws_profile",
		get: func(c *Config) string { return c.Backend.AWSProfile },
		set: func(c *Config, v string) error { c.Backend.AWSProfile = v; return nil }},
	{key: "backend.use_bedrock",
		get: func(c *Config) string { return strconv.FormatBool(c.Backend.UseBedrock) },
		set: func(c *Config, v string) error { return setBool(&c.Backend.UseBedrock, "backend.use_bedrock", v) }},
	{key: "retry.max_retries",
		get: func(c *Config) string { return strconv.Itoa(c.Retry.MaxRetries) },
		set: func(c *Config, v string) error { return setInt(&c.Retry.MaxRetries, "retry.max_retries", v) }},
	{key: "review.pass_token",
		get: func(c *Config) string { return c.Review.PassToken },
		set: func(c *Config, v string) error { c.Review.PassToken = v; return nil }},
	{key: "review.verdict",
		get: func(c *Config) string { return c.Review.Verdict },
		set: func(c *Config, v string) error { c.Review.Verdict = strings.ToLower(v); return nil }},
	{key: "output.path",
		get: func(c *Config) string { return c.Output.Path },
		set: func(c *Config, v string) error { c.Output.Path = v; return nil }},
	{key: "output.preview_chars",
		get: func(c *Config) string { return strconv.Itoa(c.Output.PreviewChars) },
		set: func(c *Config, v string) error { return setInt(&c.Output.PreviewChars, "output.preview_chars", v) }},
	{key: "prompts.file",
		get: func(c *Config) string { return c.Prompts.File },
		set: func(c *Config, v string) error { c.Prompts.File = v; return nil }},
	{key: "session.mode",
		get: func(c *Config) string { return c.Session.Mode },
		set: func(c *Config, v string) error { c.Session.Mode = strings.ToLower(v); return nil }},
}

// Keys returns every settable key in display order.
func Keys() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}

// Get returns the display value for key. Secrets are masked.
func Get(cfg *Config, key string) (string, error) {
	f, err := lookup(key)
	if err != nil {
		return "", err
	}
	value := f.get(cfg)
	if f.secret {
		return MaskAPIKey(value), nil
	}
	return value, nil
}

// Set parses value into key and validates the result.
func Set(cfg *Config, key, value string) error {
	f, err := lookup(key)
	if err != nil {
		return err
	}

	updated := *cfg
	if err := f.set(&updated, strings.TrimSpace(value)); err != nil {
		return err
	}
	if err := updated.Validate(); err != nil {
		return err
	}
	*cfg = updated
	return nil
}

func lookup(key string) (field, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, f := range fields {
		if f.key == key {
			return f, nil
		}
	}
	return field{}, fmt.Errorf("unknown configuration key: %s", key)
}

func setInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	*dst = d
	return nil
}
