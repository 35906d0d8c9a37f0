// Package prompts holds the templates sent to the model backend.
package prompts

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"go.yaml.in/yaml/v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Data is the value templates are executed against.
type Data struct {
	Request   string
	Error     string
	Code      string
	PassToken string
}

// file mirrors the YAML layout of a prompts file.
type file struct {
	System string `yaml:"system"`
	Draft  string `yaml:"draft"`
	Fix    string `yaml:"fix"`
	Review string `yaml:"review"`
}

// Set is a parsed collection of prompt templates.
type Set struct {
	System string
	draft  *template.Template
	fix    *template.Template
	review *template.Template
}

// Default returns the built-in prompt set.
func Default() *Set {
	set, err := parse(defaultsYAML, nil)
	if err != nil {
		panic(fmt.Sprintf("embedded prompts are invalid: %v", err))
	}
	return set
}

// Load returns the built-in set with any keys in path overriding it.
// An empty path returns the defaults.
func Load(path string) (*Set, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prompts %s: %w", path, err)
	}
	set, err := parse(defaultsYAML, data)
	if err != nil {
		return nil, fmt.Errorf("parsing prompts %s: %w", path, err)
	}
	return set, nil
}

func parse(base, override []byte) (*Set, error) {
	var f file
	if err := yaml.Unmarshal(base, &f); err != nil {
		return nil, err
	}
	if len(override) > 0 {
		var o file
		if err := yaml.Unmarshal(override, &o); err != nil {
			return nil, err
		}
		merge(&f, o)
	}

	set := &Set{System: strings.TrimSpace(f.System)}
	var err error
	if set.draft, err = template.New("draft").Option("missingkey=error").Parse(f.Draft); err != nil {
		return nil, err
	}
	if set.fix, err = template.New("fix").Option("missingkey=error").Parse(f.Fix); err != nil {
		return nil, err
	}
	if set.review, err = template.New("review").Option("missingkey=error").Parse(f.Review); err != nil {
		return nil, err
	}
	return set, nil
}

func merge(dst *file, src file) {
	if src.System != "" {
		dst.System = src.System
	}
	if src.Draft != "" {
		dst.Draft = src.Draft
	}
	if src.Fix != "" {
		dst.Fix = src.Fix
	}
	if src.Review != "" {
		dst.Review = src.Review
	}
}

// Draft renders the first-attempt instruction.
func (s *Set) Draft(d Data) (string, error) {
	return render(s.draft, d)
}

// Fix renders the instruction used when a previous candidate failed.
func (s *Set) Fix(d Data) (string, error) {
	return render(s.fix, d)
}

// Review renders the reviewer instruction.
func (s *Set) Review(d Data) (string, error) {
	return render(s.review, d)
}

func render(t *template.Template, d Data) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", t.Name(), err)
	}
	return buf.String(), nil
}
