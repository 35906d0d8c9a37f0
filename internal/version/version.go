// Package version reports the build version of pycoder.
package version

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var embedded string

// Override replaces the embedded version when set at link time:
//
//	go build -ldflags "-X github.com/ShayCichocki/pycoder/internal/version.Override=1.2.3"
var Override string

// Get returns the current version, with whitespace trimmed.
func Get() string {
	if v := strings.TrimSpace(Override); v != "" {
		return v
	}
	return strings.TrimSpace(embedded)
}
