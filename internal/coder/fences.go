package coder

import (
	"regexp"
	"strings"
)

// Fence is the Markdown code fence marker models like to wrap code in.
const Fence = "```"

var (
	// fencedBlock matches a complete fenced block with an optional info string.
	fencedBlock = regexp.MustCompile("(?s)```[A-Za-z0-9_+.-]*[ \\t]*\\r?\\n(.*?)```")
	// fenceMarker matches any leftover opening or closing marker.
	fenceMarker = regexp.MustCompile("```[A-Za-z0-9_+.-]*")
)

// StripFences returns the code inside a model reply.
//
// When the reply holds a complete fenced block, prose around it is dropped
// and the first block is kept. Any remaining markers are then removed, so the
// result never contains a fence.
func StripFences(raw string) string {
	code := raw
	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		code = m[1]
	}
	for strings.Contains(code, Fence) {
		code = fenceMarker.ReplaceAllString(code, "")
	}
	return strings.TrimSpace(code)
}
