package models

import "fmt"

// VerdictKind identifies which validator produced a verdict.
type VerdictKind string

const (
	// VerdictSyntax comes from the offline parser.
	VerdictSyntax VerdictKind = "syntax"
	// VerdictReview comes from the model reviewer.
	VerdictReview VerdictKind = "review"
)

// Verdict is the outcome of validating one candidate.
type Verdict struct {
	// Kind is the validator that produced the verdict.
	Kind VerdictKind
	// Passed is true when the candidate is acceptable to this validator.
	Passed bool
	// Message is a diagnostic for syntax verdicts or the raw critique for reviews.
	Message string
	// Line is the 1-based line of the first syntax error, 0 otherwise.
	Line int
	// Column is the 0-based column of the first syntax error.
	Column int
}

// String renders the verdict for status lines.
func (v Verdict) String() string {
	status := "fail"
	if v.Passed {
		status = "pass"
	}
	if v.Message == "" {
		return fmt.Sprintf("%s: %s", v.Kind, status)
	}
	return fmt.Sprintf("%s: %s (%s)", v.Kind, status, v.Message)
}
