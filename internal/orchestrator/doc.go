// Package orchestrator drives a single script-writing session.
//
// A session moves through these states:
//   - drafting: the generator is asked for a candidate
//   - syntax_check: the candidate is parsed offline
//   - review_check: the model is asked to judge the candidate
//   - accepted or exhausted: the session is over
//
// Syntax and review failures share one regeneration counter, capped by
// WithMaxRetries. The last regenerated candidate is still validated before
// the session is marked exhausted. Exhaustion is not an error: Finish shows
// the candidate anyway and asks before saving it.
//
// Example usage:
//
//	orch, err := orchestrator.New(orchestrator.RequiredConfig{
//		Generator: gen,
//		Syntax:    validation.NewSyntaxValidator(),
//		Reviewer:  reviewer,
//	}, orchestrator.WithConsole(con), orchestrator.WithSaver(output.NewWriter("")))
//	result, err := orch.Run(ctx, "A snake game")
package orchestrator
