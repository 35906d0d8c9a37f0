// Package validation checks generated candidates and builds retry feedback.
//
// Two checks run on every candidate, cheapest first:
//
//  1. SyntaxValidator parses the code with tree-sitter. Nothing is executed.
//  2. Reviewer asks the model to judge the code and reads its reply as a
//     verdict using a pass token.
//
// RetryHandler owns the regeneration ceiling shared by both checks and turns
// a failed verdict into the error context for the next generation:
//
//	handler := validation.NewRetryHandler(validation.DefaultRetryConfig())
//	if !v.Passed && handler.ShouldRetry(regenerations) {
//		code, err = gen.Generate(ctx, request, handler.Feedback(v))
//	}
package validation
