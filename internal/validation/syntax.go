package validation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/ShayCichocki/pycoder/pkg/models"
)

// maxSyntaxErrors bounds collection on heavily malformed input.
const maxSyntaxErrors = 50

// SyntaxError is one problem found while parsing a candidate.
type SyntaxError struct {
	// Line is 1-based.
	Line int
	// Column is 0-based, in bytes.
	Column int
	// Message describes the problem.
	Message string
	// Missing is true when the parser had to insert a token.
	Missing bool
}

// String renders the error the way it is fed back to the generator.
func (e SyntaxError) String() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// SyntaxResult is the outcome of parsing a candidate.
type SyntaxResult struct {
	Valid  bool
	Errors []SyntaxError
}

// Message returns the diagnostic for the first error, or "ok".
func (r SyntaxResult) Message() string {
	if r.Valid {
		return "ok"
	}
	if len(r.Errors) == 0 {
		return "invalid syntax"
	}
	return r.Errors[0].String()
}

// Verdict converts the result into a session verdict.
func (r SyntaxResult) Verdict() models.Verdict {
	v := models.Verdict{
		Kind:    models.VerdictSyntax,
		Passed:  r.Valid,
		Message: r.Message(),
	}
	if !r.Valid && len(r.Errors) > 0 {
		v.Line = r.Errors[0].Line
		v.Column = r.Errors[0].Column
	}
	return v
}

// SyntaxValidator parses Python source without executing it.
// A fresh parser is created per call, so the validator is safe for
// concurrent use.
type SyntaxValidator struct{}

// NewSyntaxValidator creates a new syntax validator.
func NewSyntaxValidator() *SyntaxValidator {
	return &SyntaxValidator{}
}

// Check parses code and returns a verdict. The error is non-nil only when
// parsing was interrupted, for example by context cancellation.
func (v *SyntaxValidator) Check(ctx context.Context, code string) (models.Verdict, error) {
	result, err := v.Parse(ctx, code)
	if err != nil {
		return models.Verdict{}, err
	}
	return result.Verdict(), nil
}

// Parse returns every syntax error in code, ordered by position.
func (v *SyntaxValidator) Parse(ctx context.Context, code string) (SyntaxResult, error) {
	if strings.TrimSpace(code) == "" {
		return SyntaxResult{
			Errors: []SyntaxError{{Line: 1, Message: "empty candidate"}},
		}, nil
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	content := []byte(code)
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return SyntaxResult{}, fmt.Errorf("parse python: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	var errs []SyntaxError
	if root.HasError() {
		collectSyntaxErrors(root, content, &errs, 0)
	} else {
		// The grammar accepts some code the Python compiler rejects.
		collectStructureErrors(root, content, &errs, 0)
	}
	if len(errs) == 0 {
		return SyntaxResult{Valid: true}, nil
	}

	sort.SliceStable(errs, func(i, j int) bool {
		if errs[i].Line != errs[j].Line {
			return errs[i].Line < errs[j].Line
		}
		return errs[i].Column < errs[j].Column
	})

	return SyntaxResult{Errors: errs}, nil
}

// collectSyntaxErrors walks the tree and records ERROR and MISSING nodes.
func collectSyntaxErrors(node *sitter.Node, content []byte, errs *[]SyntaxError, depth int) {
	if node == nil || depth > 1000 || len(*errs) >= maxSyntaxErrors {
		return
	}

	if node.IsMissing() {
		point := node.StartPoint()
		*errs = append(*errs, SyntaxError{
			Line:    int(point.Row) + 1,
			Column:  int(point.Column),
			Message: fmt.Sprintf("missing %q", node.Type()),
			Missing: true,
		})
	} else if node.IsError() {
		point := node.StartPoint()
		*errs = append(*errs, SyntaxError{
			Line:    int(point.Row) + 1,
			Column:  int(point.Column),
			Message: unexpectedMessage(node, content),
		})
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		collectSyntaxErrors(node.Child(i), content, errs, depth+1)
	}
}

// collectStructureErrors records Python 2 statements and indentation the
// grammar tolerates: empty or unindented suites and statements that do not
// line up with their siblings.
func collectStructureErrors(node *sitter.Node, content []byte, errs *[]SyntaxError, depth int) {
	if node == nil || depth > 1000 || len(*errs) >= maxSyntaxErrors {
		return
	}

	switch node.Type() {
	case "print_statement", "exec_statement":
		keyword := strings.TrimSuffix(node.Type(), "_statement")
		if !parenthesizedCall(node, content, keyword) {
			*errs = append(*errs, errorAt(node.StartPoint(),
				fmt.Sprintf("missing parentheses in call to %q", keyword)))
		}
	case "module":
		checkAlignment(statements(node), 0, errs)
	case "block":
		checkBlock(node, errs)
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		collectStructureErrors(node.Child(i), content, errs, depth+1)
	}
}

// checkBlock verifies the suite of a compound statement. A suite on the
// header line is always fine; otherwise it must be indented past the header
// and its statements must share one column.
func checkBlock(block *sitter.Node, errs *[]SyntaxError) {
	owner := block.Parent()
	if owner == nil {
		return
	}
	headerRow := owner.StartPoint().Row
	if prev := block.PrevSibling(); prev != nil {
		headerRow = prev.EndPoint().Row
	}

	stmts := statements(block)
	if len(stmts) == 0 {
		*errs = append(*errs, SyntaxError{
			Line:    int(headerRow) + 2,
			Message: "expected an indented block",
		})
		return
	}

	first := stmts[0].StartPoint()
	if first.Row == headerRow {
		return
	}
	if first.Column <= owner.StartPoint().Column {
		*errs = append(*errs, errorAt(first, "expected an indented block"))
		return
	}
	checkAlignment(stmts, first.Column, errs)
}

// checkAlignment reports statements that start a line at a column other than
// want. Statements sharing a line with the previous one are skipped.
func checkAlignment(stmts []*sitter.Node, want uint32, errs *[]SyntaxError) {
	lastRow := -1
	for _, stmt := range stmts {
		start := stmt.StartPoint()
		if int(start.Row) != lastRow {
			switch {
			case start.Column > want:
				*errs = append(*errs, errorAt(start, "unexpected indent"))
			case start.Column < want:
				*errs = append(*errs, errorAt(start, "unindent does not match any outer indentation level"))
			}
		}
		lastRow = int(stmt.EndPoint().Row)
	}
}

// statements returns the named children of node that are not comments or
// line continuations.
func statements(node *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "comment", "line_continuation":
			continue
		}
		out = append(out, child)
	}
	return out
}

// parenthesizedCall reports whether a print or exec statement is really a
// Python 3 call such as print ("x").
func parenthesizedCall(node *sitter.Node, content []byte, keyword string) bool {
	i := int(node.StartByte()) + len(keyword)
	end := int(node.EndByte())
	if end > len(content) {
		end = len(content)
	}
	for i < end && (content[i] == ' ' || content[i] == '\t') {
		i++
	}
	return i < end && content[i] == '('
}

func errorAt(p sitter.Point, msg string) SyntaxError {
	return SyntaxError{Line: int(p.Row) + 1, Column: int(p.Column), Message: msg}
}

func unexpectedMessage(node *sitter.Node, content []byte) string {
	start, end := node.StartByte(), node.EndByte()
	if end > uint32(len(content)) {
		end = uint32(len(content))
	}
	if start >= end {
		return "invalid syntax"
	}

	snippet := string(content[start:end])
	if i := strings.IndexByte(snippet, '\n'); i >= 0 {
		snippet = snippet[:i]
	}
	snippet = strings.TrimSpace(snippet)
	if snippet == "" {
		return "invalid syntax"
	}
	if len(snippet) > 40 {
		snippet = snippet[:40] + "..."
	}
	return fmt.Sprintf("invalid syntax near %q", snippet)
}
