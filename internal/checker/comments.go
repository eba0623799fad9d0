package checker

import (
	"strings"

	"unsound/internal/pyast"
)

// typeCheckingDirectives lists the suppression comments the major
// Python type checkers honor.
var typeCheckingDirectives = []string{
	// mypy / PEP 484
	"type: ignore",
	// pyright
	"pyright: ignore",
	// ty
	"ty: ignore",
	// pyrefly
	"pyrefly: ignore",
}

// checkComments scans every comment for a type-checking suppression
// directive.
func checkComments(ctx *Context, tree *pyast.Tree) {
	c := &astChecker{ctx: ctx, tree: tree}
	for _, comment := range pyast.Comments(tree.Root) {
		if directive, ok := findTypeCheckingDirective(tree.Text(comment)); ok {
			c.reportTypeCheckingDirectiveUsed(tree.Span(comment), directive)
		}
	}
}

// findTypeCheckingDirective matches a directive at the start of the
// comment content. Comments are expected to open with "# "; anything
// else is not considered a directive.
func findTypeCheckingDirective(comment string) (string, bool) {
	idx := strings.Index(comment, "# ")
	if idx < 0 {
		return "", false
	}
	content := strings.TrimSpace(comment[idx+2:])
	for _, directive := range typeCheckingDirectives {
		if strings.HasPrefix(content, directive) {
			return directive, true
		}
	}
	return "", false
}
