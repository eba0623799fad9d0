package checker

import (
	sitter "github.com/smacker/go-tree-sitter"

	"unsound/internal/pyast"
	"unsound/internal/semantic"
)

// checkAssignment inspects assignment targets for runtime type-table
// mutation: globals() subscripts and function dunder attributes.
func (c *astChecker) checkAssignment(assign *sitter.Node) {
	left := pyast.Field(assign, "left")
	right := pyast.Field(assign, "right")
	if left == nil || right == nil {
		return
	}

	targets := []*sitter.Node{left}
	if left.Type() == pyast.KindPatternList {
		targets = pyast.NamedChildren(left)
	}

	for _, target := range targets {
		switch target.Type() {
		case pyast.KindSubscript:
			c.checkGlobalsSubscript(target, right)
		case pyast.KindAttribute:
			c.checkFunctionAttribute(target, right)
		}
	}
}

// checkGlobalsSubscript handles globals()["name"] = value. The report
// fires only when the name is a known module binding and the assigned
// value does not fit its declared type (after literal promotion).
func (c *astChecker) checkGlobalsSubscript(target, right *sitter.Node) {
	value := pyast.Field(target, "value")
	if value == nil || !isGlobalsCall(c.tree, value) {
		return
	}

	_, args := subscriptParts(target)
	if len(args) != 1 {
		return
	}
	key, ok := pyast.StringLiteral(c.tree, args[0])
	if !ok {
		return
	}

	current, ok := c.model.ModuleBinding(key)
	if !ok {
		return
	}

	arena := c.model.Arena()
	valueType := c.model.TypeOf(right)
	promoted := arena.PromoteLiterals(current)
	if !arena.IsAssignableTo(valueType, promoted) {
		c.reportMutatingGlobalsDict(target)
	}
}

// isGlobalsCall matches a call to the builtin globals().
func isGlobalsCall(tree *pyast.Tree, expr *sitter.Node) bool {
	expr = pyast.Unparenthesize(expr)
	if expr == nil || expr.Type() != pyast.KindCall {
		return false
	}
	fn := pyast.Field(expr, "function")
	return fn != nil && fn.Type() == pyast.KindIdentifier && tree.Text(fn) == "globals"
}

// checkFunctionAttribute handles f.__defaults__ and f.__code__
// assignment targets where f is a module-level function.
func (c *astChecker) checkFunctionAttribute(target, right *sitter.Node) {
	obj := pyast.Field(target, "object")
	attr := pyast.Field(target, "attribute")
	if obj == nil || attr == nil || obj.Type() != pyast.KindIdentifier {
		return
	}
	fn, ok := c.model.Function(c.tree.Text(obj))
	if !ok {
		return
	}

	switch c.tree.Text(attr) {
	case "__defaults__":
		c.checkDefaultsAssignment(target, right, fn)
	case "__code__":
		c.reportMutatingFunctionCode(target)
	}
}

func (c *astChecker) checkDefaultsAssignment(target, right *sitter.Node, fn *semantic.FunctionInfo) {
	arena := c.model.Arena()
	valueType := c.model.TypeOf(right)

	defaultCount := 0
	for _, p := range fn.Params {
		if p.HasDefault {
			defaultCount++
		}
	}

	// None is fine on a function without defaults: the existing
	// __defaults__ is already empty.
	valueDesc, ok := arena.Lookup(valueType)
	if !ok {
		return
	}
	if valueDesc.Kind == semantic.KindNone {
		if defaultCount > 0 {
			c.reportInvalidFunctionDefaults(target, valueType)
		}
		return
	}

	if valueDesc.Kind != semantic.KindTuple {
		return
	}
	elements := valueDesc.Elems

	// Shrinking the defaults below what the signature relies on breaks
	// calls that omit those arguments.
	if len(elements) < defaultCount {
		c.reportInvalidFunctionDefaults(target, valueType)
		return
	}

	for i, elem := range elements {
		if i >= len(fn.Params) {
			break
		}
		annotated := fn.Params[i].Annotation
		if annotated == semantic.NoTypeID {
			continue
		}
		if !arena.IsAssignableTo(elem, annotated) {
			c.reportInvalidFunctionDefaults(target, valueType)
			return
		}
	}
}

// checkIfStatement reports `if TYPE_CHECKING:` tests. The match is
// name-based: direct references, attribute references, and negations.
func (c *astChecker) checkIfStatement(stmt *sitter.Node) {
	test := pyast.Field(stmt, "condition")
	if test == nil {
		return
	}
	if c.isTypeCheckingTest(test) {
		c.reportIfTypeCheckingUsed(test)
	}
}

func (c *astChecker) isTypeCheckingTest(expr *sitter.Node) bool {
	expr = pyast.Unparenthesize(expr)
	if expr == nil {
		return false
	}
	switch expr.Type() {
	case pyast.KindIdentifier:
		return c.tree.Text(expr) == "TYPE_CHECKING"
	case pyast.KindAttribute:
		attr := pyast.Field(expr, "attribute")
		return attr != nil && c.tree.Text(attr) == "TYPE_CHECKING"
	case pyast.KindNotOperator:
		if expr.NamedChildCount() > 0 {
			return c.isTypeCheckingTest(expr.NamedChild(0))
		}
	}
	return false
}
