package checker

import (
	sitter "github.com/smacker/go-tree-sitter"

	"unsound/internal/pyast"
	"unsound/internal/semantic"
)

// checkFunctionDefinition runs the per-function rules: overload
// soundness, TypeIs returns, annotation checks on parameters and the
// return type, and mutable generic defaults.
func (c *astChecker) checkFunctionDefinition(outer, def *sitter.Node) {
	c.checkOverloads(def)

	if ret := pyast.Field(def, "return_type"); ret != nil {
		if c.isTypeIsAnnotation(ret) {
			c.reportTypingTypeIsUsed(ret)
		}
	}

	for _, p := range pyast.Parameters(def) {
		if p.Annotation == nil {
			continue
		}
		c.checkAnnotation(p.Annotation)

		if p.Default != nil && isMutableExpr(p.Default) && c.isGenericAnnotation(p.Annotation) {
			c.reportMutableGenericDefault(p.Default)
		}
	}

	if ret := pyast.Field(def, "return_type"); ret != nil {
		c.checkAnnotation(ret)
	}
}

// isTypeIsAnnotation matches TypeIs[...] and bare TypeIs returns.
func (c *astChecker) isTypeIsAnnotation(ret *sitter.Node) bool {
	n := pyast.Unparenthesize(unwrapTypeNode(ret))
	if n == nil {
		return false
	}
	if sym, ok := c.model.TypingSymbol(n); ok {
		return sym == "TypeIs"
	}
	if base, _ := subscriptParts(n); base != nil {
		if sym, ok := c.model.TypingSymbol(base); ok {
			return sym == "TypeIs"
		}
	}
	return false
}

// checkOverloads validates an overloaded function at its
// implementation: the overload decorators themselves are reported, and
// every return statement of the implementation must produce a value
// assignable to the union of the overload return types.
func (c *astChecker) checkOverloads(def *sitter.Node) {
	nameNode := pyast.Field(def, "name")
	if nameNode == nil {
		return
	}
	fn, ok := c.model.Function(c.tree.Text(nameNode))
	if !ok || fn.IsOverload || len(fn.Overloads) == 0 {
		return
	}
	// Only fire at the implementation's own definition.
	if fn.Def.StartByte() != def.StartByte() {
		return
	}

	for _, overload := range fn.Overloads {
		c.reportTypingOverloadUsed(overload.DecoratorSpan)
	}

	arena := c.model.Arena()

	// Stay silent when any overload return is dynamic: no conclusion
	// can be drawn about the implementation.
	returns := make([]semantic.TypeID, 0, len(fn.Overloads))
	for _, overload := range fn.Overloads {
		ret := overload.Return
		if ret == semantic.NoTypeID {
			ret = arena.Builtins().Unknown
		}
		if arena.IsDynamic(ret) {
			return
		}
		returns = append(returns, ret)
	}
	union := arena.Union(returns...)

	for _, retStmt := range returnStatements(def) {
		values := pyast.NamedChildren(retStmt)
		if len(values) == 0 {
			continue
		}
		retType := c.model.TypeOf(values[0])
		if !arena.IsAssignableTo(retType, union) {
			c.reportInvalidOverloadImplementation(retStmt, retType, returns)
		}
	}
}

// returnStatements collects the return statements of a function body,
// skipping nested function definitions.
func returnStatements(def *sitter.Node) []*sitter.Node {
	body := pyast.Field(def, "body")
	if body == nil {
		return nil
	}
	var out []*sitter.Node
	pyast.Walk(body, func(n *sitter.Node) bool {
		switch n.Type() {
		case pyast.KindFunctionDefinition, pyast.KindLambda:
			return false
		case pyast.KindReturnStatement:
			out = append(out, n)
		}
		return true
	})
	return out
}
