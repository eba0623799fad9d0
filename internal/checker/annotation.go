package checker

import (
	sitter "github.com/smacker/go-tree-sitter"

	"unsound/internal/pyast"
	"unsound/internal/semantic"
)

// checkAnnotation walks an annotation expression and reports dynamic
// escape hatches found anywhere inside it: `typing.Any` and
// `Callable[..., T]`.
func (c *astChecker) checkAnnotation(ann *sitter.Node) {
	pyast.Walk(ann, func(n *sitter.Node) bool {
		switch n.Type() {
		case pyast.KindIdentifier:
			if sym, ok := c.model.TypingSymbol(n); ok && sym == "Any" {
				c.reportTypingAnyUsed(n)
			}
		case pyast.KindAttribute:
			if sym, ok := c.model.TypingSymbol(n); ok && sym == "Any" {
				c.reportTypingAnyUsed(n)
				return false
			}
		case pyast.KindSubscript, "generic_type":
			if c.isCallableEllipsis(n) {
				c.reportCallableEllipsisUsed(n)
			}
		}
		return true
	})
}

// isCallableEllipsis matches Callable[..., T] in either grammar shape.
func (c *astChecker) isCallableEllipsis(n *sitter.Node) bool {
	base, args := subscriptParts(n)
	if base == nil || len(args) == 0 {
		return false
	}
	if !c.resolvesToCallable(base) {
		return false
	}
	first := pyast.Unparenthesize(unwrapTypeNode(args[0]))
	return first != nil && first.Type() == pyast.KindEllipsis
}

func (c *astChecker) resolvesToCallable(base *sitter.Node) bool {
	if sym, ok := c.model.TypingSymbol(base); ok {
		return sym == "Callable"
	}
	return false
}

// isGenericAnnotation reports whether the annotation mentions a type
// variable anywhere.
func (c *astChecker) isGenericAnnotation(ann *sitter.Node) bool {
	found := false
	pyast.Walk(ann, func(n *sitter.Node) bool {
		if found {
			return false
		}
		if n.Type() == pyast.KindIdentifier {
			id := c.model.AnnotationType(n)
			if t, ok := c.model.Arena().Lookup(id); ok && t.Kind == semantic.KindTypeVar {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// isMutableExpr reports whether the expression builds a mutable value.
func isMutableExpr(n *sitter.Node) bool {
	switch n.Type() {
	case "list", "dictionary", "set",
		"list_comprehension", "dictionary_comprehension", "set_comprehension":
		return true
	}
	return false
}

// subscriptParts splits Base[args...] into base and argument nodes,
// handling both the subscript and generic_type grammar shapes.
func subscriptParts(n *sitter.Node) (*sitter.Node, []*sitter.Node) {
	switch n.Type() {
	case pyast.KindSubscript:
		value := pyast.Field(n, "value")
		var args []*sitter.Node
		for _, child := range pyast.NamedChildren(n) {
			if value != nil && child.Equal(value) {
				continue
			}
			args = append(args, child)
		}
		if len(args) == 1 && args[0].Type() == pyast.KindTuple {
			args = pyast.NamedChildren(args[0])
		}
		return value, args
	case "generic_type":
		children := pyast.NamedChildren(n)
		if len(children) < 2 {
			return nil, nil
		}
		return children[0], pyast.NamedChildren(children[1])
	}
	return nil, nil
}

// unwrapTypeNode strips the grammar's `type` wrapper.
func unwrapTypeNode(n *sitter.Node) *sitter.Node {
	if n != nil && n.Type() == pyast.KindType && n.NamedChildCount() > 0 {
		return n.NamedChild(0)
	}
	return n
}
