package checker

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"unsound/internal/pyast"
	"unsound/internal/semantic"
)

// checkCall dispatches call expressions: setattr() and typing.cast().
func (c *astChecker) checkCall(call *sitter.Node) {
	fn := pyast.Field(call, "function")
	if fn == nil {
		return
	}

	if fn.Type() == pyast.KindIdentifier && c.tree.Text(fn) == "setattr" {
		c.checkSetattrCall(call)
		return
	}

	if sym, ok := c.model.TypingSymbol(fn); ok && sym == "cast" {
		c.checkCastCall(call, fn)
	}
}

// checkSetattrCall reports setattr(obj, "attr", value) when the value
// does not fit the attribute's declared type. Unknown objects and
// attributes stay silent.
func (c *astChecker) checkSetattrCall(call *sitter.Node) {
	args := positionalArgs(call)
	if len(args) < 3 {
		return
	}
	attrName, ok := pyast.StringLiteral(c.tree, args[1])
	if !ok {
		return
	}

	objType := c.typeWithSelf(args[0])
	attrType, ok := c.model.Member(objType, attrName)
	if !ok {
		return
	}

	arena := c.model.Arena()
	promoted := arena.PromoteLiterals(attrType)
	valueType := c.model.TypeOf(args[2])
	if !arena.IsAssignableTo(valueType, promoted) {
		c.reportInvalidSetattr(call, promoted, valueType)
	}
}

// checkCastCall reports typing.cast(T, value) when the value provably
// does not fit the cast target (after literal promotion).
func (c *astChecker) checkCastCall(call, fnExpr *sitter.Node) {
	args := positionalArgs(call)
	if len(args) < 2 {
		return
	}

	arena := c.model.Arena()
	target := c.model.AnnotationType(args[0])
	if arena.IsDynamic(target) {
		return
	}
	promoted := arena.PromoteLiterals(target)
	valueType := c.model.TypeOf(args[1])
	if !arena.IsAssignableTo(valueType, promoted) {
		c.reportTypingCastUsed(fnExpr)
	}
}

// checkAttribute reports explicit use of name-mangled dunder instance
// variables like obj._Widget__secret.
func (c *astChecker) checkAttribute(attrExpr *sitter.Node) {
	obj := pyast.Field(attrExpr, "object")
	attr := pyast.Field(attrExpr, "attribute")
	if obj == nil || attr == nil {
		return
	}
	attrName := c.tree.Text(attr)
	if !strings.HasPrefix(attrName, "_") {
		return
	}

	className := c.classNameOf(obj)
	if className == "" {
		return
	}
	if isMangledDunderVariable(attrName, className) {
		c.reportMangledDunderInstanceVariable(attrExpr, attrName)
	}
}

// classNameOf resolves the class an expression is an instance of.
// Inside a method, the receiver resolves to the enclosing class; other
// expressions go through inference.
func (c *astChecker) classNameOf(obj *sitter.Node) string {
	if obj.Type() == pyast.KindIdentifier &&
		c.currentSelf() != "" && c.tree.Text(obj) == c.currentSelf() {
		return c.currentClass()
	}

	arena := c.model.Arena()
	t, ok := arena.Lookup(c.model.TypeOf(obj))
	if !ok {
		return ""
	}
	switch t.Kind {
	case semantic.KindInstance:
		return t.Name
	case semantic.KindTypeVar:
		if t.Elem == semantic.NoTypeID {
			return ""
		}
		return arena.Display(t.Elem)
	}
	return ""
}

// typeWithSelf is TypeOf with the method receiver resolved to the
// enclosing class instance.
func (c *astChecker) typeWithSelf(expr *sitter.Node) semantic.TypeID {
	if expr.Type() == pyast.KindIdentifier &&
		c.currentSelf() != "" && c.tree.Text(expr) == c.currentSelf() {
		if id := c.model.ClassInstance(c.currentClass()); id != semantic.NoTypeID {
			return id
		}
	}
	return c.model.TypeOf(expr)
}

// isMangledDunderVariable matches the _ClassName__variable pattern the
// interpreter produces for double-underscore instance variables.
func isMangledDunderVariable(attrName, className string) bool {
	prefix := "_" + className + "__"
	return strings.HasPrefix(attrName, prefix) && len(attrName) > len(prefix)
}

// positionalArgs returns the positional arguments of a call.
func positionalArgs(call *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for _, arg := range pyast.CallArguments(call) {
		if arg.Name == nil {
			out = append(out, arg.Value)
		}
	}
	return out
}
