package checker

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"unsound/internal/rule"
	"unsound/internal/semantic"
	"unsound/internal/source"
)

func (c *astChecker) reportTypingAnyUsed(expr *sitter.Node) {
	b := c.ctx.ReportLint(rule.TypingAnyUsed, c.tree.Span(expr))
	if b == nil {
		return
	}
	b.Diagnostic("Using `typing.Any` in type annotations can lead to runtime errors.").Done()
}

func (c *astChecker) reportCallableEllipsisUsed(expr *sitter.Node) {
	b := c.ctx.ReportLint(rule.CallableEllipsisUsed, c.tree.Span(expr))
	if b == nil {
		return
	}
	b.Diagnostic("Using `...` in `Callable` type annotations can lead to runtime type errors.").Done()
}

func (c *astChecker) reportMutableGenericDefault(defaultExpr *sitter.Node) {
	b := c.ctx.ReportLint(rule.MutableGenericDefault, c.tree.Span(defaultExpr))
	if b == nil {
		return
	}
	b.Diagnostic("Using a mutable default argument for a generic parameter in a function can lead to runtime type errors.").Done()
}

func (c *astChecker) reportInvalidOverloadImplementation(returnStmt *sitter.Node, returnType semantic.TypeID, overloadReturns []semantic.TypeID) {
	b := c.ctx.ReportLint(rule.InvalidOverloadImplementation, c.tree.Span(returnStmt))
	if b == nil {
		return
	}
	g := b.Diagnostic("Invalid overload implementation can lead to runtime errors.")

	arena := c.model.Arena()
	displays := make([]string, len(overloadReturns))
	for i, ret := range overloadReturns {
		displays[i] = fmt.Sprintf("`%s`", arena.Display(ret))
	}
	g.InfoMessage(fmt.Sprintf(
		"This overload implementation is invalid as `%s` is not assignable to any of the overload return types (%s)",
		arena.Display(returnType), strings.Join(displays, ", "),
	))
	g.Done()
}

func (c *astChecker) reportTypingOverloadUsed(decoratorSpan source.Span) {
	b := c.ctx.ReportLint(rule.TypingOverloadUsed, decoratorSpan)
	if b == nil {
		return
	}
	b.Diagnostic("Using `typing.overload` can lead to runtime errors.").Done()
}

func (c *astChecker) reportTypeCheckingDirectiveUsed(span source.Span, directive string) {
	b := c.ctx.ReportLint(rule.TypeCheckingDirectiveUsed, span)
	if b == nil {
		return
	}
	b.Diagnostic(fmt.Sprintf(
		"Type checking directive `%s` suppresses type checker warnings, which may hide potential type errors.",
		directive,
	)).Done()
}

func (c *astChecker) reportIfTypeCheckingUsed(test *sitter.Node) {
	b := c.ctx.ReportLint(rule.IfTypeCheckingUsed, c.tree.Span(test))
	if b == nil {
		return
	}
	b.Diagnostic("Using `if TYPE_CHECKING:` blocks can lead to runtime errors if imports or definitions are incorrectly referenced at runtime.").Done()
}

func (c *astChecker) reportInvalidFunctionDefaults(target *sitter.Node, newDefaults semantic.TypeID) {
	b := c.ctx.ReportLint(rule.InvalidFunctionDefaults, c.tree.Span(target))
	if b == nil {
		return
	}
	b.Diagnostic(fmt.Sprintf(
		"Setting `__defaults__` to an object of type `%s` on a function may lead to runtime type errors.",
		c.model.Arena().Display(newDefaults),
	)).Done()
}

func (c *astChecker) reportMutatingFunctionCode(target *sitter.Node) {
	b := c.ctx.ReportLint(rule.MutatingFunctionCodeAttribute, c.tree.Span(target))
	if b == nil {
		return
	}
	b.Diagnostic("Mutating `__code__` attribute on a function may lead to runtime type errors.").Done()
}

func (c *astChecker) reportTypingCastUsed(fnExpr *sitter.Node) {
	b := c.ctx.ReportLint(rule.TypingCastUsed, c.tree.Span(fnExpr))
	if b == nil {
		return
	}
	g := b.Diagnostic("Using `typing.cast()` bypasses type checking and can lead to runtime type errors.")
	g.InfoMessage("Consider using `isinstance` checks to ensure types at runtime.")
	g.Done()
}

func (c *astChecker) reportMutatingGlobalsDict(target *sitter.Node) {
	b := c.ctx.ReportLint(rule.MutatingGlobalsDict, c.tree.Span(target))
	if b == nil {
		return
	}
	b.Diagnostic("Mutating the `globals()` dictionary may lead to runtime type errors.").Done()
}

func (c *astChecker) reportTypingTypeIsUsed(ret *sitter.Node) {
	b := c.ctx.ReportLint(rule.TypingTypeIsUsed, c.tree.Span(ret))
	if b == nil {
		return
	}
	b.Diagnostic("Using `typing.TypeIs` can lead to runtime type errors.").Done()
}

func (c *astChecker) reportMangledDunderInstanceVariable(attrExpr *sitter.Node, attrName string) {
	b := c.ctx.ReportLint(rule.MangledDunderInstanceVariable, c.tree.Span(attrExpr))
	if b == nil {
		return
	}
	b.Diagnostic(fmt.Sprintf(
		"Explicit use of mangled attribute `%s` can bypass type checking and lead to runtime type errors.",
		attrName,
	)).Done()
}

func (c *astChecker) reportInvalidSetattr(call *sitter.Node, attrType, valueType semantic.TypeID) {
	b := c.ctx.ReportLint(rule.InvalidSetattr, c.tree.Span(call))
	if b == nil {
		return
	}
	arena := c.model.Arena()
	g := b.Diagnostic("Using `setattr()` bypasses type checking and can lead to runtime type errors.")
	g.InfoMessage(fmt.Sprintf(
		"Object of type %q is not assignable to type %q",
		arena.Display(attrType), arena.Display(valueType),
	))
	g.Done()
}
