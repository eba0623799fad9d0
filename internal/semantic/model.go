package semantic

import (
	sitter "github.com/smacker/go-tree-sitter"

	"unsound/internal/source"
)

// ParamInfo describes one declared parameter of a function.
type ParamInfo struct {
	Name       string
	Annotation TypeID // NoTypeID when unannotated
	Default    TypeID // NoTypeID when absent or uninferrable
	HasDefault bool
	Span       source.Span
}

// FunctionInfo describes a function binding visible in a scope. For an
// overloaded function the binding is the implementation; Overloads
// holds the decorated signatures in source order.
type FunctionInfo struct {
	Name       string
	Def        *sitter.Node
	Span       source.Span // span of the function name
	Params     []ParamInfo
	Return     TypeID // NoTypeID when unannotated
	ReturnSpan source.Span
	IsOverload bool
	// DecoratorSpan covers the @overload decorator when IsOverload.
	DecoratorSpan source.Span
	Overloads     []*FunctionInfo
}

// Model answers type questions about one parsed module. The checkers
// depend only on this interface; the binder provides the concrete
// implementation.
type Model interface {
	// Arena returns the arena all TypeIDs of this model live in.
	Arena() *Arena

	// TypeOf returns the inferred type of an expression. Expressions
	// the model cannot type yield the Unknown builtin.
	TypeOf(n *sitter.Node) TypeID

	// AnnotationType evaluates an annotation expression to a type.
	AnnotationType(n *sitter.Node) TypeID

	// TypingSymbol resolves a name or attribute expression to a member
	// of the typing module, honoring import aliases. The returned name
	// is the canonical one ("Any", "cast", "TYPE_CHECKING", ...).
	TypingSymbol(n *sitter.Node) (string, bool)

	// Function returns the function bound to a module-scope name.
	Function(name string) (*FunctionInfo, bool)

	// ModuleBinding returns the declared type of a module-scope name.
	ModuleBinding(name string) (TypeID, bool)

	// Member returns the declared type of an attribute on an instance
	// type, or false when the class or member is unknown to the model.
	Member(typ TypeID, name string) (TypeID, bool)

	// ClassInstance returns the instance type of a class defined in
	// this module, or NoTypeID for an unknown class.
	ClassInstance(name string) TypeID
}
