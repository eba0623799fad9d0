package pyast

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Grammar node kinds the checker dispatches on.
const (
	KindModule              = "module"
	KindFunctionDefinition  = "function_definition"
	KindClassDefinition     = "class_definition"
	KindDecoratedDefinition = "decorated_definition"
	KindDecorator           = "decorator"
	KindExpressionStatement = "expression_statement"
	KindAssignment          = "assignment"
	KindIfStatement         = "if_statement"
	KindCall                = "call"
	KindAttribute           = "attribute"
	KindSubscript           = "subscript"
	KindIdentifier          = "identifier"
	KindString              = "string"
	KindNone                = "none"
	KindTuple               = "tuple"
	KindNotOperator         = "not_operator"
	KindParenthesized       = "parenthesized_expression"
	KindComment             = "comment"
	KindKeywordArgument     = "keyword_argument"
	KindTypedParameter      = "typed_parameter"
	KindTypedDefault        = "typed_default_parameter"
	KindDefaultParameter    = "default_parameter"
	KindEllipsis            = "ellipsis"
	KindReturnStatement     = "return_statement"
	KindImportFrom          = "import_from_statement"
	KindImport              = "import_statement"
	KindAliasedImport       = "aliased_import"
	KindDottedName          = "dotted_name"
	KindLambda              = "lambda"
	KindPatternList         = "pattern_list"
	KindType                = "type"
	KindErrorNode           = "ERROR"
)

// NamedChildren returns the named children of a node in source order.
func NamedChildren(n *sitter.Node) []*sitter.Node {
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

// Field returns the child bound to a grammar field, or nil.
func Field(n *sitter.Node, name string) *sitter.Node {
	return n.ChildByFieldName(name)
}

// DefinitionOf unwraps a decorated_definition to the class or function
// it decorates. For any other node it returns the node itself.
func DefinitionOf(n *sitter.Node) *sitter.Node {
	if n.Type() != KindDecoratedDefinition {
		return n
	}
	for _, child := range NamedChildren(n) {
		switch child.Type() {
		case KindClassDefinition, KindFunctionDefinition:
			return child
		}
	}
	return n
}

// Decorators returns the decorator expression nodes preceding a
// decorated definition, with the leading "@" stripped off.
func Decorators(n *sitter.Node) []*sitter.Node {
	if n.Type() != KindDecoratedDefinition {
		return nil
	}
	var out []*sitter.Node
	for _, child := range NamedChildren(n) {
		if child.Type() == KindDecorator && child.NamedChildCount() > 0 {
			out = append(out, child.NamedChild(0))
		}
	}
	return out
}

// Unparenthesize strips parenthesized_expression wrappers.
func Unparenthesize(n *sitter.Node) *sitter.Node {
	for n != nil && n.Type() == KindParenthesized && n.NamedChildCount() > 0 {
		n = n.NamedChild(0)
	}
	return n
}

// Parameter describes one entry of a function's parameter list.
type Parameter struct {
	Node       *sitter.Node
	Name       *sitter.Node // nil for *args / **kwargs separators
	Annotation *sitter.Node // nil when unannotated
	Default    *sitter.Node // nil when no default
}

// Parameters flattens a function_definition's parameter list. Bare "*",
// "/" separators and list splat markers are skipped.
func Parameters(funcDef *sitter.Node) []Parameter {
	paramList := Field(funcDef, "parameters")
	if paramList == nil {
		return nil
	}
	var out []Parameter
	for _, child := range NamedChildren(paramList) {
		switch child.Type() {
		case KindIdentifier:
			out = append(out, Parameter{Node: child, Name: child})
		case KindTypedParameter:
			// grammar: (typed_parameter name type: ...)
			p := Parameter{Node: child, Annotation: Field(child, "type")}
			if child.NamedChildCount() > 0 {
				p.Name = child.NamedChild(0)
			}
			out = append(out, p)
		case KindDefaultParameter:
			out = append(out, Parameter{
				Node:    child,
				Name:    Field(child, "name"),
				Default: Field(child, "value"),
			})
		case KindTypedDefault:
			out = append(out, Parameter{
				Node:       child,
				Name:       Field(child, "name"),
				Annotation: Field(child, "type"),
				Default:    Field(child, "value"),
			})
		case "list_splat_pattern", "dictionary_splat_pattern":
			p := Parameter{Node: child}
			if child.NamedChildCount() > 0 {
				p.Name = child.NamedChild(0)
			}
			out = append(out, p)
		}
	}
	return out
}

// CallArgument is a positional or keyword argument of a call expression.
type CallArgument struct {
	Name  *sitter.Node // nil for positional arguments
	Value *sitter.Node
}

// CallArguments returns the arguments of a call node in source order.
// Splat arguments (*args, **kwargs) are skipped.
func CallArguments(call *sitter.Node) []CallArgument {
	args := Field(call, "arguments")
	if args == nil {
		return nil
	}
	var out []CallArgument
	for _, child := range NamedChildren(args) {
		switch child.Type() {
		case KindKeywordArgument:
			out = append(out, CallArgument{Name: Field(child, "name"), Value: Field(child, "value")})
		case "list_splat", "dictionary_splat", KindComment:
		default:
			out = append(out, CallArgument{Value: child})
		}
	}
	return out
}

// Walk visits n and its named descendants in source order. The callback
// returns false to prune a subtree.
func Walk(n *sitter.Node, visit func(*sitter.Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		Walk(n.NamedChild(i), visit)
	}
}

// Comments collects every comment node under root in source order.
func Comments(root *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	cursor := sitter.NewTreeCursor(root)
	defer cursor.Close()

	var walk func()
	walk = func() {
		n := cursor.CurrentNode()
		if n.Type() == KindComment {
			out = append(out, n)
		}
		if cursor.GoToFirstChild() {
			for {
				walk()
				if !cursor.GoToNextSibling() {
					break
				}
			}
			cursor.GoToParent()
		}
	}
	walk()
	return out
}

// DottedName flattens an attribute chain like a.b.c into its textual
// form, or returns false when the expression is not a plain name chain.
func DottedName(t *Tree, n *sitter.Node) (string, bool) {
	n = Unparenthesize(n)
	switch n.Type() {
	case KindIdentifier:
		return t.Text(n), true
	case KindAttribute:
		base, ok := DottedName(t, Field(n, "object"))
		if !ok {
			return "", false
		}
		attr := Field(n, "attribute")
		if attr == nil {
			return "", false
		}
		return base + "." + t.Text(attr), true
	}
	return "", false
}

// StringLiteral extracts the value of a plain string literal node,
// including implicitly concatenated parts. Returns false for f-strings
// and byte strings.
func StringLiteral(t *Tree, n *sitter.Node) (string, bool) {
	n = Unparenthesize(n)
	if n == nil {
		return "", false
	}
	if n.Type() == "concatenated_string" {
		var b strings.Builder
		for _, part := range NamedChildren(n) {
			s, ok := StringLiteral(t, part)
			if !ok {
				return "", false
			}
			b.WriteString(s)
		}
		return b.String(), true
	}
	if n.Type() != KindString {
		return "", false
	}
	prefix := strings.ToLower(prefixOf(t.Text(n)))
	if strings.ContainsAny(prefix, "fb") {
		return "", false
	}
	var b strings.Builder
	for _, part := range NamedChildren(n) {
		if part.Type() == "string_content" {
			b.WriteString(t.Text(part))
		}
	}
	return b.String(), true
}

func prefixOf(lit string) string {
	for i := 0; i < len(lit); i++ {
		if lit[i] == '\'' || lit[i] == '"' {
			return lit[:i]
		}
	}
	return ""
}
