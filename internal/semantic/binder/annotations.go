package binder

import (
	sitter "github.com/smacker/go-tree-sitter"

	"unsound/internal/pyast"
	"unsound/internal/semantic"
)

// AnnotationType evaluates an annotation expression to a type. The
// grammar wraps annotations in `type` nodes and, depending on context,
// may use the dedicated generic_type/union_type shapes or plain
// subscript/binary_operator expressions; both are handled.
func (m *FileModel) AnnotationType(n *sitter.Node) semantic.TypeID {
	unknown := m.arena.Builtins().Unknown
	if n == nil {
		return unknown
	}
	if n.Type() == pyast.KindType && n.NamedChildCount() > 0 {
		n = n.NamedChild(0)
	}
	n = pyast.Unparenthesize(n)
	if n == nil {
		return unknown
	}

	switch n.Type() {
	case pyast.KindIdentifier:
		return m.annotationName(m.tree.Text(n))

	case pyast.KindNone:
		return m.arena.Builtins().None

	case pyast.KindEllipsis:
		return m.arena.Builtins().Ellipsis

	case pyast.KindString:
		// Forward references: resolve plain-name contents, give up on
		// anything structured.
		if content, ok := stripQuotes(m.tree.Text(n)); ok && isPlainName(content) {
			return m.annotationName(content)
		}
		return unknown

	case pyast.KindAttribute:
		if sym, ok := m.TypingSymbol(n); ok {
			return m.typingAnnotation(sym)
		}
		if dotted, ok := pyast.DottedName(m.tree, n); ok {
			return m.arena.Instance(dotted)
		}
		return unknown

	case "binary_operator":
		if op := pyast.Field(n, "operator"); op == nil || m.tree.Text(op) != "|" {
			return unknown
		}
		return m.arena.Union(
			m.AnnotationType(pyast.Field(n, "left")),
			m.AnnotationType(pyast.Field(n, "right")),
		)

	case "union_type":
		members := make([]semantic.TypeID, 0, 2)
		for _, child := range pyast.NamedChildren(n) {
			members = append(members, m.AnnotationType(child))
		}
		return m.arena.Union(members...)

	case pyast.KindSubscript:
		value := pyast.Field(n, "value")
		args := subscriptArgs(n)
		return m.subscriptAnnotation(value, args)

	case "generic_type":
		// (generic_type (identifier) (type_parameter (type ...) ...))
		children := pyast.NamedChildren(n)
		if len(children) < 2 {
			return unknown
		}
		var args []*sitter.Node
		args = append(args, pyast.NamedChildren(children[1])...)
		return m.subscriptAnnotation(children[0], args)

	case "member_type":
		if sym, ok := m.TypingSymbol(n); ok {
			return m.typingAnnotation(sym)
		}
		if dotted, ok := pyast.DottedName(m.tree, n); ok {
			return m.arena.Instance(dotted)
		}
		return unknown
	}

	return unknown
}

// annotationName resolves a bare name used in annotation position.
func (m *FileModel) annotationName(name string) semantic.TypeID {
	b := m.arena.Builtins()
	switch name {
	case "None":
		return b.None
	case "int":
		return b.Int
	case "float":
		return b.Float
	case "complex":
		return b.Complex
	case "str":
		return b.Str
	case "bytes":
		return b.Bytes
	case "bool":
		return b.Bool
	case "object":
		return b.Object
	}
	if sym, ok := m.typingAliases[name]; ok {
		return m.typingAnnotation(sym)
	}
	if tv, ok := m.typeVarNamed(name); ok {
		return tv
	}
	// Unresolved names stay nominal so same-named uses still compare
	// equal.
	return m.arena.Instance(name)
}

// typingAnnotation maps an unsubscripted typing symbol to a type.
func (m *FileModel) typingAnnotation(sym string) semantic.TypeID {
	b := m.arena.Builtins()
	switch sym {
	case "Any":
		return b.Any
	case "Text":
		return b.Str
	case "Callable":
		return m.arena.Callable(nil, b.Unknown, true)
	case "Optional", "Union":
		return b.Unknown
	case "List":
		return m.arena.Instance("list")
	case "Dict":
		return m.arena.Instance("dict")
	case "Set":
		return m.arena.Instance("set")
	case "FrozenSet":
		return m.arena.Instance("frozenset")
	case "Tuple":
		return m.arena.Instance("tuple")
	case "Type":
		return m.arena.Instance("type")
	}
	return m.arena.Instance(sym)
}

// subscriptAnnotation evaluates Base[args...] in annotation position.
func (m *FileModel) subscriptAnnotation(base *sitter.Node, args []*sitter.Node) semantic.TypeID {
	unknown := m.arena.Builtins().Unknown
	if base == nil {
		return unknown
	}

	name := ""
	if sym, ok := m.TypingSymbol(base); ok {
		name = sym
	} else if base.Type() == pyast.KindIdentifier {
		name = m.tree.Text(base)
	} else if dotted, ok := pyast.DottedName(m.tree, base); ok {
		name = dotted
	} else {
		return unknown
	}

	switch name {
	case "Optional":
		if len(args) != 1 {
			return unknown
		}
		return m.arena.Optional(m.AnnotationType(args[0]))

	case "Union":
		members := make([]semantic.TypeID, 0, len(args))
		for _, arg := range args {
			members = append(members, m.AnnotationType(arg))
		}
		return m.arena.Union(members...)

	case "Literal":
		members := make([]semantic.TypeID, 0, len(args))
		for _, arg := range args {
			members = append(members, m.literalMember(arg))
		}
		return m.arena.Union(members...)

	case "Callable":
		return m.callableAnnotation(args)

	case "Tuple", "tuple":
		return m.tupleAnnotation(args)

	case "Type", "type":
		if len(args) != 1 {
			return m.arena.Instance("type")
		}
		return m.arena.TypeOf(m.AnnotationType(args[0]))

	case "List":
		name = "list"
	case "Dict":
		name = "dict"
	case "Set":
		name = "set"
	case "FrozenSet":
		name = "frozenset"
	}

	elems := make([]semantic.TypeID, 0, len(args))
	for _, arg := range args {
		elems = append(elems, m.AnnotationType(arg))
	}
	return m.arena.Generic(name, elems...)
}

func (m *FileModel) callableAnnotation(args []*sitter.Node) semantic.TypeID {
	unknown := m.arena.Builtins().Unknown
	if len(args) != 2 {
		return m.arena.Callable(nil, unknown, true)
	}
	ret := m.AnnotationType(args[1])

	first := pyast.Unparenthesize(args[0])
	if first != nil && first.Type() == pyast.KindType && first.NamedChildCount() > 0 {
		first = pyast.Unparenthesize(first.NamedChild(0))
	}
	if first == nil {
		return m.arena.Callable(nil, ret, true)
	}
	if first.Type() == pyast.KindEllipsis {
		return m.arena.Callable(nil, ret, true)
	}
	if first.Type() == "list" {
		params := make([]semantic.TypeID, 0, first.NamedChildCount())
		for _, p := range pyast.NamedChildren(first) {
			params = append(params, m.AnnotationType(p))
		}
		return m.arena.Callable(params, ret, false)
	}
	return m.arena.Callable(nil, ret, true)
}

func (m *FileModel) tupleAnnotation(args []*sitter.Node) semantic.TypeID {
	// tuple[X, ...] is the homogeneous form.
	if len(args) == 2 {
		second := pyast.Unparenthesize(args[1])
		if second != nil && second.Type() == pyast.KindType && second.NamedChildCount() > 0 {
			second = second.NamedChild(0)
		}
		if second != nil && second.Type() == pyast.KindEllipsis {
			return m.arena.Generic("tuple", m.AnnotationType(args[0]))
		}
	}
	elems := make([]semantic.TypeID, 0, len(args))
	for _, arg := range args {
		elems = append(elems, m.AnnotationType(arg))
	}
	return m.arena.Tuple(elems...)
}

// literalMember types one member of a Literal[...] subscript.
func (m *FileModel) literalMember(n *sitter.Node) semantic.TypeID {
	if n != nil && n.Type() == pyast.KindType && n.NamedChildCount() > 0 {
		n = n.NamedChild(0)
	}
	n = pyast.Unparenthesize(n)
	if n == nil {
		return m.arena.Builtins().Unknown
	}
	switch n.Type() {
	case "integer":
		return m.arena.Literal("int", m.tree.Text(n))
	case "true":
		return m.arena.Literal("bool", "True")
	case "false":
		return m.arena.Literal("bool", "False")
	case pyast.KindNone:
		return m.arena.Builtins().None
	case pyast.KindString:
		if v, ok := pyast.StringLiteral(m.tree, n); ok {
			return m.arena.Literal("str", `"`+v+`"`)
		}
	case "unary_operator":
		if arg := pyast.Field(n, "argument"); arg != nil && arg.Type() == "integer" {
			return m.arena.Literal("int", m.tree.Text(n))
		}
	}
	return m.arena.Builtins().Unknown
}

// subscriptArgs returns the subscript children of Base[...]. A single
// tuple subscript ("Union[int, str]" parses this way in some grammar
// versions) is flattened.
func subscriptArgs(n *sitter.Node) []*sitter.Node {
	value := pyast.Field(n, "value")
	var args []*sitter.Node
	for _, child := range pyast.NamedChildren(n) {
		if value != nil && child.Equal(value) {
			continue
		}
		args = append(args, child)
	}
	if len(args) == 1 && args[0].Type() == pyast.KindTuple {
		return pyast.NamedChildren(args[0])
	}
	return args
}

func isPlainName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
