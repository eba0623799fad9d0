package binder

import (
	sitter "github.com/smacker/go-tree-sitter"

	"unsound/internal/pyast"
	"unsound/internal/semantic"
)

// TypeOf infers the type of an expression. The model is
// declaration-level: literals, module-scope names, and simple
// constructor calls are typed; everything else is Unknown.
func (m *FileModel) TypeOf(n *sitter.Node) semantic.TypeID {
	b := m.arena.Builtins()
	n = pyast.Unparenthesize(n)
	if n == nil {
		return b.Unknown
	}

	switch n.Type() {
	case "integer":
		return m.arena.Literal("int", m.tree.Text(n))
	case "float":
		return b.Float
	case "true":
		return m.arena.Literal("bool", "True")
	case "false":
		return m.arena.Literal("bool", "False")
	case pyast.KindNone:
		return b.None
	case pyast.KindEllipsis:
		return b.Ellipsis

	case pyast.KindString, "concatenated_string":
		if v, ok := pyast.StringLiteral(m.tree, n); ok {
			return m.arena.Literal("str", `"`+v+`"`)
		}
		// f-strings are str, byte strings bytes.
		text := m.tree.Text(n)
		for i := 0; i < len(text); i++ {
			c := text[i]
			if c == '"' || c == '\'' {
				break
			}
			if c == 'b' || c == 'B' {
				return b.Bytes
			}
		}
		return b.Str

	case pyast.KindTuple:
		elems := make([]semantic.TypeID, 0, n.NamedChildCount())
		for _, e := range pyast.NamedChildren(n) {
			elems = append(elems, m.TypeOf(e))
		}
		return m.arena.Tuple(elems...)

	case "list":
		return m.arena.Instance("list")
	case "dictionary":
		return m.arena.Instance("dict")
	case "set":
		return m.arena.Instance("set")
	case pyast.KindLambda:
		return m.arena.Callable(nil, b.Unknown, true)

	case pyast.KindIdentifier:
		name := m.tree.Text(n)
		if name == "True" || name == "False" {
			return m.arena.Literal("bool", name)
		}
		if id, ok := m.bindings[name]; ok {
			return id
		}
		if isBuiltinClass(name) {
			return m.arena.TypeOf(m.arena.Instance(name))
		}
		return b.Unknown

	case pyast.KindCall:
		// A call of a class defined here constructs an instance.
		fn := pyast.Field(n, "function")
		if fn != nil && fn.Type() == pyast.KindIdentifier {
			name := m.tree.Text(fn)
			if _, ok := m.classes[name]; ok {
				return m.arena.Instance(name)
			}
			if isBuiltinClass(name) {
				return m.arena.Instance(name)
			}
			if f, ok := m.functions[name]; ok && f.Return != semantic.NoTypeID {
				return f.Return
			}
		}
		return b.Unknown

	case pyast.KindAttribute:
		obj := pyast.Field(n, "object")
		attr := pyast.Field(n, "attribute")
		if obj == nil || attr == nil {
			return b.Unknown
		}
		objType := m.TypeOf(obj)
		if id, ok := m.Member(objType, m.tree.Text(attr)); ok {
			return id
		}
		return b.Unknown

	case "unary_operator":
		if arg := pyast.Field(n, "argument"); arg != nil && arg.Type() == "integer" {
			return m.arena.Literal("int", m.tree.Text(n))
		}
		return b.Unknown
	}

	return b.Unknown
}
