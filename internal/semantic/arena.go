package semantic

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for types every model needs.
type Builtins struct {
	Unknown  TypeID
	Any      TypeID
	None     TypeID
	Bool     TypeID
	Int      TypeID
	Float    TypeID
	Complex  TypeID
	Str      TypeID
	Bytes    TypeID
	Object   TypeID
	Ellipsis TypeID
}

// Arena interns type descriptors and hands out stable TypeIDs.
type Arena struct {
	types    []Type
	index    map[string]TypeID
	builtins Builtins
}

// NewArena constructs an arena seeded with the built-in types.
func NewArena() *Arena {
	a := &Arena{index: make(map[string]TypeID, 64)}
	a.internRaw(Type{Kind: KindInvalid}) // reserve 0 as NoTypeID
	a.builtins.Unknown = a.Intern(Type{Kind: KindUnknown})
	a.builtins.Any = a.Intern(Type{Kind: KindAny})
	a.builtins.None = a.Intern(Type{Kind: KindNone})
	a.builtins.Bool = a.Instance("bool")
	a.builtins.Int = a.Instance("int")
	a.builtins.Float = a.Instance("float")
	a.builtins.Complex = a.Instance("complex")
	a.builtins.Str = a.Instance("str")
	a.builtins.Bytes = a.Instance("bytes")
	a.builtins.Object = a.Instance("object")
	a.builtins.Ellipsis = a.Intern(Type{Kind: KindEllipsis})
	return a
}

// Builtins returns the TypeIDs of the seeded types.
func (a *Arena) Builtins() Builtins {
	return a.builtins
}

// Intern ensures the descriptor has a stable TypeID.
func (a *Arena) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := a.index[key]; ok {
		return id
	}
	return a.internRaw(t)
}

func (a *Arena) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(a.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	a.types = append(a.types, t)
	a.index[typeKey(t)] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (a *Arena) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(a.types) {
		return Type{}, false
	}
	return a.types[id], true
}

// MustLookup panics when id is invalid.
func (a *Arena) MustLookup(id TypeID) Type {
	t, ok := a.Lookup(id)
	if !ok {
		panic("semantic: invalid TypeID")
	}
	return t
}

// typeKey builds a canonical hash key. Payload types are already
// interned, so their IDs identify them.
func typeKey(t Type) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|%s|%s|%d|%v|", t.Kind, t.Name, t.Value, t.Elem, t.Ellipsis)
	for _, e := range t.Elems {
		fmt.Fprintf(&b, "%d,", e)
	}
	return b.String()
}

// Instance interns a bare class instance type.
func (a *Arena) Instance(class string) TypeID {
	return a.Intern(Type{Kind: KindInstance, Name: class})
}

// Generic interns a class instance with generic arguments.
func (a *Arena) Generic(class string, args ...TypeID) TypeID {
	return a.Intern(Type{Kind: KindInstance, Name: class, Elems: args})
}

// Literal interns a literal type. class is the promoted class name and
// value the source repr, e.g. ("int", "5") or ("str", `"x"`).
func (a *Arena) Literal(class, value string) TypeID {
	return a.Intern(Type{Kind: KindLiteral, Name: class, Value: value})
}

// Tuple interns a heterogeneous tuple type.
func (a *Arena) Tuple(elems ...TypeID) TypeID {
	return a.Intern(Type{Kind: KindTuple, Elems: elems})
}

// Union interns a union, flattening nested unions and deduplicating
// members. A single surviving member is returned unwrapped.
func (a *Arena) Union(members ...TypeID) TypeID {
	seen := make(map[TypeID]bool, len(members))
	flat := make([]TypeID, 0, len(members))

	var add func(id TypeID)
	add = func(id TypeID) {
		if id == NoTypeID || seen[id] {
			return
		}
		if t, ok := a.Lookup(id); ok && t.Kind == KindUnion {
			for _, m := range t.Elems {
				add(m)
			}
			return
		}
		seen[id] = true
		flat = append(flat, id)
	}
	for _, m := range members {
		add(m)
	}

	switch len(flat) {
	case 0:
		return NoTypeID
	case 1:
		return flat[0]
	}
	return a.Intern(Type{Kind: KindUnion, Elems: flat})
}

// Callable interns a callable type. ellipsis marks Callable[..., ret].
func (a *Arena) Callable(params []TypeID, ret TypeID, ellipsis bool) TypeID {
	return a.Intern(Type{Kind: KindCallable, Elems: params, Elem: ret, Ellipsis: ellipsis})
}

// TypeVar interns a type variable with an optional upper bound.
func (a *Arena) TypeVar(name string, bound TypeID) TypeID {
	return a.Intern(Type{Kind: KindTypeVar, Name: name, Elem: bound})
}

// TypeOf interns type[X].
func (a *Arena) TypeOf(class TypeID) TypeID {
	return a.Intern(Type{Kind: KindType, Elem: class})
}

// Module interns a module object type.
func (a *Arena) Module(path string) TypeID {
	return a.Intern(Type{Kind: KindModule, Name: path})
}

// Optional interns X | None.
func (a *Arena) Optional(id TypeID) TypeID {
	return a.Union(id, a.builtins.None)
}
