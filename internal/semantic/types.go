// Package semantic provides the type representation and the model
// interface the checkers query. Types are interned into an arena and
// addressed by TypeID; two structurally equal types share an ID.
package semantic

import "fmt"

// TypeID uniquely identifies a type inside the arena.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates the supported kinds of Python types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnknown      // no annotation or unsupported construct
	KindAny          // explicit typing.Any
	KindNone
	KindInstance // class instance, possibly with generic arguments
	KindLiteral  // Literal[...] of a single value
	KindTuple    // heterogeneous tuple
	KindUnion
	KindCallable
	KindTypeVar
	KindType // type[X]
	KindModule
	KindEllipsis
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnknown:
		return "unknown"
	case KindAny:
		return "any"
	case KindNone:
		return "none"
	case KindInstance:
		return "instance"
	case KindLiteral:
		return "literal"
	case KindTuple:
		return "tuple"
	case KindUnion:
		return "union"
	case KindCallable:
		return "callable"
	case KindTypeVar:
		return "typevar"
	case KindType:
		return "type"
	case KindModule:
		return "module"
	case KindEllipsis:
		return "ellipsis"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a structural descriptor. The meaning of the payload fields
// depends on Kind:
//
//	KindInstance: Name is the class, Elems are generic arguments
//	KindLiteral:  Name is the promoted class, Value the literal repr
//	KindTuple:    Elems are the element types
//	KindUnion:    Elems are the members (flattened, deduplicated)
//	KindCallable: Elems are parameter types, Elem the return type,
//	              Ellipsis marks Callable[..., R]
//	KindTypeVar:  Name is the variable, Elem its upper bound (or NoTypeID)
//	KindType:     Elem is the referenced class type
//	KindModule:   Name is the module path
type Type struct {
	Kind     Kind
	Name     string
	Value    string
	Elem     TypeID
	Elems    []TypeID
	Ellipsis bool
}
