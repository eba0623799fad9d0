package semantic

// IsDynamic reports whether the type is Any, Unknown, or a union
// containing either. Checks that compare against a dynamic type cannot
// draw a conclusion and should stay silent.
func (a *Arena) IsDynamic(id TypeID) bool {
	t, ok := a.Lookup(id)
	if !ok {
		return true
	}
	switch t.Kind {
	case KindAny, KindUnknown:
		return true
	case KindUnion:
		for _, m := range t.Elems {
			if a.IsDynamic(m) {
				return true
			}
		}
	}
	return false
}

// PromoteLiterals widens literal types to their underlying class,
// recursing through unions, tuples, and generic arguments.
func (a *Arena) PromoteLiterals(id TypeID) TypeID {
	t, ok := a.Lookup(id)
	if !ok {
		return id
	}
	switch t.Kind {
	case KindLiteral:
		return a.Instance(t.Name)
	case KindUnion:
		members := make([]TypeID, len(t.Elems))
		for i, m := range t.Elems {
			members[i] = a.PromoteLiterals(m)
		}
		return a.Union(members...)
	case KindTuple:
		elems := make([]TypeID, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = a.PromoteLiterals(e)
		}
		return a.Tuple(elems...)
	case KindInstance:
		if len(t.Elems) == 0 {
			return id
		}
		args := make([]TypeID, len(t.Elems))
		for i, e := range t.Elems {
			args[i] = a.PromoteLiterals(e)
		}
		return a.Generic(t.Name, args...)
	}
	return id
}

// IsAssignableTo reports whether a value of type src can be assigned to
// a target of type dst. Dynamic types are assignable in both
// directions; the relation is deliberately permissive where no
// conclusion can be drawn.
func (a *Arena) IsAssignableTo(src, dst TypeID) bool {
	if src == dst {
		return true
	}
	if a.IsDynamic(src) || a.IsDynamic(dst) {
		return true
	}

	st := a.MustLookup(src)
	dt := a.MustLookup(dst)

	// Everything is an object.
	if dt.Kind == KindInstance && dt.Name == "object" && len(dt.Elems) == 0 {
		return true
	}

	// A union source needs every member to fit; a union target needs
	// any member to accept the source. Source first: a union fits a
	// union when each member finds a home.
	if st.Kind == KindUnion {
		for _, m := range st.Elems {
			if !a.IsAssignableTo(m, dst) {
				return false
			}
		}
		return true
	}
	if dt.Kind == KindUnion {
		for _, m := range dt.Elems {
			if a.IsAssignableTo(src, m) {
				return true
			}
		}
		return false
	}

	// A literal fits wherever its promoted class fits.
	if st.Kind == KindLiteral {
		return a.IsAssignableTo(a.Instance(st.Name), dst)
	}

	// A bounded TypeVar source fits wherever its bound fits.
	if st.Kind == KindTypeVar {
		if st.Elem == NoTypeID {
			return false
		}
		return a.IsAssignableTo(st.Elem, dst)
	}

	switch dt.Kind {
	case KindInstance:
		if st.Kind == KindTuple && dt.Name == "tuple" {
			if len(dt.Elems) == 0 {
				return true
			}
			if len(dt.Elems) == 1 {
				for _, e := range st.Elems {
					if !a.IsAssignableTo(e, dt.Elems[0]) {
						return false
					}
				}
				return true
			}
			return false
		}
		if st.Kind != KindInstance {
			return false
		}
		if st.Name != dt.Name {
			return numericPromotion(st.Name, dt.Name)
		}
		if len(st.Elems) != len(dt.Elems) {
			// Bare generic accepts and fits any parameterization.
			return len(st.Elems) == 0 || len(dt.Elems) == 0
		}
		for i := range st.Elems {
			if !a.IsAssignableTo(st.Elems[i], dt.Elems[i]) {
				return false
			}
		}
		return true

	case KindTuple:
		if st.Kind != KindTuple || len(st.Elems) != len(dt.Elems) {
			return false
		}
		for i := range st.Elems {
			if !a.IsAssignableTo(st.Elems[i], dt.Elems[i]) {
				return false
			}
		}
		return true

	case KindCallable:
		if st.Kind != KindCallable {
			return false
		}
		if !a.IsAssignableTo(st.Elem, dt.Elem) {
			return false
		}
		if dt.Ellipsis || st.Ellipsis {
			return true
		}
		if len(st.Elems) != len(dt.Elems) {
			return false
		}
		for i := range dt.Elems {
			// Parameters are contravariant.
			if !a.IsAssignableTo(dt.Elems[i], st.Elems[i]) {
				return false
			}
		}
		return true

	case KindType:
		return st.Kind == KindType && a.IsAssignableTo(st.Elem, dt.Elem)

	case KindNone:
		return st.Kind == KindNone
	}

	return false
}

// numericPromotion implements the numeric tower: bool fits int, int
// fits float, float fits complex.
func numericPromotion(src, dst string) bool {
	rank := func(name string) int {
		switch name {
		case "bool":
			return 1
		case "int":
			return 2
		case "float":
			return 3
		case "complex":
			return 4
		}
		return 0
	}
	s, d := rank(src), rank(dst)
	return s != 0 && d != 0 && s <= d
}
