package semantic

import "strings"

// Display renders a type the way it would appear in Python source,
// matching the annotation syntax users write.
func (a *Arena) Display(id TypeID) string {
	t, ok := a.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch t.Kind {
	case KindUnknown:
		return "Unknown"
	case KindAny:
		return "Any"
	case KindNone:
		return "None"
	case KindEllipsis:
		return "..."
	case KindInstance:
		if len(t.Elems) == 0 {
			return t.Name
		}
		args := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			args[i] = a.Display(e)
		}
		return t.Name + "[" + strings.Join(args, ", ") + "]"
	case KindLiteral:
		return "Literal[" + t.Value + "]"
	case KindTuple:
		if len(t.Elems) == 0 {
			return "tuple[()]"
		}
		args := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			args[i] = a.Display(e)
		}
		return "tuple[" + strings.Join(args, ", ") + "]"
	case KindUnion:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = a.Display(e)
		}
		return strings.Join(parts, " | ")
	case KindCallable:
		ret := a.Display(t.Elem)
		if t.Ellipsis {
			return "Callable[..., " + ret + "]"
		}
		params := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			params[i] = a.Display(e)
		}
		return "Callable[[" + strings.Join(params, ", ") + "], " + ret + "]"
	case KindTypeVar:
		return t.Name
	case KindType:
		return "type[" + a.Display(t.Elem) + "]"
	case KindModule:
		return "<module '" + t.Name + "'>"
	default:
		return "<invalid>"
	}
}
