package diag

import (
	"unsound/internal/source"
)

// Note is a secondary annotation attached to a diagnostic. A zero Span marks
// a message-only note (no source location).
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one finding reported by a rule.
type Diagnostic struct {
	Severity Severity
	Rule     string // stable kebab-case rule name
	Message  string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, rule string, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Rule:     rule,
		Primary:  primary,
		Message:  msg,
	}
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
