package rule

import (
	"strings"

	"unsound/internal/diag"
)

// Level is the configured strength of a rule: ignore, warn, or error.
type Level uint8

const (
	// LevelIgnore disables the rule; it produces no diagnostics.
	LevelIgnore Level = iota
	// LevelWarn enables the rule with warning severity.
	LevelWarn
	// LevelError enables the rule with error severity.
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelIgnore:
		return "ignore"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return "unknown"
}

// Severity maps an enabled level to its diagnostic severity. The second
// return is false for LevelIgnore, which has no severity at all.
func (l Level) Severity() (diag.Severity, bool) {
	switch l {
	case LevelWarn:
		return diag.SevWarning, true
	case LevelError:
		return diag.SevError, true
	default:
		return 0, false
	}
}

// ParseLevel converts a user-supplied level string.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ignore":
		return LevelIgnore, true
	case "warn":
		return LevelWarn, true
	case "error":
		return LevelError, true
	}
	return 0, false
}

// StatusKind distinguishes live rules from removed ones.
type StatusKind uint8

const (
	StatusStable StatusKind = iota
	StatusRemoved
)

// Status records the stability of a rule.
type Status struct {
	Kind StatusKind
	// Since is the version the rule was stabilized or removed in.
	Since string
	// Reason explains a removal and names a replacement when one exists.
	Reason string
}

// Stable marks a rule as stable since the given version.
func Stable(since string) Status {
	return Status{Kind: StatusStable, Since: since}
}

// Removed marks a rule as removed since the given version.
func Removed(since, reason string) Status {
	return Status{Kind: StatusRemoved, Since: since, Reason: reason}
}

func (s Status) IsRemoved() bool {
	return s.Kind == StatusRemoved
}

// Category is a descriptive grouping of rules. It carries no behavior.
type Category struct {
	// Name is the unique kebab-case identifier for the category.
	Name string
	// Documentation is an in-depth explanation of the category in markdown.
	Documentation string
}

// Metadata is the static descriptor of one rule. Descriptors are declared
// once at process start and never mutated afterwards.
type Metadata struct {
	// Name is the stable kebab-case identifier for the rule.
	Name string

	// Summary is a one-sentence description of what the rule catches.
	Summary string

	// Documentation is the long-form markdown explanation: what the rule
	// does, why the pattern is unsound, and examples.
	Documentation string

	// DefaultLevel applies when the user does not configure the rule.
	DefaultLevel Level

	Status Status

	Categories []*Category
}
