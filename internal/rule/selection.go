package rule

import (
	"crypto/sha256"
	"fmt"
	"sort"

	"unsound/internal/diag"
)

// Source identifies the configuration layer that determined a rule's active
// severity. Higher values outrank lower ones: a configuration-file override
// never displaces a command-line one, regardless of application order.
type Source uint8

const (
	// SourceDefault means the rule runs at its built-in default level.
	SourceDefault Source = iota
	// SourceFile means the rule was configured in a configuration file.
	SourceFile
	// SourceCli means the rule was configured on the command line.
	SourceCli
)

func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceFile:
		return "file"
	case SourceCli:
		return "cli"
	}
	return "unknown"
}

// Override is one (rule name, level) pair from a configuration layer.
type Override struct {
	Rule  string
	Level string
	// Source must be SourceFile or SourceCli.
	Source Source
	// Origin names where the override came from, for warning messages
	// (a config file path, or "command line").
	Origin string
}

type setting struct {
	severity diag.Severity
	source   Source
	disabled bool
}

// Selection maps enabled rules to their effective severity and provenance.
// A disabled rule keeps its entry with the disabled flag set, so the layer
// that disabled it still ranks against later overrides; a rule with no entry
// at all was never configured.
type Selection struct {
	rules map[ID]setting
}

// NewSelection returns an empty selection with every rule disabled.
func NewSelection() *Selection {
	return &Selection{rules: make(map[ID]setting)}
}

// FromRegistry seeds a selection with every active rule whose default level
// maps to a severity. Rules defaulting to ignore get no entry.
func FromRegistry(reg *Registry) *Selection {
	sel := NewSelection()
	for _, id := range reg.Rules() {
		if sev, ok := reg.Metadata(id).DefaultLevel.Severity(); ok {
			sel.rules[id] = setting{severity: sev, source: SourceDefault}
		}
	}
	return sel
}

// Apply resolves an ordered list of overrides against the registry.
// Unresolvable rule names and bad level strings do not abort the run: each
// produces a warning diagnostic and the remaining overrides still apply.
func (sel *Selection) Apply(reg *Registry, overrides []Override) *diag.Bag {
	warnings := diag.NewBag()

	for _, ov := range overrides {
		id, err := reg.Get(ov.Rule)
		if err != nil {
			warnings.Add(diag.Diagnostic{
				Severity: diag.SevWarning,
				Rule:     "unknown-rule",
				Message:  fmt.Sprintf("%s (from %s)", err.Error(), ov.Origin),
			})
			continue
		}

		level, ok := ParseLevel(ov.Level)
		if !ok {
			warnings.Add(diag.Diagnostic{
				Severity: diag.SevWarning,
				Rule:     "invalid-rule-level",
				Message: fmt.Sprintf(
					"invalid level %q for rule `%s` (from %s); expected ignore, warn, or error",
					ov.Level, ov.Rule, ov.Origin,
				),
			})
			continue
		}

		if sev, enabled := level.Severity(); enabled {
			sel.Enable(id, sev, ov.Source)
		} else {
			sel.Disable(id, ov.Source)
		}
	}

	return warnings
}

// Enable configures a rule with the given severity and provenance. Within
// one layer the last applied override wins; a lower-ranked layer never
// replaces a higher-ranked one.
func (sel *Selection) Enable(id ID, severity diag.Severity, src Source) {
	if existing, ok := sel.rules[id]; ok && existing.source > src {
		return
	}
	sel.rules[id] = setting{severity: severity, source: src}
}

// Disable turns a rule off, subject to the same layer ranking as Enable.
// The entry stays behind as a tombstone carrying the disabling layer, so a
// lower-ranked Enable applied later cannot resurrect the rule.
func (sel *Selection) Disable(id ID, src Source) {
	if existing, ok := sel.rules[id]; ok && existing.source > src {
		return
	}
	sel.rules[id] = setting{source: src, disabled: true}
}

// Severity returns the configured severity, or false if the rule is
// disabled.
func (sel *Selection) Severity(id ID) (diag.Severity, bool) {
	s, ok := sel.rules[id]
	if !ok || s.disabled {
		return 0, false
	}
	return s.severity, true
}

// IsEnabled reports whether the rule is enabled.
func (sel *Selection) IsEnabled(id ID) bool {
	s, ok := sel.rules[id]
	return ok && !s.disabled
}

// Get returns the severity and provenance for an enabled rule.
func (sel *Selection) Get(id ID) (diag.Severity, Source, bool) {
	s, ok := sel.rules[id]
	if !ok || s.disabled {
		return 0, SourceDefault, false
	}
	return s.severity, s.source, true
}

// Len returns the number of enabled rules.
func (sel *Selection) Len() int {
	n := 0
	for _, s := range sel.rules {
		if !s.disabled {
			n++
		}
	}
	return n
}

// Fingerprint returns a stable digest of the selection, used to key cached
// results: two runs with identical effective configuration share it.
func (sel *Selection) Fingerprint(reg *Registry) [32]byte {
	lines := make([]string, 0, len(sel.rules))
	for id, s := range sel.rules {
		if s.disabled {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s=%s:%s", reg.Metadata(id).Name, s.severity, s.source))
	}
	sort.Strings(lines)

	h := sha256.New()
	for _, line := range lines {
		h.Write([]byte(line))
		h.Write([]byte{'\n'})
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
