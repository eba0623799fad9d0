package rule

import (
	"fmt"
	"strings"
)

// ID is an opaque handle to one registered rule descriptor. IDs are indices
// into the owning registry's descriptor arena: two IDs are equal iff they
// reference the same descriptor, never by comparing metadata content.
type ID struct {
	index uint32
}

type entryKind uint8

const (
	entryRule entryKind = iota
	entryRemoved
	entryAlias
)

type entry struct {
	kind entryKind
	id   ID
}

// Builder assembles a Registry. Registration failures are programming errors
// in statically declared rule definitions and panic immediately.
type Builder struct {
	arena  []*Metadata
	active []ID
	byName map[string]entry
	byMeta map[*Metadata]ID
}

func NewBuilder() *Builder {
	return &Builder{
		byName: make(map[string]entry, 32),
		byMeta: make(map[*Metadata]ID, 32),
	}
}

func (b *Builder) intern(meta *Metadata) ID {
	if id, ok := b.byMeta[meta]; ok {
		return id
	}
	id := ID{index: uint32(len(b.arena))}
	b.arena = append(b.arena, meta)
	b.byMeta[meta] = id
	return id
}

// Register inserts a rule descriptor by name. Duplicate names panic: all
// rules are statically declared, so a clash can only be a bug.
func (b *Builder) Register(meta *Metadata) {
	if _, exists := b.byName[meta.Name]; exists {
		panic(fmt.Sprintf("duplicate rule registration for %q", meta.Name))
	}

	id := b.intern(meta)
	if meta.Status.IsRemoved() {
		b.byName[meta.Name] = entry{kind: entryRemoved, id: id}
		return
	}
	b.byName[meta.Name] = entry{kind: entryRule, id: id}
	b.active = append(b.active, id)
}

// RegisterAlias binds an additional name to an already registered rule.
// Aliases may target removed rules but never other aliases.
func (b *Builder) RegisterAlias(from string, to *Metadata) {
	target, ok := b.byName[to.Name]
	if !ok {
		panic(fmt.Sprintf("rule alias %s -> %s points to a non-registered rule", from, to.Name))
	}
	if target.kind == entryAlias {
		panic(fmt.Sprintf("rule alias %s -> %s points to another alias", from, to.Name))
	}
	if _, exists := b.byName[from]; exists {
		panic(fmt.Sprintf("duplicate rule registration for %q", from))
	}
	b.byName[from] = entry{kind: entryAlias, id: target.id}
}

// Build finalizes the registry. The builder must not be reused afterwards.
func (b *Builder) Build() *Registry {
	return &Registry{
		arena:  b.arena,
		active: b.active,
		byName: b.byName,
		byMeta: b.byMeta,
	}
}

// Registry is the closed, read-only set of all known rules: active rules in
// registration order plus a name index covering removed rules and aliases.
type Registry struct {
	arena  []*Metadata
	active []ID
	byName map[string]entry
	byMeta map[*Metadata]ID
}

// Metadata returns the descriptor for an ID.
func (r *Registry) Metadata(id ID) *Metadata {
	return r.arena[id.index]
}

// IDOf returns the handle for a registered descriptor.
func (r *Registry) IDOf(meta *Metadata) (ID, bool) {
	id, ok := r.byMeta[meta]
	return id, ok
}

// Rules returns all active (non-removed) rules in registration order.
func (r *Registry) Rules() []ID {
	return r.active
}

// RemovedError reports a lookup that resolved to a removed rule.
type RemovedError struct {
	Name   string
	Reason string
}

func (e *RemovedError) Error() string {
	return fmt.Sprintf("rule `%s` has been removed: %s", e.Name, e.Reason)
}

// UnknownError reports a name no rule, alias, or removal record matches.
type UnknownError struct {
	Name string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("unknown rule `%s`", e.Name)
}

// PrefixedError reports a lookup that used the qualified "category:name"
// form where the bare name would have matched.
type PrefixedError struct {
	Prefixed   string
	Suggestion string
}

func (e *PrefixedError) Error() string {
	return fmt.Sprintf("unknown rule `%s`. Did you mean `%s`?", e.Prefixed, e.Suggestion)
}

// Get looks up a rule by name. Aliases resolve to their target unless the
// target is removed, in which case both names report the removal.
func (r *Registry) Get(name string) (ID, error) {
	if e, ok := r.byName[name]; ok {
		meta := r.arena[e.id.index]
		switch e.kind {
		case entryRule:
			return e.id, nil
		case entryAlias:
			if meta.Status.IsRemoved() {
				return ID{}, &RemovedError{Name: meta.Name, Reason: meta.Status.Reason}
			}
			return e.id, nil
		case entryRemoved:
			return ID{}, &RemovedError{Name: meta.Name, Reason: meta.Status.Reason}
		}
	}

	// A qualified "category:name" form is a common slip; suggest the bare
	// name when it exists.
	if _, bare, found := strings.Cut(name, ":"); found {
		if e, ok := r.byName[bare]; ok {
			return ID{}, &PrefixedError{
				Prefixed:   name,
				Suggestion: r.arena[e.id.index].Name,
			}
		}
	}

	return ID{}, &UnknownError{Name: name}
}

// Aliases returns every alias name and the rule it targets, including
// aliases of removed rules.
func (r *Registry) Aliases() map[string]ID {
	out := make(map[string]ID)
	for name, e := range r.byName {
		if e.kind == entryAlias {
			out[name] = e.id
		}
	}
	return out
}

// RemovedRules returns all removed rules.
func (r *Registry) RemovedRules() []ID {
	var out []ID
	for _, e := range r.byName {
		if e.kind == entryRemoved {
			out = append(out, e.id)
		}
	}
	return out
}
