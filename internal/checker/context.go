package checker

import (
	"fmt"

	"unsound/internal/diag"
	"unsound/internal/rule"
	"unsound/internal/source"
)

// Context carries the effective configuration and collects diagnostics
// for the file being checked. Rule reports go through ReportLint so
// that disabled rules cost a single map lookup and emitted diagnostics
// always end with their selection provenance.
type Context struct {
	fileSet   *source.FileSet
	file      *source.File
	registry  *rule.Registry
	selection *rule.Selection
	diags     *diag.Bag
}

// NewContext creates a check context for one file.
func NewContext(fileSet *source.FileSet, file *source.File, registry *rule.Registry, selection *rule.Selection) *Context {
	return &Context{
		fileSet:   fileSet,
		file:      file,
		registry:  registry,
		selection: selection,
		diags:     diag.NewBag(),
	}
}

// File returns the file under check.
func (c *Context) File() *source.File {
	return c.file
}

// Diagnostics returns the collected diagnostics.
func (c *Context) Diagnostics() *diag.Bag {
	return c.diags
}

// ReportLint returns a builder for a diagnostic of the given rule at
// the given span, or nil when the rule is disabled.
func (c *Context) ReportLint(meta *rule.Metadata, span source.Span) *LintBuilder {
	id, ok := c.registry.IDOf(meta)
	if !ok {
		return nil
	}
	severity, src, enabled := c.selection.Get(id)
	if !enabled {
		return nil
	}
	return &LintBuilder{
		ctx:      c,
		rule:     meta.Name,
		severity: severity,
		source:   src,
		span:     span,
	}
}

// LintBuilder holds everything needed to start a diagnostic for an
// enabled rule.
type LintBuilder struct {
	ctx      *Context
	rule     string
	severity diag.Severity
	source   rule.Source
	span     source.Span
}

// Diagnostic starts the diagnostic with its primary message. The
// returned guard must be finished with Done.
func (b *LintBuilder) Diagnostic(message string) *LintGuard {
	return &LintGuard{
		ctx:    b.ctx,
		source: b.source,
		d: diag.Diagnostic{
			Severity: b.severity,
			Rule:     b.rule,
			Message:  message,
			Primary:  b.span,
		},
	}
}

// LintGuard accumulates secondary notes for a pending diagnostic.
type LintGuard struct {
	ctx    *Context
	source rule.Source
	d      diag.Diagnostic
	done   bool
}

// Info attaches a note anchored at a span.
func (g *LintGuard) Info(span source.Span, message string) *LintGuard {
	g.d.Notes = append(g.d.Notes, diag.Note{Span: span, Msg: message})
	return g
}

// InfoMessage attaches a note without a location.
func (g *LintGuard) InfoMessage(message string) *LintGuard {
	g.d.Notes = append(g.d.Notes, diag.Note{Msg: message})
	return g
}

// Done appends the provenance note and files the diagnostic. The
// provenance is always the last note, so readers can see why the rule
// fired at all.
func (g *LintGuard) Done() {
	if g.done {
		return
	}
	g.done = true

	var provenance string
	switch g.source {
	case rule.SourceCli:
		provenance = fmt.Sprintf("rule `%s` was selected on the command line", g.d.Rule)
	case rule.SourceFile:
		provenance = fmt.Sprintf("rule `%s` was selected in the configuration file", g.d.Rule)
	default:
		provenance = fmt.Sprintf("rule `%s` is enabled by default", g.d.Rule)
	}
	g.d.Notes = append(g.d.Notes, diag.Note{Msg: provenance})

	g.ctx.diags.Add(g.d)
}
