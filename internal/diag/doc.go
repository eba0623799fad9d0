// Package diag defines the diagnostic model shared by the checking pipeline.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture rule
//     findings produced by the per-file checkers.
//   - Offer a light-weight container (Bag) that lets producers accumulate
//     diagnostics without coupling to formatting or IO layers.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Rule – the stable kebab-case rule identifier that produced the finding.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – secondary spans/messages for additional context. The last note
//     of every finalized diagnostic states the rule's provenance (enabled by
//     default, selected on the command line, or selected in the configuration
//     file).
//
// Notes should be used sparingly: each note must add new context rather than
// repeating the diagnostic message.
//
// Rendering lives in internal/diagfmt; emission policy (severity lookup,
// provenance, suppression of disabled rules) lives in internal/checker.
//
// Keep the data model deterministic: the CLI and the disk cache serialise
// diagnostics, so new fields must not introduce side effects or
// non-reproducible content.
package diag
