package diagfmt

import (
	"encoding/json"
	"strings"
	"testing"

	"unsound/internal/diag"
	"unsound/internal/source"
)

func testBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("app.py", []byte("from typing import Any\n\ndef f(x: Any) -> None:\n    pass\n"))

	bag := diag.NewBag()
	// Span of "Any" in the parameter annotation on line 3.
	bag.Add(diag.New(diag.SevWarning, "typing-any-used",
		source.Span{File: id, Start: 33, End: 36},
		"Using `typing.Any` in type annotations can lead to runtime errors.").
		WithNote(source.Span{}, "rule `typing-any-used` is enabled by default"))
	return bag, fs
}

func TestPrettyOutput(t *testing.T) {
	bag, fs := testBag(t)
	var buf strings.Builder
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true})
	out := buf.String()

	if !strings.Contains(out, "app.py:3:10: warning[typing-any-used]:") {
		t.Fatalf("missing heading, got:\n%s", out)
	}
	if !strings.Contains(out, "def f(x: Any) -> None:") {
		t.Fatalf("missing source context, got:\n%s", out)
	}
	if !strings.Contains(out, "^~~") {
		t.Fatalf("missing underline, got:\n%s", out)
	}
	if !strings.Contains(out, "note: rule `typing-any-used` is enabled by default") {
		t.Fatalf("missing provenance note, got:\n%s", out)
	}
}

func TestPrettyWithoutNotes(t *testing.T) {
	bag, fs := testBag(t)
	var buf strings.Builder
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: false})
	if strings.Contains(buf.String(), "note:") {
		t.Fatalf("notes printed despite ShowNotes=false:\n%s", buf.String())
	}
}

func TestShortOutput(t *testing.T) {
	bag, fs := testBag(t)
	var buf strings.Builder
	Short(&buf, bag, fs, PathModeAuto)
	out := buf.String()

	if strings.Count(out, "\n") != 1 {
		t.Fatalf("want exactly one line, got:\n%s", out)
	}
	if !strings.HasPrefix(out, "app.py:3:10: warning[typing-any-used]: Using `typing.Any`") {
		t.Fatalf("unexpected line: %s", out)
	}
}

func TestJSONOutput(t *testing.T) {
	bag, fs := testBag(t)
	var buf strings.Builder
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal([]byte(buf.String()), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count mismatch: %+v", out)
	}
	d := out.Diagnostics[0]
	if d.Rule != "typing-any-used" || d.Severity != "warning" {
		t.Fatalf("unexpected diagnostic: %+v", d)
	}
	if d.Location.StartLine != 3 || d.Location.StartCol != 10 {
		t.Fatalf("unexpected position: %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location != nil {
		t.Fatalf("message-only note should have no location: %+v", d.Notes)
	}
}

func TestJSONMaxTruncates(t *testing.T) {
	bag, fs := testBag(t)
	bag.Add(diag.New(diag.SevInfo, "typing-cast-used", source.Span{File: 0, Start: 0, End: 4}, "x"))

	var buf strings.Builder
	if err := JSON(&buf, bag, fs, JSONOpts{Max: 1}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal([]byte(buf.String()), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 1 {
		t.Fatalf("Max not applied: %+v", out)
	}
}

func TestSummaryTable(t *testing.T) {
	bag, fs := testBag(t)
	_ = fs
	bag.Add(diag.New(diag.SevWarning, "typing-any-used", source.Span{File: 0, Start: 40, End: 43}, "x"))
	bag.Add(diag.New(diag.SevInfo, "typing-cast-used", source.Span{File: 0, Start: 0, End: 4}, "y"))

	var buf strings.Builder
	Summary(&buf, bag)
	out := buf.String()

	if !strings.Contains(out, "typing-any-used") || !strings.Contains(out, "typing-cast-used") {
		t.Fatalf("rules missing from summary:\n%s", out)
	}
	// Most frequent rule first.
	if strings.Index(out, "typing-any-used") > strings.Index(out, "typing-cast-used") {
		t.Fatalf("rows not ordered by count:\n%s", out)
	}
	if !strings.Contains(out, "TOTAL") && !strings.Contains(out, "total") {
		t.Fatalf("missing total row:\n%s", out)
	}
}

func TestSummaryEmpty(t *testing.T) {
	var buf strings.Builder
	Summary(&buf, diag.NewBag())
	if !strings.Contains(buf.String(), "no diagnostics") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}
