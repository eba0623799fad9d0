package diag

import (
	"testing"

	"unsound/internal/source"
)

func TestBagHasErrorsAndWarnings(t *testing.T) {
	b := NewBag()
	if b.HasErrors() || b.HasWarnings() {
		t.Fatal("empty bag must have no errors or warnings")
	}

	b.Add(New(SevWarning, "typing-any-used", source.Span{}, "w"))
	if b.HasErrors() {
		t.Fatal("warning-only bag must not report errors")
	}
	if !b.HasWarnings() {
		t.Fatal("expected HasWarnings")
	}

	b.Add(New(SevError, "invalid-setattr", source.Span{}, "e"))
	if !b.HasErrors() {
		t.Fatal("expected HasErrors")
	}
}

func TestBagSortByPosition(t *testing.T) {
	b := NewBag()
	b.Add(New(SevWarning, "b-rule", source.Span{File: 1, Start: 10, End: 12}, "m"))
	b.Add(New(SevError, "a-rule", source.Span{File: 0, Start: 5, End: 6}, "m"))
	b.Add(New(SevError, "c-rule", source.Span{File: 0, Start: 2, End: 3}, "m"))

	b.SortByPosition()

	items := b.Items()
	if items[0].Rule != "c-rule" || items[1].Rule != "a-rule" || items[2].Rule != "b-rule" {
		t.Fatalf("unexpected order: %s, %s, %s", items[0].Rule, items[1].Rule, items[2].Rule)
	}
}

func TestBagMergeAndCount(t *testing.T) {
	a := NewBag()
	a.Add(New(SevWarning, "typing-any-used", source.Span{}, "m"))

	b := NewBag()
	b.Add(New(SevWarning, "typing-any-used", source.Span{}, "m"))
	b.Add(New(SevError, "invalid-setattr", source.Span{}, "m"))

	a.Merge(b)
	a.Merge(nil)

	if a.Len() != 3 {
		t.Fatalf("Len = %d, want 3", a.Len())
	}

	counts := a.CountByRule()
	if counts["typing-any-used"] != 2 || counts["invalid-setattr"] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}
