package source

import "testing"

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.py", []byte("x = 1\ny = 2\nz = 3\n"))

	cases := []struct {
		name  string
		span  Span
		start LineCol
		end   LineCol
	}{
		{"first line", Span{File: id, Start: 0, End: 5}, LineCol{1, 1}, LineCol{1, 6}},
		{"second line", Span{File: id, Start: 6, End: 11}, LineCol{2, 1}, LineCol{2, 6}},
		{"third line", Span{File: id, Start: 12, End: 17}, LineCol{3, 1}, LineCol{3, 6}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := fs.Resolve(tc.span)
			if start != tc.start || end != tc.end {
				t.Fatalf("Resolve(%v) = %v, %v; want %v, %v", tc.span, start, end, tc.start, tc.end)
			}
		})
	}
}

func TestCRLFNormalization(t *testing.T) {
	fs := NewFileSet()
	content, changed := normalizeCRLF([]byte("a\r\nb\r\nc"))
	if !changed {
		t.Fatal("expected CRLF normalization")
	}
	id := fs.Add("crlf.py", content, FileNormalizedCRLF)

	f := fs.Get(id)
	if string(f.Content) != "a\nb\nc" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Line(2) != "b" {
		t.Fatalf("Line(2) = %q, want %q", f.Line(2), "b")
	}
}

func TestGetByPath(t *testing.T) {
	fs := NewFileSet()
	fs.AddVirtual("a.py", []byte("pass\n"))

	if _, ok := fs.GetByPath("a.py"); !ok {
		t.Fatal("expected a.py to be present")
	}
	if _, ok := fs.GetByPath("missing.py"); ok {
		t.Fatal("did not expect missing.py")
	}
}

func TestFileLineOutOfRange(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("one.py", []byte("only\n"))
	f := fs.Get(id)

	if got := f.Line(0); got != "" {
		t.Fatalf("Line(0) = %q, want empty", got)
	}
	if got := f.Line(5); got != "" {
		t.Fatalf("Line(5) = %q, want empty", got)
	}
}
