package pyast

import (
	"context"
	"testing"

	"unsound/internal/source"
)

func parseSnippet(t *testing.T, src string) *Tree {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.py", []byte(src))
	tree, err := NewParser().Parse(context.Background(), fs.Get(id))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	t.Cleanup(tree.Close)
	return tree
}

func TestParseModule(t *testing.T) {
	tree := parseSnippet(t, "x: int = 1\n")
	if tree.Root.Type() != KindModule {
		t.Fatalf("root = %s, want module", tree.Root.Type())
	}
	if tree.HasSyntaxErrors() {
		t.Fatal("unexpected syntax errors")
	}

	stmts := NamedChildren(tree.Root)
	if len(stmts) != 1 || stmts[0].Type() != KindExpressionStatement {
		t.Fatalf("stmts = %v", stmts)
	}
}

func TestSpanAndText(t *testing.T) {
	tree := parseSnippet(t, "value = compute()\n")
	assign := tree.Root.NamedChild(0).NamedChild(0)
	if assign.Type() != KindAssignment {
		t.Fatalf("node = %s, want assignment", assign.Type())
	}
	left := Field(assign, "left")
	if got := tree.Text(left); got != "value" {
		t.Fatalf("Text = %q, want %q", got, "value")
	}
	span := tree.Span(left)
	if span.Start != 0 || span.End != 5 {
		t.Fatalf("span = %d-%d, want 0-5", span.Start, span.End)
	}
}

func TestDecoratedDefinition(t *testing.T) {
	tree := parseSnippet(t, "@overload\ndef f(x: int) -> int: ...\n")
	decorated := tree.Root.NamedChild(0)
	if decorated.Type() != KindDecoratedDefinition {
		t.Fatalf("node = %s, want decorated_definition", decorated.Type())
	}

	def := DefinitionOf(decorated)
	if def.Type() != KindFunctionDefinition {
		t.Fatalf("definition = %s, want function_definition", def.Type())
	}

	decs := Decorators(decorated)
	if len(decs) != 1 {
		t.Fatalf("decorators = %d, want 1", len(decs))
	}
	if got := tree.Text(decs[0]); got != "overload" {
		t.Fatalf("decorator = %q, want %q", got, "overload")
	}
}

func TestParameters(t *testing.T) {
	tree := parseSnippet(t, "def f(a, b: int, c=1, d: str = \"x\", *args, **kw): pass\n")
	def := tree.Root.NamedChild(0)
	params := Parameters(def)
	if len(params) != 6 {
		t.Fatalf("params = %d, want 6", len(params))
	}

	names := make([]string, 0, len(params))
	for _, p := range params {
		if p.Name == nil {
			t.Fatalf("parameter %v has no name node", p)
		}
		names = append(names, tree.Text(p.Name))
	}
	want := []string{"a", "b", "c", "d", "args", "kw"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}

	if params[0].Annotation != nil || params[1].Annotation == nil {
		t.Fatal("annotation detection wrong for a/b")
	}
	if params[2].Default == nil || params[3].Default == nil {
		t.Fatal("default detection wrong for c/d")
	}
	if tree.Text(params[3].Annotation) != "str" {
		t.Fatalf("annotation = %q, want str", tree.Text(params[3].Annotation))
	}
}

func TestCallArguments(t *testing.T) {
	tree := parseSnippet(t, "f(1, key=2, *rest)\n")
	call := tree.Root.NamedChild(0).NamedChild(0)
	if call.Type() != KindCall {
		t.Fatalf("node = %s, want call", call.Type())
	}
	args := CallArguments(call)
	if len(args) != 2 {
		t.Fatalf("args = %d, want 2 (splat skipped)", len(args))
	}
	if args[0].Name != nil {
		t.Fatal("first argument should be positional")
	}
	if args[1].Name == nil || tree.Text(args[1].Name) != "key" {
		t.Fatal("second argument should be keyword `key`")
	}
}

func TestDottedName(t *testing.T) {
	tree := parseSnippet(t, "typing.TYPE_CHECKING\n")
	expr := tree.Root.NamedChild(0).NamedChild(0)
	name, ok := DottedName(tree, expr)
	if !ok || name != "typing.TYPE_CHECKING" {
		t.Fatalf("DottedName = %q/%v", name, ok)
	}
}

func TestStringLiteral(t *testing.T) {
	tests := []struct {
		src  string
		want string
		ok   bool
	}{
		{`"hello"` + "\n", "hello", true},
		{`'world'` + "\n", "world", true},
		{`"a" "b"` + "\n", "ab", true},
		{`f"x{1}"` + "\n", "", false},
		{`b"raw"` + "\n", "", false},
	}
	for _, tt := range tests {
		tree := parseSnippet(t, tt.src)
		expr := tree.Root.NamedChild(0).NamedChild(0)
		got, ok := StringLiteral(tree, expr)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("StringLiteral(%s) = %q/%v, want %q/%v", tt.src, got, ok, tt.want, tt.ok)
		}
	}
}

func TestComments(t *testing.T) {
	tree := parseSnippet(t, "x = 1  # type: ignore\n# standalone\ny = 2\n")
	comments := Comments(tree.Root)
	if len(comments) != 2 {
		t.Fatalf("comments = %d, want 2", len(comments))
	}
	if got := tree.Text(comments[0]); got != "# type: ignore" {
		t.Fatalf("first comment = %q", got)
	}
}

func TestSyntaxErrors(t *testing.T) {
	tree := parseSnippet(t, "def broken(:\n")
	if !tree.HasSyntaxErrors() {
		t.Fatal("expected syntax errors")
	}
}
