package checker

import (
	"context"
	"strings"
	"testing"

	"unsound/internal/diag"
	"unsound/internal/rule"
	"unsound/internal/source"
)

func check(t *testing.T, src string, overrides ...rule.Override) *diag.Bag {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.py", []byte(src))
	reg := rule.DefaultRegistry()
	sel := rule.FromRegistry(reg)
	if len(overrides) > 0 {
		if warnings := sel.Apply(reg, overrides); warnings.Len() != 0 {
			t.Fatalf("override warnings: %v", warnings.Items())
		}
	}
	bag, err := CheckFile(context.Background(), fs, id, reg, sel)
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}
	return bag
}

func byRule(bag *diag.Bag, name string) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range bag.Items() {
		if d.Rule == name {
			out = append(out, d)
		}
	}
	return out
}

func TestTypingAnyUsed(t *testing.T) {
	src := `from typing import Any

def f(x: Any, y: int) -> None: ...
`
	bag := check(t, src)
	got := byRule(bag, "typing-any-used")
	if len(got) != 1 {
		t.Fatalf("typing-any-used = %d, want 1", len(got))
	}
	d := got[0]
	if d.Severity != diag.SevWarning {
		t.Fatalf("severity = %v, want warning", d.Severity)
	}
	// The report anchors at the Any annotation, not the whole signature.
	if text := src[d.Primary.Start:d.Primary.End]; text != "Any" {
		t.Fatalf("primary covers %q, want %q", text, "Any")
	}
	// The provenance note is always last.
	last := d.Notes[len(d.Notes)-1]
	if last.Msg != "rule `typing-any-used` is enabled by default" {
		t.Fatalf("provenance = %q", last.Msg)
	}
}

func TestAnyInsideGenericArgument(t *testing.T) {
	src := `import typing

values: dict[str, typing.Any] = {}
`
	bag := check(t, src)
	got := byRule(bag, "typing-any-used")
	if len(got) != 1 {
		t.Fatalf("typing-any-used = %d, want 1", len(got))
	}
	if text := src[got[0].Primary.Start:got[0].Primary.End]; text != "typing.Any" {
		t.Fatalf("primary covers %q", text)
	}
}

func TestDisabledRuleStaysSilent(t *testing.T) {
	src := `from typing import Any

x: Any = 1
`
	bag := check(t, src, rule.Override{
		Rule: "typing-any-used", Level: "ignore", Source: rule.SourceCli, Origin: "command line",
	})
	if got := byRule(bag, "typing-any-used"); len(got) != 0 {
		t.Fatalf("disabled rule fired %d times", len(got))
	}
}

func TestCliProvenanceNote(t *testing.T) {
	src := `from typing import Any

x: Any = 1
`
	bag := check(t, src, rule.Override{
		Rule: "typing-any-used", Level: "error", Source: rule.SourceCli, Origin: "command line",
	})
	got := byRule(bag, "typing-any-used")
	if len(got) != 1 {
		t.Fatalf("typing-any-used = %d, want 1", len(got))
	}
	if got[0].Severity != diag.SevError {
		t.Fatal("CLI override severity not applied")
	}
	last := got[0].Notes[len(got[0].Notes)-1]
	if last.Msg != "rule `typing-any-used` was selected on the command line" {
		t.Fatalf("provenance = %q", last.Msg)
	}
}

func TestCallableEllipsis(t *testing.T) {
	src := `from typing import Callable

handler: Callable[..., int]
good: Callable[[int], int]
`
	bag := check(t, src)
	if got := byRule(bag, "callable-ellipsis-used"); len(got) != 1 {
		t.Fatalf("callable-ellipsis-used = %d, want 1", len(got))
	}
}

func TestMutableGenericDefault(t *testing.T) {
	src := `from typing import TypeVar

T = TypeVar("T")

def collect(items: list[T] = []) -> list[T]:
    return items

def plain(items: list[int] = []) -> list[int]:
    return items
`
	bag := check(t, src)
	got := byRule(bag, "mutable-generic-default")
	if len(got) != 1 {
		t.Fatalf("mutable-generic-default = %d, want 1", len(got))
	}
	if text := src[got[0].Primary.Start:got[0].Primary.End]; text != "[]" {
		t.Fatalf("primary covers %q, want the default", text)
	}
}

func TestInvalidOverloadImplementation(t *testing.T) {
	src := `from typing import overload

@overload
def f(x: int) -> int: ...
@overload
def f(x: str) -> str: ...
def f(x):
    return b"bytes"
`
	bag := check(t, src)

	got := byRule(bag, "invalid-overload-implementation")
	if len(got) != 1 {
		t.Fatalf("invalid-overload-implementation = %d, want 1", len(got))
	}
	info := got[0].Notes[0].Msg
	if !strings.Contains(info, "`bytes`") || !strings.Contains(info, "`int`, `str`") {
		t.Fatalf("info = %q", info)
	}

	// Both @overload decorators are reported once the implementation
	// exists.
	if overloadUses := byRule(bag, "typing-overload-used"); len(overloadUses) != 2 {
		t.Fatalf("typing-overload-used = %d, want 2", len(overloadUses))
	}
}

func TestOverloadWithDynamicReturnStaysSilent(t *testing.T) {
	src := `from typing import Any, overload

@overload
def f(x: int) -> Any: ...
@overload
def f(x: str) -> str: ...
def f(x):
    return b"bytes"
`
	bag := check(t, src)
	if got := byRule(bag, "invalid-overload-implementation"); len(got) != 0 {
		t.Fatal("a dynamic overload return must suppress the check")
	}
}

func TestValidOverloadImplementation(t *testing.T) {
	src := `from typing import overload

@overload
def f(x: int) -> int: ...
@overload
def f(x: str) -> str: ...
def f(x):
    return 42
`
	bag := check(t, src)
	if got := byRule(bag, "invalid-overload-implementation"); len(got) != 0 {
		t.Fatal("int return fits the overload union")
	}
}

func TestNestedReturnsIgnored(t *testing.T) {
	src := `from typing import overload

@overload
def f(x: int) -> int: ...
def f(x):
    def inner():
        return "nested"
    return 1
`
	bag := check(t, src)
	if got := byRule(bag, "invalid-overload-implementation"); len(got) != 0 {
		t.Fatal("returns in nested functions must not be checked")
	}
}

func TestTypeCheckingDirective(t *testing.T) {
	src := `x = 1  # type: ignore
y = 2  # pyright: ignore[reportGeneralTypeIssues]
z = 3  # just a comment
w = 4  #type: ignore
`
	bag := check(t, src)
	got := byRule(bag, "type-checking-directive-used")
	if len(got) != 2 {
		t.Fatalf("type-checking-directive-used = %d, want 2", len(got))
	}
	if !strings.Contains(got[0].Message, "`type: ignore`") {
		t.Fatalf("message = %q", got[0].Message)
	}
	if !strings.Contains(got[1].Message, "`pyright: ignore`") {
		t.Fatalf("message = %q", got[1].Message)
	}
}

func TestIfTypeChecking(t *testing.T) {
	src := `import typing
from typing import TYPE_CHECKING

if TYPE_CHECKING:
    import os

if typing.TYPE_CHECKING:
    import sys

if not TYPE_CHECKING:
    pass

if True:
    pass
`
	bag := check(t, src)
	if got := byRule(bag, "if-type-checking-used"); len(got) != 3 {
		t.Fatalf("if-type-checking-used = %d, want 3", len(got))
	}
}

func TestMutatingFunctionCode(t *testing.T) {
	src := `def f(): ...
def g(): ...

f.__code__ = g.__code__
`
	bag := check(t, src)
	if got := byRule(bag, "mutating-function-code-attribute"); len(got) != 1 {
		t.Fatalf("mutating-function-code-attribute = %d, want 1", len(got))
	}
}

func TestFunctionDefaults(t *testing.T) {
	src := `def f(a: int, b: str = "x", c: int = 1): ...

f.__defaults__ = None
f.__defaults__ = ("y",)
f.__defaults__ = ("a", "b", "c")
`
	bag := check(t, src)
	got := byRule(bag, "invalid-function-defaults")
	// None with existing defaults, a tuple shorter than the current
	// default count, and a tuple whose elements do not fit the
	// annotated parameter types.
	if len(got) != 3 {
		t.Fatalf("invalid-function-defaults = %d, want 3", len(got))
	}
	if !strings.Contains(got[0].Message, "`None`") {
		t.Fatalf("message = %q", got[0].Message)
	}
}

func TestFunctionDefaultsValid(t *testing.T) {
	src := `def f(a: int, b: str = "x"): ...
def g(): ...

f.__defaults__ = (2, "y")
g.__defaults__ = None
`
	bag := check(t, src)
	if got := byRule(bag, "invalid-function-defaults"); len(got) != 0 {
		t.Fatalf("unexpected reports: %v", got)
	}
}

func TestTypingCast(t *testing.T) {
	src := `from typing import cast

a = cast(int, "text")
b = cast(int, 3)
c = cast(str, unknown_value)
`
	bag := check(t, src)
	got := byRule(bag, "typing-cast-used")
	if len(got) != 1 {
		t.Fatalf("typing-cast-used = %d, want 1", len(got))
	}
	if got[0].Notes[0].Msg != "Consider using `isinstance` checks to ensure types at runtime." {
		t.Fatalf("note = %q", got[0].Notes[0].Msg)
	}
}

func TestMutatingGlobals(t *testing.T) {
	src := `counter: int = 0
label = "x"

globals()["counter"] = "not an int"
globals()["counter"] = 2
globals()["label"] = "fine"
globals()["unknown"] = 3
`
	bag := check(t, src)
	if got := byRule(bag, "mutating-globals-dict"); len(got) != 1 {
		t.Fatalf("mutating-globals-dict = %d, want 1", len(got))
	}
}

func TestTypingTypeIs(t *testing.T) {
	src := `from typing import TypeIs

def is_str(x: object) -> TypeIs[str]:
    return isinstance(x, str)
`
	bag := check(t, src)
	if got := byRule(bag, "typing-type-is-used"); len(got) != 1 {
		t.Fatalf("typing-type-is-used = %d, want 1", len(got))
	}
}

func TestMangledDunder(t *testing.T) {
	src := `class Widget:
    def __init__(self):
        self.__secret = 1

    def poke(self):
        self._Widget__secret = 2
        self.__secret = 3

w = Widget()
w._Widget__secret = 4
w.normal = 5
`
	bag := check(t, src)
	got := byRule(bag, "mangled-dunder-instance-variable")
	if len(got) != 2 {
		t.Fatalf("mangled-dunder-instance-variable = %d, want 2", len(got))
	}
	for _, d := range got {
		if !strings.Contains(d.Message, "`_Widget__secret`") {
			t.Fatalf("message = %q", d.Message)
		}
	}
}

func TestInvalidSetattr(t *testing.T) {
	src := `class Config:
    retries: int = 3

cfg = Config()
setattr(cfg, "retries", "ten")
setattr(cfg, "retries", 10)
setattr(cfg, "unknown", "whatever")
setattr(mystery, "retries", "ten")
`
	bag := check(t, src)
	got := byRule(bag, "invalid-setattr")
	if len(got) != 1 {
		t.Fatalf("invalid-setattr = %d, want 1", len(got))
	}
	if !strings.Contains(got[0].Notes[0].Msg, `"int"`) {
		t.Fatalf("note = %q", got[0].Notes[0].Msg)
	}
}

func TestSyntaxErrorDiagnostic(t *testing.T) {
	bag := check(t, "def broken(:\n")
	if got := byRule(bag, "syntax-error"); len(got) != 1 {
		t.Fatalf("syntax-error = %d, want 1", len(got))
	}
}

func TestCheckProject(t *testing.T) {
	fs := source.NewFileSet()
	a := fs.AddVirtual("a.py", []byte("from typing import Any\nx: Any = 1\n"))
	b := fs.AddVirtual("b.py", []byte("y = 1  # type: ignore\n"))
	clean := fs.AddVirtual("c.py", []byte("z: int = 1\n"))

	reg := rule.DefaultRegistry()
	sel := rule.FromRegistry(reg)

	bag, err := CheckProject(context.Background(), fs, []source.FileID{a, b, clean}, reg, sel, 2)
	if err != nil {
		t.Fatalf("CheckProject: %v", err)
	}
	if bag.Len() != 2 {
		t.Fatalf("diagnostics = %d, want 2", bag.Len())
	}
	// Sorted by file, so a.py's diagnostic comes first.
	if bag.Items()[0].Primary.File != a {
		t.Fatal("diagnostics not in file order")
	}
}
