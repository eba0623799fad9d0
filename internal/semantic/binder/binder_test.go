package binder

import (
	"context"
	"testing"

	"unsound/internal/pyast"
	"unsound/internal/semantic"
	"unsound/internal/source"
)

func bindSnippet(t *testing.T, src string) (*FileModel, *pyast.Tree) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.py", []byte(src))
	tree, err := pyast.NewParser().Parse(context.Background(), fs.Get(id))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	t.Cleanup(tree.Close)
	return Bind(semantic.NewArena(), tree), tree
}

func TestTypingImports(t *testing.T) {
	m, tree := bindSnippet(t, `
from typing import Any, cast as c
import typing as t

a: Any
b = c
d = t.TYPE_CHECKING
`)
	if got, ok := m.ModuleBinding("a"); !ok || got != m.Arena().Builtins().Any {
		t.Fatalf("a = %s, want Any", m.Arena().Display(got))
	}

	// Find the "c" and "t.TYPE_CHECKING" expressions and resolve them.
	stmts := pyast.NamedChildren(tree.Root)
	cExpr := pyast.Field(stmts[3].NamedChild(0), "right")
	if sym, ok := m.TypingSymbol(cExpr); !ok || sym != "cast" {
		t.Fatalf("TypingSymbol(c) = %q/%v, want cast", sym, ok)
	}
	tcExpr := pyast.Field(stmts[4].NamedChild(0), "right")
	if sym, ok := m.TypingSymbol(tcExpr); !ok || sym != "TYPE_CHECKING" {
		t.Fatalf("TypingSymbol(t.TYPE_CHECKING) = %q/%v", sym, ok)
	}
}

func TestModuleBindings(t *testing.T) {
	m, _ := bindSnippet(t, `
count: int = 0
name = "ada"
flag = True
anything = compute()
`)
	a := m.Arena()

	if got, _ := m.ModuleBinding("count"); got != a.Builtins().Int {
		t.Fatalf("count = %s, want int", a.Display(got))
	}
	if got, _ := m.ModuleBinding("name"); a.Display(got) != `Literal["ada"]` {
		t.Fatalf("name = %s", a.Display(got))
	}
	if got, _ := m.ModuleBinding("anything"); !a.IsDynamic(got) {
		t.Fatal("an unresolvable initializer must bind Unknown")
	}
	if _, ok := m.ModuleBinding("missing"); ok {
		t.Fatal("unexpected binding for missing")
	}
}

func TestImportedModuleBindings(t *testing.T) {
	m, _ := bindSnippet(t, `
import os
import os.path
import json as j
import typing
`)
	a := m.Arena()

	if got, ok := m.ModuleBinding("os"); !ok || a.Display(got) != "<module 'os'>" {
		t.Fatalf("os = %s, want <module 'os'>", a.Display(got))
	}
	if got, ok := m.ModuleBinding("j"); !ok || a.Display(got) != "<module 'json'>" {
		t.Fatalf("j = %s, want <module 'json'>", a.Display(got))
	}
	if _, ok := m.ModuleBinding("json"); ok {
		t.Fatal("an aliased import must not bind the original name")
	}
	// typing stays a typing-module alias, not a value binding.
	if _, ok := m.ModuleBinding("typing"); ok {
		t.Fatal("typing must not appear among value bindings")
	}
}

func TestAnnotationEvaluation(t *testing.T) {
	m, _ := bindSnippet(t, `
from typing import Optional, Union, Callable, Literal

a: Optional[str]
b: int | None
c: list[int]
d: dict[str, int]
e: Callable[[int, str], bool]
f: Callable[..., None]
g: Union[int, str]
h: Literal[1, "two"]
i: tuple[int, str]
j: type[int]
`)
	a := m.Arena()
	want := map[string]string{
		"a": "str | None",
		"b": "int | None",
		"c": "list[int]",
		"d": "dict[str, int]",
		"e": "Callable[[int, str], bool]",
		"f": "Callable[..., None]",
		"g": "int | str",
		"h": `Literal[1] | Literal["two"]`,
		"i": "tuple[int, str]",
		"j": "type[int]",
	}
	for name, display := range want {
		id, ok := m.ModuleBinding(name)
		if !ok {
			t.Fatalf("no binding for %s", name)
		}
		if got := a.Display(id); got != display {
			t.Errorf("%s = %q, want %q", name, got, display)
		}
	}
}

func TestTypeVarBinding(t *testing.T) {
	m, _ := bindSnippet(t, `
from typing import TypeVar

class Widget:
    pass

T = TypeVar("T", bound=Widget)

x: T
`)
	a := m.Arena()
	id, ok := m.ModuleBinding("x")
	if !ok {
		t.Fatal("no binding for x")
	}
	typ := a.MustLookup(id)
	if typ.Kind != semantic.KindTypeVar || typ.Name != "T" {
		t.Fatalf("x = %s, want TypeVar T", a.Display(id))
	}
	if a.Display(typ.Elem) != "Widget" {
		t.Fatalf("bound = %s, want Widget", a.Display(typ.Elem))
	}
}

func TestOverloadGrouping(t *testing.T) {
	m, _ := bindSnippet(t, `
from typing import overload

@overload
def f(x: int) -> int: ...
@overload
def f(x: str) -> str: ...
def f(x): return x
`)
	fn, ok := m.Function("f")
	if !ok {
		t.Fatal("no function f")
	}
	if fn.IsOverload {
		t.Fatal("the implementation must not be marked as an overload")
	}
	if len(fn.Overloads) != 2 {
		t.Fatalf("overloads = %d, want 2", len(fn.Overloads))
	}
	a := m.Arena()
	if a.Display(fn.Overloads[0].Return) != "int" || a.Display(fn.Overloads[1].Return) != "str" {
		t.Fatal("overload returns recorded in wrong order")
	}
}

func TestFunctionDefaults(t *testing.T) {
	m, _ := bindSnippet(t, `
def greet(name: str, times: int = 1, *, upper: bool = False) -> str: ...
`)
	fn, ok := m.Function("greet")
	if !ok {
		t.Fatal("no function greet")
	}
	if len(fn.Params) != 3 {
		t.Fatalf("params = %d, want 3", len(fn.Params))
	}
	a := m.Arena()
	if fn.Params[0].HasDefault {
		t.Fatal("name has no default")
	}
	if !fn.Params[1].HasDefault || a.Display(fn.Params[1].Annotation) != "int" {
		t.Fatal("times should be int with a default")
	}
	if a.Display(fn.Return) != "str" {
		t.Fatalf("return = %s, want str", a.Display(fn.Return))
	}
}

func TestClassMembers(t *testing.T) {
	m, _ := bindSnippet(t, `
class Config:
    retries: int = 3
    label = "default"

    def __init__(self) -> None:
        self.timeout: float = 1.5
        self.cache = {}

    def reload(self) -> bool: ...
`)
	a := m.Arena()
	inst := m.ClassInstance("Config")
	if inst == semantic.NoTypeID {
		t.Fatal("Config not recorded")
	}

	if id, ok := m.Member(inst, "retries"); !ok || id != a.Builtins().Int {
		t.Fatal("retries should be int")
	}
	if id, ok := m.Member(inst, "timeout"); !ok || id != a.Builtins().Float {
		t.Fatal("timeout should come from the __init__ annotation")
	}
	if _, ok := m.Member(inst, "missing"); ok {
		t.Fatal("unexpected member")
	}
	if id, ok := m.Member(inst, "reload"); !ok {
		t.Fatal("methods are members")
	} else if typ := a.MustLookup(id); typ.Kind != semantic.KindCallable {
		t.Fatalf("reload = %s, want a callable", a.Display(id))
	}

	if m.ClassInstance("Other") != semantic.NoTypeID {
		t.Fatal("unknown classes must yield NoTypeID")
	}
}

func TestConstructorInference(t *testing.T) {
	m, _ := bindSnippet(t, `
class Point:
    x: int

p = Point()
n = int("3")
`)
	a := m.Arena()
	if id, _ := m.ModuleBinding("p"); a.Display(id) != "Point" {
		t.Fatalf("p = %s, want Point", a.Display(id))
	}
	if id, _ := m.ModuleBinding("n"); a.Display(id) != "int" {
		t.Fatalf("n = %s, want int", a.Display(id))
	}
}
