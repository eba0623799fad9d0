package rule

import "sync"

// TypingAnyUsed flags usage of `typing.Any` in type annotations.
var TypingAnyUsed = &Metadata{
	Name:    "typing-any-used",
	Summary: "detects usage of `typing.Any` in type annotations",
	Documentation: `## What it does
Checks for usage of ` + "`typing.Any`" + ` in type annotations.

## Why is this bad?
` + "`typing.Any`" + ` disables type checking for the annotated value. Code that
passes the type checker can still violate the annotation at runtime.

## Examples
` + "```python" + `
from typing import Any

def foo(x: Any) -> Any:
    return x + 1

foo("1")
` + "```",
	DefaultLevel: LevelWarn,
	Status:       Stable("1.0.0"),
	Categories:   []*Category{TypeCheckingSuppression},
}

// CallableEllipsisUsed flags `Callable[..., R]` annotations.
var CallableEllipsisUsed = &Metadata{
	Name:    "callable-ellipsis-used",
	Summary: "detects usage of `...` in the first argument of `Callable` type annotations",
	Documentation: `## What it does
Checks for usage of ` + "`...`" + ` (ellipsis) in the first argument of ` + "`Callable`" + `
type annotations.

## Why is this bad?
` + "`Callable[..., ReturnType]`" + ` accepts any number of arguments of any type,
which bypasses parameter type checking. The type checker cannot verify
argument types or counts at call sites.

## Examples
` + "```python" + `
from typing import Callable

def foo(callback: Callable[..., int]) -> int:
    return callback("wrong", "types")

def bar(x: int) -> int:
    return x

# This passes type checking but fails at runtime.
foo(bar)
` + "```",
	DefaultLevel: LevelWarn,
	Status:       Stable("1.0.0"),
	Categories:   []*Category{TypeCheckingSuppression},
}

// MutableGenericDefault flags mutable default values on generic parameters.
var MutableGenericDefault = &Metadata{
	Name:    "mutable-generic-default",
	Summary: "detects mutable default arguments in generic functions",
	Documentation: `## What it does
Checks for generic functions or methods that accept mutable objects as
default parameter values.

## Why is this bad?
A mutable default (list, dict, set) is shared across all invocations of the
function. When the function is generic, calls instantiated with different
type parameters reuse the same container, so it can accumulate values of
multiple unrelated types.

## Examples
` + "```python" + `
def append_and_return[T](x: T, items: list[T] = []) -> list[T]:
    items.append(x)
    return items

int_list = append_and_return(42)
str_list = append_and_return("hello")

# This is an int at runtime but str at type check time.
value: str = str_list[0]
` + "```",
	DefaultLevel: LevelError,
	Status:       Stable("1.0.0"),
}

// InvalidOverloadImplementation flags implementations whose returns violate
// the declared overload signatures.
var InvalidOverloadImplementation = &Metadata{
	Name:    "invalid-overload-implementation",
	Summary: "detects invalid overload implementation",
	Documentation: `## What it does
Checks that the implementation of an overloaded function only returns values
assignable to the union of the declared overload return types.

## Why is this bad?
Callers see the overload signatures, not the implementation. A return value
outside every declared return type violates the contract at runtime.

## Examples
` + "```python" + `
from typing import overload

@overload
def foo(x: int) -> str: ...
@overload
def foo(x: str) -> int: ...
def foo(x: int | str) -> int | str:
    return b""
` + "```",
	DefaultLevel: LevelError,
	Status:       Stable("1.0.0"),
}

// TypingOverloadUsed flags each use of the overload decorator.
var TypingOverloadUsed = &Metadata{
	Name:    "typing-overload-used",
	Summary: "detects usage of overloaded functions",
	Documentation: `## What it does
Checks for usage of ` + "`typing.overload`" + `.

## Why is this bad?
Overloads describe multiple call contracts for one executable body. The
checker cannot verify that the body honors every contract, so an incorrect
implementation surfaces only at runtime.

## Examples
` + "```python" + `
from typing import overload

@overload
def foo(x: int) -> str: ...
@overload
def foo(x: str) -> int: ...
def foo(x: int | str) -> int | str:
    return x
` + "```",
	DefaultLevel: LevelWarn,
	Status:       Stable("1.0.0"),
}

// TypeCheckingDirectiveUsed flags suppression directives in comments.
var TypeCheckingDirectiveUsed = &Metadata{
	Name:    "type-checking-directive-used",
	Summary: "detects usage of type checking directives in comments",
	Documentation: `## What it does
Checks for type checking directives like ` + "`# type: ignore`" + ` in comments.

## Why is this bad?
Suppression directives silence type checker findings, which can hide real
type errors that then surface at runtime.

## Examples
` + "```python" + `
# mypy / standard (PEP 484)
x = "string" + 123  # type: ignore
y = foo()  # type: ignore[attr-defined]
` + "```",
	DefaultLevel: LevelWarn,
	Status:       Stable("1.0.0"),
	Categories:   []*Category{TypeCheckingSuppression},
}

// IfTypeCheckingUsed flags `if TYPE_CHECKING:` blocks.
var IfTypeCheckingUsed = &Metadata{
	Name:    "if-type-checking-used",
	Summary: "detects usage of `if TYPE_CHECKING:` blocks",
	Documentation: `## What it does
Checks for ` + "`if TYPE_CHECKING:`" + ` blocks from the ` + "`typing`" + ` module.

## Why is this bad?
` + "`TYPE_CHECKING`" + ` is false at runtime but true during static analysis. With
an ` + "`else`" + ` clause whose definitions diverge, the type checker validates one
branch while the other one executes.

## Examples
` + "```python" + `
from typing import TYPE_CHECKING

if TYPE_CHECKING:
    def get_value() -> int:
        ...
else:
    def get_value() -> str:
        return "hello"

result: int = get_value()  # Type checks, but returns str at runtime!
` + "```",
	DefaultLevel: LevelWarn,
	Status:       Stable("1.0.0"),
	Categories:   []*Category{TypeCheckingSuppression},
}

// InvalidFunctionDefaults flags incompatible `__defaults__` mutation.
var InvalidFunctionDefaults = &Metadata{
	Name:    "invalid-function-defaults",
	Summary: "detects invalid mutation of the `__defaults__` attribute of a function",
	Documentation: `## What it does
Checks for mutations of a function's ` + "`__defaults__`" + ` attribute that are
incompatible with the declared parameter types.

## Why is this bad?
Replacing defaults with values of different types changes what the function
returns without the type checker noticing.

## Examples
` + "```python" + `
def foo(x: int = 1) -> int:
    return x

foo.__defaults__ = ("string",)
result = foo()  # Returns "string" but type checker thinks it's int
` + "```",
	DefaultLevel: LevelError,
	Status:       Stable("1.0.0"),
	Categories:   []*Category{RuntimeModification},
}

// MutatingFunctionCodeAttribute flags any `__code__` assignment.
var MutatingFunctionCodeAttribute = &Metadata{
	Name:    "mutating-function-code-attribute",
	Summary: "detects mutating the `__code__` attribute of a function",
	Documentation: `## What it does
Checks for assignments to a function's ` + "`__code__`" + ` attribute.

## Why is this bad?
Swapping the code object replaces the function's behavior entirely. No
static signature compatibility check is possible, so every such mutation can
invalidate the declared types.

## Examples
` + "```python" + `
def foo(x: int) -> int:
    return 1

def bar(x: str) -> str:
    return "bar"

foo.__code__ = bar.__code__
# Now foo will return a string
` + "```",
	DefaultLevel: LevelError,
	Status:       Stable("1.0.0"),
	Categories:   []*Category{RuntimeModification},
}

// TypingCastUsed flags casts that assert a type the value does not have.
var TypingCastUsed = &Metadata{
	Name:    "typing-cast-used",
	Summary: "detects usage of `typing.cast()` function calls",
	Documentation: `## What it does
Checks for ` + "`typing.cast()`" + ` calls that assert a type differing from the
value's known type.

## Why is this bad?
` + "`cast()`" + ` tells the type checker to trust the asserted type without any
runtime validation. An incorrect cast bypasses every downstream type safety
guarantee.

## Examples
` + "```python" + `
from typing import cast

def get_value() -> int | str:
    return "hello"

result = cast(int, get_value())
result + 1  # Type checks, but fails at runtime!
` + "```",
	DefaultLevel: LevelWarn,
	Status:       Stable("1.0.0"),
	Categories:   []*Category{TypeCheckingSuppression},
}

// MutatingGlobalsDict flags incompatible writes through globals().
var MutatingGlobalsDict = &Metadata{
	Name:    "mutating-globals-dict",
	Summary: "detects mutations to the `globals()` dictionary",
	Documentation: `## What it does
Checks for assignments through the ` + "`globals()`" + ` dictionary that are
incompatible with the target symbol's static type.

## Why is this bad?
Writes through ` + "`globals()`" + ` are invisible to the type checker, so the
symbol's declared type and its runtime value can diverge.

## Examples
` + "```python" + `
x: int = 5

globals()['x'] = "hello"

# Type checker thinks x is an int, but it is now a string
result: int = x
` + "```",
	DefaultLevel: LevelError,
	Status:       Stable("1.0.0"),
	Categories:   []*Category{RuntimeModification},
}

// TypingTypeIsUsed flags `TypeIs` return annotations.
var TypingTypeIsUsed = &Metadata{
	Name:    "typing-type-is-used",
	Summary: "detects usage of `typing.TypeIs` in return type annotations",
	Documentation: `## What it does
Checks for return types that use ` + "`typing.TypeIs`" + `.

## Why is this bad?
Type checkers narrow types based on ` + "`TypeIs`" + ` results but never verify the
predicate's body. An incorrect implementation narrows to a type the value
does not have.

## Examples
` + "```python" + `
from typing import TypeIs

def is_int(x: object) -> TypeIs[int]:
    return True

value = "hello"

if is_int(value):
    result = value + 1  # Type checks but fails at runtime!
` + "```",
	DefaultLevel: LevelWarn,
	Status:       Stable("1.0.0"),
	Categories:   []*Category{TypeCheckingSuppression},
}

// MangledDunderInstanceVariable flags explicit use of mangled names.
var MangledDunderInstanceVariable = &Metadata{
	Name:    "mangled-dunder-instance-variable",
	Summary: "detects explicit usage of mangled dunder instance variables",
	Documentation: `## What it does
Checks for attribute access using the explicitly mangled form
` + "`_ClassName__variable`" + ` of a double-underscore instance variable.

## Why is this bad?
Python mangles dunder instance variables for name privacy. Accessing the
mangled form directly can assign a different type to the mangled name than
the declared variable expects, bypassing type checking.

## Examples
` + "```python" + `
class HiddenDunderVariables:
    def __init__(self, x: int) -> None:
        self.__str_x = str(x)
        self._HiddenDunderVariables__str_x = x

    def get_str_x(self) -> str:
        return self.__str_x
` + "```",
	DefaultLevel: LevelWarn,
	Status:       Stable("1.0.0"),
	Categories:   []*Category{TypeCheckingSuppression},
}

// InvalidSetattr flags setattr calls with incompatible value types.
var InvalidSetattr = &Metadata{
	Name:    "invalid-setattr",
	Summary: "detects invalid usage of `setattr()` built-in function",
	Documentation: `## What it does
Checks ` + "`setattr()`" + ` calls with a literal attribute name against the
declared type of the target attribute.

## Why is this bad?
` + "`setattr()`" + ` assigns dynamically, so any type can land in any attribute.
When the value's type is not assignable to the attribute's annotation, later
reads violate the annotation.

## Examples
` + "```python" + `
class Foo:
    def __init__(self) -> None:
        self.x: str = "hello"

foo = Foo()
setattr(foo, "x", 1)
` + "```",
	DefaultLevel: LevelWarn,
	Status:       Stable("1.0.0"),
	Categories:   []*Category{RuntimeModification},
}

// ImplicitDunderCall was folded into mangled-dunder-instance-variable and
// remains only so old configurations resolve to a helpful error.
var ImplicitDunderCall = &Metadata{
	Name:         "implicit-dunder-call",
	Summary:      "detected implicit calls of dunder methods (removed)",
	DefaultLevel: LevelIgnore,
	Status:       Removed("1.2.0", "superseded by `mangled-dunder-instance-variable`"),
	Categories:   []*Category{TypeCheckingSuppression},
}

func registerAll(b *Builder) {
	b.Register(TypingAnyUsed)
	b.Register(InvalidOverloadImplementation)
	b.Register(TypingOverloadUsed)
	b.Register(TypeCheckingDirectiveUsed)
	b.Register(IfTypeCheckingUsed)
	b.Register(InvalidFunctionDefaults)
	b.Register(MutatingFunctionCodeAttribute)
	b.Register(TypingCastUsed)
	b.Register(MutatingGlobalsDict)
	b.Register(TypingTypeIsUsed)
	b.Register(CallableEllipsisUsed)
	b.Register(MutableGenericDefault)
	b.Register(MangledDunderInstanceVariable)
	b.Register(InvalidSetattr)
	b.Register(ImplicitDunderCall)

	b.RegisterAlias("any-used", TypingAnyUsed)
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	b := NewBuilder()
	registerAll(b)
	return b.Build()
})

// DefaultRegistry returns the process-wide registry with all known rules.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}
