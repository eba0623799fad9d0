package rule

// RuntimeModification groups rules about runtime code modifications that
// escape static type checker analysis.
var RuntimeModification = &Category{
	Name: "runtime-modification",
	Documentation: `Runtime code modifications that escape static type checker analysis.

Examples: modifying ` + "`__code__`" + `, ` + "`__defaults__`" + `, or other runtime attributes
that change behavior in ways type checkers cannot detect.`,
}

// TypeCheckingSuppression groups rules about mechanisms that suppress or
// bypass type checker warnings.
var TypeCheckingSuppression = &Category{
	Name: "type-checking-suppression",
	Documentation: `Mechanisms that suppress or bypass type checker warnings.

Examples: ` + "`typing.Any`" + `, ` + "`# type: ignore`" + ` directives, or other escape hatches
that silence type checking without fixing underlying type issues.`,
}

// AllCategories lists every registered category.
var AllCategories = []*Category{RuntimeModification, TypeCheckingSuppression}
