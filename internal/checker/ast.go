package checker

import (
	sitter "github.com/smacker/go-tree-sitter"

	"unsound/internal/pyast"
	"unsound/internal/semantic"
)

// astChecker walks the module in source order, dispatching each
// construct to its rule checks. It tracks the enclosing class and the
// receiver name of the enclosing method so attribute checks can type
// bare `self` accesses. Checks consume the semantic.Model interface
// only, keeping the binder behind it swappable.
type astChecker struct {
	ctx   *Context
	tree  *pyast.Tree
	model semantic.Model

	classStack []string
	selfStack  []string
}

func checkAST(ctx *Context, tree *pyast.Tree, model semantic.Model) {
	c := &astChecker{ctx: ctx, tree: tree, model: model}
	c.visitChildren(tree.Root)
}

func (c *astChecker) visitChildren(n *sitter.Node) {
	for _, child := range pyast.NamedChildren(n) {
		c.visit(child)
	}
}

func (c *astChecker) visit(n *sitter.Node) {
	switch n.Type() {
	case pyast.KindDecoratedDefinition:
		def := pyast.DefinitionOf(n)
		switch def.Type() {
		case pyast.KindFunctionDefinition:
			for _, dec := range pyast.Decorators(n) {
				c.visit(dec)
			}
			c.visitFunction(n, def)
			return
		case pyast.KindClassDefinition:
			for _, dec := range pyast.Decorators(n) {
				c.visit(dec)
			}
			c.visitClass(def)
			return
		}
		c.visitChildren(n)

	case pyast.KindFunctionDefinition:
		c.visitFunction(n, n)

	case pyast.KindClassDefinition:
		c.visitClass(n)

	case pyast.KindAssignment:
		c.checkAssignment(n)
		if ann := pyast.Field(n, "type"); ann != nil {
			c.checkAnnotation(ann)
		}
		c.visitChildren(n)

	case pyast.KindIfStatement:
		c.checkIfStatement(n)
		c.visitChildren(n)

	case pyast.KindCall:
		c.checkCall(n)
		c.visitChildren(n)

	case pyast.KindAttribute:
		c.checkAttribute(n)
		c.visitChildren(n)

	default:
		c.visitChildren(n)
	}
}

func (c *astChecker) visitFunction(outer, def *sitter.Node) {
	c.checkFunctionDefinition(outer, def)

	selfName := ""
	if len(c.classStack) > 0 {
		if params := pyast.Parameters(def); len(params) > 0 && params[0].Name != nil {
			selfName = c.tree.Text(params[0].Name)
		}
	}
	c.selfStack = append(c.selfStack, selfName)
	defer func() { c.selfStack = c.selfStack[:len(c.selfStack)-1] }()

	// Defaults and decorator arguments can contain checked expressions.
	if params := pyast.Field(def, "parameters"); params != nil {
		c.visitChildren(params)
	}
	if body := pyast.Field(def, "body"); body != nil {
		c.visitChildren(body)
	}
}

func (c *astChecker) visitClass(def *sitter.Node) {
	name := ""
	if n := pyast.Field(def, "name"); n != nil {
		name = c.tree.Text(n)
	}
	c.classStack = append(c.classStack, name)
	defer func() { c.classStack = c.classStack[:len(c.classStack)-1] }()

	if body := pyast.Field(def, "body"); body != nil {
		c.visitChildren(body)
	}
}

// currentClass returns the innermost enclosing class name.
func (c *astChecker) currentClass() string {
	if len(c.classStack) == 0 {
		return ""
	}
	return c.classStack[len(c.classStack)-1]
}

// currentSelf returns the receiver name of the enclosing method.
func (c *astChecker) currentSelf() string {
	if len(c.selfStack) == 0 {
		return ""
	}
	return c.selfStack[len(c.selfStack)-1]
}
