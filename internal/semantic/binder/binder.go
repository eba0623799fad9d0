// Package binder builds a declaration-level semantic model from a
// parsed module. It records imports, module-scope bindings, function
// signatures, overload groups, and class member tables; it does not
// perform flow-sensitive inference. Expressions it cannot type resolve
// to the Unknown builtin, which downstream checks treat as dynamic.
package binder

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"unsound/internal/pyast"
	"unsound/internal/semantic"
)

// typingModules are the modules whose members count as typing symbols.
var typingModules = map[string]bool{
	"typing":            true,
	"typing_extensions": true,
}

type classInfo struct {
	name    string
	members map[string]semantic.TypeID
}

// FileModel is the semantic.Model for one module.
type FileModel struct {
	tree  *pyast.Tree
	arena *semantic.Arena

	// typingAliases maps a local name to the canonical typing symbol it
	// imports ("Any", "cast", ...). typingModAliases maps a local name
	// to a typing-like module ("import typing as t").
	typingAliases    map[string]string
	typingModAliases map[string]bool

	bindings  map[string]semantic.TypeID
	typeVars  map[string]semantic.TypeID
	functions map[string]*semantic.FunctionInfo
	classes   map[string]*classInfo
}

var _ semantic.Model = (*FileModel)(nil)

// Bind walks the module and produces its semantic model.
func Bind(arena *semantic.Arena, tree *pyast.Tree) *FileModel {
	m := &FileModel{
		tree:             tree,
		arena:            arena,
		typingAliases:    make(map[string]string),
		typingModAliases: make(map[string]bool),
		bindings:         make(map[string]semantic.TypeID),
		typeVars:         make(map[string]semantic.TypeID),
		functions:        make(map[string]*semantic.FunctionInfo),
		classes:          make(map[string]*classInfo),
	}
	m.bindModule(tree.Root)
	return m
}

func (m *FileModel) bindModule(root *sitter.Node) {
	// Overload signatures accumulate until the undecorated
	// implementation claims them.
	pending := make(map[string][]*semantic.FunctionInfo)

	for _, stmt := range pyast.NamedChildren(root) {
		switch stmt.Type() {
		case pyast.KindImport:
			m.bindImport(stmt)
		case pyast.KindImportFrom:
			m.bindImportFrom(stmt)
		case pyast.KindExpressionStatement:
			for _, child := range pyast.NamedChildren(stmt) {
				if child.Type() == pyast.KindAssignment {
					m.bindAssignment(child)
				}
			}
		case pyast.KindFunctionDefinition, pyast.KindDecoratedDefinition:
			def := pyast.DefinitionOf(stmt)
			switch def.Type() {
			case pyast.KindFunctionDefinition:
				fn := m.bindFunction(stmt, def)
				if fn == nil {
					continue
				}
				if fn.IsOverload {
					pending[fn.Name] = append(pending[fn.Name], fn)
					m.functions[fn.Name] = fn
					continue
				}
				fn.Overloads = pending[fn.Name]
				delete(pending, fn.Name)
				m.functions[fn.Name] = fn
			case pyast.KindClassDefinition:
				m.bindClass(def)
			}
		case pyast.KindClassDefinition:
			m.bindClass(stmt)
		}
	}
}

// bindImport handles "import typing" and "import typing as t". Other
// modules bind their local name to a module type so attribute and call
// checks can tell "this came from a module" apart from Unknown.
func (m *FileModel) bindImport(stmt *sitter.Node) {
	for _, child := range pyast.NamedChildren(stmt) {
		switch child.Type() {
		case pyast.KindDottedName:
			name := m.tree.Text(child)
			if typingModules[name] {
				m.typingModAliases[name] = true
				continue
			}
			// "import os.path" binds the top-level name only.
			local, _, _ := strings.Cut(name, ".")
			m.bindings[local] = m.arena.Module(local)
		case pyast.KindAliasedImport:
			name := pyast.Field(child, "name")
			alias := pyast.Field(child, "alias")
			if name == nil || alias == nil {
				continue
			}
			if typingModules[m.tree.Text(name)] {
				m.typingModAliases[m.tree.Text(alias)] = true
				continue
			}
			m.bindings[m.tree.Text(alias)] = m.arena.Module(m.tree.Text(name))
		}
	}
}

// bindImportFrom handles "from typing import X" and aliased forms.
func (m *FileModel) bindImportFrom(stmt *sitter.Node) {
	module := pyast.Field(stmt, "module_name")
	if module == nil || !typingModules[m.tree.Text(module)] {
		return
	}
	for _, child := range pyast.NamedChildren(stmt) {
		if child == nil || child.Equal(module) {
			continue
		}
		switch child.Type() {
		case pyast.KindDottedName:
			name := m.tree.Text(child)
			m.typingAliases[name] = name
		case pyast.KindAliasedImport:
			name := pyast.Field(child, "name")
			alias := pyast.Field(child, "alias")
			if name != nil && alias != nil {
				m.typingAliases[m.tree.Text(alias)] = m.tree.Text(name)
			}
		}
	}
}

// bindAssignment records module-scope bindings: annotated declarations,
// literal initializers, and TypeVar definitions.
func (m *FileModel) bindAssignment(assign *sitter.Node) {
	left := pyast.Field(assign, "left")
	if left == nil || left.Type() != pyast.KindIdentifier {
		return
	}
	name := m.tree.Text(left)

	if ann := pyast.Field(assign, "type"); ann != nil {
		m.bindings[name] = m.AnnotationType(ann)
		return
	}

	right := pyast.Field(assign, "right")
	if right == nil {
		return
	}
	if tv, ok := m.typeVarFromCall(right); ok {
		m.typeVars[name] = tv
		m.bindings[name] = m.arena.Builtins().Unknown
		return
	}
	m.bindings[name] = m.TypeOf(right)
}

// typeVarFromCall recognizes T = TypeVar("T", bound=...) definitions.
func (m *FileModel) typeVarFromCall(expr *sitter.Node) (semantic.TypeID, bool) {
	expr = pyast.Unparenthesize(expr)
	if expr == nil || expr.Type() != pyast.KindCall {
		return semantic.NoTypeID, false
	}
	fn := pyast.Field(expr, "function")
	if fn == nil {
		return semantic.NoTypeID, false
	}
	if sym, ok := m.TypingSymbol(fn); !ok || sym != "TypeVar" {
		return semantic.NoTypeID, false
	}

	varName := ""
	bound := semantic.NoTypeID
	for _, arg := range pyast.CallArguments(expr) {
		if arg.Name == nil {
			if s, ok := pyast.StringLiteral(m.tree, arg.Value); ok && varName == "" {
				varName = s
			}
			continue
		}
		if m.tree.Text(arg.Name) == "bound" {
			bound = m.AnnotationType(arg.Value)
		}
	}
	if varName == "" {
		return semantic.NoTypeID, false
	}
	return m.arena.TypeVar(varName, bound), true
}

// bindFunction builds the FunctionInfo for a definition. outer is the
// decorated_definition when decorators are present, otherwise def.
func (m *FileModel) bindFunction(outer, def *sitter.Node) *semantic.FunctionInfo {
	nameNode := pyast.Field(def, "name")
	if nameNode == nil {
		return nil
	}

	fn := &semantic.FunctionInfo{
		Name: m.tree.Text(nameNode),
		Def:  def,
		Span: m.tree.Span(nameNode),
	}

	if outer.Type() == pyast.KindDecoratedDefinition {
		for _, child := range pyast.NamedChildren(outer) {
			if child.Type() != pyast.KindDecorator || child.NamedChildCount() == 0 {
				continue
			}
			target := child.NamedChild(0)
			if target.Type() == pyast.KindCall {
				target = pyast.Field(target, "function")
			}
			if sym, ok := m.TypingSymbol(target); ok && sym == "overload" {
				fn.IsOverload = true
				fn.DecoratorSpan = m.tree.Span(child)
			}
		}
	}

	for _, p := range pyast.Parameters(def) {
		info := semantic.ParamInfo{Span: m.tree.Span(p.Node)}
		if p.Name != nil {
			info.Name = m.tree.Text(p.Name)
		}
		if p.Annotation != nil {
			info.Annotation = m.AnnotationType(p.Annotation)
		}
		if p.Default != nil {
			info.HasDefault = true
			info.Default = m.TypeOf(p.Default)
		}
		fn.Params = append(fn.Params, info)
	}

	if ret := pyast.Field(def, "return_type"); ret != nil {
		fn.Return = m.AnnotationType(ret)
		fn.ReturnSpan = m.tree.Span(ret)
	}

	// Record the callable as a module binding so expressions naming the
	// function resolve to something useful.
	params := make([]semantic.TypeID, 0, len(fn.Params))
	for _, p := range fn.Params {
		if p.Annotation != semantic.NoTypeID {
			params = append(params, p.Annotation)
		} else {
			params = append(params, m.arena.Builtins().Unknown)
		}
	}
	ret := fn.Return
	if ret == semantic.NoTypeID {
		ret = m.arena.Builtins().Unknown
	}
	m.bindings[fn.Name] = m.arena.Callable(params, ret, false)

	return fn
}

// bindClass records a class and its declared members: annotated class
// variables, method callables, and annotated self assignments in
// __init__.
func (m *FileModel) bindClass(def *sitter.Node) {
	nameNode := pyast.Field(def, "name")
	body := pyast.Field(def, "body")
	if nameNode == nil || body == nil {
		return
	}
	info := &classInfo{
		name:    m.tree.Text(nameNode),
		members: make(map[string]semantic.TypeID),
	}
	m.classes[info.name] = info
	m.bindings[info.name] = m.arena.TypeOf(m.arena.Instance(info.name))

	for _, stmt := range pyast.NamedChildren(body) {
		switch stmt.Type() {
		case pyast.KindExpressionStatement:
			for _, child := range pyast.NamedChildren(stmt) {
				if child.Type() != pyast.KindAssignment {
					continue
				}
				left := pyast.Field(child, "left")
				if left == nil || left.Type() != pyast.KindIdentifier {
					continue
				}
				memberName := m.tree.Text(left)
				if ann := pyast.Field(child, "type"); ann != nil {
					info.members[memberName] = m.AnnotationType(ann)
				} else if right := pyast.Field(child, "right"); right != nil {
					info.members[memberName] = m.TypeOf(right)
				}
			}
		case pyast.KindFunctionDefinition, pyast.KindDecoratedDefinition:
			method := pyast.DefinitionOf(stmt)
			if method.Type() != pyast.KindFunctionDefinition {
				continue
			}
			methodName := pyast.Field(method, "name")
			if methodName == nil {
				continue
			}
			info.members[m.tree.Text(methodName)] = m.methodType(method)
			if m.tree.Text(methodName) == "__init__" {
				m.bindInitAssignments(info, method)
			}
		}
	}
}

func (m *FileModel) methodType(def *sitter.Node) semantic.TypeID {
	params := []semantic.TypeID{}
	for i, p := range pyast.Parameters(def) {
		if i == 0 {
			continue // self
		}
		if p.Annotation != nil {
			params = append(params, m.AnnotationType(p.Annotation))
		} else {
			params = append(params, m.arena.Builtins().Unknown)
		}
	}
	ret := m.arena.Builtins().Unknown
	if r := pyast.Field(def, "return_type"); r != nil {
		ret = m.AnnotationType(r)
	}
	return m.arena.Callable(params, ret, false)
}

// bindInitAssignments picks up "self.attr: T = ..." declarations.
func (m *FileModel) bindInitAssignments(info *classInfo, initDef *sitter.Node) {
	selfName := "self"
	if params := pyast.Parameters(initDef); len(params) > 0 && params[0].Name != nil {
		selfName = m.tree.Text(params[0].Name)
	}

	body := pyast.Field(initDef, "body")
	if body == nil {
		return
	}
	pyast.Walk(body, func(n *sitter.Node) bool {
		if n.Type() == pyast.KindFunctionDefinition || n.Type() == pyast.KindClassDefinition {
			return false
		}
		if n.Type() != pyast.KindAssignment {
			return true
		}
		left := pyast.Field(n, "left")
		ann := pyast.Field(n, "type")
		if left == nil || ann == nil || left.Type() != pyast.KindAttribute {
			return true
		}
		obj := pyast.Field(left, "object")
		attr := pyast.Field(left, "attribute")
		if obj == nil || attr == nil || obj.Type() != pyast.KindIdentifier {
			return true
		}
		if m.tree.Text(obj) != selfName {
			return true
		}
		name := m.tree.Text(attr)
		if _, exists := info.members[name]; !exists {
			info.members[name] = m.AnnotationType(ann)
		}
		return true
	})
}

// Arena returns the arena TypeIDs of this model live in.
func (m *FileModel) Arena() *semantic.Arena {
	return m.arena
}

// TypingSymbol resolves a name or attribute to a typing-module member.
func (m *FileModel) TypingSymbol(n *sitter.Node) (string, bool) {
	n = pyast.Unparenthesize(n)
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case pyast.KindIdentifier:
		if canonical, ok := m.typingAliases[m.tree.Text(n)]; ok {
			return canonical, true
		}
	case pyast.KindAttribute:
		obj := pyast.Unparenthesize(pyast.Field(n, "object"))
		attr := pyast.Field(n, "attribute")
		if obj == nil || attr == nil || obj.Type() != pyast.KindIdentifier {
			return "", false
		}
		if m.typingModAliases[m.tree.Text(obj)] {
			return m.tree.Text(attr), true
		}
	}
	return "", false
}

// Function returns the function bound to a module-scope name.
func (m *FileModel) Function(name string) (*semantic.FunctionInfo, bool) {
	fn, ok := m.functions[name]
	return fn, ok
}

// ModuleBinding returns the declared type of a module-scope name.
func (m *FileModel) ModuleBinding(name string) (semantic.TypeID, bool) {
	id, ok := m.bindings[name]
	return id, ok
}

// Member returns the declared type of an attribute on an instance type.
func (m *FileModel) Member(typ semantic.TypeID, name string) (semantic.TypeID, bool) {
	t, ok := m.arena.Lookup(typ)
	if !ok || t.Kind != semantic.KindInstance {
		return semantic.NoTypeID, false
	}
	cls, ok := m.classes[t.Name]
	if !ok {
		return semantic.NoTypeID, false
	}
	id, ok := cls.members[name]
	return id, ok
}

// HasClass reports whether the model knows the class backing typ.
func (m *FileModel) HasClass(typ semantic.TypeID) bool {
	t, ok := m.arena.Lookup(typ)
	if !ok || t.Kind != semantic.KindInstance {
		return false
	}
	_, ok = m.classes[t.Name]
	return ok
}

// ClassInstance returns the instance type of a class defined here.
func (m *FileModel) ClassInstance(name string) semantic.TypeID {
	if _, ok := m.classes[name]; !ok {
		return semantic.NoTypeID
	}
	return m.arena.Instance(name)
}

// typeVarNamed returns the TypeVar bound to a module-scope name.
func (m *FileModel) typeVarNamed(name string) (semantic.TypeID, bool) {
	id, ok := m.typeVars[name]
	return id, ok
}

func isBuiltinClass(name string) bool {
	switch name {
	case "int", "float", "complex", "str", "bytes", "bytearray", "bool",
		"object", "list", "dict", "set", "frozenset", "tuple", "type",
		"memoryview", "range", "slice":
		return true
	}
	return false
}

func stripQuotes(s string) (string, bool) {
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return s[len(q) : len(s)-len(q)], true
		}
	}
	return s, false
}
