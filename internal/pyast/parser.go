// Package pyast wraps the tree-sitter Python grammar behind the
// project's source model: parse results carry source.Span positions and
// expose the handful of node helpers the checker needs.
package pyast

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"unsound/internal/source"
)

// Parser parses Python source files into concrete syntax trees.
// A Parser is not safe for concurrent use; create one per worker.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a parser configured for the Python grammar.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{parser: p}
}

// Parse parses the file content into a Tree. The returned tree holds C
// memory; callers must Close it when done.
func (p *Parser) Parse(ctx context.Context, file *source.File) (*Tree, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, file.Content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", file.Path, err)
	}
	return &Tree{File: file, tree: tree, Root: tree.RootNode()}, nil
}

// Tree is a parsed Python module bound to its source file.
type Tree struct {
	File *source.File
	Root *sitter.Node

	tree *sitter.Tree
}

// Close releases the underlying tree-sitter memory.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// HasSyntaxErrors reports whether the grammar produced any error nodes.
func (t *Tree) HasSyntaxErrors() bool {
	return t.Root.HasError()
}

// Span converts a node's byte range into a span within the tree's file.
func (t *Tree) Span(n *sitter.Node) source.Span {
	return source.Span{File: t.File.ID, Start: n.StartByte(), End: n.EndByte()}
}

// Text returns the source text covered by the node.
func (t *Tree) Text(n *sitter.Node) string {
	return string(t.File.Content[n.StartByte():n.EndByte()])
}
