// Package checker runs the rule checks over Python source files.
//
// CheckFile parses one file, binds its declaration-level model, and
// dispatches the AST and comment checks. CheckProject fans CheckFile
// out over a worker pool.
package checker

import (
	"context"
	"runtime"

	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/sync/errgroup"

	"unsound/internal/diag"
	"unsound/internal/pyast"
	"unsound/internal/rule"
	"unsound/internal/semantic"
	"unsound/internal/semantic/binder"
	"unsound/internal/source"
)

// CheckFile checks a single file and returns its diagnostics.
func CheckFile(ctx context.Context, fileSet *source.FileSet, id source.FileID, registry *rule.Registry, selection *rule.Selection) (*diag.Bag, error) {
	file := fileSet.Get(id)

	tree, err := pyast.NewParser().Parse(ctx, file)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	cc := NewContext(fileSet, file, registry, selection)

	if tree.HasSyntaxErrors() {
		reportSyntaxError(cc, tree)
	}

	model := binder.Bind(semantic.NewArena(), tree)
	checkAST(cc, tree, model)
	checkComments(cc, tree)

	return cc.Diagnostics(), nil
}

// reportSyntaxError files one error diagnostic at the first spot the
// grammar could not recover from.
func reportSyntaxError(cc *Context, tree *pyast.Tree) {
	var errNode *sitter.Node
	pyast.Walk(tree.Root, func(n *sitter.Node) bool {
		if errNode != nil {
			return false
		}
		if n.Type() == pyast.KindErrorNode || n.IsMissing() {
			errNode = n
			return false
		}
		return n.HasError()
	})
	span := tree.Span(tree.Root)
	if errNode != nil {
		span = tree.Span(errNode)
	}
	cc.Diagnostics().Add(diag.Diagnostic{
		Severity: diag.SevError,
		Rule:     "syntax-error",
		Message:  "Invalid syntax.",
		Primary:  span,
	})
}

// CheckProject checks every file in the set concurrently and returns
// the merged diagnostics in file order. jobs <= 0 uses GOMAXPROCS.
func CheckProject(ctx context.Context, fileSet *source.FileSet, ids []source.FileID, registry *rule.Registry, selection *rule.Selection, jobs int) (*diag.Bag, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// One result slot per file: no lock, stable merge order.
	results := make([]*diag.Bag, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, id := range ids {
		g.Go(func() error {
			bag, err := CheckFile(gctx, fileSet, id, registry, selection)
			if err != nil {
				return err
			}
			results[i] = bag
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := diag.NewBag()
	for _, bag := range results {
		merged.Merge(bag)
	}
	merged.SortByPosition()
	return merged, nil
}
