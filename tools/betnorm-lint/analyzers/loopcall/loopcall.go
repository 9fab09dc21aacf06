// Package loopcall detects registry rebuilds and collection writes inside
// loops. Each of them walks or rewrites a whole collection, so calling one
// per item turns a batch into O(n²) work.
package loopcall

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports whole-collection calls made once per loop iteration.
var Analyzer = &analysis.Analyzer{
	Name:     "loopcall",
	Doc:      "detects registry rebuilds and whole-collection saves inside loops",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// batchMethods maps method names to the advice given when one is found
// inside a loop.
var batchMethods = map[string]string{
	// Resolver / NormalizationRegistry
	"Rebuild":       "rebuild once after the loop",
	"BuildRegistry": "rebuild once after the loop",
	// Catalog / QueueSaver
	"Save":      "save once after the loop",
	"SaveQueue": "save once after the loop",
	// ports.AuditLog
	"LogAction": "log one summary entry",
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.RangeStmt)(nil),
		(*ast.ForStmt)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		var body *ast.BlockStmt
		switch stmt := n.(type) {
		case *ast.RangeStmt:
			body = stmt.Body
		case *ast.ForStmt:
			body = stmt.Body
		}
		if body == nil {
			return
		}

		ast.Inspect(body, func(n ast.Node) bool {
			// Closures run later, not per iteration.
			if _, ok := n.(*ast.FuncLit); ok {
				return false
			}

			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}

			name := calleeName(call)
			if advice, ok := batchMethods[name]; ok {
				pass.Reportf(call.Pos(), "%s called inside loop - %s", name, advice)
			}

			return true
		})
	})

	return nil, nil
}

// calleeName returns the called method or function name.
func calleeName(call *ast.CallExpr) string {
	switch fn := call.Fun.(type) {
	case *ast.SelectorExpr:
		return fn.Sel.Name
	case *ast.Ident:
		return fn.Name
	default:
		return ""
	}
}
