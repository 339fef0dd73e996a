// Package fileperm provides a linter to check for hardcoded file permissions
package fileperm

import (
	"go/ast"
	"go/token"
	"strconv"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// Analyzer is a custom analysis pass that checks for hardcoded file permissions
var Analyzer = &analysis.Analyzer{
	Name: "fileperm",
	Doc:  "checks for hardcoded file permission literals instead of using fileutil constants",
	Run:  run,
}

// permConstants maps the permission values helmad uses to the constant that
// names each of them.
var permConstants = map[int64]string{
	0o600: "fileutil.ReadWriteUserPermission",
	0o644: "fileutil.ReadWriteUserReadOthers",
	0o755: "fileutil.ReadWriteExecuteUserReadExecuteOthers",
}

// permArgIndex is the position of the permission argument for each checked
// function, matched by name suffix so os and afero calls are both covered.
var permArgIndex = map[string]int{
	"WriteFile": 2,
	"OpenFile":  2,
	"MkdirAll":  1,
	"Mkdir":     1,
	"Chmod":     1,
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			fun, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			idx, ok := permArgIndexFor(fun.Sel.Name)
			if !ok || len(call.Args) <= idx {
				return true
			}
			checkLiteral(pass, fun.Sel.Name, call.Args[idx])
			return true
		})
	}
	// Return a dummy non-nil value to satisfy the linter
	return (*struct{})(nil), nil
}

// permArgIndexFor finds the permission argument position for a function
// whose name ends with one of the permArgIndex keys.
func permArgIndexFor(name string) (int, bool) {
	if idx, ok := permArgIndex[name]; ok {
		return idx, true
	}
	for suffix, idx := range permArgIndex {
		if strings.HasSuffix(name, suffix) {
			return idx, true
		}
	}
	return 0, false
}

func checkLiteral(pass *analysis.Pass, funcName string, arg ast.Expr) {
	lit, ok := arg.(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return
	}
	// Base 0 reads both 0o644 and legacy 0644 as octal.
	value, err := strconv.ParseInt(lit.Value, 0, 64)
	if err != nil {
		return
	}
	if name, known := permConstants[value]; known {
		pass.Reportf(lit.Pos(), "use %s instead of hardcoded %s in %s", name, lit.Value, funcName)
		return
	}
	pass.Reportf(lit.Pos(), "hardcoded file permission %s in %s; add a constant to pkg/fileutil", lit.Value, funcName)
}
