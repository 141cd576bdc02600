package components

import (
	"bytes"
	"fmt"
	goast "go/ast"
	"go/printer"
	"go/token"
	gotypes "go/types"
	"sort"
)

// TypeFormatter renders type expressions as Go source, exactly as written.
// Field types are copied into the generated file of the same package, so no
// qualification is rewritten.
type TypeFormatter struct {
	fset *token.FileSet
	cfg  printer.Config
}

// NewTypeFormatter creates a TypeFormatter.
func NewTypeFormatter() *TypeFormatter {
	return &TypeFormatter{
		fset: token.NewFileSet(),
		cfg:  printer.Config{Mode: printer.UseSpaces, Tabwidth: 8},
	}
}

// Format prints expr. Struct tags and nested literals are kept.
func (f *TypeFormatter) Format(expr goast.Expr) (string, error) {
	var buf bytes.Buffer
	if err := f.cfg.Fprint(&buf, f.fset, expr); err != nil {
		return "", fmt.Errorf("failed to print type %s: %w", gotypes.ExprString(expr), err)
	}
	return buf.String(), nil
}

// Idents returns every identifier occurring in exprs, sorted and deduplicated.
func Idents(exprs ...goast.Expr) []string {
	set := make(map[string]bool)
	for _, e := range exprs {
		if e == nil {
			continue
		}
		goast.Inspect(e, func(n goast.Node) bool {
			if id, ok := n.(*goast.Ident); ok {
				set[id.Name] = true
			}
			return true
		})
	}
	return sortedKeys(set)
}

// PackageRefs returns the package names used as qualifiers in exprs, such as
// "time" in time.Duration, sorted and deduplicated.
func PackageRefs(exprs ...goast.Expr) []string {
	set := make(map[string]bool)
	for _, e := range exprs {
		if e == nil {
			continue
		}
		goast.Inspect(e, func(n goast.Node) bool {
			sel, ok := n.(*goast.SelectorExpr)
			if !ok {
				return true
			}
			if id, ok := sel.X.(*goast.Ident); ok {
				set[id.Name] = true
			}
			return false
		})
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
