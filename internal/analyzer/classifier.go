package analyzer

import (
	goast "go/ast"
)

// OptionalTypeName is the identifier recognized as the optional wrapper.
const OptionalTypeName = "Optional"

// UnwrapOptional reports whether expr is written as Optional[T] and returns T.
// Recognition is syntactic: the wrapper must be a single unqualified identifier
// with exactly one type argument. Qualified names (opt.Optional[T]), aliases of
// the wrapper and multi-argument instantiations are not optional.
// When expr is not optional it is returned unchanged.
func UnwrapOptional(expr goast.Expr) (goast.Expr, bool) {
	idx, ok := goast.Unparen(expr).(*goast.IndexExpr)
	if !ok {
		return expr, false
	}
	id, ok := goast.Unparen(idx.X).(*goast.Ident)
	if !ok || id.Name != OptionalTypeName {
		return expr, false
	}
	return idx.Index, true
}

// SliceElem returns the element type of a slice type expression.
func SliceElem(expr goast.Expr) (goast.Expr, bool) {
	at, ok := goast.Unparen(expr).(*goast.ArrayType)
	if !ok || at.Len != nil {
		return nil, false
	}
	return at.Elt, true
}
