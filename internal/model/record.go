// Package model holds the data passed between the buildergen pipeline stages.
package model

import (
	goast "go/ast"
	"go/token"
)

// Annotation is a comment directive of the form //<Key>:<Args> attached to a field.
type Annotation struct {
	Key  string
	Args string
	// Pos is the position of the first byte of Args.
	Pos token.Position
}

// FieldDeclaration is one named field of a record, in declaration order.
type FieldDeclaration struct {
	Name string
	// Type is kept as written; it is rendered but never evaluated.
	Type        goast.Expr
	Annotations []Annotation
	Pos         token.Position
}

// TypeParam is one entry of a generic record's type parameter list.
type TypeParam struct {
	Names      []string
	Constraint goast.Expr
}

// Import is an import spec of the file declaring a record.
type Import struct {
	// Name is the explicit import name, empty when none was written.
	Name string
	Path string
}

// RecordDeclaration is a struct type selected for builder generation.
type RecordDeclaration struct {
	Name       string
	Package    string
	TypeParams []TypeParam
	Fields     []FieldDeclaration
	Imports    []Import
	Pos        token.Position
}

// TypeParamNames returns the flattened type parameter names in order.
func (r *RecordDeclaration) TypeParamNames() []string {
	var names []string
	for _, tp := range r.TypeParams {
		names = append(names, tp.Names...)
	}
	return names
}
