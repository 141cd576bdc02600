package generator

import (
	goast "go/ast"
	"strings"

	"github.com/origadmin/buildergen/internal/analyzer"
	"github.com/origadmin/buildergen/internal/generator/components"
	"github.com/origadmin/buildergen/internal/model"
)

// fileView is the data of the "header" template.
type fileView struct {
	Generator    string
	Package      string
	StdImports   []components.ImportSpec
	OtherImports []components.ImportSpec
}

func newFileView(generatorName, pkgName string, im *components.ImportManager) fileView {
	v := fileView{Generator: generatorName, Package: pkgName}
	for _, spec := range im.Imports() {
		if spec.Std() {
			v.StdImports = append(v.StdImports, spec)
		} else {
			v.OtherImports = append(v.OtherImports, spec)
		}
	}
	return v
}

// recordView is the data of the per-record templates.
type recordView struct {
	Record      string
	Builder     string
	Constructor string
	// TypeParamsDecl is the bracketed parameter list with constraints, or empty.
	TypeParamsDecl string
	// TypeArgs instantiates the record and builder with their own parameters, or is empty.
	TypeArgs string
	Receiver string
	Param    string
	Scratch  string
	Optional string
	Errors   string
	// HasRequired reports whether Build can fail.
	HasRequired bool
	Fields      []fieldView
}

type fieldView struct {
	Name     string
	Type     string
	Alias    string
	Elem     string
	Optional bool
}

func typeExprs(spec *model.BuilderSpec) []goast.Expr {
	var exprs []goast.Expr
	for _, tp := range spec.Record.TypeParams {
		exprs = append(exprs, tp.Constraint)
	}
	for _, f := range spec.Fields {
		exprs = append(exprs, f.Declared)
	}
	return exprs
}

func newRecordView(spec *model.BuilderSpec, plan *importPlan) (*recordView, error) {
	rec := spec.Record
	tf := components.NewTypeFormatter()

	view := &recordView{
		Record:      rec.Name,
		Builder:     spec.BuilderName,
		Constructor: spec.Constructor,
		Optional:    plan.optional,
		Errors:      plan.errors,
		HasRequired: spec.HasRequired(),
		Fields:      make([]fieldView, 0, len(spec.Fields)),
	}

	if len(rec.TypeParams) > 0 {
		params := make([]string, 0, len(rec.TypeParams))
		for _, tp := range rec.TypeParams {
			constraint, err := tf.Format(tp.Constraint)
			if err != nil {
				return nil, err
			}
			params = append(params, strings.Join(tp.Names, ", ")+" "+constraint)
		}
		view.TypeParamsDecl = "[" + strings.Join(params, ", ") + "]"
		view.TypeArgs = "[" + strings.Join(rec.TypeParamNames(), ", ") + "]"
	}

	names := components.NewNameGenerator(components.Idents(typeExprs(spec)...)...)
	names.Use(rec.Name, spec.BuilderName, spec.Constructor, analyzer.StorageMember)
	names.Use(rec.TypeParamNames()...)
	names.Use(plan.optional, plan.errors)
	view.Receiver = names.Pick("b", "bld", "builder")
	view.Param = names.Pick("v", "val", "value")
	view.Scratch = names.Pick("s", "cur", "prev")

	for _, f := range spec.Fields {
		typ, err := tf.Format(f.Effective)
		if err != nil {
			return nil, err
		}
		fv := fieldView{
			Name:     f.Name,
			Type:     typ,
			Alias:    f.Alias,
			Optional: f.Kind.Optional(),
		}
		if f.Kind.Accumulating() {
			if fv.Elem, err = tf.Format(f.Elem); err != nil {
				return nil, err
			}
		}
		view.Fields = append(view.Fields, fv)
	}
	return view, nil
}
