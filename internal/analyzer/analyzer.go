// Package analyzer turns record declarations into builder specifications.
package analyzer

import (
	"fmt"
	gotypes "go/types"
	"log/slog"

	"github.com/origadmin/buildergen/internal/diag"
	"github.com/origadmin/buildergen/internal/directive"
	"github.com/origadmin/buildergen/internal/model"
)

const (
	// BuildMethod is the name of the finalizing method.
	BuildMethod = "Build"
	// StorageMember is the name of the builder's only struct field.
	StorageMember = "staged"
)

// Options tunes the analysis.
type Options struct {
	Duplicates directive.DuplicatePolicy
}

// Analyzer builds a model.BuilderSpec per record. It keeps no state between calls.
type Analyzer struct {
	opts Options
}

// New creates an Analyzer.
func New(opts Options) *Analyzer {
	if opts.Duplicates == "" {
		opts.Duplicates = directive.DuplicateError
	}
	return &Analyzer{opts: opts}
}

// Analyze classifies every field of decl and checks that the generated names
// are unique. The first failing field aborts the whole record.
func (a *Analyzer) Analyze(decl *model.RecordDeclaration) (*model.BuilderSpec, error) {
	slog.Debug("Analyzing record", "record", decl.Name, "fields", len(decl.Fields))
	if err := checkImports(decl); err != nil {
		return nil, err
	}

	spec := &model.BuilderSpec{
		Record:      decl,
		BuilderName: BuilderName(decl.Name),
		Constructor: ConstructorName(decl.Name),
		Fields:      make([]model.FieldDescriptor, 0, len(decl.Fields)),
	}
	for _, field := range decl.Fields {
		fd, err := a.describe(field)
		if err != nil {
			return nil, diag.WithRecord(err, decl.Name)
		}
		slog.Debug("Field classified", "record", decl.Name, "field", fd.Name, "kind", fd.Kind, "alias", fd.Alias)
		spec.Fields = append(spec.Fields, fd)
	}
	if err := checkNames(spec); err != nil {
		return nil, err
	}
	return spec, nil
}

func (a *Analyzer) describe(field model.FieldDeclaration) (model.FieldDescriptor, error) {
	alias, err := directive.Parse(field.Name, field.Annotations, directive.Options{Duplicates: a.opts.Duplicates})
	if err != nil {
		return model.FieldDescriptor{}, err
	}
	effective, optional := UnwrapOptional(field.Type)
	fd := model.FieldDescriptor{
		Name:      field.Name,
		Declared:  field.Type,
		Effective: effective,
		Kind:      model.Classify(optional, alias != ""),
		Alias:     alias,
		Pos:       field.Pos,
	}
	if alias != "" {
		elem, ok := SliceElem(effective)
		if !ok {
			return model.FieldDescriptor{}, diag.Attribute(field.Name, directive.EachKey, field.Pos,
				fmt.Sprintf("accumulator requires a slice type, have %s", gotypes.ExprString(effective)))
		}
		fd.Elem = elem
	}
	return fd, nil
}

// checkImports rejects records whose file dot-imports a package. Unqualified
// names from such a package cannot be told apart from local ones, so the
// generated file could not import them.
func checkImports(decl *model.RecordDeclaration) error {
	for _, imp := range decl.Imports {
		if imp.Name == "." {
			return diag.Unsupported(decl.Name, decl.Pos,
				fmt.Sprintf("dot import of %q is not supported; import it with a name", imp.Path))
		}
	}
	return nil
}

// checkNames rejects two generated members sharing one identifier.
func checkNames(spec *model.BuilderSpec) error {
	owners := map[string]string{
		BuildMethod:   "the Build method",
		StorageMember: "the builder storage",
	}
	claim := func(name, owner string, fd model.FieldDescriptor) error {
		if prev, ok := owners[name]; ok {
			return diag.Conflict(spec.Record.Name, fd.Name, fd.Pos,
				fmt.Sprintf("%s %q collides with %s", owner, name, prev))
		}
		owners[name] = fmt.Sprintf("%s %q", owner, name)
		return nil
	}
	for _, fd := range spec.Fields {
		if err := claim(fd.Name, "setter", fd); err != nil {
			return err
		}
		if fd.Alias == "" {
			continue
		}
		if err := claim(fd.Alias, "accumulator", fd); err != nil {
			return err
		}
	}
	return nil
}
