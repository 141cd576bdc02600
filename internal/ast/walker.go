// Package ast reads Go source and extracts the struct declarations that get builders.
package ast

import (
	"fmt"
	goast "go/ast"
	"go/token"
	gotypes "go/types"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/origadmin/buildergen/internal/analyzer"
	"github.com/origadmin/buildergen/internal/diag"
	"github.com/origadmin/buildergen/internal/model"
)

// MarkerDirective selects a type for generation when no explicit type list is given.
const MarkerDirective = "//derive:builder"

// GeneratedSuffix marks files written by the generator; they are never read back.
const GeneratedSuffix = ".gen.go"

var directiveRe = regexp.MustCompile(`^//([A-Za-z_][A-Za-z0-9_]*):(.*)$`)

// PackageWalker loads a package and collects its builder records.
type PackageWalker struct {
	mode      packages.LoadMode
	buildTags []string
}

// NewPackageWalker creates a PackageWalker. Build tags are passed to the package loader.
func NewPackageWalker(buildTags ...string) *PackageWalker {
	return &PackageWalker{
		mode:      packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		buildTags: buildTags,
	}
}

// Load parses the package in dir. Only syntax is loaded; field types are not type-checked.
func (w *PackageWalker) Load(dir string) (*packages.Package, error) {
	cfg := &packages.Config{
		Mode: w.mode,
		Dir:  dir,
	}
	if len(w.buildTags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(w.buildTags, ",")}
	}
	slog.Debug("Loading package", "dir", dir, "tags", w.buildTags)
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to load package in %s: %w", dir, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no package found in %s", dir)
	}
	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		for _, e := range pkg.Errors {
			slog.Warn("Package error", "package", pkg.PkgPath, "error", e)
		}
		return nil, fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors[0])
	}
	return pkg, nil
}

// Records returns the records of pkg selected by names, or the marked types when names is empty.
func (w *PackageWalker) Records(pkg *packages.Package, names []string) ([]*model.RecordDeclaration, error) {
	var files []*goast.File
	for _, file := range pkg.Syntax {
		filename := pkg.Fset.File(file.Pos()).Name()
		if strings.HasSuffix(filepath.Base(filename), GeneratedSuffix) {
			slog.Debug("Skipping generated file", "file", filename)
			continue
		}
		files = append(files, file)
	}
	return Collect(pkg.Fset, files, names)
}

type typeDecl struct {
	file *goast.File
	gen  *goast.GenDecl
	spec *goast.TypeSpec
}

// Collect extracts records from already parsed files.
// Requested names keep their order; marked types keep source order.
func Collect(fset *token.FileSet, files []*goast.File, names []string) ([]*model.RecordDeclaration, error) {
	var decls []typeDecl
	for _, file := range files {
		for _, decl := range file.Decls {
			gen, ok := decl.(*goast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				decls = append(decls, typeDecl{file: file, gen: gen, spec: spec.(*goast.TypeSpec)})
			}
		}
	}

	var selected []typeDecl
	if len(names) == 0 {
		for _, d := range decls {
			if marked(d.spec.Doc) || (len(d.gen.Specs) == 1 && marked(d.gen.Doc)) {
				selected = append(selected, d)
			}
		}
	} else {
		index := make(map[string]typeDecl, len(decls))
		for _, d := range decls {
			index[d.spec.Name.Name] = d
		}
		for _, name := range names {
			d, ok := index[name]
			if !ok {
				return nil, diag.NotFound(name)
			}
			selected = append(selected, d)
		}
	}

	records := make([]*model.RecordDeclaration, 0, len(selected))
	for _, d := range selected {
		rec, err := RecordFromSpec(fset, d.file, d.spec)
		if err != nil {
			return nil, err
		}
		slog.Debug("Collected record", "record", rec.Name, "fields", len(rec.Fields))
		records = append(records, rec)
	}
	if err := checkOptionalDecl(fset, decls, records); err != nil {
		return nil, err
	}
	return records, nil
}

// checkOptionalDecl rejects a package-level Optional declared as a new type
// when a record has Optional fields: Build assigns the runtime Optional to them,
// which only compiles through an alias.
func checkOptionalDecl(fset *token.FileSet, decls []typeDecl, records []*model.RecordDeclaration) error {
	for _, d := range decls {
		if d.spec.Name.Name != analyzer.OptionalTypeName || d.spec.Assign.IsValid() {
			continue
		}
		for _, rec := range records {
			for _, f := range rec.Fields {
				if _, ok := analyzer.UnwrapOptional(f.Type); !ok {
					continue
				}
				return &diag.Error{
					Kind:   diag.KindUnsupported,
					Record: rec.Name,
					Field:  f.Name,
					Pos:    fset.Position(d.spec.Pos()),
					Msg:    "Optional is declared as a new type; declare it as an alias: type Optional[T any] = optional.Optional[T]",
				}
			}
		}
	}
	return nil
}

func marked(doc *goast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if strings.TrimSpace(c.Text) == MarkerDirective {
			return true
		}
	}
	return false
}

// RecordFromSpec converts a type declaration into a record.
// Aliases, non-struct types and structs with embedded fields are rejected
// before any field is looked at.
func RecordFromSpec(fset *token.FileSet, file *goast.File, spec *goast.TypeSpec) (*model.RecordDeclaration, error) {
	name := spec.Name.Name
	pos := fset.Position(spec.Pos())
	if spec.Assign.IsValid() {
		return nil, diag.Unsupported(name, pos, "type aliases cannot have builders")
	}
	st, ok := spec.Type.(*goast.StructType)
	if !ok {
		return nil, diag.Unsupported(name, pos, fmt.Sprintf("only struct types can have builders, have %s", describe(spec.Type)))
	}
	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			return nil, diag.Unsupported(name, fset.Position(f.Pos()),
				fmt.Sprintf("embedded field %s is not supported", gotypes.ExprString(f.Type)))
		}
	}

	rec := &model.RecordDeclaration{
		Name:    name,
		Package: file.Name.Name,
		Imports: fileImports(file),
		Pos:     pos,
	}
	if spec.TypeParams != nil {
		for _, tp := range spec.TypeParams.List {
			param := model.TypeParam{Constraint: tp.Type}
			for _, n := range tp.Names {
				param.Names = append(param.Names, n.Name)
			}
			rec.TypeParams = append(rec.TypeParams, param)
		}
	}
	for _, f := range st.Fields.List {
		annotations := fieldAnnotations(fset, f)
		for _, n := range f.Names {
			if n.Name == "_" {
				slog.Debug("Skipping blank field", "record", name, "pos", fset.Position(n.Pos()))
				continue
			}
			rec.Fields = append(rec.Fields, model.FieldDeclaration{
				Name:        n.Name,
				Type:        f.Type,
				Annotations: annotations,
				Pos:         fset.Position(n.Pos()),
			})
		}
	}
	return rec, nil
}

func describe(expr goast.Expr) string {
	switch t := expr.(type) {
	case *goast.InterfaceType:
		return "interface"
	case *goast.FuncType:
		return "func"
	case *goast.MapType:
		return "map"
	case *goast.ChanType:
		return "chan"
	case *goast.ArrayType:
		if t.Len == nil {
			return "slice"
		}
		return "array"
	default:
		return gotypes.ExprString(expr)
	}
}

// fieldAnnotations returns the //key:args directives of the field's doc and line comments.
func fieldAnnotations(fset *token.FileSet, f *goast.Field) []model.Annotation {
	var out []model.Annotation
	for _, group := range []*goast.CommentGroup{f.Doc, f.Comment} {
		if group == nil {
			continue
		}
		for _, c := range group.List {
			m := directiveRe.FindStringSubmatch(c.Text)
			if m == nil {
				continue
			}
			pos := fset.Position(c.Slash)
			skip := len("//") + len(m[1]) + 1
			pos.Offset += skip
			pos.Column += skip
			out = append(out, model.Annotation{Key: m[1], Args: m[2], Pos: pos})
		}
	}
	return out
}

func fileImports(file *goast.File) []model.Import {
	imports := make([]model.Import, 0, len(file.Imports))
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := model.Import{Path: p}
		if spec.Name != nil {
			imp.Name = spec.Name.Name
		}
		imports = append(imports, imp)
	}
	return imports
}
