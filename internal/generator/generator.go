// Package generator emits builder source code for analyzed records.
package generator

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/origadmin/buildergen/internal/analyzer"
	"github.com/origadmin/buildergen/internal/directive"
	"github.com/origadmin/buildergen/internal/generator/components"
	"github.com/origadmin/buildergen/internal/model"
	"github.com/origadmin/buildergen/internal/template"
)

const (
	// DefaultOptionalPackage is the runtime package providing Optional.
	DefaultOptionalPackage = "github.com/origadmin/buildergen/optional"
	// DefaultGeneratorName appears in the generated file header.
	DefaultGeneratorName = "buildergen"
)

// ErrNoRecords is returned when a file is requested without any record.
var ErrNoRecords = errors.New("no records to generate")

// Options configures a Generator.
type Options struct {
	// OptionalPackage is the import path of the Optional runtime.
	OptionalPackage string
	Duplicates      directive.DuplicatePolicy
	// Workers bounds concurrent per-record work; zero means GOMAXPROCS.
	Workers int
	// GeneratorName is written into the file header.
	GeneratorName string
}

// Generator turns record declarations into formatted Go source.
// It holds no per-run state and may be used concurrently.
type Generator struct {
	opts     Options
	analyzer *analyzer.Analyzer
	tmpl     template.Renderer
}

// New creates a Generator, filling unset options with defaults.
func New(opts Options) *Generator {
	if opts.OptionalPackage == "" {
		opts.OptionalPackage = DefaultOptionalPackage
	}
	if opts.GeneratorName == "" {
		opts.GeneratorName = DefaultGeneratorName
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Generator{
		opts:     opts,
		analyzer: analyzer.New(analyzer.Options{Duplicates: opts.Duplicates}),
		tmpl:     template.NewManager(),
	}
}

// Generate emits a complete source file holding the builder of decl.
func (g *Generator) Generate(decl *model.RecordDeclaration) ([]byte, error) {
	return g.GenerateFile(decl.Package, []*model.RecordDeclaration{decl})
}

// Analyze builds the specs of decls in parallel. The returned slice follows
// the order of decls; on failure the error of the earliest record is returned.
func (g *Generator) Analyze(decls []*model.RecordDeclaration) ([]*model.BuilderSpec, error) {
	specs := make([]*model.BuilderSpec, len(decls))
	err := g.each(len(decls), func(i int) error {
		spec, err := g.analyzer.Analyze(decls[i])
		specs[i] = spec
		return err
	})
	if err != nil {
		return nil, err
	}
	return specs, nil
}

// GenerateFile emits one source file for package pkgName holding the builders
// of all decls, in order. Either every builder is produced or an error is returned.
func (g *Generator) GenerateFile(pkgName string, decls []*model.RecordDeclaration) ([]byte, error) {
	if len(decls) == 0 {
		return nil, ErrNoRecords
	}
	specs, err := g.Analyze(decls)
	if err != nil {
		return nil, err
	}

	plan, err := planImports(specs, g.opts.OptionalPackage)
	if err != nil {
		return nil, err
	}

	units := make([][]byte, len(specs))
	err = g.each(len(specs), func(i int) error {
		view, err := newRecordView(specs[i], plan)
		if err != nil {
			return err
		}
		unit, err := g.renderRecord(view)
		units[i] = unit
		return err
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	header, err := g.tmpl.Render("header", newFileView(g.opts.GeneratorName, pkgName, plan.imports))
	if err != nil {
		return nil, err
	}
	buf.Write(header)
	for _, unit := range units {
		buf.Write(unit)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		slog.Debug("Unformatted output", "source", buf.String())
		return nil, fmt.Errorf("failed to format generated code: %w", err)
	}
	slog.Debug("Generated file", "package", pkgName, "records", len(decls), "bytes", len(src))
	return src, nil
}

// renderRecord concatenates the fragments of one record in emission order.
func (g *Generator) renderRecord(view *recordView) ([]byte, error) {
	var buf bytes.Buffer
	for _, synth := range []func(*recordView) ([]byte, error){
		g.synthesizeShape,
		g.synthesizeSetters,
		g.synthesizeBuild,
	} {
		frag, err := synth(view)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", view.Record, err)
		}
		buf.Write(frag)
	}
	return buf.Bytes(), nil
}

// each runs fn for 0..n-1 on at most Workers goroutines and returns the
// error with the lowest index, so results do not depend on scheduling.
func (g *Generator) each(n int, fn func(i int) error) error {
	errs := make([]error, n)
	var eg errgroup.Group
	eg.SetLimit(g.opts.Workers)
	for i := 0; i < n; i++ {
		eg.Go(func() error {
			errs[i] = fn(i)
			return nil
		})
	}
	_ = eg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// importPlan is the import block shared by all records of one file.
type importPlan struct {
	imports  *components.ImportManager
	optional string
	errors   string
}

func planImports(specs []*model.BuilderSpec, optionalPkg string) (*importPlan, error) {
	im := components.NewImportManager()
	needOptional, needErrors := false, false
	for _, spec := range specs {
		rec := spec.Record
		exprs := typeExprs(spec)
		for _, ref := range components.PackageRefs(exprs...) {
			imp, ok := resolveImport(rec.Imports, ref)
			if !ok {
				return nil, fmt.Errorf("record %s: cannot resolve package %s; import it with an explicit name", rec.Name, ref)
			}
			if err := im.AddAs(imp.Path, ref); err != nil {
				return nil, fmt.Errorf("record %s: %w", rec.Name, err)
			}
		}
		im.Reserve(components.Idents(exprs...)...)
		im.Reserve(rec.Name, spec.BuilderName, spec.Constructor)
		im.Reserve(rec.TypeParamNames()...)
		needOptional = needOptional || len(spec.Fields) > 0
		needErrors = needErrors || spec.HasRequired()
	}

	plan := &importPlan{imports: im}
	if needErrors {
		plan.errors = im.Add("errors")
	}
	if needOptional {
		plan.optional = im.Add(optionalPkg)
	}
	return plan, nil
}

// resolveImport finds the source import a qualifier refers to.
func resolveImport(imports []model.Import, ref string) (model.Import, bool) {
	for _, imp := range imports {
		if imp.Name == ref {
			return imp, true
		}
	}
	for _, imp := range imports {
		if imp.Name == "" && components.PackageName(imp.Path) == ref {
			return imp, true
		}
	}
	return model.Import{}, false
}
