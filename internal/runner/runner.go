// Package runner drives one buildergen invocation: load, generate, write.
package runner

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/origadmin/buildergen/internal/ast"
	"github.com/origadmin/buildergen/internal/config"
	"github.com/origadmin/buildergen/internal/generator"
	"github.com/origadmin/buildergen/internal/model"
)

// ErrNothingSelected is returned when the package has no record to generate.
var ErrNothingSelected = errors.New("no types selected: pass --type or mark a struct with " + ast.MarkerDirective)

// Result is the outcome of a generation run.
type Result struct {
	Path    string
	Source  []byte
	Records []string
}

// Runner executes generation runs for one configuration.
type Runner struct {
	cfg    *config.Config
	walker *ast.PackageWalker
	gen    *generator.Generator
}

// New creates a Runner.
func New(cfg *config.Config) *Runner {
	return &Runner{
		cfg:    cfg,
		walker: ast.NewPackageWalker(cfg.Tags...),
		gen: generator.New(generator.Options{
			OptionalPackage: cfg.OptionalPackage,
			Duplicates:      cfg.Duplicates(),
			Workers:         cfg.Workers,
		}),
	}
}

func (r *Runner) records(dir string) (string, []*model.RecordDeclaration, error) {
	pkg, err := r.walker.Load(dir)
	if err != nil {
		return "", nil, err
	}
	records, err := r.walker.Records(pkg, r.cfg.Types)
	if err != nil {
		return "", nil, err
	}
	if len(records) == 0 {
		return "", nil, ErrNothingSelected
	}
	return pkg.Name, records, nil
}

// Generate produces the builder file for the package in dir without writing it.
func (r *Runner) Generate(dir string) (*Result, error) {
	pkgName, records, err := r.records(dir)
	if err != nil {
		return nil, err
	}
	src, err := r.gen.GenerateFile(pkgName, records)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Path:   r.cfg.OutputPath(dir, records[0].Name),
		Source: src,
	}
	for _, rec := range records {
		res.Records = append(res.Records, rec.Name)
	}
	slog.Info("Generated builders", "package", pkgName, "records", res.Records, "file", res.Path)
	return res, nil
}

// Inspect returns the analyzed builder shapes of the package in dir.
func (r *Runner) Inspect(dir string) ([]model.Summary, error) {
	_, records, err := r.records(dir)
	if err != nil {
		return nil, err
	}
	specs, err := r.gen.Analyze(records)
	if err != nil {
		return nil, err
	}
	out := make([]model.Summary, 0, len(specs))
	for _, spec := range specs {
		out = append(out, spec.Summarize())
	}
	return out, nil
}

// Write stores res.Source at res.Path. The file is replaced atomically so a
// failed write never leaves a truncated builder behind.
func Write(res *Result) error {
	dir := filepath.Dir(res.Path)
	tmp, err := os.CreateTemp(dir, ".buildergen-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(res.Source); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", res.Path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", res.Path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", res.Path, err)
	}
	if err := os.Rename(tmp.Name(), res.Path); err != nil {
		return fmt.Errorf("failed to write %s: %w", res.Path, err)
	}
	slog.Debug("Wrote file", "file", res.Path, "bytes", len(res.Source))
	return nil
}
