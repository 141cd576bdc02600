package components

import (
	"fmt"
	"go/token"
	"path"
	"regexp"
	"sort"
	"strings"
)

var versionElem = regexp.MustCompile(`^v[0-9]+$`)

// ImportSpec is one line of the generated import block.
type ImportSpec struct {
	Name string
	Path string
	// Named reports whether Name must be written explicitly.
	Named bool
}

// Std reports whether the import belongs to the standard library.
func (s ImportSpec) Std() bool {
	first, _, _ := strings.Cut(s.Path, "/")
	return !strings.Contains(first, ".")
}

// ImportManager assigns local names to the packages a generated file imports.
type ImportManager struct {
	byName   map[string]string // local name -> import path
	reserved map[string]bool
	counter  int
}

// NewImportManager creates an empty import manager.
func NewImportManager() *ImportManager {
	return &ImportManager{
		byName:   make(map[string]string),
		reserved: make(map[string]bool),
		counter:  1,
	}
}

// Reserve marks identifiers that Add must not hand out as package names.
func (im *ImportManager) Reserve(names ...string) {
	for _, n := range names {
		im.reserved[n] = true
	}
}

// Add imports importPath under a free name and returns that name.
// A path that is already imported keeps its existing name.
func (im *ImportManager) Add(importPath string) string {
	if name, ok := im.GetAlias(importPath); ok {
		return name
	}

	name := PackageName(importPath)
	if name == "" {
		name = fmt.Sprintf("pkg%d", im.counter)
		im.counter++
	}
	base := name
	for i := 1; im.taken(name); i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	im.byName[name] = importPath
	return name
}

// AddAs imports importPath under name. It fails when name already refers to another path.
func (im *ImportManager) AddAs(importPath, name string) error {
	if prev, ok := im.byName[name]; ok && prev != importPath {
		return fmt.Errorf("import name %s refers to both %q and %q", name, prev, importPath)
	}
	im.byName[name] = importPath
	return nil
}

// GetAlias returns the local name of importPath.
func (im *ImportManager) GetAlias(importPath string) (string, bool) {
	var found []string
	for name, p := range im.byName {
		if p == importPath {
			found = append(found, name)
		}
	}
	if len(found) == 0 {
		return "", false
	}
	sort.Strings(found)
	return found[0], true
}

// Imports returns the import block entries sorted by path, then name.
func (im *ImportManager) Imports() []ImportSpec {
	specs := make([]ImportSpec, 0, len(im.byName))
	for name, p := range im.byName {
		specs = append(specs, ImportSpec{
			Name:  name,
			Path:  p,
			Named: name != path.Base(p),
		})
	}
	sort.Slice(specs, func(i, j int) bool {
		if specs[i].Path != specs[j].Path {
			return specs[i].Path < specs[j].Path
		}
		return specs[i].Name < specs[j].Name
	})
	return specs
}

func (im *ImportManager) taken(name string) bool {
	_, used := im.byName[name]
	return used || im.reserved[name]
}

// PackageName guesses the package name of importPath from its last element,
// skipping major version suffixes such as /v2. It returns "" when no valid
// identifier can be derived.
func PackageName(importPath string) string {
	elems := strings.Split(importPath, "/")
	last := elems[len(elems)-1]
	if versionElem.MatchString(last) && len(elems) > 1 {
		last = elems[len(elems)-2]
	}
	last = strings.TrimPrefix(last, "go-")
	if i := strings.IndexAny(last, ".-"); i > 0 {
		last = last[:i]
	}
	if !token.IsIdentifier(last) {
		return ""
	}
	return last
}
