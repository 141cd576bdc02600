package generator

import (
	goast "go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/origadmin/buildergen/internal/ast"
	"github.com/origadmin/buildergen/internal/diag"
	"github.com/origadmin/buildergen/internal/directive"
	"github.com/origadmin/buildergen/internal/model"
)

func collect(t *testing.T, src string, names ...string) []*model.RecordDeclaration {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "input.go", src, parser.ParseComments)
	require.NoError(t, err)
	records, err := ast.Collect(fset, []*goast.File{file}, names)
	require.NoError(t, err)
	return records
}

// mustParse checks that out is a valid Go file and returns it as a string.
func mustParse(t *testing.T, out []byte) string {
	t.Helper()
	_, err := parser.ParseFile(token.NewFileSet(), "out.go", out, parser.ParseComments)
	require.NoError(t, err, string(out))
	return string(out)
}

func TestGenerator_Command(t *testing.T) {
	records := collect(t, `package command

type Command struct {
	Executable string
	Args       Optional[[]string]
	Env        []string //builder:each="EnvVar"
}
`, "Command")

	out, err := New(Options{}).Generate(records[0])
	require.NoError(t, err)
	code := mustParse(t, out)

	assert.True(t, strings.HasPrefix(code, "// Code generated by buildergen. DO NOT EDIT.\n"))
	assert.Contains(t, code, "package command\n")
	assert.Contains(t, code, "\"errors\"\n")
	assert.Contains(t, code, "\"github.com/origadmin/buildergen/optional\"\n")

	// emission order: constructor, storage, setters in field order, Build
	order := []string{
		"func NewCommandBuilder() *CommandBuilder {",
		"type CommandBuilder struct {",
		"func (b *CommandBuilder) Executable(v string) *CommandBuilder {",
		"func (b *CommandBuilder) Args(v []string) *CommandBuilder {",
		"func (b *CommandBuilder) Env(v []string) *CommandBuilder {",
		"func (b *CommandBuilder) EnvVar(v string) *CommandBuilder {",
		"func (b *CommandBuilder) Build() (Command, error) {",
	}
	last := -1
	for _, s := range order {
		idx := strings.Index(code, s)
		require.NotEqual(t, -1, idx, "missing %q in\n%s", s, code)
		assert.Greater(t, idx, last, "%q out of order", s)
		last = idx
	}

	assert.Contains(t, code, "b.staged.Args = optional.None[[]string]()")
	assert.Contains(t, code, "Args       optional.Optional[[]string]")
	assert.Contains(t, code, `return Command{}, errors.New("Executable not found")`)
	assert.Contains(t, code, `return Command{}, errors.New("Env not found")`)
	assert.NotContains(t, code, `"Args not found"`)
	assert.Contains(t, code, "Args:       b.staged.Args,")
	assert.Contains(t, code, "Env:        b.staged.Env.MustGet(),")
	assert.Less(t, strings.Index(code, `"Executable not found"`), strings.Index(code, `"Env not found"`))
}

func TestGenerator_EmptyRecord(t *testing.T) {
	records := collect(t, "package p\n\ntype Empty struct{}\n", "Empty")

	out, err := New(Options{}).Generate(records[0])
	require.NoError(t, err)
	code := mustParse(t, out)

	assert.NotContains(t, code, "import")
	assert.Contains(t, code, "return &EmptyBuilder{}")
	assert.Contains(t, code, "staged struct{}")
	assert.Contains(t, code, "return Empty{}, nil")
	assert.NotContains(t, code, "not found")
}

func TestGenerator_OnlyOptional(t *testing.T) {
	records := collect(t, "package p\n\ntype Opts struct {\n\tLimit Optional[int]\n}\n", "Opts")

	out, err := New(Options{}).Generate(records[0])
	require.NoError(t, err)
	code := mustParse(t, out)

	assert.NotContains(t, code, `"errors"`, "Build cannot fail without required fields")
	assert.Contains(t, code, "Limit: b.staged.Limit,")
}

func TestGenerator_Generic(t *testing.T) {
	records := collect(t, `package p

type Pair[K comparable, V any] struct {
	Key    K
	Values []V //builder:each="Value"
}
`, "Pair")

	out, err := New(Options{}).Generate(records[0])
	require.NoError(t, err)
	code := mustParse(t, out)

	assert.Contains(t, code, "func NewPairBuilder[K comparable, V any]() *PairBuilder[K, V] {")
	assert.Contains(t, code, "type PairBuilder[K comparable, V any] struct {")
	assert.Contains(t, code, "func (b *PairBuilder[K, V]) Value(v V) *PairBuilder[K, V] {")
	assert.Contains(t, code, "func (b *PairBuilder[K, V]) Build() (Pair[K, V], error) {")
	assert.Contains(t, code, "return Pair[K, V]{}, errors.New(\"Key not found\")")
}

func TestGenerator_Unexported(t *testing.T) {
	records := collect(t, "package p\n\ntype request struct {\n\turl string\n}\n", "request")

	out, err := New(Options{}).Generate(records[0])
	require.NoError(t, err)
	code := mustParse(t, out)
	assert.Contains(t, code, "func newRequestBuilder() *requestBuilder {")
	assert.Contains(t, code, "func (b *requestBuilder) url(v string) *requestBuilder {")
}

func TestGenerator_Imports(t *testing.T) {
	records := collect(t, `package p

import (
	goast "go/ast"
	"context"
	stderrors "errors"
	tm "time"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v3"
)

var _ = stderrors.New
var _ = context.Background

type Job struct {
	Timeout tm.Duration
	Cause   errors.Frame
	Node    Optional[*yaml.Node]
}
`, "Job")

	out, err := New(Options{}).Generate(records[0])
	require.NoError(t, err)
	code := mustParse(t, out)

	assert.Contains(t, code, "tm \"time\"")
	assert.Contains(t, code, "\"github.com/pkg/errors\"")
	assert.Contains(t, code, "yaml \"gopkg.in/yaml.v3\"")
	assert.Contains(t, code, "errors1 \"errors\"")
	assert.Contains(t, code, "errors1.New(\"Timeout not found\")")
	assert.NotContains(t, code, "\"context\"", "unused imports are dropped")
}

func TestGenerator_AvoidsShadowing(t *testing.T) {
	records := collect(t, `package p

type b int
type v string
type s []int

type T struct {
	X b
	Y v
	Z []s //builder:each="Add"
}
`, "T")

	out, err := New(Options{}).Generate(records[0])
	require.NoError(t, err)
	code := mustParse(t, out)

	assert.Contains(t, code, "func (bld *TBuilder) X(val b) *TBuilder {")
	assert.Contains(t, code, "func (bld *TBuilder) Add(val s) *TBuilder {")
	assert.Contains(t, code, "cur := bld.staged.Z.OrZero()")
}

func TestGenerator_OptionalPackageName(t *testing.T) {
	records := collect(t, `package p

type optional struct{}

type T struct {
	A optional
}
`, "T")

	out, err := New(Options{OptionalPackage: "example.com/runtime/optional/v2"}).Generate(records[0])
	require.NoError(t, err)
	code := mustParse(t, out)
	assert.Contains(t, code, "optional1 \"example.com/runtime/optional/v2\"")
	assert.Contains(t, code, "A optional1.Optional[optional]")
}

func TestGenerator_GenerateFile(t *testing.T) {
	records := collect(t, `package p

//derive:builder
type A struct{ X int }

//derive:builder
type B struct{ Y Optional[string] }
`)
	require.Len(t, records, 2)

	out, err := New(Options{Workers: 1}).GenerateFile("p", records)
	require.NoError(t, err)
	code := mustParse(t, out)
	assert.Equal(t, 1, strings.Count(code, "DO NOT EDIT"))
	assert.Less(t, strings.Index(code, "type ABuilder"), strings.Index(code, "type BBuilder"))
}

func TestGenerator_Deterministic(t *testing.T) {
	src := "package p\n\n"
	for _, n := range []string{"A", "B", "C", "D", "E", "F"} {
		src += "//derive:builder\ntype " + n + " struct {\n\tX int\n\tY Optional[int]\n}\n\n"
	}
	records := collect(t, src)

	g := New(Options{Workers: 4})
	first, err := g.GenerateFile("p", records)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := g.GenerateFile("p", records)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestGenerator_Errors(t *testing.T) {
	t.Run("Should abort the file on one bad record", func(t *testing.T) {
		records := collect(t, `package p

//derive:builder
type A struct{ X int }

//derive:builder
type B struct {
	Items []int //builder:each=Item
}

//derive:builder
type C struct {
	Tags []string //builder:tag="x"
}
`)
		out, err := New(Options{}).GenerateFile("p", records)
		require.Error(t, err)
		assert.Nil(t, out)
		assert.ErrorIs(t, err, diag.ErrInvalidAttribute)
		assert.Contains(t, err.Error(), "B.Items: expected string literal", "the earliest failing record is reported")
	})

	t.Run("Should reject alias equal to the field", func(t *testing.T) {
		records := collect(t, "package p\n\ntype T struct {\n\tEnv []string //builder:each=\"Env\"\n}\n", "T")
		_, err := New(Options{}).Generate(records[0])
		assert.ErrorIs(t, err, diag.ErrNameConflict)
	})

	t.Run("Should honor the duplicate policy", func(t *testing.T) {
		src := "package p\n\ntype T struct {\n\t//builder:each=\"Add\"\n\tItems []int //builder:each=\"Push\"\n}\n"
		records := collect(t, src, "T")
		_, err := New(Options{}).Generate(records[0])
		assert.ErrorIs(t, err, diag.ErrInvalidAttribute)

		out, err := New(Options{Duplicates: directive.DuplicateFirst}).Generate(records[0])
		require.NoError(t, err)
		assert.Contains(t, mustParse(t, out), "Add(v int)")
	})

	t.Run("Should report unresolved qualifiers", func(t *testing.T) {
		records := collect(t, "package p\n\ntype T struct {\n\tX mystery.Type\n}\n", "T")
		_, err := New(Options{}).Generate(records[0])
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot resolve package mystery")
	})

	t.Run("Should reject dot imports", func(t *testing.T) {
		records := collect(t, "package p\n\nimport . \"time\"\n\ntype Rec struct{ Every Duration }\n", "Rec")
		out, err := New(Options{}).GenerateFile("p", records)
		assert.Nil(t, out)
		assert.ErrorIs(t, err, diag.ErrUnsupportedDecl)
		assert.ErrorContains(t, err, `dot import of "time" is not supported`)
	})

	t.Run("Should reject an empty request", func(t *testing.T) {
		_, err := New(Options{}).GenerateFile("p", nil)
		assert.ErrorIs(t, err, ErrNoRecords)
	})
}
