package template

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testField struct {
	Name, Type, Alias, Elem string
	Optional                bool
}

type testRecord struct {
	Record, Builder, Constructor     string
	TypeParamsDecl, TypeArgs         string
	Receiver, Param, Scratch         string
	Optional, Errors                 string
	HasRequired                      bool
	Fields                           []testField
}

func TestManager_Templates(t *testing.T) {
	m := NewManager()
	for _, name := range []string{"header", "constructor", "storage", "setters", "build"} {
		assert.NotNil(t, m.tmpl.Lookup(name), name)
	}
}

func TestManager_RenderBuild(t *testing.T) {
	m := NewManager()
	out, err := m.Render("build", testRecord{
		Record: "Job", Builder: "JobBuilder", Constructor: "NewJobBuilder",
		Receiver: "b", Param: "v", Scratch: "s", Optional: "optional", Errors: "errors",
		HasRequired: true,
		Fields: []testField{
			{Name: "Name", Type: "string"},
			{Name: "Note", Type: "string", Optional: true},
		},
	})
	require.NoError(t, err)
	code := string(out)
	assert.Contains(t, code, `return Job{}, errors.New("Name not found")`)
	assert.NotContains(t, code, `"Note not found"`)
	assert.Contains(t, code, "Name: b.staged.Name.MustGet(),")
	assert.Contains(t, code, "Note: b.staged.Note,")
}

func TestManager_RenderHeader(t *testing.T) {
	type spec struct {
		Name, Path string
		Named      bool
	}
	m := NewManager()
	out, err := m.Render("header", map[string]any{
		"Generator":    "buildergen",
		"Package":      "p",
		"StdImports":   []spec{{Name: "errors", Path: "errors"}},
		"OtherImports": []spec{{Name: "opt", Path: "example.com/optional", Named: true}},
	})
	require.NoError(t, err)
	code := string(out)
	assert.True(t, strings.HasPrefix(code, "// Code generated by buildergen. DO NOT EDIT.\n\npackage p\n"))
	assert.Contains(t, code, "\t\"errors\"\n\n\topt \"example.com/optional\"\n)")
}

func TestManager_RenderErrors(t *testing.T) {
	m := NewManager()

	_, err := m.Render("missing", nil)
	assert.Error(t, err)

	_, err = m.Render("header", map[string]any{"Generator": "buildergen"})
	require.Error(t, err, "missing keys fail instead of rendering <no value>")
	assert.Contains(t, err.Error(), "failed to render header")
}
