package components

import (
	goast "go/ast"
	"go/parser"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expr(t *testing.T, src string) goast.Expr {
	t.Helper()
	e, err := parser.ParseExpr(src)
	require.NoError(t, err)
	return e
}

func TestNameGenerator_Pick(t *testing.T) {
	n := NewNameGenerator("b", "Command")
	assert.Equal(t, "bld", n.Pick("b", "bld", "builder"))
	assert.Equal(t, "v", n.Pick("v", "val", "value"))
	assert.Equal(t, "val", n.Pick("v", "val", "value"))

	n.Use("x", "x1")
	assert.Equal(t, "x2", n.Pick("x"))
}

func TestTypeFormatter_Format(t *testing.T) {
	f := NewTypeFormatter()
	tests := []struct {
		in, want string
	}{
		{"string", "string"},
		{"[]*pkg.Item", "[]*pkg.Item"},
		{"map[string][]int", "map[string][]int"},
		{"Optional[[]string]", "Optional[[]string]"},
		{"Pair[K, V]", "Pair[K, V]"},
		{"func(int) (string, error)", "func(int) (string, error)"},
		{"chan<- int", "chan<- int"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := f.Format(expr(t, tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	got, err := f.Format(expr(t, "struct{ A int `json:\"a\"` }"))
	require.NoError(t, err)
	assert.Contains(t, got, "`json:\"a\"`", "struct tags are part of the type")
}

func TestIdents(t *testing.T) {
	got := Idents(expr(t, "map[K][]time.Duration"), nil, expr(t, "Optional[b]"))
	assert.Equal(t, []string{"Duration", "K", "Optional", "b", "time"}, got)
}

func TestPackageRefs(t *testing.T) {
	got := PackageRefs(
		expr(t, "map[tm.Month]*pb.Item"),
		expr(t, "func(ctx context.Context) error"),
		expr(t, "[]string"),
	)
	assert.Equal(t, []string{"context", "pb", "tm"}, got)
}
