package model

import (
	goast "go/ast"
	"go/token"
	gotypes "go/types"
)

// FieldKind classifies how a field is staged and validated.
type FieldKind int

const (
	// KindPlain is a required field with a whole-value setter.
	KindPlain FieldKind = iota
	// KindOptional is an Optional[T] field; absence is allowed at build time.
	KindOptional
	// KindAccumulating is a required field that also gets a per-element setter.
	KindAccumulating
	// KindOptionalAccumulating is an optional field that also gets a per-element setter.
	KindOptionalAccumulating
)

// Classify derives the kind from the two independent field properties.
func Classify(optional, accumulating bool) FieldKind {
	switch {
	case optional && accumulating:
		return KindOptionalAccumulating
	case optional:
		return KindOptional
	case accumulating:
		return KindAccumulating
	default:
		return KindPlain
	}
}

// Optional reports whether a missing value is acceptable at build time.
func (k FieldKind) Optional() bool {
	return k == KindOptional || k == KindOptionalAccumulating
}

// Accumulating reports whether an element-wise setter is generated.
func (k FieldKind) Accumulating() bool {
	return k == KindAccumulating || k == KindOptionalAccumulating
}

func (k FieldKind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindOptional:
		return "optional"
	case KindAccumulating:
		return "accumulating"
	case KindOptionalAccumulating:
		return "optional+accumulating"
	default:
		return "invalid"
	}
}

// FieldDescriptor is the analyzed form of a FieldDeclaration.
type FieldDescriptor struct {
	Name string
	// Declared is the field type as written.
	Declared goast.Expr
	// Effective is Declared with one Optional wrapper removed.
	Effective goast.Expr
	Kind      FieldKind
	// Alias names the accumulator setter; empty unless Kind is accumulating.
	Alias string
	// Elem is the element type of Effective when the field accumulates.
	Elem goast.Expr
	Pos  token.Position
}

// BuilderSpec describes everything emitted for one record.
// It is not modified after analysis.
type BuilderSpec struct {
	Record      *RecordDeclaration
	BuilderName string
	// Constructor is the name of the function returning a fresh builder.
	Constructor string
	Fields      []FieldDescriptor
}

// HasRequired reports whether Build can fail.
func (s *BuilderSpec) HasRequired() bool {
	for _, f := range s.Fields {
		if !f.Kind.Optional() {
			return true
		}
	}
	return false
}

// Summary is the serializable view of a BuilderSpec.
type Summary struct {
	Record      string         `yaml:"record"`
	Builder     string         `yaml:"builder"`
	Constructor string         `yaml:"constructor"`
	TypeParams  []string       `yaml:"type_params,omitempty"`
	Fields      []FieldSummary `yaml:"fields"`
}

// FieldSummary is the serializable view of a FieldDescriptor.
type FieldSummary struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Effective   string `yaml:"effective"`
	Kind        string `yaml:"kind"`
	Accumulator string `yaml:"accumulator,omitempty"`
	Element     string `yaml:"element,omitempty"`
}

// Summarize renders s with all type expressions printed as Go source.
func (s *BuilderSpec) Summarize() Summary {
	sum := Summary{
		Record:      s.Record.Name,
		Builder:     s.BuilderName,
		Constructor: s.Constructor,
		TypeParams:  s.Record.TypeParamNames(),
		Fields:      make([]FieldSummary, 0, len(s.Fields)),
	}
	for _, f := range s.Fields {
		fs := FieldSummary{
			Name:        f.Name,
			Type:        gotypes.ExprString(f.Declared),
			Effective:   gotypes.ExprString(f.Effective),
			Kind:        f.Kind.String(),
			Accumulator: f.Alias,
		}
		if f.Elem != nil {
			fs.Element = gotypes.ExprString(f.Elem)
		}
		sum.Fields = append(sum.Fields, fs)
	}
	return sum
}
