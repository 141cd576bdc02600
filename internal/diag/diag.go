// Package diag defines the generation-time errors reported by buildergen.
//
// Every error produced while reading a declaration is a *Error. Its Kind maps
// onto one of the sentinel errors so callers can branch with errors.Is:
//
//	if errors.Is(err, diag.ErrInvalidAttribute) {
//	    // malformed //builder: directive
//	}
package diag

import (
	"errors"
	"go/token"
	"strings"
)

// Sentinel errors
var (
	// ErrUnsupportedDecl is returned for declarations that are not plain named-field structs.
	ErrUnsupportedDecl = errors.New("unsupported declaration")

	// ErrInvalidAttribute is returned when a builder directive cannot be parsed.
	ErrInvalidAttribute = errors.New("invalid builder attribute")

	// ErrNameConflict is returned when two generated members would share a name.
	ErrNameConflict = errors.New("builder name conflict")

	// ErrTypeNotFound is returned when a requested type is not declared in the package.
	ErrTypeNotFound = errors.New("type not found")
)

// Kind classifies an Error.
type Kind int

const (
	KindUnsupported Kind = iota + 1
	KindAttribute
	KindConflict
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindUnsupported:
		return "unsupported"
	case KindAttribute:
		return "attribute"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindUnsupported:
		return ErrUnsupportedDecl
	case KindAttribute:
		return ErrInvalidAttribute
	case KindConflict:
		return ErrNameConflict
	case KindNotFound:
		return ErrTypeNotFound
	default:
		return nil
	}
}

// Error is a positioned generation error.
type Error struct {
	Kind   Kind
	Record string
	Field  string
	// Key is the offending directive key, if any.
	Key string
	Pos token.Position
	Msg string
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Pos.IsValid() {
		b.WriteString(e.Pos.String())
		b.WriteString(": ")
	}
	switch {
	case e.Record != "" && e.Field != "":
		b.WriteString(e.Record + "." + e.Field + ": ")
	case e.Record != "":
		b.WriteString(e.Record + ": ")
	case e.Field != "":
		b.WriteString(e.Field + ": ")
	}
	b.WriteString(e.Msg)
	return b.String()
}

func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// Unsupported reports a declaration that cannot get a builder.
func Unsupported(record string, pos token.Position, msg string) error {
	return &Error{Kind: KindUnsupported, Record: record, Pos: pos, Msg: msg}
}

// Attribute reports a malformed builder directive on field.
func Attribute(field, key string, pos token.Position, msg string) error {
	return &Error{Kind: KindAttribute, Field: field, Key: key, Pos: pos, Msg: msg}
}

// Conflict reports a generated name used twice.
func Conflict(record, field string, pos token.Position, msg string) error {
	return &Error{Kind: KindConflict, Record: record, Field: field, Pos: pos, Msg: msg}
}

// NotFound reports a requested type missing from the package.
func NotFound(name string) error {
	return &Error{Kind: KindNotFound, Record: name, Msg: "no such type declared"}
}

// WithRecord returns err annotated with the record name when it is a *Error
// that does not name one yet. Other errors are returned unchanged.
func WithRecord(err error, record string) error {
	var de *Error
	if !errors.As(err, &de) || de.Record != "" {
		return err
	}
	cp := *de
	cp.Record = record
	return &cp
}
