// Package directive parses the //builder: field directive.
//
// The only accepted form is a single string-valued entry naming the
// per-element setter of a slice field:
//
//	Env []string //builder:each="EnvVar"
package directive

import (
	"fmt"
	"go/scanner"
	"go/token"
	"log/slog"
	"strconv"

	"github.com/origadmin/buildergen/internal/diag"
	"github.com/origadmin/buildergen/internal/model"
)

// Namespace is the directive key reserved for the generator.
const Namespace = "builder"

// EachKey is the only argument key understood inside the namespace.
const EachKey = "each"

// DuplicatePolicy decides what happens when a field carries the directive more than once.
type DuplicatePolicy string

const (
	// DuplicateError rejects the field.
	DuplicateError DuplicatePolicy = "error"
	// DuplicateFirst uses the first directive and ignores the rest.
	DuplicateFirst DuplicatePolicy = "first"
)

// Valid reports whether p is a known policy.
func (p DuplicatePolicy) Valid() bool {
	return p == DuplicateError || p == DuplicateFirst
}

// Options tunes Parse.
type Options struct {
	Duplicates DuplicatePolicy
}

// Parse extracts the accumulator alias for field from its annotations.
// An empty alias with a nil error means the field carries no directive.
// Annotations of other namespaces are ignored.
func Parse(field string, annotations []model.Annotation, opts Options) (string, error) {
	var found []model.Annotation
	for _, a := range annotations {
		if a.Key == Namespace {
			found = append(found, a)
		}
	}
	if len(found) == 0 {
		return "", nil
	}
	if len(found) > 1 {
		if opts.Duplicates != DuplicateFirst {
			return "", diag.Attribute(field, Namespace, found[1].Pos, "duplicate builder attribute")
		}
		slog.Debug("Ignoring repeated builder directive", "field", field, "count", len(found))
	}
	return ParseArgs(field, found[0])
}

type item struct {
	pos token.Pos
	tok token.Token
	lit string
}

// ParseArgs parses the argument text of one builder annotation.
func ParseArgs(field string, a model.Annotation) (string, error) {
	src := []byte(a.Args)
	fset := token.NewFileSet()
	file := fset.AddFile("", -1, len(src))

	at := func(p token.Pos) token.Position {
		pos := a.Pos
		off := file.Offset(p)
		pos.Offset += off
		pos.Column += off
		return pos
	}

	var scanErr error
	var s scanner.Scanner
	s.Init(file, src, func(p token.Position, msg string) {
		if scanErr == nil {
			pos := a.Pos
			pos.Offset += p.Offset
			pos.Column += p.Offset
			scanErr = diag.Attribute(field, "", pos, msg)
		}
	}, 0)

	var items []item
	for {
		p, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		// automatic semicolon at end of input
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}
		items = append(items, item{pos: p, tok: tok, lit: lit})
	}
	if scanErr != nil {
		return "", scanErr
	}

	if len(items) == 0 {
		return "", diag.Attribute(field, "", a.Pos, `expected each = "..."`)
	}

	key := items[0]
	switch {
	case key.tok == token.IDENT:
		if key.lit != EachKey {
			return "", diag.Attribute(field, key.lit, at(key.pos), fmt.Sprintf("unrecognized attribute %q", key.lit))
		}
	case key.tok.IsKeyword():
		return "", diag.Attribute(field, key.tok.String(), at(key.pos), fmt.Sprintf("unrecognized attribute %q", key.tok.String()))
	default:
		return "", diag.Attribute(field, "", at(key.pos), `expected each = "..."`)
	}

	if len(items) < 2 || items[1].tok != token.ASSIGN {
		pos := at(key.pos)
		if len(items) >= 2 {
			pos = at(items[1].pos)
		}
		return "", diag.Attribute(field, EachKey, pos, "expected = after each")
	}
	if len(items) < 3 || items[2].tok != token.STRING {
		pos := at(items[1].pos)
		if len(items) >= 3 {
			pos = at(items[2].pos)
		}
		return "", diag.Attribute(field, EachKey, pos, "expected string literal")
	}
	if len(items) > 3 {
		extra := items[3]
		if extra.tok == token.COMMA {
			return "", diag.Attribute(field, EachKey, at(extra.pos), "multiple attribute arguments")
		}
		return "", diag.Attribute(field, EachKey, at(extra.pos), fmt.Sprintf("unexpected %s after string literal", extra.tok))
	}

	value := items[2]
	alias, err := strconv.Unquote(value.lit)
	if err != nil {
		return "", diag.Attribute(field, EachKey, at(value.pos), "malformed string literal")
	}
	if !token.IsIdentifier(alias) || alias == "_" {
		return "", diag.Attribute(field, EachKey, at(value.pos), fmt.Sprintf("invalid accumulator name %q", alias))
	}
	return alias, nil
}
