package analyzer

import (
	"go/token"
	"unicode"
)

// BuilderName returns the builder type name for record.
func BuilderName(record string) string {
	return record + "Builder"
}

// ConstructorName returns the name of the function creating a builder for record.
// Unexported records get an unexported constructor.
func ConstructorName(record string) string {
	if token.IsExported(record) {
		return "New" + record + "Builder"
	}
	return "new" + capitalize(record) + "Builder"
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
