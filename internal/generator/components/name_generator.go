package components

import (
	"fmt"
)

// NameGenerator hands out local identifiers (receivers, parameters) that do not
// shadow any name the generated method bodies refer to.
type NameGenerator struct {
	used map[string]bool
}

// NewNameGenerator creates a generator that never returns any of used.
func NewNameGenerator(used ...string) *NameGenerator {
	n := &NameGenerator{used: make(map[string]bool)}
	n.Use(used...)
	return n
}

// Use marks names as unavailable.
func (n *NameGenerator) Use(names ...string) {
	for _, name := range names {
		n.used[name] = true
	}
}

// Pick returns the first free candidate, or the first candidate with a
// numeric suffix when all are taken. The result is marked as used.
func (n *NameGenerator) Pick(candidates ...string) string {
	for _, c := range candidates {
		if !n.used[c] {
			n.used[c] = true
			return c
		}
	}
	base := candidates[0]
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s%d", base, i)
		if !n.used[name] {
			n.used[name] = true
			return name
		}
	}
}
