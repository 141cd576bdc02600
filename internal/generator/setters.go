package generator

// synthesizeSetters emits, in field order, the whole-value setter of each field
// and, right after it, its accumulator when the field has one.
func (g *Generator) synthesizeSetters(view *recordView) ([]byte, error) {
	return g.tmpl.Render("setters", view)
}
