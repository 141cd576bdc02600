package generator

// synthesizeBuild emits Build. Required fields are checked in declaration
// order; optional ones are passed through whether set or not.
func (g *Generator) synthesizeBuild(view *recordView) ([]byte, error) {
	return g.tmpl.Render("build", view)
}
