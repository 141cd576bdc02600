package generator

// synthesizeShape emits the constructor followed by the builder type.
// Every staged value starts out absent.
func (g *Generator) synthesizeShape(view *recordView) ([]byte, error) {
	ctor, err := g.tmpl.Render("constructor", view)
	if err != nil {
		return nil, err
	}
	storage, err := g.tmpl.Render("storage", view)
	if err != nil {
		return nil, err
	}
	return append(ctor, storage...), nil
}
