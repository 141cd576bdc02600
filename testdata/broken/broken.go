package broken

//derive:builder
type Broken struct {
	Name string
	Tags []string //builder:each=Tag
}
