package records

//derive:builder
type Stale struct {
	Gone string
}
