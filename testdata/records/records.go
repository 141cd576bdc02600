package records

import (
	"time"

	"github.com/origadmin/buildergen/optional"
)

type Optional[T any] = optional.Optional[T]

//derive:builder
type Command struct {
	Executable string
	Args       []string //builder:each="Arg"
	Env        []string //builder:each="EnvVar"
	CurrentDir Optional[string]
}

//derive:builder
type Job struct {
	Name    string
	Timeout Optional[time.Duration]
}

type Unmarked struct {
	ID int
}
