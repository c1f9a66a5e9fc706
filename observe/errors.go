package observe

import (
	"errors"
	"fmt"
)

var (
	ErrNotExtensible   = errors.New("record is not extensible")
	ErrNotConfigurable = errors.New("property is not configurable")
	ErrReadOnly        = errors.New("property is read-only")
	ErrInvalidTarget   = errors.New("cannot set or delete a reactive property on a nil or primitive value")
	ErrInvalidKey      = errors.New("invalid key for target")
	ErrRootTarget      = errors.New("cannot add or delete reactive properties on an instance or root data at runtime")
	ErrInvalidPath     = errors.New("invalid watch path")
)

// PanicError carries a value recovered from a computation that panicked.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("computation panicked: %v", e.Value)
}
