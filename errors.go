package warehouse

import (
	"fmt"

	"github.com/pkg/errors"
)

// LockedStorageError is raised as a panic (via abortErr) when a structural
// mutation is attempted while one or more queries currently hold component
// locks on the world.
type LockedStorageError struct{}

func (e LockedStorageError) Error() string {
	return "warehouse: world is locked by an active query"
}

// ComponentExistsError is returned by AddComponentTag/AddComponentRaw when
// the entity already carries the component.
type ComponentExistsError struct {
	Component ComponentID
}

func (e ComponentExistsError) Error() string {
	return fmt.Sprintf("warehouse: component %v already present on entity", e.Component)
}

// ComponentNotFoundError is returned by RemoveComponent when the entity does
// not carry the component.
type ComponentNotFoundError struct {
	Component ComponentID
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("warehouse: component %v not present on entity", e.Component)
}

// DuplicateComponentError is the fatal programmer error raised when a single
// builder call names the same component twice (spec.md §4.5/§9).
type DuplicateComponentError struct {
	Component ComponentID
}

func (e DuplicateComponentError) Error() string {
	return fmt.Sprintf("warehouse: duplicate component %v in single spawn", e.Component)
}

// abort panics with a stack-trace-annotated error. Reserved for the
// programmer-error regime of §7: preconditions whose violation leaves the
// world observably inconsistent and therefore unrecoverable.
func abort(format string, args ...any) {
	panic(errors.WithStack(fmt.Errorf(format, args...)))
}

// abortErr panics with a stack-trace-annotated copy of err, for sites that
// have a typed error value to raise rather than a one-off message.
func abortErr(err error) {
	panic(errors.WithStack(err))
}
