package restart

import (
	"errors"
	"fmt"
)

// Step failure kinds.
var (
	ErrTerminationFailed = errors.New("termination failed")
	ErrFileCopyFailed    = errors.New("staged config copy failed")
	ErrLaunchFailed      = errors.New("launch failed")
)

// Error reports one failed restart step. Kind is one of the sentinels above;
// Target names the process or file involved.
type Error struct {
	Kind   error
	Target string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Target != "" && e.Err != nil:
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Target, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	case e.Target != "":
		return fmt.Sprintf("%v: %s", e.Kind, e.Target)
	default:
		return fmt.Sprint(e.Kind)
	}
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Fatal reports whether err contains a failure that leaves MotionInput
// without the new settings: a copy or a launch failure. Termination failures
// alone are warnings.
func Fatal(err error) bool {
	return errors.Is(err, ErrFileCopyFailed) || errors.Is(err, ErrLaunchFailed)
}
