package board

import "fmt"

// PinError is returned when a configured pin name is not registered.
type PinError struct {
	Role string
	Name string
}

func (e *PinError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("no pin configured for %s", e.Role)
	}
	return fmt.Sprintf("pin %q for %s not found", e.Name, e.Role)
}

// IOError wraps a pin operation failure.
type IOError struct {
	Pin string
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Pin, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
