package rom

import (
	"fmt"
	"strings"
)

// AddressError indicates an address outside the chip.
type AddressError struct {
	Address uint32
	Size    int
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("address 0x%04x is out of range: chip size is 0x%04x", e.Address, e.Size)
}

// VerifyError indicates that a byte did not read back correctly after the
// maximum number of program pulses.
type VerifyError struct {
	Address uint32
	Want    byte
	Got     byte
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("failed to program 0x%x = %x (got %x instead)", e.Address, e.Want, e.Got)
}

// ProgramError collects the bytes of a bulk Program call that failed to
// verify. Program does not stop at the first failure.
type ProgramError struct {
	Failures []*VerifyError
}

func (e *ProgramError) Error() string {
	if len(e.Failures) == 1 {
		return e.Failures[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d bytes failed to program", len(e.Failures))
	for _, f := range e.Failures {
		b.WriteString("\n")
		b.WriteString(f.Error())
	}
	return b.String()
}

// Unwrap returns the individual failures so errors.As finds a *VerifyError.
func (e *ProgramError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}
