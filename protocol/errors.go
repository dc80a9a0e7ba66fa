package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated is returned when a line ends between the two digits of
	// a byte.
	ErrTruncated = errors.New("unexpected end of file mid data byte")

	// ErrUnterminated is returned when the input ends before the blank
	// line that terminates a load.
	ErrUnterminated = errors.New("unknown error: input ended without a blank line")
)

// SyntaxError reports an illegal character where an address was expected.
type SyntaxError struct {
	Char byte
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("illegal character \"%c\" in input", e.Char)
}

// RangeError reports a byte addressed outside the destination range.
type RangeError struct {
	Address uint32
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("attempted to write beyond end of buffer at 0x%06x", e.Address)
}

// IsProtocolError returns true if err is one of the load errors.
func IsProtocolError(err error) bool {
	var syntaxErr *SyntaxError
	var rangeErr *RangeError
	return errors.As(err, &syntaxErr) || errors.As(err, &rangeErr) ||
		errors.Is(err, ErrTruncated) || errors.Is(err, ErrUnterminated)
}
