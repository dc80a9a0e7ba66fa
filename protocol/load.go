package protocol

import (
	"errors"
	"fmt"
	"io"
)

type lineState int

const (
	stateAddress lineState = iota
	stateByteHigh
	stateByteLow
)

// loader holds the state of one Load call.
type loader struct {
	dst        []byte
	start, end uint32

	state   lineState
	address uint32
	value   byte
	count   int
	// initial is true until the first address digit has been seen, so that
	// blank lines before the data are skipped instead of ending the load.
	initial bool
}

// Load reads hex lines from r and stores each byte at dst[address-start].
// It returns the number of bytes stored.
//
// The load ends normally at a blank line following the data. It fails with
// a *SyntaxError for an illegal character in an address, a *RangeError for
// a byte outside [start, end), ErrTruncated for a line ending mid-byte and
// ErrUnterminated if r runs dry (or yields a NUL) first. No byte outside
// [start, end) is ever written.
//
// A line that ends after its address but before any byte resets the address
// to zero; every following line must restate its address.
//
// Example:
//
//	image := make([]byte, 16)
//	n, err := protocol.Load(strings.NewReader("000000: 01 02 03 04\n\n"), image, 0, 16)
//	// n == 4, err == nil
func Load(r io.ByteReader, dst []byte, start, end uint32) (int, error) {
	if start > end || uint64(end-start) > uint64(len(dst)) {
		return 0, fmt.Errorf("range 0x%06x-0x%06x does not fit a %d byte buffer", start, end, len(dst))
	}

	l := &loader{dst: dst, start: start, end: end, initial: true}
	for {
		ch, err := r.ReadByte()
		if errors.Is(err, io.EOF) || (err == nil && ch == 0) {
			return l.count, ErrUnterminated
		}
		if err != nil {
			return l.count, fmt.Errorf("read input: %w", err)
		}

		done, err := l.feed(ch)
		if done || err != nil {
			return l.count, err
		}
	}
}

// feed advances the state machine by one character. It reports whether the
// load has finished.
func (l *loader) feed(ch byte) (bool, error) {
	switch l.state {
	case stateAddress:
		switch {
		case isHexDigit(ch):
			l.address = l.address<<4 | uint32(hexValue(ch))
			l.initial = false
		case ch == ' ':
			// ignore spaces
		case ch == AddressSeparator:
			l.state = stateByteHigh
		case ch == EndOfLine:
			// blank lines before the first address are skipped
			if !l.initial {
				return true, nil
			}
		default:
			return true, &SyntaxError{Char: ch}
		}

	case stateByteHigh:
		switch {
		case isHexDigit(ch):
			l.value = hexValue(ch) << 4
			l.state = stateByteLow
		case ch == EndOfLine:
			l.address = 0
			l.state = stateAddress
		}

	case stateByteLow:
		switch {
		case isHexDigit(ch):
			l.value |= hexValue(ch)
			if l.address < l.start || l.address >= l.end {
				return true, &RangeError{Address: l.address}
			}
			l.dst[l.address-l.start] = l.value
			l.address++
			l.count++
			l.state = stateByteHigh
		case ch == EndOfLine:
			return true, ErrTruncated
		}
	}

	return false, nil
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') ||
		(ch >= 'A' && ch <= 'F') ||
		(ch >= 'a' && ch <= 'f')
}

// hexValue converts a hex digit, folding it to upper case first.
func hexValue(ch byte) byte {
	if ch >= 'a' && ch <= 'z' {
		ch -= 'a' - 'A'
	}
	ch -= '0'
	if ch > 9 {
		ch -= 'A' - '0' - 10
	}
	return ch
}
