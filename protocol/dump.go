package protocol

import (
	"bufio"
	"fmt"
	"io"
)

// Dump writes buf as hex lines, buf[0] being address start and the last
// byte end-1.
func Dump(w io.Writer, buf []byte, start, end uint32) error {
	if start > end || uint64(end-start) > uint64(len(buf)) {
		return fmt.Errorf("range 0x%06x-0x%06x does not fit a %d byte buffer", start, end, len(buf))
	}

	return DumpFunc(w, start, end, func(addr uint32) (byte, error) {
		return buf[addr-start], nil
	})
}

// DumpFunc writes the bytes returned by get for [start, end) as hex lines.
// Lines begin at start and hold LineLength bytes; the last one is cut short
// at end.
func DumpFunc(w io.Writer, start, end uint32, get func(addr uint32) (byte, error)) error {
	bw := bufio.NewWriter(w)
	for line := uint64(start); line < uint64(end); line += LineLength {
		if _, err := fmt.Fprintf(bw, "%0*x%c", AddressDigits, line, AddressSeparator); err != nil {
			return err
		}

		stop := min(line+LineLength, uint64(end))
		for addr := line; addr < stop; addr++ {
			v, err := get(uint32(addr))
			if err != nil {
				return fmt.Errorf("dump 0x%06x: %w", addr, err)
			}
			if _, err := fmt.Fprintf(bw, " %02x", v); err != nil {
				return err
			}
		}

		if err := bw.WriteByte(EndOfLine); err != nil {
			return err
		}
	}

	return bw.Flush()
}
