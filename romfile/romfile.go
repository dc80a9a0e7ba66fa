// Package romfile reads and writes chip images as raw binary or Intel HEX.
//
// Images always have the chip's size. Bytes a file does not cover read as
// Blank, the erased state of an EPROM cell.
package romfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/marcinbor85/gohex"
)

// Blank is the fill value for addresses absent from a file.
const Blank = 0xff

// HexLineLength is the number of data bytes per Intel HEX record written.
const HexLineLength = 16

// Format is an image file format.
type Format int

const (
	// Raw is a plain binary image starting at address zero.
	Raw Format = iota
	// IntelHex is an Intel HEX record file.
	IntelHex
)

func (f Format) String() string {
	switch f {
	case Raw:
		return "raw"
	case IntelHex:
		return "ihex"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatOf picks the format from the file extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hex", ".ihx", ".ihex":
		return IntelHex
	}
	return Raw
}

// SizeError is returned when a file holds data past the end of the image.
type SizeError struct {
	Address uint32
	Size    int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("image data at 0x%x beyond chip size 0x%x", e.Address, e.Size)
}

// Load reads the image in path, choosing the format from its extension.
func Load(path string, size int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	image, err := Read(f, FormatOf(path), size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return image, nil
}

// Read reads a size byte image from r.
func Read(r io.Reader, format Format, size int) ([]byte, error) {
	switch format {
	case Raw:
		return readRaw(r, size)
	case IntelHex:
		return readHex(r, size)
	}
	return nil, fmt.Errorf("unsupported format %v", format)
}

func readRaw(r io.Reader, size int) ([]byte, error) {
	image := blank(size)
	n, err := io.ReadFull(r, image)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	for i := n; i < size; i++ {
		image[i] = Blank
	}

	var extra [1]byte
	if m, _ := r.Read(extra[:]); m > 0 {
		return nil, &SizeError{Address: uint32(size), Size: size}
	}
	return image, nil
}

func readHex(r io.Reader, size int) ([]byte, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return nil, fmt.Errorf("invalid Intel HEX: %w", err)
	}

	for _, seg := range mem.GetDataSegments() {
		if end := uint64(seg.Address) + uint64(len(seg.Data)); end > uint64(size) {
			addr := seg.Address
			if addr < uint32(size) {
				addr = uint32(size)
			}
			return nil, &SizeError{Address: addr, Size: size}
		}
	}
	return mem.ToBinary(0, uint32(size), Blank), nil
}

// Save writes image to path in the format its extension names.
func Save(path string, image []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, image, FormatOf(path)); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// Write writes image to w.
func Write(w io.Writer, image []byte, format Format) error {
	switch format {
	case Raw:
		_, err := w.Write(image)
		return err
	case IntelHex:
		mem := gohex.NewMemory()
		if err := mem.AddBinary(0, image); err != nil {
			return err
		}
		bw := bufio.NewWriter(w)
		if err := mem.DumpIntelHex(bw, HexLineLength); err != nil {
			return err
		}
		return bw.Flush()
	}
	return fmt.Errorf("unsupported format %v", format)
}

func blank(size int) []byte {
	image := make([]byte, size)
	for i := range image {
		image[i] = Blank
	}
	return image
}
