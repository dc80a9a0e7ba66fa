package protocol

import "hash"

// Checksum algorithm constants.
const (
	// CRC32Polynomial is the CRC-32 (ANSI) polynomial, MSB first
	CRC32Polynomial = 0x04C11DB7

	// CRC32InitialValue is the register value before the first byte
	CRC32InitialValue = 0x00000000

	// CRC32FinalXOR is applied to the register after the length bytes
	CRC32FinalXOR = 0xFFFFFFFF

	// CRC32HighBitMask is the high bit mask for CRC-32 calculations
	CRC32HighBitMask = 0x80000000

	// BitsPerByte is the number of bits per byte
	BitsPerByte = 8

	// ChecksumSize is the size of the checksum in bytes
	ChecksumSize = 4
)

var crcTable = makeCRCTable()

func makeCRCTable() *[256]uint32 {
	var t [256]uint32
	for i := range t {
		crc := uint32(i) << 24
		for j := 0; j < BitsPerByte; j++ {
			if crc&CRC32HighBitMask != 0 {
				crc = crc<<1 ^ CRC32Polynomial
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return &t
}

func updateCRC32(crc uint32, data []byte) uint32 {
	for _, b := range data {
		crc = crc<<BitsPerByte ^ crcTable[byte(crc>>24)^b]
	}
	return crc
}

// foldLength feeds n into crc as a little-endian sequence of as few bytes as
// possible. A zero length adds nothing.
func foldLength(crc uint32, n uint64) uint32 {
	for ; n != 0; n >>= BitsPerByte {
		crc = updateCRC32(crc, []byte{byte(n)})
	}
	return crc
}

// Checksum returns the CRC of data as computed by the POSIX cksum utility:
// CRC-32 over data, then over len(data) as a minimal little-endian byte
// sequence, then complemented. A buffer of 0x1234 bytes is followed by 0x34
// and 0x12.
func Checksum(data []byte) uint32 {
	crc := updateCRC32(CRC32InitialValue, data)
	return foldLength(crc, uint64(len(data))) ^ CRC32FinalXOR
}

// digest implements hash.Hash32 for Checksum. The length is folded in by
// Sum32 only, so writes may continue afterwards.
type digest struct {
	crc uint32
	n   uint64
}

// NewChecksum returns a hash.Hash32 computing Checksum incrementally.
func NewChecksum() hash.Hash32 {
	return &digest{crc: CRC32InitialValue}
}

func (d *digest) Write(p []byte) (int, error) {
	d.crc = updateCRC32(d.crc, p)
	d.n += uint64(len(p))
	return len(p), nil
}

func (d *digest) Sum32() uint32 {
	return foldLength(d.crc, d.n) ^ CRC32FinalXOR
}

func (d *digest) Sum(in []byte) []byte {
	s := d.Sum32()
	return append(in, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
}

func (d *digest) Reset() {
	d.crc = CRC32InitialValue
	d.n = 0
}

func (d *digest) Size() int { return ChecksumSize }

func (d *digest) BlockSize() int { return 1 }
