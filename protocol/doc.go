// Package protocol implements the hex transfer protocol used to move memory
// images over a text console, and the image checksum.
//
// # Line Format
//
// An image is transferred as lines of sixteen bytes:
//
//	AAAAAA: BB BB BB BB BB BB BB BB BB BB BB BB BB BB BB BB
//
// Where:
//   - AAAAAA = address of the first byte, 6 lowercase hex digits
//   - BB = byte value, 2 lowercase hex digits, each preceded by a space
//
// Every line carries its own address. Input accepts upper and lowercase
// digits and extra spaces. A blank line after the data ends the transfer.
//
// # Dumping
//
//	err := protocol.Dump(os.Stdout, image, 0, uint32(len(image)))
//
// DumpFunc renders bytes fetched one at a time, e.g. straight from a chip:
//
//	err := protocol.DumpFunc(w, 0, 0x2000, dev.Get)
//
// # Loading
//
// Load consumes characters until the terminating blank line:
//
//	n, err := protocol.Load(bufio.NewReader(conn), image, 0, uint32(len(image)))
//	if err != nil {
//	    fmt.Println(err) // e.g. illegal character "G" in input
//	}
//	fmt.Printf("Loaded 0x%x bytes\n", n)
//
// The count of bytes stored is returned even when the transfer fails.
//
// # Checksum
//
// Checksum computes the POSIX cksum CRC of an image: CRC-32 over the data
// followed by the length as a minimal little-endian byte sequence.
//
//	crc := protocol.Checksum(image)
//	fmt.Printf("CRC is : 0x%x (dec %d)\n", crc, crc)
package protocol
