// Package console implements the single-character command loop of the
// programmer.
//
// A Session owns the memory image, sized to the chip, for its whole life.
// Each line typed on the console is a command; only its first character
// counts, case-insensitively:
//
//	D  dump the chip as hex lines
//	R  read the chip into the image
//	B  dump the image as hex lines
//	F  load hex lines into the image, up to a blank line
//	P  program the chip from the image (programmable chips only)
//	C  print the CRC of the image
//	V  print the version
//
// Usage:
//
//	s := console.New(dev,
//	    console.WithProgrammer(dev),
//	    console.WithIndicators(greenLED, blueLED),
//	)
//	err := s.Run(ctx, port)
package console
