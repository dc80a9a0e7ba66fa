package protocol

// Line format constants.
const (
	// LineLength is the number of bytes per dump line
	LineLength = 16

	// AddressDigits is the width of the address field
	AddressDigits = 6

	// AddressSeparator ends the address field
	AddressSeparator = ':'

	// EndOfLine terminates each line; an empty line ends a load
	EndOfLine = '\n'
)
