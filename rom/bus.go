package rom

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// AddressShift is the number of bits the logical address is shifted left by
// before it is presented on the address port.
const AddressShift = 2

// Line is a single control output. Any gpio.PinOut satisfies it.
type Line interface {
	Out(l gpio.Level) error
}

// Bus is the address port plus the bidirectional data port shared by the
// chip variants.
type Bus interface {
	// SetAddress drives the address port with an already shifted value.
	SetAddress(port uint32) error

	// WriteData drives the data port. The port must be in output mode.
	WriteData(v byte) error

	// ReadData samples the data port.
	ReadData() (byte, error)

	// DataOutput switches the data port to output mode.
	DataOutput() error

	// DataInput switches the data port to input mode.
	DataInput() error
}

// Delayer blocks for at least the requested duration.
type Delayer interface {
	Delay(d time.Duration)
}

// BusyWait is a Delayer that spins on the monotonic clock. It is used
// instead of time.Sleep because the scheduler cannot honour microsecond
// waits.
type BusyWait struct{}

// Delay spins until d has elapsed.
func (BusyWait) Delay(d time.Duration) {
	start := time.Now()
	for time.Since(start) < d {
	}
}

// sequence runs a chain of pin operations and waits, stopping at the first
// error.
type sequence struct {
	bus   Bus
	delay Delayer
	err   error
}

func (s *sequence) set(l Line, level gpio.Level) {
	if s.err == nil {
		s.err = l.Out(level)
	}
}

func (s *sequence) wait(d time.Duration) {
	if s.err == nil {
		s.delay.Delay(d)
	}
}

func (s *sequence) address(addr uint32) {
	if s.err == nil {
		s.err = s.bus.SetAddress(addr << AddressShift)
	}
}

func (s *sequence) write(v byte) {
	if s.err == nil {
		s.err = s.bus.WriteData(v)
	}
}

func (s *sequence) read() byte {
	if s.err != nil {
		return 0
	}
	v, err := s.bus.ReadData()
	s.err = err
	return v
}

func (s *sequence) output() {
	if s.err == nil {
		s.err = s.bus.DataOutput()
	}
}

func (s *sequence) input() {
	if s.err == nil {
		s.err = s.bus.DataInput()
	}
}
