package rom

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// EPROMSize is the capacity of the 27C64A in bytes.
const EPROMSize = 8 * 1024

// EPROMPins are the active-low control lines of a 27C64A.
type EPROMPins struct {
	// OutputEnable is /G: low lets the chip drive the data bus
	OutputEnable Line

	// ChipEnable is /E
	ChipEnable Line

	// Program is /PGM: a low pulse commits the data bus into the cell
	Program Line
}

// EPROM is a 27C64A 8K x 8 UV EPROM.
type EPROM struct {
	bus    Bus
	pins   EPROMPins
	config Config
}

// NewEPROM creates an EPROM on the given bus and control lines.
func NewEPROM(bus Bus, pins EPROMPins, opts ...Option) *EPROM {
	if bus == nil || pins.OutputEnable == nil || pins.ChipEnable == nil || pins.Program == nil {
		panic("bus and control lines cannot be nil")
	}

	return &EPROM{
		bus:    bus,
		pins:   pins,
		config: newConfig(opts),
	}
}

// Size returns the chip capacity in bytes.
func (e *EPROM) Size() int {
	return EPROMSize
}

func (e *EPROM) String() string {
	return "27C64A"
}

// Get reads the byte at addr. The data bus must be in input mode, which it
// is after NewEPROM's caller has set it up and after every Put.
func (e *EPROM) Get(addr uint32) (byte, error) {
	if addr >= EPROMSize {
		return 0, &AddressError{Address: addr, Size: EPROMSize}
	}

	s := e.sequence()
	s.address(addr)
	s.set(e.pins.ChipEnable, gpio.Low)
	s.set(e.pins.Program, gpio.High)
	s.set(e.pins.OutputEnable, gpio.High)
	s.wait(AccessDelay)
	s.set(e.pins.OutputEnable, gpio.Low)
	s.wait(AccessDelay)
	v := s.read()
	s.set(e.pins.OutputEnable, gpio.High)
	if s.err != nil {
		return 0, fmt.Errorf("read 0x%04x: %w", addr, s.err)
	}

	return v, nil
}

// Put programs v into the cell at addr and verifies it.
//
// Every pulse, retries and overprogram pulses included, is applied with v
// freshly written to the data bus. A nil error means the read-back after a
// program pulse matched v. A *VerifyError means the cell never matched
// within MaxAttempts pulses; any other error is a bus fault, after which the
// control lines are returned to idle as far as the fault allows.
func (e *EPROM) Put(addr uint32, v byte) error {
	if addr >= EPROMSize {
		return &AddressError{Address: addr, Size: EPROMSize}
	}

	s := e.sequence()
	s.set(e.pins.ChipEnable, gpio.High)
	s.set(e.pins.OutputEnable, gpio.High)
	s.wait(SettleDelay)
	s.output()
	s.address(addr)
	s.write(v)
	s.wait(SettleDelay)
	s.set(e.pins.Program, gpio.High)
	s.set(e.pins.ChipEnable, gpio.Low)
	s.wait(SettleDelay)

	var got byte
	for n := 0; n < e.config.MaxAttempts; n++ {
		if n > 0 {
			e.drive(s, v)
		}
		e.pulse(s, e.config.ProgramPulse)
		s.input()
		s.set(e.pins.OutputEnable, gpio.Low)
		s.wait(AccessDelay)
		got = s.read()
		s.set(e.pins.OutputEnable, gpio.High)
		s.wait(SettleDelay)
		if s.err != nil {
			e.idle()
			return fmt.Errorf("program 0x%04x: %w", addr, s.err)
		}

		if got == v {
			if n > 0 {
				e.drive(s, v)
				for i := 0; i < n; i++ {
					e.pulse(s, e.config.OverprogramPulse)
				}
			}
			s.input()
			s.wait(SettleDelay)
			if s.err != nil {
				e.idle()
				return fmt.Errorf("overprogram 0x%04x: %w", addr, s.err)
			}

			e.config.logDebug("programmed",
				"address", fmt.Sprintf("0x%04x", addr),
				"value", fmt.Sprintf("0x%02x", v),
				"pulses", n+1,
			)
			return nil
		}
	}

	err := &VerifyError{Address: addr, Want: v, Got: got}
	e.config.logError("verify failed",
		"address", fmt.Sprintf("0x%04x", addr),
		"want", fmt.Sprintf("0x%02x", v),
		"got", fmt.Sprintf("0x%02x", got),
		"attempts", e.config.MaxAttempts,
	)
	return err
}

// drive puts v back on the data bus after a verify read. Switching to
// output does not keep the previous value.
func (e *EPROM) drive(s *sequence, v byte) {
	s.output()
	s.write(v)
	s.wait(SettleDelay)
}

// idle deasserts /PGM, /G and /E and floats the data bus, ignoring errors.
// It runs after a fault, when the pins may be in any state.
func (e *EPROM) idle() {
	_ = e.pins.Program.Out(gpio.High)
	_ = e.pins.OutputEnable.Out(gpio.High)
	_ = e.pins.ChipEnable.Out(gpio.High)
	_ = e.bus.DataInput()
}

// pulse drives /PGM low for width, then waits for the program-high to input
// latency.
func (e *EPROM) pulse(s *sequence, width time.Duration) {
	s.set(e.pins.Program, gpio.Low)
	s.wait(width)
	s.set(e.pins.Program, gpio.High)
	s.wait(SettleDelay)
}

func (e *EPROM) sequence() *sequence {
	return &sequence{bus: e.bus, delay: e.config.Delayer}
}
