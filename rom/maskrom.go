package rom

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// MaskROMSize is the capacity of the 6540 in bytes.
const MaskROMSize = 2 * 1024

// MaskROM is a 6540 2K x 8 mask ROM. Each read is clocked by the 6502 phase
// 2 clock line.
type MaskROM struct {
	bus    Bus
	clock  Line
	config Config
}

// NewMaskROM creates a MaskROM on the given bus and clock line.
func NewMaskROM(bus Bus, clock Line, opts ...Option) *MaskROM {
	if bus == nil || clock == nil {
		panic("bus and clock cannot be nil")
	}

	return &MaskROM{
		bus:    bus,
		clock:  clock,
		config: newConfig(opts),
	}
}

// Size returns the chip capacity in bytes.
func (m *MaskROM) Size() int {
	return MaskROMSize
}

func (m *MaskROM) String() string {
	return "6540"
}

// Get reads the byte at addr.
func (m *MaskROM) Get(addr uint32) (byte, error) {
	if addr >= MaskROMSize {
		return 0, &AddressError{Address: addr, Size: MaskROMSize}
	}

	s := sequence{bus: m.bus, delay: m.config.Delayer}
	s.set(m.clock, gpio.Low)
	s.address(addr)
	s.wait(AccessDelay)
	s.set(m.clock, gpio.High)
	s.wait(AccessDelay)
	v := s.read()
	s.set(m.clock, gpio.Low)
	if s.err != nil {
		return 0, fmt.Errorf("read 0x%04x: %w", addr, s.err)
	}

	return v, nil
}
