package sim

import (
	"errors"
	"time"

	"github.com/moffa90/go-romtool/rom"
	"periph.io/x/conn/v3/gpio"
)

// MaskROMAddressMask selects the 6540 address bits of the port value.
const MaskROMAddressMask = 0x1ffc

// ErrReadOnly is returned when the data bus of a mask ROM is driven.
var ErrReadOnly = errors.New("sim: mask ROM data bus is read only")

// MaskROM models a 6540. It implements rom.Bus; Clock returns its phase 2
// clock line. Data is only valid once the clock has been high for
// rom.AccessDelay, with the address stable for rom.AccessDelay before that.
type MaskROM struct {
	clock    *Clock
	contents [rom.MaskROMSize]byte

	address   uint32
	addressAt time.Duration
	phi2      *Line
	rose      time.Duration
}

// NewMaskROM returns a chip holding contents, zero padded.
func NewMaskROM(clock *Clock, contents []byte) *MaskROM {
	c := &MaskROM{
		clock: clock,
		phi2:  NewLine("PHI2", gpio.Low),
	}
	copy(c.contents[:], contents)
	c.phi2.onChange = c.clockChanged
	return c
}

// Clock returns the phase 2 clock line.
func (c *MaskROM) Clock() *Line {
	return c.phi2
}

// SetAddress implements rom.Bus.
func (c *MaskROM) SetAddress(port uint32) error {
	c.address = (port & MaskROMAddressMask) >> rom.AddressShift
	c.addressAt = c.clock.Now()
	return nil
}

// WriteData implements rom.Bus.
func (c *MaskROM) WriteData(byte) error {
	return ErrReadOnly
}

// DataOutput implements rom.Bus.
func (c *MaskROM) DataOutput() error {
	return ErrReadOnly
}

// DataInput implements rom.Bus.
func (c *MaskROM) DataInput() error {
	return nil
}

// ReadData implements rom.Bus.
func (c *MaskROM) ReadData() (byte, error) {
	if c.phi2.Level() != gpio.High ||
		c.rose-c.addressAt < rom.AccessDelay ||
		c.clock.Now()-c.rose < rom.AccessDelay {
		return 0xFF, nil
	}
	return c.contents[c.address], nil
}

func (c *MaskROM) clockChanged(l gpio.Level) {
	if l == gpio.High {
		c.rose = c.clock.Now()
	}
}
