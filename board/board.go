package board

import (
	"fmt"
	"sort"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/moffa90/go-romtool/internal/config"
	"github.com/moffa90/go-romtool/rom"
)

// Board is the socket wiring. It implements rom.Bus.
type Board struct {
	address map[int]gpio.PinIO
	bits    []int
	data    [8]gpio.PinIO
	pins    config.Pins

	// controls holds the clock or EPROM control lines handed out so far.
	controls []gpio.PinIO

	// Green and Blue are the status LEDs, nil when not wired.
	Green gpio.PinIO
	Blue  gpio.PinIO
}

var _ rom.Bus = (*Board)(nil)

// Open initialises the host GPIO drivers and resolves the pins.
func Open(pins config.Pins) (*Board, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialise host drivers: %w", err)
	}
	return Lookup(pins)
}

// Lookup resolves the pins from gpioreg and puts the bus in its idle state:
// address zero, data port input.
func Lookup(pins config.Pins) (*Board, error) {
	b := &Board{
		address: make(map[int]gpio.PinIO, len(pins.Address)),
		pins:    pins,
	}

	for bit, name := range pins.Address {
		p, err := byName(fmt.Sprintf("address bit %d", bit), name)
		if err != nil {
			return nil, err
		}
		b.address[bit] = p
		b.bits = append(b.bits, bit)
	}
	sort.Ints(b.bits)

	for i, name := range pins.Data {
		p, err := byName(fmt.Sprintf("data bit D%d", i), name)
		if err != nil {
			return nil, err
		}
		b.data[i] = p
	}

	var err error
	if b.Green, err = optional("green LED", pins.GreenLED); err != nil {
		return nil, err
	}
	if b.Blue, err = optional("blue LED", pins.BlueLED); err != nil {
		return nil, err
	}

	if err := b.SetAddress(0); err != nil {
		return nil, err
	}
	if err := b.DataInput(); err != nil {
		return nil, err
	}
	return b, nil
}

// MaskROM builds a 6540 driver clocked by the configured clock pin.
func (b *Board) MaskROM(opts ...rom.Option) (*rom.MaskROM, error) {
	clock, err := b.control("clock", b.pins.Clock, gpio.Low)
	if err != nil {
		return nil, err
	}
	return rom.NewMaskROM(b, clock, opts...), nil
}

// EPROM builds a 27C64A driver. The control lines start deasserted.
func (b *Board) EPROM(opts ...rom.Option) (*rom.EPROM, error) {
	g, err := b.control("output enable", b.pins.OutputEnable, gpio.High)
	if err != nil {
		return nil, err
	}
	e, err := b.control("chip enable", b.pins.ChipEnable, gpio.High)
	if err != nil {
		return nil, err
	}
	pgm, err := b.control("program", b.pins.Program, gpio.High)
	if err != nil {
		return nil, err
	}
	pins := rom.EPROMPins{OutputEnable: g, ChipEnable: e, Program: pgm}
	return rom.NewEPROM(b, pins, opts...), nil
}

// Indicators returns the LEDs as rom.Lines, nil for unwired ones.
func (b *Board) Indicators() (green, blue rom.Line) {
	if b.Green != nil {
		green = b.Green
	}
	if b.Blue != nil {
		blue = b.Blue
	}
	return green, blue
}

// Halt releases every pin.
func (b *Board) Halt() error {
	var first error
	for _, p := range b.all() {
		if err := p.Halt(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// SetAddress drives each wired bit of port.
func (b *Board) SetAddress(port uint32) error {
	for _, bit := range b.bits {
		p := b.address[bit]
		if err := out(p, gpio.Level(port&(1<<uint(bit)) != 0)); err != nil {
			return err
		}
	}
	return nil
}

// WriteData drives D0..D7.
func (b *Board) WriteData(v byte) error {
	for i, p := range b.data {
		if err := out(p, gpio.Level(v&(1<<uint(i)) != 0)); err != nil {
			return err
		}
	}
	return nil
}

// ReadData samples D0..D7.
func (b *Board) ReadData() (byte, error) {
	var v byte
	for i, p := range b.data {
		if p.Read() == gpio.High {
			v |= 1 << uint(i)
		}
	}
	return v, nil
}

// DataOutput turns the data pins into outputs, driving zero. Callers write
// the value they want afterwards.
func (b *Board) DataOutput() error {
	return b.WriteData(0)
}

// DataInput floats the data pins.
func (b *Board) DataInput() error {
	for _, p := range b.data {
		if err := p.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
			return &IOError{Pin: p.Name(), Op: "input", Err: err}
		}
	}
	return nil
}

func (b *Board) control(role, name string, idle gpio.Level) (gpio.PinIO, error) {
	p, err := byName(role, name)
	if err != nil {
		return nil, err
	}
	if err := out(p, idle); err != nil {
		return nil, err
	}
	for _, c := range b.controls {
		if c == p {
			return p, nil
		}
	}
	b.controls = append(b.controls, p)
	return p, nil
}

func (b *Board) all() []gpio.PinIO {
	pins := make([]gpio.PinIO, 0, len(b.bits)+len(b.data)+len(b.controls)+2)
	for _, bit := range b.bits {
		pins = append(pins, b.address[bit])
	}
	pins = append(pins, b.data[:]...)
	pins = append(pins, b.controls...)
	if b.Green != nil {
		pins = append(pins, b.Green)
	}
	if b.Blue != nil {
		pins = append(pins, b.Blue)
	}
	return pins
}

func byName(role, name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, &PinError{Role: role}
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, &PinError{Role: role, Name: name}
	}
	return p, nil
}

func optional(role, name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, nil
	}
	p, err := byName(role, name)
	if err != nil {
		return nil, err
	}
	if err := out(p, gpio.Low); err != nil {
		return nil, err
	}
	return p, nil
}

func out(p gpio.PinIO, l gpio.Level) error {
	if err := p.Out(l); err != nil {
		return &IOError{Pin: p.Name(), Op: "drive " + l.String(), Err: err}
	}
	return nil
}
