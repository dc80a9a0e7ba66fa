package sim

import (
	"errors"
	"time"

	"github.com/moffa90/go-romtool/rom"
	"periph.io/x/conn/v3/gpio"
)

// EPROMAddressMask selects the 27C64 address bits of the port value.
const EPROMAddressMask = 0x7ffc

// Erased is the value of every cell of an erased EPROM.
const Erased = 0xFF

// ErrBusContention is returned when the data bus is driven while the chip
// drives it too.
var ErrBusContention = errors.New("sim: data bus driven by programmer and chip")

// Pulse is one program pulse seen by the chip.
type Pulse struct {
	Width time.Duration
	// Data is the data bus value when /PGM rose
	Data byte
	// Valid is false for pulses too short, with the chip not selected or
	// the data bus not holding a written value
	Valid bool
}

// EPROM models a 27C64A. It implements rom.Bus; Pins returns its control
// lines.
//
// Programming only clears bits. A cell takes the driven data after it has
// received PulsesNeeded valid program pulses; a valid pulse is at least
// rom.ProgramPulse wide with /E low, /G high and the data bus driven with a
// value written since it was switched to output.
//
// Switching the data bus to output drives zero, as the GPIO board does.
type EPROM struct {
	clock *Clock

	cells  [rom.EPROMSize]byte
	need   [rom.EPROMSize]int
	charge [rom.EPROMSize]int
	stuck  map[uint32]byte
	pulses map[uint32][]Pulse

	address uint32
	data    byte
	driven  bool
	latched bool

	g, e, pgm *Line
	gFell     time.Duration
	pgmFell   time.Duration

	busErr error
}

// NewEPROM returns an erased chip that programs each cell with one pulse.
func NewEPROM(clock *Clock) *EPROM {
	c := &EPROM{
		clock:  clock,
		stuck:  make(map[uint32]byte),
		pulses: make(map[uint32][]Pulse),
		g:      NewLine("G", gpio.High),
		e:      NewLine("E", gpio.High),
		pgm:    NewLine("PGM", gpio.High),
	}
	c.g.onChange = c.outputEnableChanged
	c.pgm.onChange = c.programChanged
	c.Erase()
	return c
}

// Pins returns the chip's control lines.
func (c *EPROM) Pins() rom.EPROMPins {
	return rom.EPROMPins{
		OutputEnable: c.g,
		ChipEnable:   c.e,
		Program:      c.pgm,
	}
}

// Lines returns the /G, /E and /PGM lines for inspection.
func (c *EPROM) Lines() (g, e, pgm *Line) {
	return c.g, c.e, c.pgm
}

// Erase sets every cell to Erased and clears pulse history, as UV light
// would. Pulse requirements and stuck bits are kept.
func (c *EPROM) Erase() {
	for i := range c.cells {
		c.cells[i] = Erased
		c.charge[i] = 0
		if c.need[i] == 0 {
			c.need[i] = 1
		}
	}
	c.pulses = make(map[uint32][]Pulse)
}

// Load overwrites the cells starting at 0, bypassing the program algorithm.
func (c *EPROM) Load(image []byte) {
	copy(c.cells[:], image)
}

// Cells returns a copy of the cell array.
func (c *EPROM) Cells() []byte {
	out := make([]byte, len(c.cells))
	copy(out, c.cells[:])
	return out
}

// Cell returns the value of one cell.
func (c *EPROM) Cell(addr uint32) byte {
	return c.cells[addr]
}

// SetPulsesNeeded makes the cell at addr need n valid pulses to program.
func (c *EPROM) SetPulsesNeeded(addr uint32, n int) {
	c.need[addr] = n
}

// Stick makes the bits of mask at addr impossible to program to 0.
func (c *EPROM) Stick(addr uint32, mask byte) {
	c.stuck[addr] = mask
}

// Pulses returns every program pulse applied at addr, valid or not.
func (c *EPROM) Pulses(addr uint32) []Pulse {
	return c.pulses[addr]
}

// PulseWidths returns the widths of every program pulse applied at addr,
// valid or not.
func (c *EPROM) PulseWidths(addr uint32) []time.Duration {
	var widths []time.Duration
	for _, p := range c.pulses[addr] {
		widths = append(widths, p.Width)
	}
	return widths
}

// PulseData returns the data bus value seen by every valid program pulse
// at addr.
func (c *EPROM) PulseData(addr uint32) []byte {
	var data []byte
	for _, p := range c.pulses[addr] {
		if p.Valid {
			data = append(data, p.Data)
		}
	}
	return data
}

// FailBus makes every following data bus access return err. A nil err
// clears the fault.
func (c *EPROM) FailBus(err error) {
	c.busErr = err
}

// SetAddress implements rom.Bus.
func (c *EPROM) SetAddress(port uint32) error {
	if c.busErr != nil {
		return c.busErr
	}
	c.address = (port & EPROMAddressMask) >> rom.AddressShift
	return nil
}

// WriteData implements rom.Bus.
func (c *EPROM) WriteData(v byte) error {
	if c.busErr != nil {
		return c.busErr
	}
	if !c.driven {
		return errors.New("sim: data bus written in input mode")
	}
	c.data = v
	c.latched = true
	return nil
}

// ReadData implements rom.Bus. The chip only drives valid data with /E and
// /G low for at least rom.AccessDelay; otherwise the pull-ups read 0xff.
func (c *EPROM) ReadData() (byte, error) {
	if c.busErr != nil {
		return 0, c.busErr
	}
	if c.driven {
		return c.data, nil
	}
	if !c.outputting() || c.clock.Now()-c.gFell < rom.AccessDelay {
		return Erased, nil
	}
	return c.cells[c.address], nil
}

// DataOutput implements rom.Bus.
func (c *EPROM) DataOutput() error {
	if c.busErr != nil {
		return c.busErr
	}
	if c.outputting() {
		return ErrBusContention
	}
	c.driven = true
	c.data = 0
	c.latched = false
	return nil
}

// DataInput implements rom.Bus.
func (c *EPROM) DataInput() error {
	if c.busErr != nil {
		return c.busErr
	}
	c.driven = false
	return nil
}

func (c *EPROM) outputting() bool {
	return c.e.Level() == gpio.Low && c.g.Level() == gpio.Low
}

func (c *EPROM) outputEnableChanged(l gpio.Level) {
	if l == gpio.Low {
		c.gFell = c.clock.Now()
	}
}

func (c *EPROM) programChanged(l gpio.Level) {
	if l == gpio.Low {
		c.pgmFell = c.clock.Now()
		return
	}

	p := Pulse{
		Width: c.clock.Now() - c.pgmFell,
		Data:  c.data,
		Valid: c.driven && c.latched,
	}
	if p.Width < rom.ProgramPulse || c.e.Level() != gpio.Low || c.g.Level() != gpio.High {
		p.Valid = false
	}
	c.pulses[c.address] = append(c.pulses[c.address], p)
	if !p.Valid {
		return
	}

	c.charge[c.address]++
	if c.charge[c.address] >= c.need[c.address] {
		c.cells[c.address] &= c.data | c.stuck[c.address]
	}
}
