package rom_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/moffa90/go-romtool/rom"
	"github.com/moffa90/go-romtool/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
)

// MockLogger records messages for testing
type MockLogger struct {
	debugMsgs []string
	infoMsgs  []string
	errorMsgs []string
}

func (l *MockLogger) Debug(msg string, kv ...interface{}) {
	l.debugMsgs = append(l.debugMsgs, msg)
}

func (l *MockLogger) Info(msg string, kv ...interface{}) {
	l.infoMsgs = append(l.infoMsgs, msg)
}

func (l *MockLogger) Error(msg string, kv ...interface{}) {
	l.errorMsgs = append(l.errorMsgs, msg)
}

func newEPROM(opts ...rom.Option) (*rom.EPROM, *sim.EPROM, *sim.Clock) {
	clock := sim.NewClock()
	chip := sim.NewEPROM(clock)
	opts = append([]rom.Option{rom.WithDelayer(clock)}, opts...)
	return rom.NewEPROM(chip, chip.Pins(), opts...), chip, clock
}

func newMaskROM(contents []byte) (*rom.MaskROM, *sim.MaskROM) {
	clock := sim.NewClock()
	chip := sim.NewMaskROM(clock, contents)
	return rom.NewMaskROM(chip, chip.Clock(), rom.WithDelayer(clock)), chip
}

func pattern(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*13 + 7)
	}
	return b
}

func TestNewPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { rom.NewMaskROM(nil, sim.NewLine("phi2", gpio.Low)) })
	assert.Panics(t, func() { rom.NewEPROM(sim.NewEPROM(sim.NewClock()), rom.EPROMPins{}) })
}

func TestEPROMPutThenGet(t *testing.T) {
	dev, chip, _ := newEPROM()

	tests := []struct {
		addr  uint32
		value byte
	}{
		{0x0000, 0x00},
		{0x0001, 0xFF},
		{0x0100, 0x5A},
		{0x1FFF, 0xA5},
	}

	for _, tt := range tests {
		require.NoError(t, dev.Put(tt.addr, tt.value), "Put(0x%04x)", tt.addr)

		got, err := dev.Get(tt.addr)
		require.NoError(t, err)
		assert.Equal(t, tt.value, got, "Get(0x%04x)", tt.addr)
		assert.Equal(t, tt.value, chip.Cell(tt.addr), "cell 0x%04x", tt.addr)
	}
}

func TestEPROMGetLeavesOutputDisabled(t *testing.T) {
	dev, chip, _ := newEPROM()
	chip.Load([]byte{0x12, 0x34})

	got, err := dev.Get(1)
	require.NoError(t, err)
	assert.Equal(t, byte(0x34), got)

	g, e, pgm := chip.Lines()
	assert.Equal(t, gpio.High, g.Level(), "/G")
	assert.Equal(t, gpio.Low, e.Level(), "/E")
	assert.Equal(t, gpio.High, pgm.Level(), "/PGM")
}

func TestEPROMPutIdempotent(t *testing.T) {
	dev, chip, _ := newEPROM()

	require.NoError(t, dev.Put(0x42, 0x3C))
	require.NoError(t, dev.Put(0x42, 0x3C))

	// one verified pulse per call, no overprogramming
	assert.Equal(t, []time.Duration{rom.ProgramPulse, rom.ProgramPulse}, chip.PulseWidths(0x42))
	assert.Equal(t, byte(0x3C), chip.Cell(0x42))
}

func TestEPROMOverprogram(t *testing.T) {
	tests := []struct {
		name   string
		needed int
		want   []time.Duration
	}{
		{
			name:   "first pulse verifies",
			needed: 1,
			want:   []time.Duration{rom.ProgramPulse},
		},
		{
			name:   "third pulse verifies",
			needed: 3,
			want: []time.Duration{
				rom.ProgramPulse, rom.ProgramPulse, rom.ProgramPulse,
				rom.OverprogramPulse, rom.OverprogramPulse,
			},
		},
		{
			name:   "last attempt verifies",
			needed: rom.DefaultMaxAttempts,
			want: func() []time.Duration {
				var w []time.Duration
				for i := 0; i < rom.DefaultMaxAttempts; i++ {
					w = append(w, rom.ProgramPulse)
				}
				for i := 0; i < rom.DefaultMaxAttempts-1; i++ {
					w = append(w, rom.OverprogramPulse)
				}
				return w
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, chip, _ := newEPROM()
			chip.SetPulsesNeeded(0x10, tt.needed)

			require.NoError(t, dev.Put(0x10, 0x5A))
			assert.Equal(t, tt.want, chip.PulseWidths(0x10))
			assert.Equal(t, byte(0x5A), chip.Cell(0x10))

			// every pulse, retries and overprogramming included, saw the byte
			data := chip.PulseData(0x10)
			require.Len(t, data, len(tt.want))
			for i, d := range data {
				assert.Equal(t, byte(0x5A), d, "pulse %d", i)
			}
		})
	}
}

func TestEPROMTiming(t *testing.T) {
	dev, chip, clock := newEPROM()

	require.NoError(t, dev.Put(0, 0x55))
	// 3 settles, 1 pulse + recovery, access, settle, final settle
	assert.Equal(t, 1013*time.Microsecond, clock.Now())

	chip.SetPulsesNeeded(1, 3)
	before := clock.Now()
	require.NoError(t, dev.Put(1, 0x55))
	// three pulses with verify reads, two re-drives before retries, one
	// re-drive and two overprogram pulses
	assert.Equal(t, 9033*time.Microsecond, clock.Now()-before)

	before = clock.Now()
	_, err := dev.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 2*rom.AccessDelay, clock.Now()-before)
}

func TestEPROMVerifyFailure(t *testing.T) {
	log := &MockLogger{}
	dev, chip, _ := newEPROM(rom.WithLogger(log))
	chip.Stick(0x200, 0x01)

	err := dev.Put(0x200, 0x00)
	var verr *rom.VerifyError
	require.True(t, errors.As(err, &verr), "Put() error = %v", err)
	assert.Equal(t, &rom.VerifyError{Address: 0x200, Want: 0x00, Got: 0x01}, verr)
	assert.Equal(t, "failed to program 0x200 = 0 (got 1 instead)", err.Error())

	assert.Len(t, chip.PulseWidths(0x200), rom.DefaultMaxAttempts)
	assert.Equal(t, []string{"verify failed"}, log.errorMsgs)
}

func TestEPROMNotErased(t *testing.T) {
	dev, chip, _ := newEPROM()
	chip.Load([]byte{0x0F})

	err := dev.Put(0, 0xF0)
	var verr *rom.VerifyError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, byte(0x00), verr.Got)
}

func TestEPROMOptions(t *testing.T) {
	t.Run("max attempts", func(t *testing.T) {
		dev, chip, _ := newEPROM(rom.WithMaxAttempts(5))
		chip.Stick(0, 0xFF)

		require.Error(t, dev.Put(0, 0x00))
		assert.Len(t, chip.PulseWidths(0), 5)
	})

	t.Run("invalid max attempts ignored", func(t *testing.T) {
		dev, chip, _ := newEPROM(rom.WithMaxAttempts(0), rom.WithMaxAttempts(1000))
		chip.Stick(0, 0xFF)

		require.Error(t, dev.Put(0, 0x00))
		assert.Len(t, chip.PulseWidths(0), rom.DefaultMaxAttempts)
	})

	t.Run("longer pulses", func(t *testing.T) {
		dev, chip, _ := newEPROM(rom.WithPulseWidths(2*time.Millisecond, 6*time.Millisecond))
		chip.SetPulsesNeeded(0, 2)

		require.NoError(t, dev.Put(0, 0x00))
		assert.Equal(t, []time.Duration{2 * time.Millisecond, 2 * time.Millisecond, 6 * time.Millisecond},
			chip.PulseWidths(0))
	})

	t.Run("shorter pulses ignored", func(t *testing.T) {
		dev, chip, _ := newEPROM(rom.WithPulseWidths(time.Microsecond, time.Microsecond))

		require.NoError(t, dev.Put(0, 0x00))
		assert.Equal(t, []time.Duration{rom.ProgramPulse}, chip.PulseWidths(0))
	})
}

func TestEPROMAddressOutOfRange(t *testing.T) {
	dev, _, _ := newEPROM()

	_, err := dev.Get(rom.EPROMSize)
	var aerr *rom.AddressError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, uint32(rom.EPROMSize), aerr.Address)

	require.True(t, errors.As(dev.Put(0xFFFF, 0), &aerr))
}

func TestEPROMBusFault(t *testing.T) {
	dev, chip, _ := newEPROM()
	fault := errors.New("pin stuck")
	chip.FailBus(fault)

	err := dev.Put(0, 0x00)
	assert.ErrorIs(t, err, fault)
	var verr *rom.VerifyError
	assert.False(t, errors.As(err, &verr))

	_, err = dev.Get(0)
	assert.ErrorIs(t, err, fault)
}

func TestEPROMLineFault(t *testing.T) {
	dev, chip, _ := newEPROM()
	_, _, pgm := chip.Lines()
	fault := errors.New("gpio write failed")
	pgm.Fail(fault)

	assert.ErrorIs(t, dev.Put(0, 0x00), fault)
}

// faultDelay advances the virtual clock and runs fault once the first
// program pulse has been held.
type faultDelay struct {
	clock *sim.Clock
	fault func()
}

func (d *faultDelay) Delay(dur time.Duration) {
	d.clock.Delay(dur)
	if dur == rom.ProgramPulse && d.fault != nil {
		d.fault()
		d.fault = nil
	}
}

func TestEPROMFaultLeavesChipIdle(t *testing.T) {
	fault := errors.New("gpio write failed")

	tests := []struct {
		name   string
		inject func(chip *sim.EPROM)
		pgm    gpio.Level
	}{
		{
			name:   "bus fault after pulse",
			inject: func(chip *sim.EPROM) { chip.FailBus(fault) },
			pgm:    gpio.High,
		},
		{
			name: "program line stuck low",
			inject: func(chip *sim.EPROM) {
				_, _, pgm := chip.Lines()
				pgm.Fail(fault)
			},
			pgm: gpio.Low,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := sim.NewClock()
			chip := sim.NewEPROM(clock)
			delay := &faultDelay{clock: clock, fault: func() { tt.inject(chip) }}
			dev := rom.NewEPROM(chip, chip.Pins(), rom.WithDelayer(delay))

			err := dev.Put(0x20, 0x5A)
			require.ErrorIs(t, err, fault)

			g, e, pgm := chip.Lines()
			assert.Equal(t, gpio.High, g.Level(), "/G")
			assert.Equal(t, gpio.High, e.Level(), "/E")
			assert.Equal(t, tt.pgm, pgm.Level(), "/PGM")
		})
	}
}

func TestMaskROMGet(t *testing.T) {
	contents := pattern(rom.MaskROMSize)
	dev, chip := newMaskROM(contents)

	assert.Equal(t, rom.MaskROMSize, dev.Size())
	for _, addr := range []uint32{0, 1, 0x3FF, 0x7FF} {
		got, err := dev.Get(addr)
		require.NoError(t, err)
		assert.Equal(t, contents[addr], got, "Get(0x%03x)", addr)
	}
	assert.Equal(t, gpio.Low, chip.Clock().Level(), "clock left high")

	_, err := dev.Get(rom.MaskROMSize)
	var aerr *rom.AddressError
	assert.True(t, errors.As(err, &aerr))
}

func TestCopy(t *testing.T) {
	contents := pattern(rom.MaskROMSize)
	dev, _ := newMaskROM(contents)

	image := make([]byte, rom.MaskROMSize)
	require.NoError(t, rom.Copy(dev, image, 0, rom.MaskROMSize))
	assert.Equal(t, contents, image)

	window := make([]byte, 16)
	require.NoError(t, rom.Copy(dev, window, 0x100, 0x110))
	assert.Equal(t, contents[0x100:0x110], window)

	assert.Error(t, rom.Copy(dev, image, 0, rom.MaskROMSize+1))
	assert.Error(t, rom.Copy(dev, window, 0, 32))
}

func TestProgram(t *testing.T) {
	image := pattern(0x100)

	t.Run("all bytes verify", func(t *testing.T) {
		dev, chip, _ := newEPROM()

		n, err := rom.Program(dev, image, 0x100, 0x200)
		require.NoError(t, err)
		assert.Equal(t, 0x100, n)
		assert.Equal(t, image, chip.Cells()[0x100:0x200])

		for i, want := range image {
			got, err := dev.Get(uint32(0x100 + i))
			require.NoError(t, err)
			require.Equal(t, want, got)
		}
	})

	t.Run("failures do not stop programming", func(t *testing.T) {
		dev, chip, _ := newEPROM()
		chip.Stick(0x110, 0xFF)
		chip.Stick(0x1F0, 0x80)

		n, err := rom.Program(dev, image, 0x100, 0x200)
		assert.Equal(t, 0x100-2, n)

		var perr *rom.ProgramError
		require.True(t, errors.As(err, &perr), "Program() error = %v", err)
		require.Len(t, perr.Failures, 2)
		assert.Equal(t, uint32(0x110), perr.Failures[0].Address)
		assert.Equal(t, uint32(0x1F0), perr.Failures[1].Address)

		var verr *rom.VerifyError
		assert.True(t, errors.As(err, &verr))
		assert.Contains(t, err.Error(), "2 bytes failed to program")

		// bytes after the failures were still programmed
		assert.Equal(t, image[0xFF], chip.Cell(0x1FF))
	})

	t.Run("bus fault aborts", func(t *testing.T) {
		dev, chip, _ := newEPROM()
		fault := errors.New("bus fault")
		chip.FailBus(fault)

		n, err := rom.Program(dev, image, 0x100, 0x200)
		assert.Equal(t, 0, n)
		assert.ErrorIs(t, err, fault)
	})

	t.Run("invalid range", func(t *testing.T) {
		dev, _, _ := newEPROM()

		_, err := rom.Program(dev, image, 0x1F80, 0x2080)
		assert.Error(t, err)
	})
}

func TestProgramProgress(t *testing.T) {
	dev, _, _ := newEPROM()
	log := &MockLogger{}
	var reports []rom.Progress

	n, err := rom.Program(dev, make([]byte, 512), 0, 512,
		rom.WithLogger(log),
		rom.WithProgressCallback(func(p rom.Progress) {
			reports = append(reports, p)
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, 512, n)

	require.Len(t, reports, 2)
	assert.Equal(t, rom.PhaseProgramming, reports[0].Phase)
	assert.Equal(t, 256, reports[0].Done)
	assert.InDelta(t, 50.0, reports[0].Percentage, 0.001)
	assert.Equal(t, rom.PhaseComplete, reports[1].Phase)
	assert.Equal(t, 512, reports[1].Total)
	assert.InDelta(t, 100.0, reports[1].Percentage, 0.001)

	assert.Equal(t, []string{"programming complete"}, log.infoMsgs)
}

func TestDump(t *testing.T) {
	contents := pattern(rom.MaskROMSize)
	dev, _ := newMaskROM(contents)

	var out bytes.Buffer
	require.NoError(t, rom.Dump(&out, dev, 0, rom.MaskROMSize))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	assert.Len(t, lines, rom.MaskROMSize/16)
	assert.Equal(t, "000000: 07 14 21 2e 3b 48 55 62 6f 7c 89 96 a3 b0 bd ca", lines[0])
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "0007f0:"))

	assert.Error(t, rom.Dump(&out, dev, 0, rom.MaskROMSize+16))
}
