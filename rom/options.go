package rom

import "time"

// Timing requirements shared by both chip variants. Waits may be longer,
// never shorter.
const (
	// AccessDelay is the address-to-data settle time of a read
	AccessDelay = time.Microsecond

	// SettleDelay is the margin around enable and program transitions
	SettleDelay = 2 * time.Microsecond

	// ProgramPulse is the nominal program pulse width
	ProgramPulse = time.Millisecond

	// OverprogramPulse is the width of each pulse applied after a
	// successful verify
	OverprogramPulse = 3 * time.Millisecond

	// DefaultMaxAttempts is the number of program pulses tried before a
	// byte is given up
	DefaultMaxAttempts = 25
)

// Config holds the device configuration.
type Config struct {
	// ProgressCallback is called during bulk operations (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger Logger

	// Delayer implements the chip timing waits
	Delayer Delayer

	// MaxAttempts is the number of program pulses tried per byte
	MaxAttempts int

	// ProgramPulse is the width of each program pulse
	ProgramPulse time.Duration

	// OverprogramPulse is the width of each overprogram pulse
	OverprogramPulse time.Duration
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Delayer:          BusyWait{},
		MaxAttempts:      DefaultMaxAttempts,
		ProgramPulse:     ProgramPulse,
		OverprogramPulse: OverprogramPulse,
	}
}

func newConfig(opts []Option) Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option is a functional option for configuring a device or a bulk
// operation.
type Option func(*Config)

// WithProgressCallback sets a callback function to track bulk progress.
//
// Example:
//
//	n, err := rom.Program(dev, image, 0, 0x2000,
//	    rom.WithProgressCallback(func(p rom.Progress) {
//	        fmt.Printf("%.1f%% complete\n", p.Percentage)
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for device operations.
//
// Example:
//
//	dev := rom.NewEPROM(bus, pins, rom.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithDelayer replaces the busy-wait timing source.
//
// Example:
//
//	clock := sim.NewClock()
//	dev := rom.NewEPROM(bus, pins, rom.WithDelayer(clock))
func WithDelayer(d Delayer) Option {
	return func(c *Config) {
		if d != nil {
			c.Delayer = d
		}
	}
}

// WithMaxAttempts sets the number of program pulses tried per byte.
// Values outside 1..255 are ignored.
func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		if n > 0 && n <= 255 {
			c.MaxAttempts = n
		}
	}
}

// WithPulseWidths lengthens the program and overprogram pulses. Widths
// shorter than ProgramPulse and OverprogramPulse are ignored.
func WithPulseWidths(program, overprogram time.Duration) Option {
	return func(c *Config) {
		if program >= ProgramPulse {
			c.ProgramPulse = program
		}
		if overprogram >= OverprogramPulse {
			c.OverprogramPulse = overprogram
		}
	}
}
