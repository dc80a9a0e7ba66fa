package console

import "github.com/moffa90/go-romtool/rom"

// Version is reported by the V command.
const Version = "1.00"

// Config holds the session configuration.
type Config struct {
	// Programmer programs the chip; nil on read-only builds
	Programmer rom.Writer

	// Green is lit while reading or transferring (optional)
	Green rom.Line

	// Blue is lit while programming (optional)
	Blue rom.Line

	// Logger is used for logging operations (optional)
	Logger rom.Logger

	// Banner is printed when the session starts and by the V command
	Banner string

	// BulkOptions are passed to rom.Copy and rom.Program
	BulkOptions []rom.Option
}

func defaultConfig() Config {
	return Config{
		Banner: "ROMtool v. " + Version,
	}
}

// Option is a functional option for configuring a Session.
type Option func(*Config)

// WithProgrammer enables the P command. It must be the same chip as the
// session's reader.
func WithProgrammer(w rom.Writer) Option {
	return func(c *Config) {
		c.Programmer = w
	}
}

// WithIndicators sets the status LEDs. Either may be nil.
func WithIndicators(green, blue rom.Line) Option {
	return func(c *Config) {
		c.Green = green
		c.Blue = blue
	}
}

// WithLogger sets a logger for session operations.
func WithLogger(logger rom.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithBulkOptions passes options such as rom.WithProgressCallback to the
// bulk chip operations.
func WithBulkOptions(opts ...rom.Option) Option {
	return func(c *Config) {
		c.BulkOptions = append(c.BulkOptions, opts...)
	}
}
