package rom

import "time"

// Progress phases.
const (
	PhaseReading     = "reading"
	PhaseProgramming = "programming"
	PhaseComplete    = "complete"
)

// Progress contains information about a bulk Copy or Program call.
// Passed to ProgressCallback during those operations.
type Progress struct {
	// Phase is one of PhaseReading, PhaseProgramming or PhaseComplete
	Phase string

	// Address is the next address to be processed
	Address uint32

	// Done is the number of addresses processed so far
	Done int

	// Total is the number of addresses in the range
	Total int

	// Failed is the number of bytes that failed to verify so far
	Failed int

	// Percentage is the completion percentage (0.0 to 100.0)
	Percentage float64

	// ElapsedTime is the time elapsed since the operation started
	ElapsedTime time.Duration
}

// ProgressCallback is called every ProgressInterval addresses and once on
// completion. Implementations should return quickly: programming timing is
// not affected, but the whole transfer is slowed down.
type ProgressCallback func(Progress)

// ProgressInterval is the number of addresses between progress reports.
const ProgressInterval = 256

// Logger is an optional logging interface that can be provided to a device.
// This allows integration with any logging framework.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
