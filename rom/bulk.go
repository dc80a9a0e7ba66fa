package rom

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/moffa90/go-romtool/protocol"
)

// Reader is a chip that can be read.
type Reader interface {
	// Size returns the chip capacity in bytes
	Size() int

	// Get reads the byte at addr
	Get(addr uint32) (byte, error)
}

// Writer is a chip that can also be programmed.
type Writer interface {
	Reader

	// Put programs and verifies the byte at addr
	Put(addr uint32, v byte) error
}

// Copy reads [start, end) from dev into buf, buf[0] holding start.
//
// Example:
//
//	image := make([]byte, dev.Size())
//	err := rom.Copy(dev, image, 0, uint32(dev.Size()))
func Copy(dev Reader, buf []byte, start, end uint32, opts ...Option) error {
	if err := checkRange(dev, buf, start, end); err != nil {
		return err
	}

	cfg := newConfig(opts)
	t := newTracker(&cfg, PhaseReading, start, end)
	for addr := start; addr != end; addr++ {
		v, err := dev.Get(addr)
		if err != nil {
			return err
		}
		buf[addr-start] = v
		t.step(addr+1, 0)
	}
	t.complete(0)

	return nil
}

// Program programs buf into [start, end) of dev, buf[0] going to start, and
// returns the number of bytes that verified.
//
// A byte that fails to verify does not stop the operation: the remaining
// addresses are still programmed and the failures are returned together as
// a *ProgramError. Callers must compare the count with end-start. Any other
// error is a bus fault and aborts immediately.
func Program(dev Writer, buf []byte, start, end uint32, opts ...Option) (int, error) {
	if err := checkRange(dev, buf, start, end); err != nil {
		return 0, err
	}

	cfg := newConfig(opts)
	t := newTracker(&cfg, PhaseProgramming, start, end)
	count := 0
	var failures []*VerifyError
	for addr := start; addr != end; addr++ {
		err := dev.Put(addr, buf[addr-start])
		var verr *VerifyError
		switch {
		case err == nil:
			count++
		case errors.As(err, &verr):
			failures = append(failures, verr)
		default:
			return count, err
		}
		t.step(addr+1, len(failures))
	}
	t.complete(len(failures))

	cfg.logInfo("programming complete",
		"programmed", count,
		"failed", len(failures),
		"elapsed", t.elapsed().String(),
	)

	if len(failures) > 0 {
		return count, &ProgramError{Failures: failures}
	}
	return count, nil
}

// Dump writes [start, end) of dev to w in the hex transfer format, reading
// the chip directly.
func Dump(w io.Writer, dev Reader, start, end uint32) error {
	if end > uint32(dev.Size()) || start > end {
		return fmt.Errorf("invalid range 0x%04x-0x%04x for a 0x%04x byte chip", start, end, dev.Size())
	}
	return protocol.DumpFunc(w, start, end, dev.Get)
}

func checkRange(dev Reader, buf []byte, start, end uint32) error {
	if start > end || end > uint32(dev.Size()) {
		return fmt.Errorf("invalid range 0x%04x-0x%04x for a 0x%04x byte chip", start, end, dev.Size())
	}
	if len(buf) < int(end-start) {
		return fmt.Errorf("buffer too small: got %d bytes, need %d", len(buf), end-start)
	}
	return nil
}

// tracker reports bulk progress.
type tracker struct {
	cfg        *Config
	phase      string
	start, end uint32
	began      time.Time
}

func newTracker(cfg *Config, phase string, start, end uint32) *tracker {
	return &tracker{cfg: cfg, phase: phase, start: start, end: end, began: time.Now()}
}

func (t *tracker) step(next uint32, failed int) {
	if (next-t.start)%ProgressInterval == 0 && next != t.end {
		t.report(t.phase, next, failed)
	}
}

func (t *tracker) complete(failed int) {
	t.report(PhaseComplete, t.end, failed)
}

func (t *tracker) report(phase string, next uint32, failed int) {
	if t.cfg.ProgressCallback == nil {
		return
	}

	total := int(t.end - t.start)
	done := int(next - t.start)
	percentage := 100.0
	if total > 0 {
		percentage = float64(done) / float64(total) * 100
	}
	t.cfg.ProgressCallback(Progress{
		Phase:       phase,
		Address:     next,
		Done:        done,
		Total:       total,
		Failed:      failed,
		Percentage:  percentage,
		ElapsedTime: t.elapsed(),
	})
}

func (t *tracker) elapsed() time.Duration {
	return time.Since(t.began)
}

// logDebug logs a debug message if a logger is configured.
func (c *Config) logDebug(msg string, keysAndValues ...interface{}) {
	if c.Logger != nil {
		c.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (c *Config) logInfo(msg string, keysAndValues ...interface{}) {
	if c.Logger != nil {
		c.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (c *Config) logError(msg string, keysAndValues ...interface{}) {
	if c.Logger != nil {
		c.Logger.Error(msg, keysAndValues...)
	}
}
