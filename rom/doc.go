// Package rom drives parallel ROM and EPROM chips through an address bus, a
// data bus and a handful of active-low control lines.
//
// # Overview
//
// Two chip variants are supported, and a build wires exactly one of them:
//   - MaskROM: a 6540 2K x 8 mask ROM. Read only; each read is clocked.
//   - EPROM: a 27C64A 8K x 8 EPROM. Read and program.
//
// Both variants present the logical address shifted left by AddressShift
// bits, the two low bits of the physical port being unused.
//
// # Interfaces
//
// The variants are exposed through two capability sets:
//
//	type Reader interface {
//	    Size() int
//	    Get(addr uint32) (byte, error)
//	}
//
//	type Writer interface {
//	    Reader
//	    Put(addr uint32, v byte) error
//	}
//
// *MaskROM implements Reader only, *EPROM implements Writer.
//
// # Basic Usage
//
//	dev := rom.NewEPROM(bus, rom.EPROMPins{
//	    OutputEnable: g,
//	    ChipEnable:   e,
//	    Program:      pgm,
//	}, rom.WithLogger(myLogger))
//
//	image := make([]byte, dev.Size())
//	if err := rom.Copy(dev, image, 0, uint32(dev.Size())); err != nil {
//	    log.Fatal(err)
//	}
//
//	n, err := rom.Program(dev, image, 0, uint32(dev.Size()))
//	if n != dev.Size() {
//	    // some bytes failed to verify; err lists them
//	}
//
// # Programming Algorithm
//
// Put applies 1ms program pulses, reading the cell back after each one, for
// at most 25 attempts. Once the read-back matches, it applies one 3ms
// overprogram pulse for every pulse that failed to verify, so a cell that
// took longer to charge receives more margin. The byte is written to the
// data bus again before each retry and before the overprogram pulses, since
// the bus is floated for every verify read.
//
// # Timing
//
// All waits go through a Delayer. The default BusyWait spins on the
// monotonic clock and never returns early. Tests substitute a virtual clock
// (see package sim) so the programming algorithm runs without real delays.
//
// # Error Handling
//
// The package provides structured error types:
//   - AddressError: address outside the chip
//   - VerifyError: a byte failed to verify after all attempts
//   - ProgramError: every VerifyError of a bulk Program call
//
// Pin and bus faults are returned wrapped and abort the operation.
//
// Devices are not safe for concurrent use: they share one bus.
package rom
