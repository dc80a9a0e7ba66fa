// Package sim simulates the chips driven by package rom, for tests and for
// running the console without hardware.
//
// A Clock replaces the busy-wait Delayer: time only advances when the
// driver waits, so a full 27C64 program cycle runs in milliseconds of real
// time. The chip models observe their control lines against that clock and
// check the timing a real part needs: a read only returns data once the
// access time has elapsed, and a program pulse shorter than rom.ProgramPulse
// does not charge the cell.
//
//	clock := sim.NewClock()
//	chip := sim.NewEPROM(clock)
//	dev := rom.NewEPROM(chip, chip.Pins(), rom.WithDelayer(clock))
package sim
