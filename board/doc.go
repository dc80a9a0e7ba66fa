// Package board wires the chip socket to host GPIO pins through periph.io.
//
// # Overview
//
// A Board owns the address port, the eight data pins and the control lines
// named in a config.Pins. It implements rom.Bus, so the chip drivers in the
// rom package run on it unchanged:
//
//	b, err := board.Open(cfg.Pins)
//	if err != nil {
//	    return err
//	}
//	chip, err := b.EPROM(rom.WithLogger(logger))
//
// Open initialises the periph host drivers first. Lookup skips that step and
// only resolves names in gpioreg, which is what tests use with gpiotest pins.
//
// # Address Port
//
// Address pins are indexed by port bit. Port bits without a pin are dropped,
// which masks the port value to the wired width.
package board
