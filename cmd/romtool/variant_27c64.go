//go:build !rom6540

package main

import (
	"github.com/moffa90/go-romtool/board"
	"github.com/moffa90/go-romtool/rom"
	"github.com/moffa90/go-romtool/sim"
)

const (
	chipName = "27C64A"
	chipSize = rom.EPROMSize
)

// openChip builds the EPROM on the board. It reads and programs.
func openChip(b *board.Board, opts ...rom.Option) (rom.Reader, rom.Writer, error) {
	chip, err := b.EPROM(opts...)
	if err != nil {
		return nil, nil, err
	}
	return chip, chip, nil
}

// simulateChip builds the EPROM on a simulated socket holding image.
func simulateChip(image []byte, opts ...rom.Option) (rom.Reader, rom.Writer) {
	clock := sim.NewClock()
	socket := sim.NewEPROM(clock)
	if image != nil {
		socket.Load(image)
	}
	chip := rom.NewEPROM(socket, socket.Pins(), append(opts, rom.WithDelayer(clock))...)
	return chip, chip
}
