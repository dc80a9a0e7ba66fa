//go:build rom6540

package main

import (
	"github.com/moffa90/go-romtool/board"
	"github.com/moffa90/go-romtool/rom"
	"github.com/moffa90/go-romtool/sim"
)

const (
	chipName = "6540"
	chipSize = rom.MaskROMSize
)

// openChip builds the mask ROM on the board. It cannot be programmed.
func openChip(b *board.Board, opts ...rom.Option) (rom.Reader, rom.Writer, error) {
	chip, err := b.MaskROM(opts...)
	if err != nil {
		return nil, nil, err
	}
	return chip, nil, nil
}

// simulateChip builds the mask ROM on a simulated socket holding image.
func simulateChip(image []byte, opts ...rom.Option) (rom.Reader, rom.Writer) {
	clock := sim.NewClock()
	socket := sim.NewMaskROM(clock, image)
	return rom.NewMaskROM(socket, socket.Clock(), append(opts, rom.WithDelayer(clock))...), nil
}
