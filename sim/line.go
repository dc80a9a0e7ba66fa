package sim

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// Line is a control output that remembers its level and calls back on
// every change.
type Line struct {
	name     string
	level    gpio.Level
	changes  int
	onChange func(gpio.Level)
	err      error
}

// NewLine returns a line resting at level.
func NewLine(name string, level gpio.Level) *Line {
	return &Line{name: name, level: level}
}

// Out implements rom.Line.
func (l *Line) Out(level gpio.Level) error {
	if l.err != nil {
		return l.err
	}
	if level == l.level {
		return nil
	}
	l.level = level
	l.changes++
	if l.onChange != nil {
		l.onChange(level)
	}
	return nil
}

// Level returns the current level.
func (l *Line) Level() gpio.Level {
	return l.level
}

// Changes returns the number of level transitions so far.
func (l *Line) Changes() int {
	return l.changes
}

// Fail makes every following Out return err. A nil err clears the fault.
func (l *Line) Fail(err error) {
	l.err = err
}

func (l *Line) String() string {
	return fmt.Sprintf("%s(%s)", l.name, l.level)
}
