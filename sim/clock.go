package sim

import "time"

// Clock is a virtual time source implementing rom.Delayer.
type Clock struct {
	now    time.Duration
	delays map[time.Duration]int
}

// NewClock returns a clock at time zero.
func NewClock() *Clock {
	return &Clock{delays: make(map[time.Duration]int)}
}

// Delay advances the clock by d without blocking.
func (c *Clock) Delay(d time.Duration) {
	c.now += d
	c.delays[d]++
}

// Now returns the virtual time elapsed since NewClock.
func (c *Clock) Now() time.Duration {
	return c.now
}

// Delays returns how many times Delay was called with d.
func (c *Clock) Delays(d time.Duration) int {
	return c.delays[d]
}
