// Package timer implements the CHIP-8 delay and sound timers.
// Both are 8 bit down counters which the host decrements at
// a fixed logical rate (TickHz) independent of how fast
// instructions execute. Nothing here looks at wall clock time.
package timer

import (
	"github.com/jmchacon/chip8/io"
)

// TickHz is the rate hosts are expected to call Tick() at.
const TickHz = 60

var _ = io.PortOut1(&out{})

// out holds the state of the sound output line.
type out struct {
	t *Timers
}

// Output implements the interface for io.PortOut1 and is
// true while the sound timer is non-zero.
func (o *out) Output() bool {
	return o.t.sound > 0
}

// Timers holds the delay and sound timers.
type Timers struct {
	ticks     int // Total number of Tick() calls since PowerOn.
	delay     uint8
	sound     uint8
	soundLine *out
}

// New returns powered on timers.
func New() *Timers {
	t := &Timers{}
	t.soundLine = &out{t}
	t.PowerOn()
	return t
}

// PowerOn zeroes both timers.
func (t *Timers) PowerOn() {
	t.ticks = 0
	t.delay = 0
	t.sound = 0
}

// Tick decrements both timers by one. Neither goes below zero.
func (t *Timers) Tick() {
	t.ticks++
	if t.delay > 0 {
		t.delay--
	}
	if t.sound > 0 {
		t.sound--
	}
}

// Delay returns the current delay timer value.
func (t *Timers) Delay() uint8 {
	return t.delay
}

// SetDelay loads the delay timer.
func (t *Timers) SetDelay(v uint8) {
	t.delay = v
}

// Sound returns the current sound timer value.
func (t *Timers) Sound() uint8 {
	return t.sound
}

// SetSound loads the sound timer.
func (t *Timers) SetSound(v uint8) {
	t.sound = v
}

// SoundLine returns the output line an audio backend polls to decide
// whether the tone should be playing.
func (t *Timers) SoundLine() io.PortOut1 {
	return t.soundLine
}

// Ticks returns the number of ticks since power on.
func (t *Timers) Ticks() int {
	return t.ticks
}
