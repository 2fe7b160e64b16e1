// Package io defines the basic interfaces for wiring
// host input and output lines into the CHIP-8 machine.
// Inputs are polled by the machine when it needs them (the keypad
// at the start of each frame) and outputs are polled by the host
// (the sound line once per rendered frame). Nothing here blocks.
package io

// PortIn1 defines a single input line (such as one key). True == pressed/high.
type PortIn1 interface {
	// Input returns the current state of the line.
	Input() bool
}

// PortIn16 defines a 16 line input port. Bit N corresponds to line N.
type PortIn16 interface {
	// Input will return the current value being set on the given input port.
	Input() uint16
}

// PortOut1 defines a single output line.
type PortOut1 interface {
	// Output returns the current state of the line.
	Output() bool
}

// Lines16 adapts 16 individual input lines into a PortIn16. Nil entries read as low.
type Lines16 [16]PortIn1

// Input implements PortIn16.
func (l *Lines16) Input() uint16 {
	var out uint16
	for i, p := range l {
		if p != nil && p.Input() {
			out |= 1 << uint(i)
		}
	}
	return out
}
