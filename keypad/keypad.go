// Package keypad holds the state of the 16 key CHIP-8 hex keypad
// and the conventional mapping of it onto a modern keyboard.
package keypad

import "unicode"

// Keys is the number of keys on the pad (0x0-0xF).
const Keys = 16

// QWERTYLayout maps each keypad key to the host key conventionally used for it.
// The physical 4x4 pad
//
//	1 2 3 C
//	4 5 6 D
//	7 8 9 E
//	A 0 B F
//
// lands on the left hand block 1234/QWER/ASDF/ZXCV.
var QWERTYLayout = [Keys]rune{
	'x', '1', '2', '3',
	'q', 'w', 'e', 'a',
	's', 'd', 'z', 'c',
	'4', 'r', 'f', 'v',
}

// KeyFor returns the keypad key bound to r in QWERTYLayout (case insensitive).
func KeyFor(r rune) (uint8, bool) {
	r = unicode.ToLower(r)
	for k, h := range QWERTYLayout {
		if h == r {
			return uint8(k), true
		}
	}
	return 0, false
}

// Pad is the keypad state vector. True == pressed.
type Pad struct {
	keys [Keys]bool
}

// PowerOn releases every key.
func (p *Pad) PowerOn() {
	p.keys = [Keys]bool{}
}

// Set updates key k (low nibble only) to the given state.
func (p *Pad) Set(k uint8, pressed bool) {
	p.keys[k&0x0F] = pressed
}

// Pressed returns whether key k (low nibble only) is down.
func (p *Pad) Pressed(k uint8) bool {
	return p.keys[k&0x0F]
}

// State returns the pad as a bitmask, bit N == key N.
func (p *Pad) State() uint16 {
	var out uint16
	for k, v := range p.keys {
		if v {
			out |= 1 << uint(k)
		}
	}
	return out
}

// Load sets every key from a bitmask, bit N == key N.
func (p *Pad) Load(state uint16) {
	for k := range p.keys {
		p.keys[k] = state&(1<<uint(k)) != 0
	}
}
