package keypad

import (
	"testing"
)

func TestPad(t *testing.T) {
	t.Parallel()
	p := &Pad{}
	p.Set(0x3, true)
	p.Set(0xF, true)
	p.Set(0x13, true) // Only the low nibble matters.
	if got, want := p.State(), uint16(0x8008); got != want {
		t.Errorf("Wrong state. Got %.4X and want %.4X", got, want)
	}
	if !p.Pressed(0x3) || !p.Pressed(0xF) || p.Pressed(0x4) {
		t.Errorf("Pressed disagrees with state %.4X", p.State())
	}
	p.Set(0x3, false)
	if p.Pressed(0x3) {
		t.Error("Key 3 still pressed after release")
	}
	p.Load(0x0101)
	if got, want := p.State(), uint16(0x0101); got != want {
		t.Errorf("Load didn't replace state. Got %.4X and want %.4X", got, want)
	}
	p.PowerOn()
	if got := p.State(); got != 0 {
		t.Errorf("PowerOn left keys down: %.4X", got)
	}
}

func TestKeyFor(t *testing.T) {
	tests := []struct {
		r    rune
		want uint8
		ok   bool
	}{
		{'x', 0x0, true},
		{'1', 0x1, true},
		{'4', 0xC, true},
		{'Q', 0x4, true},
		{'v', 0xF, true},
		{'f', 0xE, true},
		{'p', 0, false},
		{' ', 0, false},
	}
	for _, test := range tests {
		got, ok := KeyFor(test.r)
		if ok != test.ok || got != test.want {
			t.Errorf("KeyFor(%q) = %X, %t want %X, %t", test.r, got, ok, test.want, test.ok)
		}
	}
}
