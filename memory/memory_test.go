package memory

import (
	"errors"
	"testing"

	"github.com/go-test/deep"
)

func TestPowerOn(t *testing.T) {
	t.Parallel()
	r := New()
	for i, b := range Font {
		if got, want := r.Read(FontStart+uint16(i)), b; got != want {
			t.Errorf("Font byte %d wrong. Got %.2X and want %.2X", i, got, want)
		}
	}
	for _, a := range []uint16{0x000, 0x04F, 0x0A0, ProgramStart, Size - 1} {
		if got := r.Read(a); got != 0 {
			t.Errorf("%.3X not zero after power on: %.2X", a, got)
		}
	}
}

func TestFontProtected(t *testing.T) {
	t.Parallel()
	r := New()
	for a := FontStart; a < FontStart+uint16(len(Font)); a++ {
		r.Write(a, 0xAA)
	}
	// Writes just outside the table still land.
	r.Write(FontStart-1, 0x11)
	r.Write(FontStart+uint16(len(Font)), 0x22)
	for i, b := range Font {
		if got, want := r.Read(FontStart+uint16(i)), b; got != want {
			t.Errorf("Font byte %d overwritten. Got %.2X and want %.2X", i, got, want)
		}
	}
	if got, want := r.Read(FontStart-1), uint8(0x11); got != want {
		t.Errorf("Write below font dropped. Got %.2X and want %.2X", got, want)
	}
	if got, want := r.Read(FontStart+uint16(len(Font))), uint8(0x22); got != want {
		t.Errorf("Write above font dropped. Got %.2X and want %.2X", got, want)
	}
}

func TestWrap(t *testing.T) {
	t.Parallel()
	r := New()
	r.Write(0x1300, 0x5A)
	if got, want := r.Read(0x300), uint8(0x5A); got != want {
		t.Errorf("Write didn't wrap. Got %.2X and want %.2X", got, want)
	}
	r.Write(Size-1, 0x12)
	r.Write(0x000, 0x34)
	if got, want := ReadOpcode(r, Size-1), uint16(0x1234); got != want {
		t.Errorf("Opcode fetch didn't wrap. Got %.4X and want %.4X", got, want)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr error
	}{
		{
			name: "empty",
			size: 0,
		},
		{
			name: "max",
			size: MaxProgramSize,
		},
		{
			name:    "too large",
			size:    MaxProgramSize + 1,
			wantErr: ProgramTooLarge{Size: MaxProgramSize + 1, Max: MaxProgramSize},
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			rom := make([]uint8, test.size)
			for i := range rom {
				rom[i] = uint8(i) | 1
			}
			r := New()
			err := r.Load(rom)
			if test.wantErr != nil {
				var p ProgramTooLarge
				if !errors.As(err, &p) {
					t.Fatalf("Didn't get ProgramTooLarge. Got %v", err)
				}
				if diff := deep.Equal(p, test.wantErr); diff != nil {
					t.Errorf("Wrong error: %v", diff)
				}
				if got := r.Read(ProgramStart); got != 0 {
					t.Errorf("Memory modified by failed load: %.2X", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			for i, b := range rom {
				if got, want := r.Read(ProgramStart+uint16(i)), b; got != want {
					t.Fatalf("Byte %d wrong. Got %.2X and want %.2X", i, got, want)
				}
			}
		})
	}
}

func TestFontAddr(t *testing.T) {
	t.Parallel()
	for d := 0; d < 0x20; d++ {
		if got, want := FontAddr(uint8(d)), FontStart+uint16(d&0x0F)*FontGlyphSize; got != want {
			t.Errorf("Digit %X wrong. Got %.3X and want %.3X", d, got, want)
		}
	}
}
