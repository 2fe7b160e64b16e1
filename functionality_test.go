// Package functionality does basic end-end verification
// of the CHIP-8 machine running small hand assembled programs.
package functionality

import (
	"encoding/hex"
	"testing"

	"github.com/jmchacon/chip8/chip8"
	"github.com/jmchacon/chip8/cpu"
	"github.com/jmchacon/chip8/memory"
	"github.com/retroenv/retrogolib/log"
)

func rom(ops ...uint16) []uint8 {
	var b []uint8
	for _, op := range ops {
		b = append(b, uint8(op>>8), uint8(op))
	}
	return b
}

// run executes frames until done returns true, failing after max frames.
// Every instruction is logged through the test logger.
func run(t *testing.T, def *chip8.VMDef, max int, done func(vm *chip8.VM) bool) *chip8.VM {
	t.Helper()
	def.Debug = true
	def.Logger = log.NewTestLogger(t)
	vm, err := chip8.Init(def)
	if err != nil {
		t.Fatalf("Can't initialize machine - %v", err)
	}
	defer func() {
		if t.Failed() {
			t.Logf("Chip state:\nV: % X\nI: %.4X PC: %.4X SP: %d", vm.Chip().V, vm.Chip().I, vm.Chip().PC, vm.Chip().SP)
			var mem [0x40]uint8
			for i := range mem {
				mem[i] = vm.Memory().Read(0x300 + uint16(i))
			}
			t.Logf("Memory at 0x300:\n%s", hex.Dump(mem[:]))
		}
	}()
	for !done(vm) {
		if vm.Frames() == max {
			t.Fatalf("Not done after %d frames", max)
		}
		if err := vm.Frame(); err != nil {
			t.Fatalf("Frame %d - machine error: %v", vm.Frames(), err)
		}
	}
	return vm
}

func TestDelayCountdown(t *testing.T) {
	t.Parallel()
	vm := run(t, &chip8.VMDef{
		ROM: rom(
			0x6005, // LD V0, 05
			0xF015, // LD DT, V0
			0xF107, // LD V1, DT
			0x3100, // SE V1, 00
			0x1204, // JP 204
			0x6501, // LD V5, 01
			0x120C, // JP 20C
		),
		Quirks: cpu.QuirksCHIP8,
	}, 20, func(vm *chip8.VM) bool { return vm.Chip().V[5] == 1 })
	// 5 ticks to drain the timer then one more frame to notice.
	if got, want := vm.Frames(), 6; got != want {
		t.Errorf("Wrong frame count. Got %d and want %d", got, want)
	}
}

func TestBCDDigits(t *testing.T) {
	t.Parallel()
	vm := run(t, &chip8.VMDef{
		ROM: rom(
			0xA300, // LD I, 300
			0x6489, // LD V4, 89
			0xF433, // LD B, V4
			0xF265, // LD V2, [I]
			0x6A00, // LD VA, 00
			0x6B00, // LD VB, 00
			0x8C00, // LD VC, V0
			0x2220, // CALL 220
			0x8C10, // LD VC, V1
			0x2220, // CALL 220
			0x8C20, // LD VC, V2
			0x2220, // CALL 220
			0x1218, // JP 218
			0x0000,
			0x0000,
			0x0000,
			0xFC29, // LD F, VC
			0xDAB5, // DRW VA, VB, 5
			0x7A05, // ADD VA, 05
			0x00EE, // RET
		),
		Quirks: cpu.QuirksCHIP8,
	}, 20, func(vm *chip8.VM) bool { return vm.Chip().PC == 0x218 && vm.Chip().SP == 0 })

	for i, want := range []uint8{1, 3, 7} {
		if got := vm.Memory().Read(0x300 + uint16(i)); got != want {
			t.Errorf("BCD digit %d wrong. Got %d and want %d", i, got, want)
		}
	}
	// Glyph 1 has 8 lit pixels, 3 has 14 and 7 has 8.
	f := vm.Framebuffer()
	if got, want := f.Lit(), 30; got != want {
		t.Errorf("Wrong lit pixel count. Got %d and want %d", got, want)
	}
	if got, want := vm.Chip().V[cpu.VF], uint8(0); got != want {
		t.Errorf("Unexpected collision. VF %d", got)
	}
	if !f.Pixel(10, 0) || f.Pixel(9, 0) {
		t.Error("Third glyph not drawn at x=10")
	}
}

func TestShiftQuirk(t *testing.T) {
	// 8126 reads VY on a VIP and VX on a SUPER-CHIP.
	prog := rom(
		0x6105, // LD V1, 05
		0x6203, // LD V2, 03
		0x8126, // SHR V1, V2
		0x1206, // JP 206
	)
	tests := []struct {
		preset string
		wantV1 uint8
		wantVF uint8
	}{
		{"chip8", 0x01, 0x01},
		{"xochip", 0x01, 0x01},
		{"schip", 0x02, 0x01},
		{"amiga", 0x01, 0x01},
	}
	for _, test := range tests {
		test := test
		t.Run(test.preset, func(t *testing.T) {
			t.Parallel()
			q, err := cpu.QuirksByName(test.preset)
			if err != nil {
				t.Fatalf("Can't get quirks: %v", err)
			}
			vm := run(t, &chip8.VMDef{ROM: prog, Quirks: q}, 2, func(vm *chip8.VM) bool { return vm.Frames() == 1 })
			c := vm.Chip()
			if got, want := c.V[1], test.wantV1; got != want {
				t.Errorf("Wrong V1. Got %.2X and want %.2X", got, want)
			}
			if got, want := c.V[cpu.VF], test.wantVF; got != want {
				t.Errorf("Wrong VF. Got %.2X and want %.2X", got, want)
			}
			if got, want := c.PC, uint16(0x206); got != want {
				t.Errorf("Wrong PC. Got %.4X and want %.4X", got, want)
			}
		})
	}
}

func TestSelfJump(t *testing.T) {
	t.Parallel()
	vm, err := chip8.Init(&chip8.VMDef{ROM: rom(0x1200), Quirks: cpu.QuirksCHIP8})
	if err != nil {
		t.Fatalf("Can't initialize machine - %v", err)
	}
	for i := 0; i < 100; i++ {
		if _, err := vm.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	c := vm.Chip()
	if got, want := c.PC, memory.ProgramStart; got != want {
		t.Errorf("Wrong PC. Got %.4X and want %.4X", got, want)
	}
	if c.V != [16]uint8{} {
		t.Errorf("Registers changed: % X", c.V)
	}
}
