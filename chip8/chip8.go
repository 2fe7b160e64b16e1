// Package chip8 is the main logic for pulling together a CHIP-8 machine.
// The actual pieces are implemented in other packages and the logic here is
// ownership of them plus the ordering between instruction steps and timer ticks.
//
// A host drives the machine one frame at a time:
//
//	for {
//		if err := vm.Frame(); err != nil { ... }
//		// wait until the next 1/60th of a second
//	}
//
// Frame() is documented as: poll the keypad port, run up to InstructionsPerTick
// steps (stopping early once the chip is waiting), tick the timers once and
// then hand the framebuffer to FrameDone. Hosts wanting other interleavings
// call Step() and TickTimers() directly. A VM is not safe for concurrent use.
package chip8

import (
	"errors"
	"fmt"

	"github.com/jmchacon/chip8/cpu"
	"github.com/jmchacon/chip8/disassemble"
	"github.com/jmchacon/chip8/display"
	"github.com/jmchacon/chip8/io"
	"github.com/jmchacon/chip8/keypad"
	"github.com/jmchacon/chip8/memory"
	"github.com/jmchacon/chip8/timer"
	"github.com/retroenv/retrogolib/log"
)

// DefaultInstructionsPerTick gives roughly 660 instructions a second at 60Hz.
const DefaultInstructionsPerTick = 11

type VM struct {
	def    VMDef
	ram    *memory.RAM
	disp   *display.Display
	timers *timer.Timers
	keys   *keypad.Pad
	cpu    *cpu.Chip
	frames int
}

// VMDef defines the pieces needed to set up a machine.
type VMDef struct {
	// ROM is the program, loaded at 0x200.
	ROM []uint8
	// Quirks selects opcode behavior. The zero value is all quirks off so
	// most callers want cpu.QuirksCHIP8 or a preset from cpu.QuirksByName.
	Quirks cpu.Quirks
	// Random is the CXNN source. It's shared as-is across Reset() so callers
	// wanting a replayable sequence set Seed instead.
	Random cpu.Random
	// Seed if non-zero and Random is nil seeds a fresh CXNN source on Init
	// and on every Reset(). If both are unset the process wide source is used.
	Seed int64
	// InstructionsPerTick is the number of steps Frame() runs before ticking timers.
	// Zero means DefaultInstructionsPerTick.
	InstructionsPerTick int
	// Keypad if non-nil is polled at the start of every Frame() and replaces the keypad state.
	// Hosts without a port call SetKey instead.
	Keypad io.PortIn16
	// FrameDone if non-nil is called at the end of every Frame() with the framebuffer and
	// whether it changed since the previous call.
	FrameDone func(f display.Frame, changed bool)
	// Debug if true logs every executed instruction at debug level to Logger.
	Debug bool
	// Logger receives Debug output. Required if Debug is set.
	Logger *log.Logger
}

// Init returns an initialized and powered on machine with the ROM loaded.
func Init(def *VMDef) (*VM, error) {
	if def == nil {
		return nil, errors.New("nil VMDef")
	}
	if def.InstructionsPerTick < 0 {
		return nil, fmt.Errorf("InstructionsPerTick must be >= 0: %d", def.InstructionsPerTick)
	}
	if def.Debug && def.Logger == nil {
		return nil, errors.New("Debug requires a Logger")
	}
	v := &VM{
		def:    *def,
		ram:    memory.New(),
		disp:   display.Init(),
		timers: timer.New(),
		keys:   &keypad.Pad{},
	}
	if v.def.InstructionsPerTick == 0 {
		v.def.InstructionsPerTick = DefaultInstructionsPerTick
	}
	if err := v.ram.Load(def.ROM); err != nil {
		return nil, fmt.Errorf("can't load ROM: %w", err)
	}
	random := def.Random
	if random == nil && def.Seed != 0 {
		random = cpu.NewSeededRandom(def.Seed)
	}
	c, err := cpu.Init(&cpu.ChipDef{
		Ram:     v.ram,
		Display: v.disp,
		Timers:  v.timers,
		Keypad:  v.keys,
		Quirks:  def.Quirks,
		Random:  random,
	})
	if err != nil {
		return nil, fmt.Errorf("can't initialize cpu: %w", err)
	}
	v.cpu = c
	if v.def.Debug {
		v.def.Logger.Debug("init", log.String("quirks", c.Quirks().String()), log.Int("ipt", v.def.InstructionsPerTick))
	}
	return v, nil
}

// Reset recreates the machine state from the original ROM and settings.
// A Seed based random source restarts its sequence.
func (v *VM) Reset() error {
	n, err := Init(&v.def)
	if err != nil {
		return err
	}
	*v = *n
	return nil
}

// Step runs a single instruction (or a no progress poll while the chip is waiting).
func (v *VM) Step() (cpu.Outcome, error) {
	fetch := v.def.Debug && v.cpu.Waiting() == cpu.OutcomeExecuted && v.cpu.Halted() == nil
	o, err := v.cpu.Step()
	if fetch {
		op, pc := v.cpu.Opcode()
		dis, _ := disassemble.Decode(op)
		v.def.Logger.Debug("step", log.Uint16("pc", pc), log.Uint16("opcode", op), log.String("op", dis))
	}
	return o, err
}

// TickTimers decrements the delay and sound timers and then releases a display wait.
func (v *VM) TickTimers() {
	v.timers.Tick()
	v.cpu.VBlank()
	if v.def.Debug {
		v.def.Logger.Debug("tick", log.Uint8("delay", v.timers.Delay()), log.Uint8("sound", v.timers.Sound()), log.Int("ticks", v.timers.Ticks()))
	}
}

// Frame runs one 60Hz frame. See the package documentation for ordering.
func (v *VM) Frame() error {
	if v.def.Keypad != nil {
		v.keys.Load(v.def.Keypad.Input())
	}
	for i := 0; i < v.def.InstructionsPerTick; i++ {
		o, err := v.Step()
		if err != nil {
			return err
		}
		if o != cpu.OutcomeExecuted {
			break
		}
	}
	v.TickTimers()
	v.frames++
	if v.def.FrameDone != nil {
		v.def.FrameDone(v.disp.Frame(), v.disp.Dirty())
		v.disp.MarkClean()
	}
	return nil
}

// Frames returns the number of completed Frame() calls.
func (v *VM) Frames() int {
	return v.frames
}

// SetKey updates a single keypad key (0x0-0xF).
func (v *VM) SetKey(k uint8, pressed bool) {
	v.keys.Set(k, pressed)
}

// Framebuffer returns a copy of the current screen.
func (v *VM) Framebuffer() display.Frame {
	return v.disp.Frame()
}

// SoundActive is true while the sound timer is non-zero.
func (v *VM) SoundActive() bool {
	return v.timers.SoundLine().Output()
}

// SoundLine exposes the sound timer state as an output line for audio backends.
func (v *VM) SoundLine() io.PortOut1 {
	return v.timers.SoundLine()
}

// Chip returns the interpreter for inspection by debuggers and tests.
func (v *VM) Chip() *cpu.Chip {
	return v.cpu
}

// Memory returns the machine's memory for inspection by debuggers and tests.
func (v *VM) Memory() memory.Bank {
	return v.ram
}

// Timers returns the machine's timers for inspection by debuggers and tests.
func (v *VM) Timers() *timer.Timers {
	return v.timers
}
