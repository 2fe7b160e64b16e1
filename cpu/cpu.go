// Package cpu defines the CHIP-8 interpreter and provides
// the methods needed to run it and interface with it
// for emulation.
package cpu

import (
	"errors"
	"fmt"

	"github.com/jmchacon/chip8/display"
	"github.com/jmchacon/chip8/keypad"
	"github.com/jmchacon/chip8/memory"
	"github.com/jmchacon/chip8/timer"
)

const (
	// StackDepth is the number of nested calls allowed.
	StackDepth = 16
	// VF is the index of the flags register.
	VF = 0xF
)

// Outcome describes the state of the chip after a Step.
type Outcome int

const (
	OutcomeExecuted Outcome = iota // An instruction completed and the chip can keep going.
	OutcomeWaitKey                 // Blocked in FX0A until a key is pressed and released.
	OutcomeWaitTick                // Blocked after DXYN until the next timer tick.
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case OutcomeExecuted:
		return "executed"
	case OutcomeWaitKey:
		return "wait-key"
	case OutcomeWaitTick:
		return "wait-tick"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// waitState is an enumeration of the reasons the chip isn't fetching.
type waitState int

const (
	kWAIT_NONE         waitState = iota // Running normally.
	kWAIT_KEY_PRESS                     // FX0A waiting for a new key press.
	kWAIT_KEY_RELEASE                   // FX0A waiting for the pressed key to come back up.
	kWAIT_TICK                          // DXYN waiting for the next timer tick.
)

// A few custom error types to distinguish why the chip stopped.

// UnknownOpcode represents an opcode outside the instruction set.
type UnknownOpcode struct {
	Opcode uint16
	PC     uint16 // Address the opcode was fetched from.
}

// Error implements the interface for error types.
func (e UnknownOpcode) Error() string {
	return fmt.Sprintf("0x%.4X at 0x%.3X is an unknown opcode", e.Opcode, e.PC)
}

// StackOverflow represents a call made with the stack already full.
type StackOverflow struct {
	PC uint16 // Address of the call.
}

// Error implements the interface for error types.
func (e StackOverflow) Error() string {
	return fmt.Sprintf("stack overflow: call at 0x%.3X with %d return addresses already pushed", e.PC, StackDepth)
}

// StackUnderflow represents a return made with an empty stack.
type StackUnderflow struct {
	PC uint16 // Address of the return.
}

// Error implements the interface for error types.
func (e StackUnderflow) Error() string {
	return fmt.Sprintf("stack underflow: return at 0x%.3X with an empty stack", e.PC)
}

type Chip struct {
	V      [16]uint8          // General registers. VF doubles as the flags register.
	I      uint16             // Index register.
	PC     uint16             // Program counter.
	Stack  [StackDepth]uint16 // Return addresses.
	SP     int                // Number of entries in Stack.
	Ram    memory.Bank
	quirks Quirks
	disp   *display.Display
	timers *timer.Timers
	keys   *keypad.Pad
	random Random
	op     uint16    // The most recently fetched opcode.
	opPC   uint16    // The address op was fetched from.
	wait   waitState // Why (if at all) the chip isn't fetching.
	waitX  uint8     // Register FX0A stores into.
	waitK  uint8     // Key FX0A is waiting to see released.
	held   uint16    // Keys down at the last key wait poll. Only new presses end a wait.
	halted bool      // If stopped due to a fault.
	fault  error     // The fault that halted the chip. Returned on every Step() after.
}

type ChipDef struct {
	// Ram is the memory to execute from. It is used as is (no PowerOn) so a
	// program can be loaded before Init.
	Ram memory.Bank
	// Display is the framebuffer mutated by 00E0 and DXYN.
	Display *display.Display
	// Timers are read and written by FX07/FX15/FX18.
	Timers *timer.Timers
	// Keypad is read by EX9E/EXA1/FX0A.
	Keypad *keypad.Pad
	// Quirks selects opcode behavior.
	Quirks Quirks
	// Random is the CXNN source. If nil DefaultRandom() is used.
	Random Random
}

// Init will create a new chip wired to the given components and return it in powered on state.
func Init(d *ChipDef) (*Chip, error) {
	if d == nil {
		return nil, errors.New("nil ChipDef")
	}
	if d.Ram == nil || d.Display == nil || d.Timers == nil || d.Keypad == nil {
		return nil, fmt.Errorf("Ram, Display, Timers and Keypad must all be non-nil: %#v", d)
	}
	p := &Chip{
		Ram:    d.Ram,
		quirks: d.Quirks,
		disp:   d.Display,
		timers: d.Timers,
		keys:   d.Keypad,
		random: d.Random,
	}
	if p.random == nil {
		p.random = DefaultRandom()
	}
	p.PowerOn()
	return p, nil
}

// PowerOn resets registers and the stack, points PC at the program start and
// clears any wait or halt state. Memory and the other components are untouched.
func (p *Chip) PowerOn() {
	p.V = [16]uint8{}
	p.I = 0
	p.PC = memory.ProgramStart
	p.Stack = [StackDepth]uint16{}
	p.SP = 0
	p.op = 0
	p.opPC = 0
	p.wait = kWAIT_NONE
	p.waitX = 0
	p.waitK = 0
	p.held = 0
	p.halted = false
	p.fault = nil
}

// Quirks returns the quirk set the chip was created with.
func (p *Chip) Quirks() Quirks {
	return p.quirks
}

// Opcode returns the most recently fetched opcode and the address it came from.
func (p *Chip) Opcode() (uint16, uint16) {
	return p.op, p.opPC
}

// Halted returns the fault which stopped the chip or nil if it's still running.
func (p *Chip) Halted() error {
	return p.fault
}

// Waiting returns what (if anything) the chip is blocked on.
func (p *Chip) Waiting() Outcome {
	switch p.wait {
	case kWAIT_KEY_PRESS, kWAIT_KEY_RELEASE:
		return OutcomeWaitKey
	case kWAIT_TICK:
		return OutcomeWaitTick
	}
	return OutcomeExecuted
}

// VBlank signals a timer tick boundary to the chip. This releases a DXYN display wait.
// Timers themselves are owned and ticked by the caller.
func (p *Chip) VBlank() {
	if p.wait == kWAIT_TICK {
		p.wait = kWAIT_NONE
	}
}

// Step runs a single instruction. While waiting on a key or a tick it makes no progress
// and returns the matching Outcome. A fault halts the chip and is returned on this and
// every later call (the state isn't touched again).
func (p *Chip) Step() (Outcome, error) {
	// Fast path if halted. The PC won't advance. i.e. we just keep returning the same error.
	if p.halted {
		return OutcomeExecuted, p.fault
	}

	switch p.wait {
	case kWAIT_TICK:
		return OutcomeWaitTick, nil
	case kWAIT_KEY_PRESS:
		cur := p.keys.State()
		pressed := cur &^ p.held
		p.held = cur
		if pressed == 0 {
			return OutcomeWaitKey, nil
		}
		k := uint8(0)
		for pressed&1 == 0 {
			pressed >>= 1
			k++
		}
		p.V[p.waitX] = k
		p.waitK = k
		p.wait = kWAIT_KEY_RELEASE
		return OutcomeWaitKey, nil
	case kWAIT_KEY_RELEASE:
		if p.keys.Pressed(p.waitK) {
			return OutcomeWaitKey, nil
		}
		p.wait = kWAIT_NONE
		return OutcomeExecuted, nil
	}

	p.opPC = p.PC
	p.op = memory.ReadOpcode(p.Ram, p.PC)
	p.PC += 2

	if err := p.processOpcode(); err != nil {
		p.halted = true
		p.fault = err
		return OutcomeExecuted, err
	}
	return p.Waiting(), nil
}

func (p *Chip) processOpcode() error {
	// Opcode descriptions:
	//
	// http://devernay.free.fr/hacks/chip8/C8TECH10.HTM
	// https://chip8.gulrak.net/
	op := p.op
	x := uint8(op>>8) & 0x0F
	y := uint8(op>>4) & 0x0F
	n := uint8(op & 0x000F)
	nn := uint8(op & 0x00FF)
	nnn := op & 0x0FFF

	switch op >> 12 {
	case 0x0:
		switch op {
		case 0x00E0:
			// CLS
			p.disp.Clear()
		case 0x00EE:
			// RET
			if p.SP == 0 {
				return StackUnderflow{p.opPC}
			}
			p.SP--
			p.PC = p.Stack[p.SP]
		default:
			// 0NNN (call machine code routine) can't be emulated.
			return p.unknown()
		}
	case 0x1:
		// JP NNN
		p.PC = nnn
	case 0x2:
		// CALL NNN
		if p.SP == StackDepth {
			return StackOverflow{p.opPC}
		}
		p.Stack[p.SP] = p.PC
		p.SP++
		p.PC = nnn
	case 0x3:
		// SE VX, NN
		p.skipIf(p.V[x] == nn)
	case 0x4:
		// SNE VX, NN
		p.skipIf(p.V[x] != nn)
	case 0x5:
		// SE VX, VY
		if n != 0x0 {
			return p.unknown()
		}
		p.skipIf(p.V[x] == p.V[y])
	case 0x6:
		// LD VX, NN
		p.V[x] = nn
	case 0x7:
		// ADD VX, NN (no carry)
		p.V[x] += nn
	case 0x8:
		return p.iALU(x, y, n)
	case 0x9:
		// SNE VX, VY
		if n != 0x0 {
			return p.unknown()
		}
		p.skipIf(p.V[x] != p.V[y])
	case 0xA:
		// LD I, NNN
		p.I = nnn
	case 0xB:
		// JP V0, NNN or JP VX, XNN
		r := uint8(0)
		if p.quirks.JumpUsesVX {
			r = x
		}
		p.PC = nnn + uint16(p.V[r])
	case 0xC:
		// RND VX, NN
		p.V[x] = p.random.Byte() & nn
	case 0xD:
		// DRW VX, VY, N
		p.iDRW(x, y, n)
	case 0xE:
		switch nn {
		case 0x9E:
			// SKP VX
			p.skipIf(p.keys.Pressed(p.V[x]))
		case 0xA1:
			// SKNP VX
			p.skipIf(!p.keys.Pressed(p.V[x]))
		default:
			return p.unknown()
		}
	case 0xF:
		return p.iMisc(x, nn)
	}
	return nil
}

func (p *Chip) unknown() error {
	return UnknownOpcode{Opcode: p.op, PC: p.opPC}
}

func (p *Chip) skipIf(cond bool) {
	if cond {
		p.PC += 2
	}
}

// iALU handles the 8XYN register/register group. Results land in VX before VF so
// when VF is the destination the flag wins.
func (p *Chip) iALU(x, y, n uint8) error {
	switch n {
	case 0x0:
		// LD VX, VY
		p.V[x] = p.V[y]
	case 0x1:
		// OR VX, VY
		p.V[x] |= p.V[y]
		p.vfReset()
	case 0x2:
		// AND VX, VY
		p.V[x] &= p.V[y]
		p.vfReset()
	case 0x3:
		// XOR VX, VY
		p.V[x] ^= p.V[y]
		p.vfReset()
	case 0x4:
		// ADD VX, VY
		sum := uint16(p.V[x]) + uint16(p.V[y])
		p.V[x] = uint8(sum)
		p.V[VF] = uint8(sum >> 8)
	case 0x5:
		// SUB VX, VY
		p.iSUB(x, p.V[x], p.V[y])
	case 0x6:
		// SHR VX {, VY}
		src := p.shiftSource(x, y)
		p.V[x] = src >> 1
		p.V[VF] = src & 0x01
	case 0x7:
		// SUBN VX, VY
		p.iSUB(x, p.V[y], p.V[x])
	case 0xE:
		// SHL VX {, VY}
		src := p.shiftSource(x, y)
		p.V[x] = src << 1
		p.V[VF] = src >> 7
	default:
		return p.unknown()
	}
	return nil
}

func (p *Chip) vfReset() {
	if p.quirks.VFReset {
		p.V[VF] = 0
	}
}

func (p *Chip) shiftSource(x, y uint8) uint8 {
	if p.quirks.ShiftUsesVY {
		return p.V[y]
	}
	return p.V[x]
}

// iSUB stores a-b into VX and sets VF to 1 when no borrow happened.
func (p *Chip) iSUB(x, a, b uint8) {
	p.V[x] = a - b
	flag := uint8(0)
	if a >= b {
		flag = 1
	}
	p.V[VF] = flag
}

func (p *Chip) iDRW(x, y, n uint8) {
	sprite := make([]uint8, n)
	for i := range sprite {
		sprite[i] = p.Ram.Read(p.I + uint16(i))
	}
	flag := uint8(0)
	if p.disp.Draw(p.V[x], p.V[y], sprite, p.quirks.ClipSprites) {
		flag = 1
	}
	p.V[VF] = flag
	if p.quirks.DisplayWait {
		p.wait = kWAIT_TICK
	}
}

// iMisc handles the FXNN group.
func (p *Chip) iMisc(x, nn uint8) error {
	switch nn {
	case 0x07:
		// LD VX, DT
		p.V[x] = p.timers.Delay()
	case 0x0A:
		// LD VX, K
		p.wait = kWAIT_KEY_PRESS
		p.waitX = x
		// Anything already down has to come up and go back down to count.
		p.held = p.keys.State()
	case 0x15:
		// LD DT, VX
		p.timers.SetDelay(p.V[x])
	case 0x18:
		// LD ST, VX
		p.timers.SetSound(p.V[x])
	case 0x1E:
		// ADD I, VX
		sum := uint32(p.I) + uint32(p.V[x])
		p.I = uint16(sum)
		if p.quirks.IndexOverflow {
			flag := uint8(0)
			if sum > 0x0FFF {
				flag = 1
			}
			p.V[VF] = flag
		}
	case 0x29:
		// LD F, VX
		p.I = memory.FontAddr(p.V[x])
	case 0x33:
		// LD B, VX
		v := p.V[x]
		p.Ram.Write(p.I, v/100)
		p.Ram.Write(p.I+1, (v/10)%10)
		p.Ram.Write(p.I+2, v%10)
	case 0x55:
		// LD [I], VX
		for r := uint8(0); r <= x; r++ {
			p.Ram.Write(p.I+uint16(r), p.V[r])
		}
		p.loadStoreDone(x)
	case 0x65:
		// LD VX, [I]
		for r := uint8(0); r <= x; r++ {
			p.V[r] = p.Ram.Read(p.I + uint16(r))
		}
		p.loadStoreDone(x)
	default:
		return p.unknown()
	}
	return nil
}

func (p *Chip) loadStoreDone(x uint8) {
	if p.quirks.LoadStoreIncrementsI {
		p.I += uint16(x) + 1
	}
}
