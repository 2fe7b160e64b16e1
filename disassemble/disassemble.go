// Package disassemble implements a disassembler for CHIP-8 opcodes
// using the Cowgod mnemonics (CLS, LD VX, NN, DRW VX, VY, N ...).
package disassemble

import (
	"fmt"

	"github.com/jmchacon/chip8/memory"
)

const (
	kMODE_IMPLIED  = iota // No operands.
	kMODE_ADDR            // NNN
	kMODE_V0_ADDR         // V0, NNN
	kMODE_VX              // VX
	kMODE_VX_BYTE         // VX, NN
	kMODE_VX_VY           // VX, VY
	kMODE_VX_VY_N         // VX, VY, N
	kMODE_I_ADDR          // I, NNN
	kMODE_VX_DT           // VX, DT
	kMODE_VX_K            // VX, K
	kMODE_DT_VX           // DT, VX
	kMODE_ST_VX           // ST, VX
	kMODE_I_VX            // I, VX
	kMODE_F_VX            // F, VX
	kMODE_B_VX            // B, VX
	kMODE_MEM_VX          // [I], VX
	kMODE_VX_MEM          // VX, [I]
	kMODE_DATA            // Not an instruction.
)

// Unknown is the mnemonic used for words which aren't instructions.
const Unknown = "DW"

// Decode returns the mnemonic and operand text for op. Words which aren't
// instructions come back as a DW data directive with ok == false.
func Decode(op uint16) (text string, ok bool) {
	x := (op >> 8) & 0x0F
	y := (op >> 4) & 0x0F
	n := op & 0x000F
	nn := op & 0x00FF
	nnn := op & 0x0FFF

	var m string
	mode := kMODE_IMPLIED
	switch op >> 12 {
	case 0x0:
		switch op {
		case 0x00E0:
			m = "CLS"
		case 0x00EE:
			m = "RET"
		default:
			mode = kMODE_DATA
		}
	case 0x1:
		m, mode = "JP", kMODE_ADDR
	case 0x2:
		m, mode = "CALL", kMODE_ADDR
	case 0x3:
		m, mode = "SE", kMODE_VX_BYTE
	case 0x4:
		m, mode = "SNE", kMODE_VX_BYTE
	case 0x5:
		m, mode = "SE", kMODE_VX_VY
		if n != 0 {
			mode = kMODE_DATA
		}
	case 0x6:
		m, mode = "LD", kMODE_VX_BYTE
	case 0x7:
		m, mode = "ADD", kMODE_VX_BYTE
	case 0x8:
		mode = kMODE_VX_VY
		switch n {
		case 0x0:
			m = "LD"
		case 0x1:
			m = "OR"
		case 0x2:
			m = "AND"
		case 0x3:
			m = "XOR"
		case 0x4:
			m = "ADD"
		case 0x5:
			m = "SUB"
		case 0x6:
			m = "SHR"
		case 0x7:
			m = "SUBN"
		case 0xE:
			m = "SHL"
		default:
			mode = kMODE_DATA
		}
	case 0x9:
		m, mode = "SNE", kMODE_VX_VY
		if n != 0 {
			mode = kMODE_DATA
		}
	case 0xA:
		m, mode = "LD", kMODE_I_ADDR
	case 0xB:
		m, mode = "JP", kMODE_V0_ADDR
	case 0xC:
		m, mode = "RND", kMODE_VX_BYTE
	case 0xD:
		m, mode = "DRW", kMODE_VX_VY_N
	case 0xE:
		mode = kMODE_VX
		switch nn {
		case 0x9E:
			m = "SKP"
		case 0xA1:
			m = "SKNP"
		default:
			mode = kMODE_DATA
		}
	case 0xF:
		switch nn {
		case 0x07:
			m, mode = "LD", kMODE_VX_DT
		case 0x0A:
			m, mode = "LD", kMODE_VX_K
		case 0x15:
			m, mode = "LD", kMODE_DT_VX
		case 0x18:
			m, mode = "LD", kMODE_ST_VX
		case 0x1E:
			m, mode = "ADD", kMODE_I_VX
		case 0x29:
			m, mode = "LD", kMODE_F_VX
		case 0x33:
			m, mode = "LD", kMODE_B_VX
		case 0x55:
			m, mode = "LD", kMODE_MEM_VX
		case 0x65:
			m, mode = "LD", kMODE_VX_MEM
		default:
			mode = kMODE_DATA
		}
	}

	switch mode {
	case kMODE_IMPLIED:
		return m, true
	case kMODE_ADDR:
		return fmt.Sprintf("%s %.3X", m, nnn), true
	case kMODE_V0_ADDR:
		return fmt.Sprintf("%s V0, %.3X", m, nnn), true
	case kMODE_VX:
		return fmt.Sprintf("%s V%X", m, x), true
	case kMODE_VX_BYTE:
		return fmt.Sprintf("%s V%X, %.2X", m, x, nn), true
	case kMODE_VX_VY:
		return fmt.Sprintf("%s V%X, V%X", m, x, y), true
	case kMODE_VX_VY_N:
		return fmt.Sprintf("%s V%X, V%X, %X", m, x, y, n), true
	case kMODE_I_ADDR:
		return fmt.Sprintf("%s I, %.3X", m, nnn), true
	case kMODE_VX_DT:
		return fmt.Sprintf("%s V%X, DT", m, x), true
	case kMODE_VX_K:
		return fmt.Sprintf("%s V%X, K", m, x), true
	case kMODE_DT_VX:
		return fmt.Sprintf("%s DT, V%X", m, x), true
	case kMODE_ST_VX:
		return fmt.Sprintf("%s ST, V%X", m, x), true
	case kMODE_I_VX:
		return fmt.Sprintf("%s I, V%X", m, x), true
	case kMODE_F_VX:
		return fmt.Sprintf("%s F, V%X", m, x), true
	case kMODE_B_VX:
		return fmt.Sprintf("%s B, V%X", m, x), true
	case kMODE_MEM_VX:
		return fmt.Sprintf("%s [I], V%X", m, x), true
	case kMODE_VX_MEM:
		return fmt.Sprintf("%s V%X, [I]", m, x), true
	case kMODE_DATA:
		return fmt.Sprintf("%s %.4X", Unknown, op), false
	}
	panic(fmt.Sprintf("Invalid mode: %d", mode))
}

// Step will take the given PC value and disassemble the instruction at that location
// returning a string for the disassembly and the bytes forward the PC should move to get to
// the next instruction (always 2). This does not interpret the instructions so JP, LD in memory
// will disassemble as that sequence and not follow the JP.
func Step(pc uint16, r memory.Bank) (string, int) {
	op := memory.ReadOpcode(r, pc)
	text, _ := Decode(op)
	return fmt.Sprintf("%.4X %.4X  %s", pc, op, text), 2
}
