// Package memory defines the basic interfaces for working
// with the CHIP-8 memory map and provides the standard 4K
// implementation. The interpreter only ever sees a Bank so
// tests and tools can substitute their own layouts.
package memory

import "fmt"

const (
	// Size is the full addressable space. All addressing wraps modulo Size.
	Size = 0x1000
	// FontStart is where the hex digit glyphs live.
	FontStart = uint16(0x050)
	// FontGlyphSize is the number of bytes (rows) per glyph.
	FontGlyphSize = 5
	// ProgramStart is the load address for ROMs and the initial PC.
	ProgramStart = uint16(0x200)
	// MaxProgramSize is the largest ROM which fits above ProgramStart.
	MaxProgramSize = Size - int(ProgramStart)

	kADDR_MASK = uint16(Size - 1)
)

// Font is the built in 4x5 hex digit sprite table (0-F).
var Font = [16 * FontGlyphSize]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

type Bank interface {
	// Read returns the data byte stored at addr.
	Read(addr uint16) uint8
	// Write updates addr with the new value. For protected addresses this is simply a no-op without
	// any error.
	Write(addr uint16, val uint8)
	// PowerOn performs power on reset of the memory. This is implementation specific as to
	// what gets preloaded.
	PowerOn()
}

// ProgramTooLarge is returned when a ROM doesn't fit above ProgramStart.
type ProgramTooLarge struct {
	Size int
	Max  int
}

// Error implements the interface for error types.
func (e ProgramTooLarge) Error() string {
	return fmt.Sprintf("program of %d bytes exceeds the %d bytes available", e.Size, e.Max)
}

var _ = Bank(&RAM{})

// RAM is the flat 4K CHIP-8 address space. The font table is loaded
// on PowerOn and is read-only from then on.
type RAM struct {
	addr [Size]uint8
}

// New returns a powered on RAM.
func New() *RAM {
	r := &RAM{}
	r.PowerOn()
	return r
}

// Read implements memory.Bank.
func (r *RAM) Read(addr uint16) uint8 {
	return r.addr[addr&kADDR_MASK]
}

// Write implements memory.Bank. Writes into the font table are dropped.
func (r *RAM) Write(addr uint16, val uint8) {
	addr &= kADDR_MASK
	if isFont(addr) {
		return
	}
	r.addr[addr] = val
}

// PowerOn zeroes everything and reloads the font table.
func (r *RAM) PowerOn() {
	r.addr = [Size]uint8{}
	copy(r.addr[FontStart:], Font[:])
}

// Load copies the given program in at ProgramStart. Nothing is modified if the
// program is too large.
func (r *RAM) Load(rom []uint8) error {
	if len(rom) > MaxProgramSize {
		return ProgramTooLarge{Size: len(rom), Max: MaxProgramSize}
	}
	copy(r.addr[ProgramStart:], rom)
	return nil
}

// ReadOpcode returns the big endian 16 bit word at addr.
func ReadOpcode(b Bank, addr uint16) uint16 {
	return uint16(b.Read(addr))<<8 | uint16(b.Read(addr+1))
}

// FontAddr returns the address of the glyph for the low nibble of digit.
func FontAddr(digit uint8) uint16 {
	return FontStart + uint16(digit&0x0F)*FontGlyphSize
}

func isFont(addr uint16) bool {
	return addr >= FontStart && addr < FontStart+uint16(len(Font))
}
