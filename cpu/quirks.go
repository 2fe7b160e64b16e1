package cpu

import (
	"fmt"
	"sort"
	"strings"
)

// Quirks selects between the historically divergent behaviors of
// CHIP-8 interpreters. It is fixed when the Chip is created.
type Quirks struct {
	// VFReset clears VF after 8XY1/8XY2/8XY3 (COSMAC VIP).
	VFReset bool
	// ShiftUsesVY makes 8XY6/8XYE shift VY into VX (COSMAC VIP). When false VX is
	// shifted in place and VY is ignored (SUPER-CHIP), so VX=0 VY=0b11 SHR gives
	// VX=0 VF=0.
	ShiftUsesVY bool
	// JumpUsesVX makes BNNN jump to XNN+VX (SUPER-CHIP) instead of NNN+V0.
	JumpUsesVX bool
	// ClipSprites drops sprite pixels past the screen edges instead of wrapping them.
	ClipSprites bool
	// LoadStoreIncrementsI leaves I pointing past the last register after FX55/FX65
	// (COSMAC VIP). When false I is unchanged.
	LoadStoreIncrementsI bool
	// DisplayWait stalls after DXYN until the next timer tick (the VIP only drew
	// during vertical blank).
	DisplayWait bool
	// IndexOverflow sets VF when FX1E carries I past 0x0FFF and clears it otherwise
	// (Amiga interpreter, relied on by Spacefight 2091!). When false VF is untouched.
	IndexOverflow bool
}

var (
	// QuirksCHIP8 is the original COSMAC VIP interpreter and the default.
	QuirksCHIP8 = Quirks{
		VFReset:              true,
		ShiftUsesVY:          true,
		ClipSprites:          true,
		LoadStoreIncrementsI: true,
		DisplayWait:          true,
	}

	// QuirksSCHIP matches SUPER-CHIP 1.1 running plain CHIP-8 programs.
	QuirksSCHIP = Quirks{
		JumpUsesVX:  true,
		ClipSprites: true,
	}

	// QuirksXOCHIP matches Octo's XO-CHIP interpretation of the base instructions.
	QuirksXOCHIP = Quirks{
		ShiftUsesVY:          true,
		LoadStoreIncrementsI: true,
	}

	// QuirksAmiga is the CHIP-8 set plus the FX1E overflow flag.
	QuirksAmiga = Quirks{
		VFReset:              true,
		ShiftUsesVY:          true,
		ClipSprites:          true,
		LoadStoreIncrementsI: true,
		DisplayWait:          true,
		IndexOverflow:        true,
	}
)

var presets = map[string]Quirks{
	"chip8":  QuirksCHIP8,
	"schip":  QuirksSCHIP,
	"xochip": QuirksXOCHIP,
	"amiga":  QuirksAmiga,
}

// QuirksByName returns the named preset (case insensitive). The empty
// name is the default CHIP-8 set.
func QuirksByName(name string) (Quirks, error) {
	if name == "" {
		return QuirksCHIP8, nil
	}
	q, ok := presets[strings.ToLower(name)]
	if !ok {
		return Quirks{}, fmt.Errorf("unknown quirks preset %q (valid: %s)", name, strings.Join(QuirksNames(), ", "))
	}
	return q, nil
}

// QuirksNames returns the preset names in sorted order.
func QuirksNames() []string {
	var n []string
	for k := range presets {
		n = append(n, k)
	}
	sort.Strings(n)
	return n
}

// String implements fmt.Stringer listing the enabled quirks.
func (q Quirks) String() string {
	var on []string
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"vf_reset", q.VFReset},
		{"shift_uses_vy", q.ShiftUsesVY},
		{"jump_uses_vx", q.JumpUsesVX},
		{"clip_sprites", q.ClipSprites},
		{"load_store_increments_i", q.LoadStoreIncrementsI},
		{"display_wait", q.DisplayWait},
		{"index_overflow", q.IndexOverflow},
	} {
		if f.set {
			on = append(on, f.name)
		}
	}
	return "[" + strings.Join(on, " ") + "]"
}
