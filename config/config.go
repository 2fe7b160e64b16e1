// Package config handles frontend configuration shared by the
// command line tools: logger setup and quirk selection from flags.
package config

import (
	"flag"

	"github.com/jmchacon/chip8/cpu"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// QuirkFlags holds the quirk related command line flags. Each override is
// applied on top of the chosen preset only if it was set on the command line.
type QuirkFlags struct {
	Preset    *string
	overrides map[string]*bool
}

// RegisterQuirkFlags adds -quirks plus one boolean override per quirk to fs.
func RegisterQuirkFlags(fs *flag.FlagSet) *QuirkFlags {
	q := &QuirkFlags{
		Preset:    fs.String("quirks", "chip8", "Quirks preset to start from (chip8, schip, xochip, amiga)"),
		overrides: map[string]*bool{},
	}
	for _, n := range quirkNames {
		q.overrides[n] = fs.Bool(n, false, "Override the preset: "+quirkUsage[n])
	}
	return q
}

var quirkNames = []string{
	"vf_reset",
	"shift_uses_vy",
	"jump_uses_vx",
	"clip_sprites",
	"load_store_increments_i",
	"display_wait",
	"index_overflow",
}

var quirkUsage = map[string]string{
	"vf_reset":                "8XY1/8XY2/8XY3 clear VF",
	// true is the COSMAC VIP shift. false shifts VX in place and ignores VY.
	"shift_uses_vy":           "8XY6/8XYE shift VY into VX (false shifts VX in place)",
	"jump_uses_vx":            "BNNN jumps to XNN+VX",
	"clip_sprites":            "sprites clip at the screen edges instead of wrapping",
	"load_store_increments_i": "FX55/FX65 leave I at I+X+1",
	"display_wait":            "DXYN blocks until the next timer tick",
	"index_overflow":          "FX1E sets VF when I passes 0xFFF",
}

// Quirks resolves the preset and applies any explicitly set overrides. fs must be parsed.
func (q *QuirkFlags) Quirks(fs *flag.FlagSet) (cpu.Quirks, error) {
	out, err := cpu.QuirksByName(*q.Preset)
	if err != nil {
		return cpu.Quirks{}, err
	}
	fields := map[string]*bool{
		"vf_reset":                &out.VFReset,
		"shift_uses_vy":           &out.ShiftUsesVY,
		"jump_uses_vx":            &out.JumpUsesVX,
		"clip_sprites":            &out.ClipSprites,
		"load_store_increments_i": &out.LoadStoreIncrementsI,
		"display_wait":            &out.DisplayWait,
		"index_overflow":          &out.IndexOverflow,
	}
	fs.Visit(func(f *flag.Flag) {
		if dst, ok := fields[f.Name]; ok {
			*dst = *q.overrides[f.Name]
		}
	})
	return out, nil
}
