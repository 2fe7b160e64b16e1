package disassemble

import (
	"fmt"
	"testing"

	"github.com/jmchacon/chip8/memory"
	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		op   uint16
		want string
		ok   bool
	}{
		{0x00E0, "CLS", true},
		{0x00EE, "RET", true},
		{0x0123, "DW 0123", false},
		{0x1200, "JP 200", true},
		{0x2ABC, "CALL ABC", true},
		{0x3123, "SE V1, 23", true},
		{0x4AFF, "SNE VA, FF", true},
		{0x5120, "SE V1, V2", true},
		{0x5121, "DW 5121", false},
		{0x6123, "LD V1, 23", true},
		{0x7F01, "ADD VF, 01", true},
		{0x8120, "LD V1, V2", true},
		{0x8121, "OR V1, V2", true},
		{0x8122, "AND V1, V2", true},
		{0x8123, "XOR V1, V2", true},
		{0x8124, "ADD V1, V2", true},
		{0x8125, "SUB V1, V2", true},
		{0x8126, "SHR V1, V2", true},
		{0x8127, "SUBN V1, V2", true},
		{0x812E, "SHL V1, V2", true},
		{0x8128, "DW 8128", false},
		{0x9120, "SNE V1, V2", true},
		{0x912F, "DW 912F", false},
		{0xA050, "LD I, 050", true},
		{0xB300, "JP V0, 300", true},
		{0xC10F, "RND V1, 0F", true},
		{0xD125, "DRW V1, V2, 5", true},
		{0xE19E, "SKP V1", true},
		{0xE1A1, "SKNP V1", true},
		{0xE100, "DW E100", false},
		{0xF107, "LD V1, DT", true},
		{0xF10A, "LD V1, K", true},
		{0xF115, "LD DT, V1", true},
		{0xF118, "LD ST, V1", true},
		{0xF11E, "ADD I, V1", true},
		{0xF129, "LD F, V1", true},
		{0xF133, "LD B, V1", true},
		{0xF355, "LD [I], V3", true},
		{0xF365, "LD V3, [I]", true},
		{0xF1FF, "DW F1FF", false},
	}
	for _, test := range tests {
		test := test
		t.Run(fmt.Sprintf("%.4X", test.op), func(t *testing.T) {
			t.Parallel()
			got, ok := Decode(test.op)
			assert.Equal(t, test.want, got)
			assert.Equal(t, test.ok, ok)
		})
	}
}

func TestStep(t *testing.T) {
	t.Parallel()
	r := memory.New()
	assert.NoError(t, r.Load([]uint8{0x00, 0xE0, 0xA2, 0x0A, 0xFF}))
	want := []string{
		"0200 00E0  CLS",
		"0202 A20A  LD I, 20A",
		"0204 FF00  DW FF00",
	}
	pc := memory.ProgramStart
	for _, w := range want {
		got, off := Step(pc, r)
		assert.Equal(t, w, got)
		assert.Equal(t, 2, off)
		pc += uint16(off)
	}
}
