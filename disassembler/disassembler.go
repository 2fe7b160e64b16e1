// disassembler takes a CHIP-8 ROM filename, loads it at 0x200 and
// disassembles it to stdout. Every word is listed since CHIP-8 programs
// freely mix sprite data with code. Words that aren't instructions show
// up as DW directives.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/jmchacon/chip8/config"
	"github.com/jmchacon/chip8/disassemble"
	"github.com/jmchacon/chip8/memory"
	"github.com/retroenv/retrogolib/log"
)

var (
	startPC = flag.Int("start_pc", int(memory.ProgramStart), "PC value to start disassembling")
	verbose = flag.Bool("verbose", false, "Log load details")
)

func main() {
	flag.Parse()
	logger := config.CreateLogger(*verbose, false)
	if len(flag.Args()) != 1 {
		logger.Fatal(fmt.Sprintf("Invalid command: %s [-start_pc <PC>] <filename>", os.Args[0]))
	}
	fn := flag.Args()[0]

	b, err := ioutil.ReadFile(fn)
	if err != nil {
		logger.Fatal("Can't open ROM", log.String("path", fn), log.Err(err))
	}
	r := memory.New()
	if err := r.Load(b); err != nil {
		logger.Fatal("Can't load ROM", log.String("path", fn), log.Err(err))
	}
	logger.Debug("Loaded ROM", log.Int("bytes", len(b)), log.Uint16("start", uint16(*startPC)))

	pc := uint16(*startPC) & (memory.Size - 1)
	end := int(memory.ProgramStart) + len(b)
	// Odd length ROMs still get their last byte listed (as the high byte of a DW).
	for int(pc) < end {
		dis, off := disassemble.Step(pc, r)
		pc += uint16(off)
		fmt.Println(dis)
	}
}
