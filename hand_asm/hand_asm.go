// hand_asm takes a filename and produces a CHIP-8 ROM
// from parsing it as a hand assembled listing
// of the form:
//
// XXXX OPCD <anything>
//
// Where XXXX is the address and OPCD the 16 bit opcode (or data word),
// both in hex. This is the same form disassembler prints so a listing
// can be edited and reassembled. Lines not starting with an address are
// ignored. Gaps between addresses are zero filled and the output starts at 0x200.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/jmchacon/chip8/config"
	"github.com/jmchacon/chip8/memory"
	"github.com/retroenv/retrogolib/log"
)

var (
	verbose = flag.Bool("verbose", false, "Log every assembled word")
	lineRE  = regexp.MustCompile(`^([0-9A-Fa-f]{4})\s+([0-9A-Fa-f]{4})\b`)
)

// assemble places each listed word at its address relative to ProgramStart.
func assemble(logger *log.Logger, s *bufio.Scanner) ([]byte, error) {
	var output []byte
	l := 0
	for s.Scan() {
		l++
		m := lineRE.FindStringSubmatch(s.Text())
		if m == nil {
			continue
		}
		addr, _ := strconv.ParseUint(m[1], 16, 16)
		op, _ := strconv.ParseUint(m[2], 16, 16)
		if addr < uint64(memory.ProgramStart) || addr >= memory.Size-1 {
			return nil, fmt.Errorf("line %d: address %.4X outside program space", l, addr)
		}
		off := int(addr) - int(memory.ProgramStart)
		for len(output) < off+2 {
			output = append(output, 0x00)
		}
		output[off] = byte(op >> 8)
		output[off+1] = byte(op)
		logger.Debug("word", log.Uint16("addr", uint16(addr)), log.Uint16("op", uint16(op)))
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return output, nil
}

func main() {
	flag.Parse()
	logger := config.CreateLogger(*verbose, false)
	if len(flag.Args()) != 2 {
		logger.Fatal(fmt.Sprintf("Invalid command: %s <input> <output>", os.Args[0]))
	}
	fn := flag.Args()[0]
	out := flag.Args()[1]

	in, err := os.Open(fn)
	if err != nil {
		logger.Fatal("Can't open input", log.String("path", fn), log.Err(err))
	}
	defer in.Close()
	output, err := assemble(logger, bufio.NewScanner(in))
	if err != nil {
		logger.Fatal("Can't assemble", log.String("path", fn), log.Err(err))
	}

	of, err := os.Create(out)
	if err != nil {
		logger.Fatal("Can't open output", log.String("path", out), log.Err(err))
	}
	n, err := of.Write(output)
	if got, want := n, len(output); got != want {
		logger.Fatal(fmt.Sprintf("Short write to %q. Got %d and want %d", out, got, want))
	}
	if err != nil {
		logger.Fatal("Error writing output", log.String("path", out), log.Err(err))
	}
	if err := of.Close(); err != nil {
		logger.Fatal("Error closing output", log.String("path", out), log.Err(err))
	}
}
