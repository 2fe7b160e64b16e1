//go:build linux || darwin || freebsd || netbsd || openbsd
// +build linux darwin freebsd netbsd openbsd

// term runs a CHIP-8 ROM inside a terminal. The screen is drawn with
// half block characters so 64x32 pixels fit in 64x16 cells.
//
// Terminals only report key presses (no releases) so a key is held down
// for -hold frames after each press. Escape quits.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"os/signal"
	"time"

	"github.com/jmchacon/chip8/chip8"
	"github.com/jmchacon/chip8/config"
	"github.com/jmchacon/chip8/display"
	"github.com/jmchacon/chip8/keypad"
	"github.com/jmchacon/chip8/timer"
	"github.com/retroenv/retrogolib/log"
)

var (
	rom   = flag.String("rom", "", "Path to ROM image to load")
	ipt   = flag.Int("ipt", chip8.DefaultInstructionsPerTick, "Instructions to run per 60Hz timer tick")
	hold  = flag.Int("hold", 6, "Frames a key stays pressed after the terminal reports it")
	seed  = flag.Int64("seed", 0, "If non-zero seeds the random source for reproducible runs")
	quiet = flag.Bool("quiet", false, "Only log errors")
)

const kESC = 0x1B

// keys implements io.PortIn16 from raw terminal input.
type keys struct {
	in   *os.File
	buf  [32]byte
	held [keypad.Keys]int // Frames remaining for each key.
	quit bool
}

// poll reads whatever is pending (VMIN/VTIME are 0 so this never blocks) and ages held keys.
func (k *keys) poll(hold int) {
	for i := range k.held {
		if k.held[i] > 0 {
			k.held[i]--
		}
	}
	n, _ := k.in.Read(k.buf[:])
	for _, c := range k.buf[:n] {
		if c == kESC {
			k.quit = true
			continue
		}
		if key, ok := keypad.KeyFor(rune(c)); ok {
			k.held[key] = hold
		}
	}
}

func (k *keys) Input() uint16 {
	var out uint16
	for i, h := range k.held {
		if h > 0 {
			out |= 1 << uint(i)
		}
	}
	return out
}

// render draws two pixel rows per terminal line.
func render(w *bufio.Writer, f *display.Frame) {
	w.WriteString("\x1b[H")
	for y := 0; y < display.Height; y += 2 {
		for x := 0; x < display.Width; x++ {
			top, bottom := f.Pixel(x, y), f.Pixel(x, y+1)
			switch {
			case top && bottom:
				w.WriteString("█")
			case top:
				w.WriteString("▀")
			case bottom:
				w.WriteString("▄")
			default:
				w.WriteByte(' ')
			}
		}
		w.WriteString("\r\n")
	}
	w.Flush()
}

func run(out *bufio.Writer, vm *chip8.VM, k *keys) error {
	out.WriteString("\x1b[2J\x1b[?25l")
	defer func() {
		out.WriteString("\x1b[?25h\r\n")
		out.Flush()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)

	beeping := false
	t := time.NewTicker(time.Second / timer.TickHz)
	defer t.Stop()
	for {
		select {
		case <-sig:
			return nil
		case <-t.C:
		}
		k.poll(*hold)
		if k.quit {
			return nil
		}
		if err := vm.Frame(); err != nil {
			return err
		}
		// Ring the bell on the rising edge only.
		if s := vm.SoundActive(); s != beeping {
			beeping = s
			if s {
				out.WriteByte('\a')
			}
		}
	}
}

func main() {
	fs := flag.CommandLine
	qf := config.RegisterQuirkFlags(fs)
	flag.Parse()
	logger := config.CreateLogger(false, *quiet)

	quirks, err := qf.Quirks(fs)
	if err != nil {
		logger.Fatal(err.Error())
	}
	b, err := ioutil.ReadFile(*rom)
	if err != nil {
		logger.Fatal("Can't load rom", log.String("path", *rom), log.Err(err))
	}
	k := &keys{in: os.Stdin}
	out := bufio.NewWriter(os.Stdout)
	vm, err := chip8.Init(&chip8.VMDef{
		ROM:                 b,
		Quirks:              quirks,
		Seed:                *seed,
		InstructionsPerTick: *ipt,
		Keypad:              k,
		FrameDone: func(f display.Frame, changed bool) {
			if changed {
				render(out, &f)
			}
		},
	})
	if err != nil {
		logger.Fatal("Can't init machine", log.Err(err))
	}

	if err := enterRawTerm(); err != nil {
		logger.Fatal("Can't put terminal in raw mode", log.Err(err))
	}
	err = run(out, vm, k)
	if rerr := exitRawTerm(); rerr != nil {
		logger.Error("Can't restore terminal", rerr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr)
		logger.Error("Emulation halted", err)
		os.Exit(1)
	}
}
