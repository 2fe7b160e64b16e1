// emulator runs a CHIP-8 ROM in an SDL window with sound.
//
// Keys 1234/QWER/ASDF/ZXCV map onto the hex keypad, Escape quits.
package main

import (
	"flag"
	"io/ioutil"
	"math"
	"sync"
	"time"

	"github.com/jmchacon/chip8/chip8"
	"github.com/jmchacon/chip8/config"
	"github.com/jmchacon/chip8/display"
	"github.com/jmchacon/chip8/io"
	"github.com/jmchacon/chip8/keypad"
	"github.com/jmchacon/chip8/timer"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	rom   = flag.String("rom", "", "Path to ROM image to load")
	ipt   = flag.Int("ipt", chip8.DefaultInstructionsPerTick, "Instructions to run per 60Hz timer tick")
	scale = flag.Int("scale", 16, "Window pixels per CHIP-8 pixel")
	seed  = flag.Int64("seed", 0, "If non-zero seeds the random source for reproducible runs")
	debug = flag.Bool("debug", false, "If true will emit a trace of every instruction")
	quiet = flag.Bool("quiet", false, "Only log errors")
	tone  = flag.Float64("tone", 329, "Beep frequency in Hz")
)

const (
	kSAMPLE_RATE = 44100
	kAMPLITUDE   = 48
)

// keyLine is one keypad line driven by SDL key events.
type keyLine bool

func (k *keyLine) Input() bool {
	return bool(*k)
}

// keys feeds SDL keyboard events into the keypad lines.
type keys struct {
	down  [16]keyLine
	lines io.Lines16
	quit  bool
}

func newKeys() *keys {
	k := &keys{}
	for i := range k.down {
		k.lines[i] = &k.down[i]
	}
	return k
}

// poll drains pending SDL events. Must run on the SDL thread.
func (k *keys) poll() {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch ev := e.(type) {
		case *sdl.QuitEvent:
			k.quit = true
		case *sdl.KeyboardEvent:
			if ev.Keysym.Sym == sdl.K_ESCAPE {
				k.quit = true
				continue
			}
			key, ok := keypad.KeyFor(rune(ev.Keysym.Sym))
			if !ok {
				continue
			}
			k.down[key] = ev.Type == sdl.KEYDOWN
		}
	}
}

// beep builds one period's worth of samples so the queue can loop it seamlessly.
func beep(freq float64) []byte {
	n := int(kSAMPLE_RATE / freq)
	if n < 1 {
		n = 1
	}
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(int8(kAMPLITUDE * math.Sin(2*math.Pi*float64(i)/float64(n))))
	}
	return out
}

func main() {
	fs := flag.CommandLine
	qf := config.RegisterQuirkFlags(fs)
	flag.Parse()
	logger := config.CreateLogger(*debug, *quiet)

	quirks, err := qf.Quirks(fs)
	if err != nil {
		logger.Fatal(err.Error())
	}
	if *scale < 1 {
		logger.Fatal("--scale must be at least 1")
	}

	// ROMs top out at 3.5k so we just read it in.
	b, err := ioutil.ReadFile(*rom)
	if err != nil {
		logger.Fatal("Can't load rom", log.String("path", *rom), log.Err(err))
	}

	sdl.Main(func() {
		var window *sdl.Window
		var surface *sdl.Surface
		var audio sdl.AudioDeviceID
		var wg sync.WaitGroup
		wg.Add(1)
		sdl.Do(func() {
			defer wg.Done()
			if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
				logger.Fatal("Can't init SDL", log.Err(err))
			}
			window, err = sdl.CreateWindow("CHIP-8", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, int32(display.Width**scale), int32(display.Height**scale), sdl.WINDOW_SHOWN)
			if err != nil {
				logger.Fatal("Can't create window", log.Err(err))
			}
			surface, err = window.GetSurface()
			if err != nil {
				logger.Fatal("Can't get window surface", log.Err(err))
			}
			want := &sdl.AudioSpec{
				Freq:     kSAMPLE_RATE,
				Format:   sdl.AUDIO_S8,
				Channels: 1,
				Samples:  512,
			}
			if audio, err = sdl.OpenAudioDevice("", false, want, nil, 0); err != nil {
				// No audio is annoying but not fatal.
				logger.Error("Can't open audio device", err)
				return
			}
			sdl.PauseAudioDevice(audio, false)
		})
		wg.Wait()
		defer sdl.Do(func() {
			if audio != 0 {
				sdl.CloseAudioDevice(audio)
			}
			window.Destroy()
			sdl.Quit()
		})

		k := newKeys()
		vm, err := chip8.Init(&chip8.VMDef{
			ROM:                 b,
			Quirks:              quirks,
			Seed:                *seed,
			InstructionsPerTick: *ipt,
			Keypad:              &k.lines,
			FrameDone: func(f display.Frame, changed bool) {
				if !changed {
					return
				}
				sdl.Do(func() {
					display.Scale(surface, &f, display.On, display.Off)
					window.UpdateSurface()
				})
			},
			Debug:  *debug,
			Logger: logger,
		})
		if err != nil {
			logger.Fatal("Can't init machine", log.Err(err))
		}
		logger.Info("Running", log.String("rom", *rom), log.String("quirks", vm.Chip().Quirks().String()))

		wave := beep(*tone)
		t := time.NewTicker(time.Second / timer.TickHz)
		defer t.Stop()
		for range t.C {
			sdl.Do(k.poll)
			if k.quit {
				return
			}
			if err := vm.Frame(); err != nil {
				logger.Error("Emulation halted", err)
				return
			}
			sound := vm.SoundActive()
			sdl.Do(func() {
				if audio == 0 {
					return
				}
				if !sound {
					sdl.ClearQueuedAudio(audio)
					return
				}
				// Keep about two frames queued.
				for sdl.GetQueuedAudioSize(audio) < 2*kSAMPLE_RATE/timer.TickHz {
					if err := sdl.QueueAudio(audio, wave); err != nil {
						logger.Error("Can't queue audio", err)
						return
					}
				}
			})
		}
	})
}
