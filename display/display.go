// Package display implements the CHIP-8 64x32 monochrome framebuffer
// along with helpers for turning it into an image for output.
package display

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

const (
	// Width is the number of pixels per row.
	Width = 64
	// Height is the number of rows.
	Height = 32
)

var (
	// On is the default color for lit pixels.
	On = color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}
	// Off is the default color for dark pixels.
	Off = color.NRGBA{0x00, 0x00, 0x00, 0xFF}
)

// Frame is a snapshot of the framebuffer. Each row is a uint64 with the
// most significant bit holding x == 0. Frames are plain values so handing
// one out never aliases the live buffer.
type Frame [Height]uint64

// Pixel returns whether the pixel at x,y is lit. Out of range coordinates are dark.
func (f *Frame) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return f[y]&mask(x) != 0
}

// Lit returns the number of lit pixels.
func (f *Frame) Lit() int {
	n := 0
	for _, row := range f {
		for ; row != 0; row &= row - 1 {
			n++
		}
	}
	return n
}

// Image renders the frame 1:1 using the given colors.
func (f *Frame) Image(on, off color.Color) *image.NRGBA {
	i := image.NewNRGBA(image.Rect(0, 0, Width, Height))
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			c := off
			if f.Pixel(x, y) {
				c = on
			}
			i.Set(x, y, c)
		}
	}
	return i
}

// Scale renders the frame into all of dst using nearest neighbor scaling so
// pixels stay hard edged at any window size.
func Scale(dst draw.Image, f *Frame, on, off color.Color) {
	src := f.Image(on, off)
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
}

func mask(x int) uint64 {
	return uint64(1) << uint(Width-1-x)
}

// Display holds the live framebuffer. Only clear and draw mutate it.
type Display struct {
	frame Frame
	dirty bool // Whether anything changed since the last MarkClean().
}

// Init returns a cleared display.
func Init() *Display {
	d := &Display{}
	d.PowerOn()
	return d
}

// PowerOn clears the screen.
func (d *Display) PowerOn() {
	d.frame = Frame{}
	d.dirty = true
}

// Clear turns every pixel off.
func (d *Display) Clear() {
	d.frame = Frame{}
	d.dirty = true
}

// Draw XORs the sprite (one byte per row, MSB leftmost) onto the screen
// starting at x,y which are first reduced modulo the screen size. Pixels past
// the right or bottom edge are dropped when clip is true and wrap around
// otherwise. The return value is true if any lit pixel was turned off.
func (d *Display) Draw(x, y uint8, sprite []uint8, clip bool) bool {
	x0 := int(x) % Width
	y0 := int(y) % Height
	collision := false
	for r, b := range sprite {
		py := y0 + r
		if py >= Height {
			if clip {
				break
			}
			py %= Height
		}
		for c := 0; c < 8; c++ {
			if b&(0x80>>uint(c)) == 0 {
				continue
			}
			px := x0 + c
			if px >= Width {
				if clip {
					break
				}
				px %= Width
			}
			m := mask(px)
			if d.frame[py]&m != 0 {
				collision = true
			}
			d.frame[py] ^= m
		}
	}
	d.dirty = true
	return collision
}

// Frame returns a copy of the current framebuffer.
func (d *Display) Frame() Frame {
	return d.frame
}

// Dirty reports whether the framebuffer was touched since the last MarkClean().
func (d *Display) Dirty() bool {
	return d.dirty
}

// MarkClean resets the dirty state, generally after a frame has been presented.
func (d *Display) MarkClean() {
	d.dirty = false
}
