// Package led drives LED-matrix HATs attached over SPI.
//
// Every backend implements Display, so render code is written once and works
// against the Unicorn HAT HD, the Unicorn HAT Mini, a NeoPixel strip matrix or
// the console preview.
package led

import (
	"errors"
	"fmt"
)

// ErrBounds is returned when a coordinate or index lies outside the matrix.
var ErrBounds = errors.New("led: out of display bounds")

// Dimensions is the logical size of a matrix.
type Dimensions struct {
	Width  int
	Height int
}

// NumPx is the number of addressable pixels.
func (d Dimensions) NumPx() int {
	return d.Width * d.Height
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Display abstracts an LED matrix backend.
type Display interface {
	String() string

	// SetXY sets the pixel at (x, y) in the frame buffer.
	SetXY(x, y int, c RGB) error

	// SetIdx sets the pixel at the flat logical index idx.
	SetIdx(idx int, c RGB) error

	// Flush transmits the whole frame buffer and blocks until done.
	Flush() error

	// Reset blanks the frame buffer and flushes it.
	Reset() error

	// Dimensions never changes for the lifetime of the backend.
	Dimensions() Dimensions

	// Close blanks the display and releases the bus.
	Close() error
}

func checkXY(dim Dimensions, x, y int) error {
	if x < 0 || x >= dim.Width {
		return fmt.Errorf("%w: x=%d, width %d", ErrBounds, x, dim.Width)
	}
	if y < 0 || y >= dim.Height {
		return fmt.Errorf("%w: y=%d, height %d", ErrBounds, y, dim.Height)
	}
	return nil
}

func checkIdx(dim Dimensions, idx int) error {
	if idx < 0 || idx >= dim.NumPx() {
		return fmt.Errorf("%w: index %d, %d pixels", ErrBounds, idx, dim.NumPx())
	}
	return nil
}
