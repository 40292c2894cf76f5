package led

import (
	"errors"
	"fmt"
	"io"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/nrzled"
)

// StripOpts configures a WS2812 matrix made from a folded LED strip.
type StripOpts struct {
	Width  int
	Height int
	// Serpentine reverses every odd row, matching strips laid out in a zigzag.
	Serpentine bool
	// Freq is the NRZ bit rate (default 2.5MHz).
	Freq physic.Frequency
}

// Strip drives a WS2812/NeoPixel matrix through nrzled.
type Strip struct {
	port       spi.Port
	dev        *nrzled.Dev
	dim        Dimensions
	serpentine bool
	buf        []byte
}

// NewStrip connects to a strip matrix on p and blanks it.
func NewStrip(p spi.Port, opts *StripOpts) (*Strip, error) {
	if opts == nil || opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.New("led: strip needs a positive width and height")
	}
	freq := opts.Freq
	if freq == 0 {
		freq = 2500 * physic.KiloHertz
	}
	dim := Dimensions{Width: opts.Width, Height: opts.Height}
	dev, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: dim.NumPx(),
		Channels:  3,
		Freq:      freq,
	})
	if err != nil {
		return nil, fmt.Errorf("led: strip: %w", err)
	}
	s := &Strip{
		port:       p,
		dev:        dev,
		dim:        dim,
		serpentine: opts.Serpentine,
		buf:        make([]byte, dim.NumPx()*3),
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Strip) String() string {
	return fmt.Sprintf("LED strip matrix %s on %s", s.dim, s.dev)
}

func (s *Strip) Dimensions() Dimensions {
	return s.dim
}

func (s *Strip) SetXY(x, y int, c RGB) error {
	if err := checkXY(s.dim, x, y); err != nil {
		return err
	}
	return s.SetIdx(y*s.dim.Width+x, c)
}

// SetIdx takes a row-major index and maps it onto the physical strip order.
func (s *Strip) SetIdx(idx int, c RGB) error {
	if err := checkIdx(s.dim, idx); err != nil {
		return err
	}
	i := s.physical(idx) * 3
	s.buf[i] = c.R
	s.buf[i+1] = c.G
	s.buf[i+2] = c.B
	return nil
}

func (s *Strip) physical(idx int) int {
	y, x := idx/s.dim.Width, idx%s.dim.Width
	if s.serpentine && y%2 == 1 {
		x = s.dim.Width - 1 - x
	}
	return y*s.dim.Width + x
}

func (s *Strip) Flush() error {
	if _, err := s.dev.Write(s.buf); err != nil {
		return fmt.Errorf("led: strip write: %w", err)
	}
	return nil
}

func (s *Strip) Reset() error {
	for i := range s.buf {
		s.buf[i] = 0
	}
	return s.Flush()
}

func (s *Strip) Close() error {
	err := s.Reset()
	if herr := s.dev.Halt(); err == nil {
		err = herr
	}
	if c, ok := s.port.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
