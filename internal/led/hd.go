package led

import (
	"fmt"
	"io"
	"time"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Unicorn HAT HD: a single controller fed one 769 byte frame per transaction.
const (
	hdWidth  = 16
	hdHeight = 16
	hdSOF    = 0x72
	hdBufLen = hdWidth*hdHeight*3 + 1
)

// HDOpts configures the Unicorn HAT HD backend.
type HDOpts struct {
	// Speed is the SPI clock (default 9MHz).
	Speed physic.Frequency
	// Settle is how long to wait after each frame (default 9ms).
	Settle time.Duration
}

// DefaultHDOpts are the values used when NewHD gets nil options.
var DefaultHDOpts = HDOpts{
	Speed:  9 * physic.MegaHertz,
	Settle: 9 * time.Millisecond,
}

// HD is the 16x16 Unicorn HAT HD.
type HD struct {
	port   spi.Port
	c      spi.Conn
	settle time.Duration
	buf    [hdBufLen]byte
}

// NewHD connects to the Unicorn HAT HD on p and blanks it.
func NewHD(p spi.Port, opts *HDOpts) (*HD, error) {
	if opts == nil {
		opts = &DefaultHDOpts
	}
	speed := opts.Speed
	if speed == 0 {
		speed = DefaultHDOpts.Speed
	}
	c, err := p.Connect(speed, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("led: unicorn hd: %w", err)
	}
	d := &HD{port: p, c: c, settle: opts.Settle}
	if err := d.Reset(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *HD) String() string {
	return fmt.Sprintf("Unicorn HAT HD %s on %s", d.Dimensions(), d.c)
}

func (d *HD) Dimensions() Dimensions {
	return Dimensions{Width: hdWidth, Height: hdHeight}
}

func (d *HD) SetXY(x, y int, c RGB) error {
	if err := checkXY(d.Dimensions(), x, y); err != nil {
		return err
	}
	return d.SetIdx(x+y*hdWidth, c)
}

func (d *HD) SetIdx(idx int, c RGB) error {
	if err := checkIdx(d.Dimensions(), idx); err != nil {
		return err
	}
	// skip the start-of-frame byte
	i := idx*3 + 1
	d.buf[i] = c.R
	d.buf[i+1] = c.G
	d.buf[i+2] = c.B
	return nil
}

func (d *HD) Flush() error {
	if err := d.c.Tx(d.buf[:], nil); err != nil {
		return fmt.Errorf("led: unicorn hd write: %w", err)
	}
	if d.settle > 0 {
		time.Sleep(d.settle)
	}
	return nil
}

func (d *HD) Reset() error {
	d.buf = [hdBufLen]byte{}
	d.buf[0] = hdSOF
	return d.Flush()
}

// Close blanks the matrix and closes the port when it owns one.
func (d *HD) Close() error {
	err := d.Reset()
	if c, ok := d.port.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
