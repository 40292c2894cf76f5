package led

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Unicorn HAT Mini: two Holtek HT16D35 controllers, one per SPI chip select.
const (
	miniWidth   = 17
	miniHeight  = 7
	miniNumPx   = miniWidth * miniHeight
	miniChipBuf = 28 * 8
)

// HT16D35 commands.
var (
	cmdSoftReset     = []byte{0xcc}
	cmdComPinCtrl    = []byte{0x41, 0xff}
	cmdRowPinCtrl    = []byte{0x42, 0xff, 0xff, 0xff, 0xff}
	cmdWriteDisplay  = []byte{0x80, 0x00}
	cmdSystemCtrlOff = []byte{0x35, 0x00}
	cmdSystemCtrlOn  = []byte{0x35, 0x03}
	cmdScrollCtrl    = []byte{0x20, 0x00}
)

const cmdGlobalBrightness = 0x37

// MiniOpts configures the Unicorn HAT Mini backend.
type MiniOpts struct {
	// Speed is the SPI clock (default 600kHz).
	Speed physic.Frequency
	// Brightness is the HT16D35 global brightness argument (default 1).
	Brightness byte
}

// DefaultMiniOpts are the values used when NewMini gets nil options.
var DefaultMiniOpts = MiniOpts{
	Speed:      600 * physic.KiloHertz,
	Brightness: 0x01,
}

// Mini is the 17x7 Unicorn HAT Mini.
type Mini struct {
	ports      [2]spi.Port
	c          [2]spi.Conn
	brightness byte
	buf        [miniChipBuf * 2]byte
}

// NewMini connects to both controllers and runs the init sequence.
func NewMini(p0, p1 spi.Port, opts *MiniOpts) (*Mini, error) {
	if opts == nil {
		opts = &DefaultMiniOpts
	}
	speed := opts.Speed
	if speed == 0 {
		speed = DefaultMiniOpts.Speed
	}
	brightness := opts.Brightness
	if brightness == 0 {
		brightness = DefaultMiniOpts.Brightness
	}
	d := &Mini{ports: [2]spi.Port{p0, p1}, brightness: brightness}
	for i, p := range d.ports {
		c, err := p.Connect(speed, spi.Mode0, 8)
		if err != nil {
			return nil, fmt.Errorf("led: unicorn mini chip %d: %w", i, err)
		}
		d.c[i] = c
	}
	if err := d.Reset(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Mini) String() string {
	return fmt.Sprintf("Unicorn HAT Mini %s on %s + %s", d.Dimensions(), d.c[0], d.c[1])
}

func (d *Mini) Dimensions() Dimensions {
	return Dimensions{Width: miniWidth, Height: miniHeight}
}

// SetXY addresses the matrix column-major: idx = x*7 + y.
func (d *Mini) SetXY(x, y int, c RGB) error {
	if err := checkXY(d.Dimensions(), x, y); err != nil {
		return err
	}
	return d.SetIdx(x*miniHeight+y, c)
}

func (d *Mini) SetIdx(idx int, c RGB) error {
	if err := checkIdx(d.Dimensions(), idx); err != nil {
		return err
	}
	o := miniLUT[idx]
	d.buf[o[0]] = c.R
	d.buf[o[1]] = c.G
	d.buf[o[2]] = c.B
	return nil
}

func (d *Mini) Flush() error {
	return d.send(cmdWriteDisplay, d.buf[:])
}

// Reset blanks the buffer and replays the controller init sequence.
func (d *Mini) Reset() error {
	d.buf = [miniChipBuf * 2]byte{}
	seq := []struct {
		cmd  []byte
		data []byte
	}{
		{cmdSoftReset, nil},
		{[]byte{cmdGlobalBrightness, d.brightness}, nil},
		{cmdScrollCtrl, nil},
		{cmdSystemCtrlOff, nil},
		{cmdWriteDisplay, d.buf[:]},
		{cmdComPinCtrl, nil},
		{cmdRowPinCtrl, nil},
		{cmdSystemCtrlOn, nil},
	}
	for _, s := range seq {
		if err := d.send(s.cmd, s.data); err != nil {
			return err
		}
	}
	return nil
}

// send writes prefix to both chips, each followed by its half of data.
// An empty data sends the bare command.
func (d *Mini) send(prefix, data []byte) error {
	for i, c := range d.c {
		w := prefix
		if len(data) > 0 {
			w = make([]byte, 0, len(prefix)+miniChipBuf)
			w = append(w, prefix...)
			w = append(w, data[i*miniChipBuf:(i+1)*miniChipBuf]...)
		}
		if err := c.Tx(w, nil); err != nil {
			return fmt.Errorf("led: unicorn mini chip %d write: %w", i, err)
		}
	}
	return nil
}

// Close blanks the matrix and closes both ports when it owns them.
func (d *Mini) Close() error {
	err := d.Reset()
	for _, p := range d.ports {
		if c, ok := p.(io.Closer); ok {
			if cerr := c.Close(); err == nil {
				err = cerr
			}
		}
	}
	return err
}
