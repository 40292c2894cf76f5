package led

import (
	"fmt"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// Kind selects a backend.
type Kind string

const (
	KindHD      Kind = "hd"
	KindMini    Kind = "mini"
	KindStrip   Kind = "strip"
	KindConsole Kind = "console"
)

// Default spidev paths of the HATs.
const (
	DefaultHDDev    = "/dev/spidev0.0"
	DefaultMiniDev0 = "/dev/spidev0.0"
	DefaultMiniDev1 = "/dev/spidev0.1"
)

// OpenOpts describes which backend to open and where.
type OpenOpts struct {
	Kind Kind

	HDDev string
	HD    HDOpts

	MiniDevs [2]string
	Mini     MiniOpts

	StripDev string
	Strip    StripOpts

	// Console is the preview size for KindConsole (default 16x16).
	Console Dimensions

	// Fallback swaps a bus that cannot be opened for a console preview of
	// the same size.
	Fallback bool

	Logger zerolog.Logger
}

// Open opens the configured backend. host.Init must have run.
func Open(o *OpenOpts) (Display, error) {
	switch o.Kind {
	case KindHD:
		p, err := openPort(o.HDDev, DefaultHDDev)
		if err != nil {
			return o.fallback(Dimensions{Width: hdWidth, Height: hdHeight}, err)
		}
		d, err := NewHD(p, &o.HD)
		if err != nil {
			_ = p.Close()
			return nil, err
		}
		return d, nil

	case KindMini:
		p0, err := openPort(o.MiniDevs[0], DefaultMiniDev0)
		if err != nil {
			return o.fallback(Dimensions{Width: miniWidth, Height: miniHeight}, err)
		}
		p1, err := openPort(o.MiniDevs[1], DefaultMiniDev1)
		if err != nil {
			_ = p0.Close()
			return o.fallback(Dimensions{Width: miniWidth, Height: miniHeight}, err)
		}
		d, err := NewMini(p0, p1, &o.Mini)
		if err != nil {
			_ = p0.Close()
			_ = p1.Close()
			return nil, err
		}
		return d, nil

	case KindStrip:
		p, err := openPort(o.StripDev, "")
		if err != nil {
			return o.fallback(Dimensions{Width: o.Strip.Width, Height: o.Strip.Height}, err)
		}
		d, err := NewStrip(p, &o.Strip)
		if err != nil {
			_ = p.Close()
			return nil, err
		}
		return d, nil

	case KindConsole:
		dim := o.Console
		if dim.NumPx() <= 0 {
			dim = Dimensions{Width: hdWidth, Height: hdHeight}
		}
		return NewConsole(dim), nil

	default:
		return nil, fmt.Errorf("led: unknown display kind %q", o.Kind)
	}
}

func (o *OpenOpts) fallback(dim Dimensions, err error) (Display, error) {
	if !o.Fallback || dim.NumPx() <= 0 {
		return nil, err
	}
	o.Logger.Warn().Err(err).Str("display", string(o.Kind)).Msg("no SPI port, printing at the console")
	return NewConsole(dim), nil
}

// openPort opens dev, or def when dev is empty. An empty result asks spireg
// for the first port available.
func openPort(dev, def string) (spi.PortCloser, error) {
	if dev == "" {
		dev = def
	}
	p, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("led: open SPI %q: %w", dev, err)
	}
	return p, nil
}
