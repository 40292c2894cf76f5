package led

import "image/color"

// RGB is a 24-bit LED color.
type RGB struct {
	R, G, B uint8
}

// Black turns a pixel off.
var Black = RGB{}

// RGBA implements color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}.RGBA()
}

// NRGBA converts to the standard library color type.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Add mixes two colors, saturating each channel at 255.
func (c RGB) Add(o RGB) RGB {
	return RGB{
		R: addSat(c.R, o.R),
		G: addSat(c.G, o.G),
		B: addSat(c.B, o.B),
	}
}

// Scale dims the color by s. Values outside [0, 1] are clamped.
func (c RGB) Scale(s float64) RGB {
	if s >= 1 {
		return c
	}
	if s <= 0 {
		return Black
	}
	return RGB{
		R: uint8(float64(c.R) * s),
		G: uint8(float64(c.G) * s),
		B: uint8(float64(c.B) * s),
	}
}

func addSat(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 0xff {
		return 0xff
	}
	return uint8(s)
}

// RGBModel converts any color to RGB, dropping alpha.
var RGBModel = color.ModelFunc(func(c color.Color) color.Color {
	if v, ok := c.(RGB); ok {
		return v
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
})
