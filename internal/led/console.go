package led

import (
	"fmt"
	"image"

	"periph.io/x/conn/v3/display"
	"periph.io/x/extra/devices/screen"
)

// Console previews a matrix in the terminal, one colored cell per pixel.
type Console struct {
	d   display.Drawer
	dim Dimensions
	img *image.NRGBA
}

// NewConsole returns a terminal preview of the given size.
func NewConsole(dim Dimensions) *Console {
	return NewConsoleDrawer(screen.New(dim.NumPx()), dim)
}

// NewConsoleDrawer renders onto any display.Drawer that accepts a single row
// of dim.NumPx() pixels.
func NewConsoleDrawer(d display.Drawer, dim Dimensions) *Console {
	c := &Console{
		d:   d,
		dim: dim,
		img: image.NewNRGBA(image.Rect(0, 0, dim.NumPx(), 1)),
	}
	for i := 0; i < dim.NumPx(); i++ {
		c.img.SetNRGBA(i, 0, Black.NRGBA())
	}
	return c
}

func (c *Console) String() string {
	return fmt.Sprintf("console preview %s", c.dim)
}

func (c *Console) Dimensions() Dimensions {
	return c.dim
}

func (c *Console) SetXY(x, y int, col RGB) error {
	if err := checkXY(c.dim, x, y); err != nil {
		return err
	}
	return c.SetIdx(y*c.dim.Width+x, col)
}

func (c *Console) SetIdx(idx int, col RGB) error {
	if err := checkIdx(c.dim, idx); err != nil {
		return err
	}
	c.img.SetNRGBA(idx, 0, col.NRGBA())
	return nil
}

func (c *Console) Flush() error {
	return c.d.Draw(c.d.Bounds(), c.img, image.Point{})
}

func (c *Console) Reset() error {
	for i := 0; i < c.dim.NumPx(); i++ {
		c.img.SetNRGBA(i, 0, Black.NRGBA())
	}
	return c.Flush()
}

func (c *Console) Close() error {
	if err := c.Reset(); err != nil {
		return err
	}
	return c.d.Halt()
}
