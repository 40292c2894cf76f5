package render

import (
	"github.com/coreman2200/funtimes-unicorn/internal/led"
	"github.com/coreman2200/funtimes-unicorn/internal/pixel"
)

// MemoryScene shows the memory fraction as a cloud of green dots that
// slowly shuffles around.
type MemoryScene struct {
	grid *pixel.Grid
	mem  FractionSource
}

func NewMemoryScene(grid *pixel.Grid, mem FractionSource) *MemoryScene {
	return &MemoryScene{grid: grid, mem: mem}
}

func (s *MemoryScene) Name() string { return "memory" }

func (s *MemoryScene) Frame(dst []led.RGB) error {
	f, err := s.mem.Fraction()
	if err != nil {
		return err
	}
	if err := s.grid.Update(f); err != nil {
		return err
	}
	for i, on := range s.grid.Status() {
		dst[i] = Black
		if on {
			dst[i] = Green
		}
	}
	return nil
}

// DotsScene overlays the CPU quarters in red on top of the memory dots.
type DotsScene struct {
	mem *MemoryScene
	cpu *CPUScene
}

func NewDotsScene(grid *pixel.Grid, mem FractionSource, cpu *CPUScene) *DotsScene {
	return &DotsScene{mem: NewMemoryScene(grid, mem), cpu: cpu}
}

func (s *DotsScene) Name() string { return "dots" }

func (s *DotsScene) Frame(dst []led.RGB) error {
	if err := s.mem.Frame(dst); err != nil {
		return err
	}
	lit, err := s.cpu.Mask()
	if err != nil {
		return err
	}
	for i, on := range lit {
		if on {
			dst[i] = dst[i].Add(DotRed)
		}
	}
	return nil
}
