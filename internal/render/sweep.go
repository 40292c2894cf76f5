package render

import "github.com/coreman2200/funtimes-unicorn/internal/led"

// SweepKind selects a wiring test pattern.
type SweepKind string

const (
	// IndexSweep walks a single white pixel through every position, row by row.
	IndexSweep SweepKind = "sweep"
	// RGBSweep cycles the whole matrix through red, green and blue.
	RGBSweep SweepKind = "rgb"
)

const sweepLevel = 64

// SweepScene draws wiring test patterns, one step per frame, looping forever.
type SweepScene struct {
	kind SweepKind
	step int
}

func NewSweepScene(kind SweepKind) *SweepScene {
	return &SweepScene{kind: kind}
}

func (s *SweepScene) Name() string { return string(s.kind) }

func (s *SweepScene) Frame(dst []led.RGB) error {
	clear(dst)
	switch s.kind {
	case IndexSweep:
		dst[s.step%len(dst)] = led.RGB{R: sweepLevel, G: sweepLevel, B: sweepLevel}
	case RGBSweep:
		var c led.RGB
		switch s.step % 3 {
		case 0:
			c.R = sweepLevel
		case 1:
			c.G = sweepLevel
		case 2:
			c.B = sweepLevel
		}
		for i := range dst {
			dst[i] = c
		}
	}
	s.step++
	return nil
}
