package render

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/ojrac/opensimplex-go"

	"github.com/coreman2200/funtimes-unicorn/internal/led"
)

// gradientStop is one keypoint of a color gradient, pos in [0, 1].
type gradientStop struct {
	col colorful.Color
	pos float64
}

// gradient blends between sorted stops in HCL space.
type gradient []gradientStop

func (g gradient) at(t float64) colorful.Color {
	for i := 0; i < len(g)-1; i++ {
		a, b := g[i], g[i+1]
		if a.pos <= t && t <= b.pos {
			return a.col.BlendHcl(b.col, (t-a.pos)/(b.pos-a.pos)).Clamped()
		}
	}
	if t < g[0].pos {
		return g[0].col
	}
	return g[len(g)-1].col
}

// Dim red through dark to dim purple.
var noiseGradient = gradient{
	{colorful.Hsv(0, 1, 0.3), 0},
	{colorful.Hsv(0, 1, 0.02), 0.3},
	{colorful.Hsv(234, 1, 0.02), 0.7},
	{colorful.Hsv(234, 1, 0.3), 1},
}

// NoiseScene is an idle animation: 3D simplex noise sliced along time and
// mapped through a color gradient.
type NoiseScene struct {
	noise opensimplex.Noise
	dim   led.Dimensions
	t     float64

	// Zoom scales pixel coordinates into noise space.
	Zoom float64
	// Step advances time per frame.
	Step float64
}

func NewNoiseScene(dim led.Dimensions, seed int64) *NoiseScene {
	return &NoiseScene{
		noise: opensimplex.NewNormalized(seed),
		dim:   dim,
		Zoom:  0.15,
		Step:  0.05,
	}
}

func (s *NoiseScene) Name() string { return "noise" }

func (s *NoiseScene) Frame(dst []led.RGB) error {
	for i := range dst {
		x, y := float64(i%s.dim.Width), float64(i/s.dim.Width)
		v := s.noise.Eval3(x*s.Zoom, y*s.Zoom, s.t)
		r, g, b := noiseGradient.at(v).RGB255()
		dst[i] = led.RGB{R: r, G: g, B: b}
	}
	s.t += s.Step
	return nil
}
