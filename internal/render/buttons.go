package render

import (
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-unicorn/internal/led"
)

// ButtonScene paints the whole matrix a new random color on every press.
type ButtonScene struct {
	presses *led.Latest[led.Button]
	rng     *rand.Rand
	log     zerolog.Logger
	seq     uint64
	color   led.RGB
}

func NewButtonScene(presses *led.Latest[led.Button], rng *rand.Rand, log zerolog.Logger) *ButtonScene {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &ButtonScene{presses: presses, rng: rng, log: log}
}

func (s *ButtonScene) Name() string { return "buttons" }

func (s *ButtonScene) Wake() <-chan struct{} { return s.presses.Changed() }

func (s *ButtonScene) Frame(dst []led.RGB) error {
	if b, seq := s.presses.Load(); seq > s.seq {
		s.seq = seq
		s.color = randomColor(s.rng)
		s.log.Info().Stringer("button", b).Uint64("press", seq).Msg("pressed")
	}
	for i := range dst {
		dst[i] = s.color
	}
	return nil
}

// randomColor picks a fully saturated hue so a press never paints black.
func randomColor(rng *rand.Rand) led.RGB {
	r, g, b := colorful.Hsv(rng.Float64()*360, 1, 1).RGB255()
	return led.RGB{R: r, G: g, B: b}
}
