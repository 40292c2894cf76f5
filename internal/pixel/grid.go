// Package pixel animates a subset of lit pixels toward a target coverage.
package pixel

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// ErrCapacity is returned when more pixels are asked to move than the source
// set holds.
var ErrCapacity = errors.New("pixel: not enough pixels")

// DefaultDecay is the per-tick probability of an active pixel being swapped
// for another one.
const DefaultDecay = 0.01

// Grid partitions the indices [0, n) into an active and an inactive set.
//
// Update moves the active count toward floor(n*fraction). Which pixels are
// lit is chosen at random, and a small decay keeps swapping lit pixels for
// unlit ones so the pattern flickers instead of freezing.
type Grid struct {
	active   []int
	inactive []int
	n        int
	decay    float64
	rng      *rand.Rand
}

// Option customizes a Grid.
type Option func(*Grid)

// WithDecay sets the decay probability, clamped to [0, 1].
func WithDecay(p float64) Option {
	return func(g *Grid) {
		g.decay = math.Max(0, math.Min(1, p))
	}
}

// WithRand sets the random source, mostly for reproducible tests.
func WithRand(r *rand.Rand) Option {
	return func(g *Grid) {
		g.rng = r
	}
}

// New returns a grid of n pixels, all inactive.
func New(n int, opts ...Option) *Grid {
	if n < 0 {
		n = 0
	}
	g := &Grid{
		active:   make([]int, 0, n),
		inactive: make([]int, n),
		n:        n,
		decay:    DefaultDecay,
	}
	for i := range g.inactive {
		g.inactive[i] = i
	}
	for _, o := range opts {
		o(g)
	}
	if g.rng == nil {
		seed := uint64(time.Now().UnixNano())
		g.rng = rand.New(rand.NewPCG(seed, seed>>32|1))
	}
	return g
}

// Len is the total number of pixels.
func (g *Grid) Len() int {
	return g.n
}

// Active is the number of lit pixels.
func (g *Grid) Active() int {
	return len(g.active)
}

// targetEpsilon absorbs products like 100*0.29 = 28.999999999999996 so they
// floor to the count a reader expects.
const targetEpsilon = 1e-9

// Target is the active count Update converges to for fraction, rounded down.
func (g *Grid) Target(fraction float64) int {
	return min(g.n, int(math.Floor(float64(g.n)*clamp01(fraction)+targetEpsilon)))
}

// Update runs one tick toward fraction of the pixels being active.
func (g *Grid) Update(fraction float64) error {
	if math.IsNaN(fraction) {
		return errors.New("pixel: fraction is NaN")
	}
	delta := g.Target(fraction) - len(g.active)
	switch {
	case delta == 0:
		return g.refresh()
	case delta < 0:
		if err := g.deactivate(-delta); err != nil {
			return err
		}
		return g.refresh()
	default:
		if err := g.refresh(); err != nil {
			return err
		}
		return g.activate(delta)
	}
}

// Status reports, per pixel, whether it is active.
func (g *Grid) Status() []bool {
	s := make([]bool, g.n)
	for _, px := range g.active {
		s[px] = true
	}
	return s
}

func (g *Grid) activate(k int) error {
	if k > len(g.inactive) {
		return fmt.Errorf("%w: cannot activate %d pixels, only %d are inactive", ErrCapacity, k, len(g.inactive))
	}
	g.active, g.inactive = g.move(k, g.inactive, g.active)
	return nil
}

func (g *Grid) deactivate(k int) error {
	if k > len(g.active) {
		return fmt.Errorf("%w: cannot deactivate %d pixels, only %d are active", ErrCapacity, k, len(g.active))
	}
	g.inactive, g.active = g.move(k, g.active, g.inactive)
	return nil
}

// move transfers k uniformly chosen indices from src to dst using
// swap-remove. It returns the grown dst and the shrunk src.
func (g *Grid) move(k int, src, dst []int) ([]int, []int) {
	for ; k > 0; k-- {
		i := g.rng.IntN(len(src))
		last := len(src) - 1
		dst = append(dst, src[i])
		src[i] = src[last]
		src = src[:last]
	}
	return dst, src
}

// refresh drops each active pixel with the decay probability and lights the
// same number again from the inactive pool, which now includes the dropped
// ones.
func (g *Grid) refresh() error {
	if len(g.active) == 0 || g.decay == 0 {
		return nil
	}
	kept := g.active[:0]
	lost := 0
	for _, px := range g.active {
		if g.rng.Float64() < g.decay {
			g.inactive = append(g.inactive, px)
			lost++
		} else {
			kept = append(kept, px)
		}
	}
	g.active = kept
	return g.activate(lost)
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}
