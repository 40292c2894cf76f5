package render

import (
	"math/rand/v2"

	"github.com/coreman2200/funtimes-unicorn/internal/led"
)

// CPUScene splits the matrix into four quarters, one per core, and lights
// each pixel of a quarter with probability equal to that core's load.
// Cores beyond the fourth are not shown; quarters without a core stay dark.
type CPUScene struct {
	src      LoadSource
	rng      *rand.Rand
	n        int
	quarters [4][]int
}

func NewCPUScene(dim led.Dimensions, src LoadSource, rng *rand.Rand) *CPUScene {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	hw, hh := dim.Width/2, dim.Height/2
	rect := func(x0, x1, y0, y1 int) []int {
		ids := make([]int, 0, (x1-x0)*(y1-y0))
		for x := x0; x < x1; x++ {
			for y := y0; y < y1; y++ {
				ids = append(ids, x+y*dim.Width)
			}
		}
		return ids
	}
	return &CPUScene{
		src: src,
		rng: rng,
		n:   dim.NumPx(),
		quarters: [4][]int{
			rect(0, hw, 0, hh),
			rect(hw, dim.Width, 0, hh),
			rect(0, hw, hh, dim.Height),
			rect(hw, dim.Width, hh, dim.Height),
		},
	}
}

func (s *CPUScene) Name() string { return "cpu" }

// Mask samples the loads once and returns which pixels are lit.
func (s *CPUScene) Mask() ([]bool, error) {
	loads, err := s.src.Loads()
	if err != nil {
		return nil, err
	}
	lit := make([]bool, s.n)
	for core, q := range s.quarters {
		if core >= len(loads) {
			break
		}
		for _, px := range q {
			lit[px] = s.rng.Float64() < loads[core]
		}
	}
	return lit, nil
}

func (s *CPUScene) Frame(dst []led.RGB) error {
	lit, err := s.Mask()
	if err != nil {
		return err
	}
	for i := range dst {
		dst[i] = Black
		if lit[i] {
			dst[i] = Red
		}
	}
	return nil
}
