package render

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-unicorn/internal/led"
	"github.com/coreman2200/funtimes-unicorn/internal/telemetry"
)

// BatteryScene fills the matrix in proportion to the charge, green while
// running from the battery and blue while charging.
type BatteryScene struct {
	src BatterySource
	log zerolog.Logger
}

func NewBatteryScene(src BatterySource, log zerolog.Logger) *BatteryScene {
	return &BatteryScene{src: src, log: log}
}

func (s *BatteryScene) Name() string { return "battery" }

func (s *BatteryScene) Frame(dst []led.RGB) error {
	st, err := s.src.State()
	if err != nil {
		return err
	}
	s.log.Debug().Stringer("power", st.Power).Float64("voltage", st.Voltage).Float64("fraction", st.Fraction).Msg("battery")

	col := Green
	if st.Power == telemetry.Standby {
		col = Blue
	}
	dots := int(math.Ceil(float64(len(dst)) * st.Fraction))
	dots = min(max(dots, 0), len(dst))
	for i := range dst {
		dst[i] = Black
		if i < dots {
			dst[i] = col
		}
	}
	return nil
}
