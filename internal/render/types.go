package render

import (
	"github.com/coreman2200/funtimes-unicorn/internal/led"
	"github.com/coreman2200/funtimes-unicorn/internal/telemetry"
)

// Palette used by the scenes. Kept dim, the HATs are bright.
var (
	Red    = led.RGB{R: 100}
	DotRed = led.RGB{R: 70}
	Green  = led.RGB{G: 20}
	Blue   = led.RGB{B: 20}
	Black  = led.Black
)

// LoadSource reports one busy fraction per CPU core.
type LoadSource interface {
	Loads() ([]float64, error)
}

// FractionSource reports a single fraction in [0, 1].
type FractionSource interface {
	Fraction() (float64, error)
}

// BatterySource reports the battery state.
type BatterySource interface {
	State() (telemetry.BatteryState, error)
}
