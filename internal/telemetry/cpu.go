// Package telemetry samples host load figures as fractions in [0, 1].
package telemetry

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
)

// CPU reports the busy fraction of each core since the previous sample.
type CPU struct {
	percent func(interval time.Duration, percpu bool) ([]float64, error)
}

// NewCPU primes the per-core counters so the first Loads call has a baseline.
func NewCPU() (*CPU, error) {
	c := &CPU{percent: cpu.Percent}
	if _, err := c.percent(0, true); err != nil {
		return nil, fmt.Errorf("telemetry: cpu: %w", err)
	}
	return c, nil
}

// Loads returns one busy fraction per core.
func (c *CPU) Loads() ([]float64, error) {
	pct, err := c.percent(0, true)
	if err != nil {
		return nil, fmt.Errorf("telemetry: cpu: %w", err)
	}
	loads := make([]float64, len(pct))
	for i, p := range pct {
		loads[i] = clamp01(p / 100)
	}
	return loads, nil
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
