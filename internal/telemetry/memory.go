package telemetry

import (
	"errors"
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"
)

// Memory reports the fraction of RAM in use, shared memory included.
type Memory struct {
	virtual func() (*mem.VirtualMemoryStat, error)
}

func NewMemory() *Memory {
	return &Memory{virtual: mem.VirtualMemory}
}

// Fraction is (used + shared) / total, capped at 1.
func (m *Memory) Fraction() (float64, error) {
	vm, err := m.virtual()
	if err != nil {
		return 0, fmt.Errorf("telemetry: memory: %w", err)
	}
	if vm.Total == 0 {
		return 0, errors.New("telemetry: memory: total is zero")
	}
	return clamp01(float64(vm.Used+vm.Shared) / float64(vm.Total)), nil
}
