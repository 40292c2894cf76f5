package telemetry

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Power is where the battery charge is heading.
type Power uint8

const (
	// Live means the board runs from the battery.
	Live Power = iota
	// Standby means external power is connected and the cell is charging.
	Standby
)

func (p Power) String() string {
	if p == Standby {
		return "standby"
	}
	return "live"
}

// BatteryState is one battery reading.
type BatteryState struct {
	Power    Power
	Fraction float64
	Voltage  float64
}

// BatteryOpts holds the voltage thresholds of a LiFePO4 cell.
type BatteryOpts struct {
	// Command prints the cell voltage in millivolts.
	Command []string
	// Full is the voltage above which external power is assumed.
	Full float64
	// Critical is the empty cell voltage.
	Critical float64
	// StandbyMax is the voltage reached when charging is complete.
	StandbyMax float64
}

// DefaultBatteryOpts match a LiFePO4wered/Pi+ board.
var DefaultBatteryOpts = BatteryOpts{
	Command:    []string{"lifepo4wered-cli", "get", "vbat"},
	Full:       3.2,
	Critical:   2.95,
	StandbyMax: 3.6,
}

// Battery reads the cell voltage through an external command.
type Battery struct {
	opts BatteryOpts
	run  func(ctx context.Context, name string, args ...string) ([]byte, error)
}

func NewBattery(opts *BatteryOpts) (*Battery, error) {
	if opts == nil {
		opts = &DefaultBatteryOpts
	}
	if len(opts.Command) == 0 {
		return nil, errors.New("telemetry: battery: no command")
	}
	if !(opts.Critical < opts.Full && opts.Full < opts.StandbyMax) {
		return nil, fmt.Errorf("telemetry: battery: need critical < full < standby max, got %v/%v/%v",
			opts.Critical, opts.Full, opts.StandbyMax)
	}
	return &Battery{opts: *opts, run: runCommand}, nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Voltage returns the cell voltage in volts.
func (b *Battery) Voltage() (float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	out, err := b.run(ctx, b.opts.Command[0], b.opts.Command[1:]...)
	if err != nil {
		return 0, fmt.Errorf("telemetry: battery: %w", err)
	}
	mv, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("telemetry: battery: parse %q: %w", out, err)
	}
	return mv / 1000, nil
}

// State classifies the current voltage.
func (b *Battery) State() (BatteryState, error) {
	v, err := b.Voltage()
	if err != nil {
		return BatteryState{}, err
	}
	return b.classify(v), nil
}

func (b *Battery) classify(v float64) BatteryState {
	o := b.opts
	if v > o.Full {
		return BatteryState{Power: Standby, Voltage: v, Fraction: clamp01((v - o.Full) / (o.StandbyMax - o.Full))}
	}
	return BatteryState{Power: Live, Voltage: v, Fraction: clamp01((v - o.Critical) / (o.Full - o.Critical))}
}
