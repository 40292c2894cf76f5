// Package config loads the YAML settings shared by the unicorn command.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/funtimes-unicorn/internal/led"
	"github.com/coreman2200/funtimes-unicorn/internal/render"
	"github.com/coreman2200/funtimes-unicorn/internal/telemetry"
)

// Modes lists the scenes the command can run.
var Modes = []string{"cpu", "dots", "battery", "buttons", "memory", "sweep", "rgb", "noise"}

type HD struct {
	Dev      string `yaml:"dev"`       // e.g. /dev/spidev0.0
	SpeedHz  int    `yaml:"speed_hz"`  // e.g. 9000000
	SettleMs int    `yaml:"settle_ms"` // pause after each frame
}

type Buttons struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
	X string `yaml:"x"`
	Y string `yaml:"y"`
}

type Mini struct {
	Dev0       string  `yaml:"dev0"`
	Dev1       string  `yaml:"dev1"`
	SpeedHz    int     `yaml:"speed_hz"`
	Brightness uint8   `yaml:"brightness"`
	DebounceMs int     `yaml:"debounce_ms"`
	Buttons    Buttons `yaml:"buttons"`
}

type Strip struct {
	Dev        string `yaml:"dev"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Serpentine bool   `yaml:"serpentine"`
	SpeedHz    int    `yaml:"speed_hz"` // NRZ bit rate, e.g. 2500000
}

type Battery struct {
	Command    []string `yaml:"command"`
	Full       float64  `yaml:"full"`
	Critical   float64  `yaml:"critical"`
	StandbyMax float64  `yaml:"standby_max"`
}

type Console struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Limit caps frame brightness before it reaches the LEDs. Zero values leave
// frames untouched.
type Limit struct {
	WhiteCap float64 `yaml:"white_cap"` // max R+G+B per LED, 0..3 at full scale
	ChanMA   float64 `yaml:"chan_ma"`   // mA per channel at full scale, e.g. 20
	BudgetMA float64 `yaml:"budget_ma"` // whole frame budget, e.g. 1500
	Knee     float64 `yaml:"knee"`      // fraction of budget where scaling starts
}

type Config struct {
	Display    string  `yaml:"display"` // "hd" | "mini" | "strip" | "console"
	Mode       string  `yaml:"mode"`
	IntervalMs int     `yaml:"interval_ms"`
	Decay      float64 `yaml:"decay"`
	Fallback   bool    `yaml:"fallback"`
	LogLevel   string  `yaml:"log_level"`

	HD      HD      `yaml:"hd"`
	Mini    Mini    `yaml:"mini"`
	Strip   Strip   `yaml:"strip,omitempty"`
	Console Console `yaml:"console"`
	Battery Battery `yaml:"battery"`
	Limit   Limit   `yaml:"limit"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Display:    string(led.KindHD),
		Mode:       "dots",
		IntervalMs: 1000,
		Decay:      0.01,
		Fallback:   true,
		LogLevel:   "info",
		HD: HD{
			Dev:      led.DefaultHDDev,
			SpeedHz:  int(led.DefaultHDOpts.Speed / physic.Hertz),
			SettleMs: int(led.DefaultHDOpts.Settle / time.Millisecond),
		},
		Mini: Mini{
			Dev0:       led.DefaultMiniDev0,
			Dev1:       led.DefaultMiniDev1,
			SpeedHz:    int(led.DefaultMiniOpts.Speed / physic.Hertz),
			Brightness: led.DefaultMiniOpts.Brightness,
			DebounceMs: int(led.DefaultDebounce / time.Millisecond),
			Buttons:    Buttons{A: "GPIO5", B: "GPIO6", X: "GPIO16", Y: "GPIO24"},
		},
		Strip:   Strip{Width: 16, Height: 16, SpeedHz: 2500000},
		Console: Console{Width: 16, Height: 16},
		Battery: Battery{
			Command:    append([]string(nil), telemetry.DefaultBatteryOpts.Command...),
			Full:       telemetry.DefaultBatteryOpts.Full,
			Critical:   telemetry.DefaultBatteryOpts.Critical,
			StandbyMax: telemetry.DefaultBatteryOpts.StandbyMax,
		},
	}
}

// Load reads path over the defaults, so a file only needs the keys it changes.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate rejects settings no backend or scene can work with.
func (c *Config) Validate() error {
	var errs []error
	switch led.Kind(c.Display) {
	case led.KindHD, led.KindMini, led.KindStrip, led.KindConsole:
	default:
		errs = append(errs, fmt.Errorf("unknown display %q", c.Display))
	}
	if !slices.Contains(Modes, c.Mode) {
		errs = append(errs, fmt.Errorf("unknown mode %q", c.Mode))
	}
	if c.Mode == "buttons" && led.Kind(c.Display) != led.KindMini {
		errs = append(errs, errors.New("mode buttons needs the mini display"))
	}
	if c.IntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("interval_ms must be positive, got %d", c.IntervalMs))
	}
	if c.Decay < 0 || c.Decay > 1 {
		errs = append(errs, fmt.Errorf("decay must be within [0, 1], got %v", c.Decay))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.HD.SpeedHz < 0 || c.Mini.SpeedHz < 0 || c.Strip.SpeedHz < 0 {
		errs = append(errs, errors.New("speed_hz must not be negative"))
	}
	if c.HD.SettleMs < 0 {
		errs = append(errs, fmt.Errorf("hd.settle_ms must not be negative, got %d", c.HD.SettleMs))
	}
	if c.Mini.DebounceMs < 0 {
		errs = append(errs, fmt.Errorf("mini.debounce_ms must not be negative, got %d", c.Mini.DebounceMs))
	}
	if led.Kind(c.Display) == led.KindConsole && (c.Console.Width <= 0 || c.Console.Height <= 0) {
		errs = append(errs, fmt.Errorf("console needs a positive size, got %dx%d", c.Console.Width, c.Console.Height))
	}
	if l := c.Limit; l.WhiteCap < 0 || l.WhiteCap > 3 || l.ChanMA < 0 || l.BudgetMA < 0 || l.Knee < 0 || l.Knee >= 1 {
		errs = append(errs, errors.New("limit needs white_cap within [0, 3], knee within [0, 1) and no negative current"))
	}
	if led.Kind(c.Display) == led.KindStrip && (c.Strip.Width <= 0 || c.Strip.Height <= 0) {
		errs = append(errs, fmt.Errorf("strip needs a positive size, got %dx%d", c.Strip.Width, c.Strip.Height))
	}
	if c.Mode == "battery" {
		b := c.Battery
		if len(b.Command) == 0 {
			errs = append(errs, errors.New("battery.command is empty"))
		}
		if !(b.Critical < b.Full && b.Full < b.StandbyMax) {
			errs = append(errs, errors.New("battery needs critical < full < standby_max"))
		}
	}
	return errors.Join(errs...)
}

// Interval is the frame period.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// OpenOpts maps the display settings onto led.Open.
func (c *Config) OpenOpts(log zerolog.Logger) *led.OpenOpts {
	return &led.OpenOpts{
		Kind:  led.Kind(c.Display),
		HDDev: c.HD.Dev,
		HD: led.HDOpts{
			Speed:  physic.Frequency(c.HD.SpeedHz) * physic.Hertz,
			Settle: time.Duration(c.HD.SettleMs) * time.Millisecond,
		},
		MiniDevs: [2]string{c.Mini.Dev0, c.Mini.Dev1},
		Mini: led.MiniOpts{
			Speed:      physic.Frequency(c.Mini.SpeedHz) * physic.Hertz,
			Brightness: c.Mini.Brightness,
		},
		StripDev: c.Strip.Dev,
		Strip: led.StripOpts{
			Width:      c.Strip.Width,
			Height:     c.Strip.Height,
			Serpentine: c.Strip.Serpentine,
			Freq:       physic.Frequency(c.Strip.SpeedHz) * physic.Hertz,
		},
		Console:  led.Dimensions{Width: c.Console.Width, Height: c.Console.Height},
		Fallback: c.Fallback,
		Logger:   log,
	}
}

// ButtonOpts maps the mini button settings onto led.OpenButtons.
func (c *Config) ButtonOpts(log zerolog.Logger) (map[led.Button]string, *led.ButtonOpts) {
	names := map[led.Button]string{
		led.ButtonA: c.Mini.Buttons.A,
		led.ButtonB: c.Mini.Buttons.B,
		led.ButtonX: c.Mini.Buttons.X,
		led.ButtonY: c.Mini.Buttons.Y,
	}
	def := led.DefaultButtonPins()
	for b, n := range names {
		if n == "" {
			names[b] = def[b]
		}
	}
	return names, &led.ButtonOpts{
		Debounce: time.Duration(c.Mini.DebounceMs) * time.Millisecond,
		Logger:   log,
	}
}

// BatteryOpts maps the battery settings onto telemetry.NewBattery.
func (c *Config) BatteryOpts() *telemetry.BatteryOpts {
	return &telemetry.BatteryOpts{
		Command:    c.Battery.Command,
		Full:       c.Battery.Full,
		Critical:   c.Battery.Critical,
		StandbyMax: c.Battery.StandbyMax,
	}
}

// Limiter maps the limit settings onto a render.Limiter, nil when unset.
func (c *Config) Limiter() *render.Limiter {
	l := c.Limit
	if l.WhiteCap == 0 && l.BudgetMA == 0 {
		return nil
	}
	return &render.Limiter{WhiteCap: l.WhiteCap, ChanMA: l.ChanMA, BudgetMA: l.BudgetMA, Knee: l.Knee}
}
