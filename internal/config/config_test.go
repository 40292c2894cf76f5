package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/funtimes-unicorn/internal/led"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, time.Second, c.Interval())
	assert.Equal(t, 0.01, c.Decay)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
display: mini
mode: buttons
interval_ms: 250
mini:
  brightness: 8
  buttons:
    a: GPIO12
`), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mini", c.Display)
	assert.Equal(t, 250*time.Millisecond, c.Interval())
	assert.Equal(t, uint8(8), c.Mini.Brightness)
	assert.Equal(t, led.DefaultMiniDev1, c.Mini.Dev1)

	names, opts := c.ButtonOpts(zerolog.Nop())
	assert.Equal(t, "GPIO12", names[led.ButtonA])
	assert.Equal(t, "GPIO24", names[led.ButtonY])
	assert.Equal(t, 500*time.Millisecond, opts.Debounce)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c := Default()
	c.Display = "strip"
	c.Strip.Serpentine = true
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	for name, mut := range map[string]func(*Config){
		"display":      func(c *Config) { c.Display = "oled" },
		"mode":         func(c *Config) { c.Mode = "fireworks" },
		"buttons":      func(c *Config) { c.Mode = "buttons"; c.Display = "hd" },
		"interval":     func(c *Config) { c.IntervalMs = 0 },
		"decay":        func(c *Config) { c.Decay = 1.5 },
		"log level":    func(c *Config) { c.LogLevel = "loud" },
		"speed":        func(c *Config) { c.HD.SpeedHz = -1 },
		"settle":       func(c *Config) { c.HD.SettleMs = -1 },
		"debounce":     func(c *Config) { c.Mini.DebounceMs = -100 },
		"console size": func(c *Config) { c.Display = "console"; c.Console.Height = 0 },
		"white cap":    func(c *Config) { c.Limit.WhiteCap = 4 },
		"knee":         func(c *Config) { c.Limit.Knee = 1 },
		"strip size":   func(c *Config) { c.Display = "strip"; c.Strip.Width = 0 },
		"battery cmd":  func(c *Config) { c.Mode = "battery"; c.Battery.Command = nil },
		"battery volt": func(c *Config) { c.Mode = "battery"; c.Battery.Full = 4 },
	} {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mut(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestOpenOpts(t *testing.T) {
	o := Default().OpenOpts(zerolog.Nop())
	assert.Equal(t, led.KindHD, o.Kind)
	assert.Equal(t, 9*physic.MegaHertz, o.HD.Speed)
	assert.Equal(t, 9*time.Millisecond, o.HD.Settle)
	assert.Equal(t, 600*physic.KiloHertz, o.Mini.Speed)
	assert.Equal(t, [2]string{led.DefaultMiniDev0, led.DefaultMiniDev1}, o.MiniDevs)
	assert.True(t, o.Fallback)
}

func TestConsoleHasItsOwnSize(t *testing.T) {
	c := Default()
	c.Display = "console"
	c.Console = Console{Width: 17, Height: 7}
	c.Strip.Width = 30
	require.NoError(t, c.Validate())
	assert.Equal(t, led.Dimensions{Width: 17, Height: 7}, c.OpenOpts(zerolog.Nop()).Console)
}

func TestLimiter(t *testing.T) {
	c := Default()
	assert.Nil(t, c.Limiter())

	c.Limit = Limit{BudgetMA: 1500, ChanMA: 20}
	require.NoError(t, c.Validate())
	l := c.Limiter()
	require.NotNil(t, l)
	assert.Equal(t, 1500.0, l.BudgetMA)
}
