package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-unicorn/internal/config"
	"github.com/coreman2200/funtimes-unicorn/internal/led"
	"github.com/coreman2200/funtimes-unicorn/internal/pixel"
	"github.com/coreman2200/funtimes-unicorn/internal/render"
	"github.com/coreman2200/funtimes-unicorn/internal/telemetry"
)

func main() {
	// ---- Flags (override config.yaml when given) ----
	var (
		configPath  = flag.String("config", "config.yaml", "path to config.yaml (optional)")
		display     = flag.String("display", "", "display: hd | mini | strip | console")
		mode        = flag.String("mode", "", "scene: cpu | dots | battery | buttons | memory | noise | sweep | rgb")
		interval    = flag.Duration("interval", 0, "frame period, e.g. 1s")
		decay       = flag.Float64("decay", 0, "chance per frame that a lit memory dot moves")
		fallback    = flag.Bool("fallback", true, "print at the console when no SPI port is found")
		logLevel    = flag.String("log-level", "", "trace | debug | info | warn | error")
		writeConfig = flag.Bool("write-config", false, "write the effective config to -config and exit")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	// ---- Config ----
	cfg, err := config.Load(*configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Info().Str("path", *configPath).Msg("no config file; using defaults")
		cfg = config.Default()
	case err != nil:
		log.Fatal().Err(err).Msg("config")
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "display":
			cfg.Display = *display
		case "mode":
			cfg.Mode = *mode
		case "interval":
			cfg.IntervalMs = int(*interval / time.Millisecond)
		case "decay":
			cfg.Decay = *decay
		case "fallback":
			cfg.Fallback = *fallback
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	lvl, _ := zerolog.ParseLevel(cfg.LogLevel)
	zerolog.SetGlobalLevel(lvl)

	if *writeConfig {
		if err := config.Save(*configPath, cfg); err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("write config")
		}
		log.Info().Str("path", *configPath).Msg("config written")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("unicorn")
	}
	log.Info().Msg("bye")
}

// run owns every hardware resource so that the deferred Close calls blank
// the matrix before main exits.
func run(ctx context.Context, cfg *config.Config) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periph host init: %w", err)
	}

	d, err := led.Open(cfg.OpenOpts(log.Logger))
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Error().Err(err).Str("display", d.String()).Msg("close")
		}
	}()
	dim := d.Dimensions()
	log.Info().Str("display", d.String()).Stringer("size", dim).Str("mode", cfg.Mode).Msg("started")

	scene, err := newScene(ctx, cfg, dim)
	if err != nil {
		return err
	}
	if c, ok := scene.(interface{ Close() error }); ok {
		defer c.Close()
	}

	e, err := render.NewEngine(d, scene, cfg.Interval(), log.With().Str("component", "render").Logger())
	if err != nil {
		return err
	}
	e.Limiter = cfg.Limiter()
	return e.Run(ctx)
}

func newScene(ctx context.Context, cfg *config.Config, dim led.Dimensions) (render.Scene, error) {
	grid := func() *pixel.Grid {
		return pixel.New(dim.NumPx(), pixel.WithDecay(cfg.Decay))
	}

	switch cfg.Mode {
	case "cpu":
		cpu, err := telemetry.NewCPU()
		if err != nil {
			return nil, err
		}
		return render.NewCPUScene(dim, cpu, nil), nil

	case "memory":
		return render.NewMemoryScene(grid(), telemetry.NewMemory()), nil

	case "dots":
		cpu, err := telemetry.NewCPU()
		if err != nil {
			return nil, err
		}
		return render.NewDotsScene(grid(), telemetry.NewMemory(), render.NewCPUScene(dim, cpu, nil)), nil

	case "battery":
		b, err := telemetry.NewBattery(cfg.BatteryOpts())
		if err != nil {
			return nil, err
		}
		return render.NewBatteryScene(b, log.With().Str("component", "battery").Logger()), nil

	case "buttons":
		names, opts := cfg.ButtonOpts(log.With().Str("component", "buttons").Logger())
		bs, err := led.OpenButtons(names, opts)
		if err != nil {
			return nil, err
		}
		bs.Start(ctx)
		return &buttonScene{
			ButtonScene: render.NewButtonScene(bs.Latest(), nil, log.With().Str("component", "buttons").Logger()),
			bs:          bs,
		}, nil

	case "noise":
		return render.NewNoiseScene(dim, time.Now().UnixNano()), nil

	case "sweep", "rgb":
		return render.NewSweepScene(render.SweepKind(cfg.Mode)), nil

	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}

// buttonScene stops the button watchers along with the scene.
type buttonScene struct {
	*render.ButtonScene
	bs *led.Buttons
}

func (s *buttonScene) Close() error { return s.bs.Close() }
