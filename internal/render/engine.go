// Package render drives a led.Display from a Scene at a fixed interval.
package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-unicorn/internal/led"
	"github.com/coreman2200/funtimes-unicorn/internal/pixel"
)

// ErrSkipFrame tells the engine to keep the previous frame and carry on.
var ErrSkipFrame = errors.New("render: frame skipped")

// DefaultInterval is the frame period used when Engine.Interval is zero.
const DefaultInterval = time.Second

// Scene fills one frame of colors. dst is row-major: pixel (x, y) is
// dst[x+y*width].
type Scene interface {
	Name() string
	Frame(dst []led.RGB) error
}

// Waker is implemented by scenes that want a frame as soon as their input
// changes rather than on the next tick.
type Waker interface {
	Wake() <-chan struct{}
}

// Engine renders frames from Scene onto Display.
type Engine struct {
	Display  led.Display
	Scene    Scene
	Interval time.Duration
	Logger   zerolog.Logger
	// Limiter, when set, runs on every frame before it is written.
	Limiter *Limiter

	buf []led.RGB

	// last frame duration, for debug logs
	Last time.Duration
}

func NewEngine(d led.Display, s Scene, interval time.Duration, log zerolog.Logger) (*Engine, error) {
	if d == nil || s == nil {
		return nil, errors.New("render: engine needs a display and a scene")
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Engine{
		Display:  d,
		Scene:    s,
		Interval: interval,
		Logger:   log,
		buf:      make([]led.RGB, d.Dimensions().NumPx()),
	}, nil
}

// Skippable reports whether err only costs a frame.
func Skippable(err error) bool {
	return errors.Is(err, ErrSkipFrame) || errors.Is(err, pixel.ErrCapacity)
}

// RenderOnce asks the scene for a frame, writes every pixel and flushes.
// Nothing is written to the display when the scene fails.
func (e *Engine) RenderOnce() error {
	start := time.Now()
	if err := e.Scene.Frame(e.buf); err != nil {
		return fmt.Errorf("render: %s: %w", e.Scene.Name(), err)
	}
	if e.Limiter != nil {
		e.Limiter.Apply(e.buf)
	}
	w := e.Display.Dimensions().Width
	for i, c := range e.buf {
		if err := e.Display.SetXY(i%w, i/w, c); err != nil {
			return err
		}
	}
	if err := e.Display.Flush(); err != nil {
		return err
	}
	e.Last = time.Since(start)
	return nil
}

// Run renders the first frame immediately and then one per Interval, or on
// wake, until ctx is done. Skippable errors are logged; anything else stops
// the loop.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.Interval)
	defer ticker.Stop()

	for ctx.Err() == nil {
		var wake <-chan struct{}
		if w, ok := e.Scene.(Waker); ok {
			wake = w.Wake()
		}
		if err := e.RenderOnce(); err != nil {
			if !Skippable(err) {
				return err
			}
			e.Logger.Warn().Err(err).Str("scene", e.Scene.Name()).Msg("skipping frame")
		} else {
			e.Logger.Debug().Str("scene", e.Scene.Name()).Dur("took", e.Last).Msg("frame")
		}

		select {
		case <-ctx.Done():
		case <-ticker.C:
		case <-wake:
		}
	}
	return nil
}
