package led

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Button is one of the four Unicorn HAT Mini push buttons.
type Button uint8

const (
	ButtonA Button = iota
	ButtonB
	ButtonX
	ButtonY
)

// AllButtons lists every button in pin order.
var AllButtons = []Button{ButtonA, ButtonB, ButtonX, ButtonY}

// Pin is the BCM GPIO number the button is wired to.
func (b Button) Pin() int {
	switch b {
	case ButtonA:
		return 5
	case ButtonB:
		return 6
	case ButtonX:
		return 16
	case ButtonY:
		return 24
	default:
		return -1
	}
}

func (b Button) String() string {
	switch b {
	case ButtonA:
		return "A"
	case ButtonB:
		return "B"
	case ButtonX:
		return "X"
	case ButtonY:
		return "Y"
	default:
		return fmt.Sprintf("Button(%d)", uint8(b))
	}
}

// DefaultButtonPins maps each button to its gpioreg name.
func DefaultButtonPins() map[Button]string {
	m := make(map[Button]string, len(AllButtons))
	for _, b := range AllButtons {
		m[b] = fmt.Sprintf("GPIO%d", b.Pin())
	}
	return m
}

// DefaultDebounce is the minimum gap between two accepted presses.
const DefaultDebounce = 500 * time.Millisecond

// edgePoll bounds each WaitForEdge so watchers notice cancellation.
const edgePoll = 200 * time.Millisecond

// ButtonOpts configures the button poller.
type ButtonOpts struct {
	Debounce time.Duration
	Logger   zerolog.Logger
}

// Buttons watches the HAT buttons in the background and publishes the last
// accepted press to a Latest cell.
type Buttons struct {
	pins     map[Button]gpio.PinIn
	debounce time.Duration
	log      zerolog.Logger
	now      func() time.Time
	latest   *Latest[Button]

	mu   sync.Mutex
	last time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// OpenButtons resolves pin names through gpioreg. host.Init must have run.
func OpenButtons(names map[Button]string, opts *ButtonOpts) (*Buttons, error) {
	pins := make(map[Button]gpio.PinIn, len(names))
	for b, name := range names {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("led: button %s: no GPIO pin named %q", b, name)
		}
		pins[b] = p
	}
	return NewButtons(pins, opts)
}

// NewButtons configures every pin as a pulled-up input reporting both edges.
func NewButtons(pins map[Button]gpio.PinIn, opts *ButtonOpts) (*Buttons, error) {
	if len(pins) == 0 {
		return nil, errors.New("led: no button pins")
	}
	if opts == nil {
		opts = &ButtonOpts{Debounce: DefaultDebounce, Logger: zerolog.Nop()}
	}
	for b, p := range pins {
		if err := p.In(gpio.PullUp, gpio.BothEdges); err != nil {
			return nil, fmt.Errorf("led: button %s on %s: %w", b, p, err)
		}
	}
	bs := &Buttons{
		pins:     pins,
		debounce: opts.Debounce,
		log:      opts.Logger,
		now:      time.Now,
		latest:   NewLatest[Button](),
	}
	bs.last = bs.now()
	return bs, nil
}

// Latest is the cell presses are published to.
func (bs *Buttons) Latest() *Latest[Button] {
	return bs.latest
}

// Start spawns one watcher per pin. They run until ctx is done or Close.
func (bs *Buttons) Start(ctx context.Context) {
	ctx, bs.cancel = context.WithCancel(ctx)
	for b, p := range bs.pins {
		bs.wg.Add(1)
		go bs.watch(ctx, b, p)
	}
}

func (bs *Buttons) watch(ctx context.Context, b Button, p gpio.PinIn) {
	defer bs.wg.Done()
	for ctx.Err() == nil {
		if !p.WaitForEdge(edgePoll) {
			continue
		}
		if bs.press(b) {
			bs.log.Debug().Str("button", b.String()).Msg("pressed")
		}
	}
}

// press records b unless it falls inside the debounce window.
func (bs *Buttons) press(b Button) bool {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	now := bs.now()
	if now.Sub(bs.last) <= bs.debounce {
		return false
	}
	bs.last = now
	bs.latest.Store(b)
	return true
}

// Close stops the watchers and halts the pins.
func (bs *Buttons) Close() error {
	if bs.cancel != nil {
		bs.cancel()
	}
	bs.wg.Wait()
	var err error
	for _, p := range bs.pins {
		if herr := p.Halt(); err == nil {
			err = herr
		}
	}
	return err
}
