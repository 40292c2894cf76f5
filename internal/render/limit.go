package render

import "github.com/coreman2200/funtimes-unicorn/internal/led"

// DefaultChanMA is the current of one channel at full scale.
const DefaultChanMA = 20

// DefaultKnee is the share of the budget where scaling starts.
const DefaultKnee = 0.9

// Limiter keeps frames under a per-LED white cap and a whole-frame current
// budget. Zero fields disable the matching stage.
type Limiter struct {
	// WhiteCap bounds R+G+B of one LED, 3 being full white.
	WhiteCap float64
	// ChanMA is the current of one channel at 255 (default 20).
	ChanMA float64
	// BudgetMA is the most the whole frame may draw.
	BudgetMA float64
	// Knee is the fraction of BudgetMA above which the frame is eased down
	// (default 0.9).
	Knee float64
}

// Apply limits buf in place.
func (l *Limiter) Apply(buf []led.RGB) {
	if l.WhiteCap > 0 && l.WhiteCap < 3 {
		for i, c := range buf {
			if s := channelSum(c); s > l.WhiteCap {
				buf[i] = c.Scale(l.WhiteCap / s)
			}
		}
	}
	if l.BudgetMA <= 0 {
		return
	}

	chanMA, knee := l.ChanMA, l.Knee
	if chanMA <= 0 {
		chanMA = DefaultChanMA
	}
	if knee <= 0 || knee >= 1 {
		knee = DefaultKnee
	}
	total := frameCurrent(buf, chanMA)
	if total <= 0 {
		return
	}
	ratio := total / l.BudgetMA
	switch {
	case ratio <= knee:
		return
	case ratio <= 1:
		// ease from 1 at the knee down to budget/total at the budget
		t := (ratio - knee) / (1 - knee)
		scaleAll(buf, 1-t*(1-l.BudgetMA/total))
	default:
		scaleAll(buf, l.BudgetMA/total)
	}
}

// frameCurrent estimates what buf draws, in mA.
func frameCurrent(buf []led.RGB, chanMA float64) float64 {
	var total float64
	for _, c := range buf {
		total += channelSum(c) * chanMA
	}
	return total
}

func channelSum(c led.RGB) float64 {
	return (float64(c.R) + float64(c.G) + float64(c.B)) / 255
}

func scaleAll(buf []led.RGB, s float64) {
	if s >= 1 {
		return
	}
	for i, c := range buf {
		buf[i] = c.Scale(s)
	}
}
