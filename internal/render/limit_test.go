package render

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-unicorn/internal/led"
)

func whiteFrame(n int) []led.RGB {
	buf := make([]led.RGB, n)
	for i := range buf {
		buf[i] = led.RGB{R: 255, G: 255, B: 255}
	}
	return buf
}

func TestLimiterWhiteCap(t *testing.T) {
	buf := whiteFrame(1)
	(&Limiter{WhiteCap: 1.5}).Apply(buf)
	assert.LessOrEqual(t, channelSum(buf[0]), 1.5)
	assert.Equal(t, buf[0].R, buf[0].G)
}

func TestLimiterBudget(t *testing.T) {
	// 10 white LEDs draw 600mA at 20mA per channel
	buf := whiteFrame(10)
	(&Limiter{ChanMA: 20, BudgetMA: 300}).Apply(buf)
	assert.LessOrEqual(t, frameCurrent(buf, 20), 300.0)
	assert.Greater(t, frameCurrent(buf, 20), 250.0)
}

func TestLimiterUnderKneeUntouched(t *testing.T) {
	buf := whiteFrame(4)
	(&Limiter{ChanMA: 20, BudgetMA: 1000}).Apply(buf)
	assert.Equal(t, whiteFrame(4), buf)

	buf = whiteFrame(4)
	(&Limiter{}).Apply(buf)
	assert.Equal(t, whiteFrame(4), buf)
}

func TestEngineAppliesLimiter(t *testing.T) {
	d := newFakeDisplay(4, 4)
	presses := led.NewLatest[led.Button]()
	presses.Store(led.ButtonA)
	e, err := NewEngine(d, NewButtonScene(presses, seeded(), zerolog.Nop()), time.Second, zerolog.Nop())
	require.NoError(t, err)
	e.Limiter = &Limiter{ChanMA: 20, BudgetMA: 100}

	require.NoError(t, e.RenderOnce())
	assert.LessOrEqual(t, frameCurrent(d.frame, 20), 100.0)
}
