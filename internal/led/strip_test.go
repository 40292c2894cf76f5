package led

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/spi/spitest"
)

func TestStripRejectsEmpty(t *testing.T) {
	buf := bytes.Buffer{}
	_, err := NewStrip(spitest.NewRecordRaw(&buf), &StripOpts{Width: 0, Height: 8})
	assert.Error(t, err)
}

func TestStripFlushWrites(t *testing.T) {
	buf := bytes.Buffer{}
	s, err := NewStrip(spitest.NewRecordRaw(&buf), &StripOpts{Width: 8, Height: 4})
	require.NoError(t, err)
	blank := buf.Len()
	require.NotZero(t, blank)

	require.NoError(t, s.SetXY(7, 3, RGB{1, 2, 3}))
	require.NoError(t, s.Flush())
	assert.Equal(t, 2*blank, buf.Len())
	assert.NotEqual(t, buf.Bytes()[:blank], buf.Bytes()[blank:])
	assert.Equal(t, Dimensions{Width: 8, Height: 4}, s.Dimensions())
}

func TestStripSerpentine(t *testing.T) {
	for _, tt := range []struct {
		serpentine bool
		x, y       int
		want       int
	}{
		{false, 0, 0, 0},
		{false, 2, 1, 7},
		{true, 0, 0, 0},
		{true, 0, 1, 9},
		{true, 4, 1, 5},
		{true, 1, 2, 11},
	} {
		buf := bytes.Buffer{}
		s, err := NewStrip(spitest.NewRecordRaw(&buf), &StripOpts{Width: 5, Height: 3, Serpentine: tt.serpentine})
		require.NoError(t, err)
		require.NoError(t, s.SetXY(tt.x, tt.y, RGB{1, 1, 1}))
		assert.Equal(t, byte(1), s.buf[tt.want*3], "serpentine=%v (%d,%d)", tt.serpentine, tt.x, tt.y)
	}
}
