package led

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/spi/spitest"
)

func newTestMini(t *testing.T) (*Mini, [2]*bytes.Buffer) {
	t.Helper()
	bufs := [2]*bytes.Buffer{{}, {}}
	d, err := NewMini(spitest.NewRecordRaw(bufs[0]), spitest.NewRecordRaw(bufs[1]), nil)
	require.NoError(t, err)
	return d, bufs
}

func initSequence(brightness byte) []byte {
	var w []byte
	w = append(w, 0xcc)
	w = append(w, 0x37, brightness)
	w = append(w, 0x20, 0x00)
	w = append(w, 0x35, 0x00)
	w = append(w, 0x80, 0x00)
	w = append(w, make([]byte, miniChipBuf)...)
	w = append(w, 0x41, 0xff)
	w = append(w, 0x42, 0xff, 0xff, 0xff, 0xff)
	w = append(w, 0x35, 0x03)
	return w
}

func TestMiniInitSequence(t *testing.T) {
	d, bufs := newTestMini(t)

	for i, buf := range bufs {
		assert.Equal(t, initSequence(0x01), buf.Bytes(), "chip %d", i)
	}
	assert.Equal(t, Dimensions{Width: 17, Height: 7}, d.Dimensions())
}

func TestMiniBrightness(t *testing.T) {
	bufs := [2]*bytes.Buffer{{}, {}}
	_, err := NewMini(spitest.NewRecordRaw(bufs[0]), spitest.NewRecordRaw(bufs[1]), &MiniOpts{Brightness: 0x20})
	require.NoError(t, err)
	assert.Equal(t, initSequence(0x20), bufs[0].Bytes())
}

func TestMiniSetIdxWritesLUTOffsets(t *testing.T) {
	d, bufs := newTestMini(t)
	bufs[0].Reset()
	bufs[1].Reset()

	require.NoError(t, d.SetIdx(0, RGB{10, 20, 30}))
	require.NoError(t, d.Flush())

	left := bufs[0].Bytes()
	require.Len(t, left, 2+miniChipBuf)
	assert.Equal(t, []byte{0x80, 0x00}, left[:2])
	payload := left[2:]
	for i, b := range payload {
		switch i {
		case 139:
			assert.Equal(t, byte(10), b)
		case 138:
			assert.Equal(t, byte(20), b)
		case 137:
			assert.Equal(t, byte(30), b)
		default:
			assert.Zero(t, b, "offset %d", i)
		}
	}
	assert.Equal(t, append([]byte{0x80, 0x00}, make([]byte, miniChipBuf)...), bufs[1].Bytes())
}

func TestMiniRightChip(t *testing.T) {
	d, bufs := newTestMini(t)
	bufs[0].Reset()
	bufs[1].Reset()

	// first pixel driven by the second controller
	require.NoError(t, d.SetIdx(63, RGB{1, 2, 3}))
	require.NoError(t, d.Flush())

	right := bufs[1].Bytes()[2:]
	assert.Equal(t, []byte{3, 2, 1}, right[361-miniChipBuf:364-miniChipBuf])
	assert.Equal(t, append([]byte{0x80, 0x00}, make([]byte, miniChipBuf)...), bufs[0].Bytes())
}

func TestMiniSetXYIsColumnMajor(t *testing.T) {
	d, _ := newTestMini(t)

	require.NoError(t, d.SetXY(2, 3, RGB{7, 7, 7}))
	o := miniLUT[2*7+3]
	for _, off := range o {
		assert.Equal(t, byte(7), d.buf[off])
	}
}

func TestMiniBounds(t *testing.T) {
	d, _ := newTestMini(t)

	assert.True(t, errors.Is(d.SetXY(17, 0, Black), ErrBounds))
	assert.True(t, errors.Is(d.SetXY(0, 7, Black), ErrBounds))
	assert.True(t, errors.Is(d.SetIdx(119, Black), ErrBounds))
	assert.NoError(t, d.SetIdx(118, Black))
}

func TestMiniLUTIsInjective(t *testing.T) {
	seen := map[int]bool{}
	for idx, o := range miniLUT {
		for _, off := range o {
			require.False(t, seen[off], "offset %d reused by pixel %d", off, idx)
			require.Less(t, off, 2*miniChipBuf)
			seen[off] = true
		}
	}
	assert.Len(t, seen, 3*miniNumPx)
}

func TestMiniCloseBlanks(t *testing.T) {
	d, bufs := newTestMini(t)
	require.NoError(t, d.SetIdx(5, RGB{255, 0, 0}))
	bufs[0].Reset()
	bufs[1].Reset()

	require.NoError(t, d.Close())
	for i, buf := range bufs {
		assert.Equal(t, initSequence(0x01), buf.Bytes(), "chip %d", i)
	}
}

func TestMiniWriteError(t *testing.T) {
	_, err := NewMini(&failingPort{}, spitest.NewRecordRaw(&bytes.Buffer{}), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unicorn mini chip 0 write")
	assert.Contains(t, err.Error(), "bus stalled")

	d, _ := newTestMini(t)
	d.c[1] = failingConn{}
	err = d.Flush()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unicorn mini chip 1 write")
}
