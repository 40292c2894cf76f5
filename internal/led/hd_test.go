package led

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"
)

func newTestHD(t *testing.T) (*HD, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	d, err := NewHD(spitest.NewRecordRaw(buf), &HDOpts{})
	require.NoError(t, err)
	return d, buf
}

func TestHDResetOnOpen(t *testing.T) {
	d, buf := newTestHD(t)

	want := make([]byte, hdBufLen)
	want[0] = hdSOF
	assert.Equal(t, want, buf.Bytes())
	assert.Equal(t, Dimensions{Width: 16, Height: 16}, d.Dimensions())
	assert.Equal(t, 256, d.Dimensions().NumPx())
}

func TestHDSetIdxOffsets(t *testing.T) {
	d, buf := newTestHD(t)
	buf.Reset()

	require.NoError(t, d.SetIdx(0, RGB{1, 2, 3}))
	require.NoError(t, d.SetIdx(255, RGB{4, 5, 6}))
	require.NoError(t, d.Flush())

	frame := buf.Bytes()
	require.Len(t, frame, 769)
	assert.Equal(t, byte(0x72), frame[0])
	assert.Equal(t, []byte{1, 2, 3}, frame[1:4])
	assert.Equal(t, []byte{4, 5, 6}, frame[766:769])
}

func TestHDSetXYIsRowMajor(t *testing.T) {
	d, buf := newTestHD(t)
	buf.Reset()

	require.NoError(t, d.SetXY(3, 2, RGB{9, 8, 7}))
	require.NoError(t, d.Flush())

	i := (3+2*16)*3 + 1
	assert.Equal(t, []byte{9, 8, 7}, buf.Bytes()[i:i+3])
}

func TestHDBounds(t *testing.T) {
	d, _ := newTestHD(t)

	for _, tt := range []struct {
		name string
		err  error
	}{
		{"x too large", d.SetXY(16, 0, Black)},
		{"y too large", d.SetXY(0, 16, Black)},
		{"negative x", d.SetXY(-1, 0, Black)},
		{"index too large", d.SetIdx(256, Black)},
		{"negative index", d.SetIdx(-1, Black)},
	} {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, ErrBounds), "got %v", tt.err)
		})
	}
}

func TestHDCloseBlanks(t *testing.T) {
	d, buf := newTestHD(t)
	require.NoError(t, d.SetIdx(10, RGB{255, 255, 255}))
	buf.Reset()

	require.NoError(t, d.Close())

	want := make([]byte, hdBufLen)
	want[0] = hdSOF
	assert.Equal(t, want, buf.Bytes())
}

func TestHDWriteError(t *testing.T) {
	_, err := NewHD(&failingPort{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unicorn hd write")
}

// failingPort hands out connections whose writes always fail.
type failingPort struct{}

func (failingPort) String() string                      { return "failing" }
func (failingPort) LimitSpeed(f physic.Frequency) error { return nil }
func (failingPort) Connect(f physic.Frequency, m spi.Mode, bits int) (spi.Conn, error) {
	return failingConn{}, nil
}

type failingConn struct{}

func (failingConn) String() string                 { return "failing" }
func (failingConn) Duplex() conn.Duplex            { return conn.Half }
func (failingConn) Tx(w, r []byte) error           { return errors.New("bus stalled") }
func (failingConn) TxPackets(p []spi.Packet) error { return errors.New("bus stalled") }
