package evfile

import (
	"testing"

	"github.com/jlab-go/evio/dtype"
	"github.com/jlab-go/evio/endian"
	"github.com/jlab-go/evio/section"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bankEvent builds a minimal single-bank event: a Uint32 bank with n
// words of payload.
func bankEvent(t *testing.T, e endian.EndianEngine, tag uint16, num uint8, n int) []byte {
	t.Helper()
	h := section.BankHeader{Length: uint32(1 + n), Tag: tag, DataType: dtype.Uint32, Num: num}
	buf := make([]byte, h.TotalBytes())
	require.NoError(t, h.Bytes(buf, e))
	for i := 0; i < n; i++ {
		e.PutUint32(buf[section.BankHeaderBytes+i*4:], uint32(i))
	}
	return buf
}

func TestMemoryWriter_OpenRoundTrip_Sequential(t *testing.T) {
	e := endian.GetLittleEndianEngine()
	mw, err := NewMemoryWriter(e, WithTrailerIndex(true))
	require.NoError(t, err)

	ev1 := bankEvent(t, e, 1, 1, 2)
	ev2 := bankEvent(t, e, 2, 1, 3)
	require.NoError(t, mw.WriteRawEvents([][]byte{ev1, ev2}))
	require.NoError(t, mw.Close())

	f, err := Open(mw.Bytes())
	require.NoError(t, err)
	assert.True(t, f.IsModern())
	assert.Equal(t, 2, f.EventCount())

	r := NewSequentialReader(f)
	got1, err := r.NextEvent()
	require.NoError(t, err)
	assert.Equal(t, ev1, got1)

	got2, err := r.NextEvent()
	require.NoError(t, err)
	assert.Equal(t, ev2, got2)

	_, err = r.NextEvent()
	assert.Error(t, err)

	r.Rewind()
	got1again, err := r.NextEvent()
	require.NoError(t, err)
	assert.Equal(t, ev1, got1again)
}

func TestMemoryWriter_CompactReader(t *testing.T) {
	e := endian.GetBigEndianEngine()
	mw, err := NewMemoryWriter(e)
	require.NoError(t, err)

	ev1 := bankEvent(t, e, 10, 1, 1)
	ev2 := bankEvent(t, e, 20, 2, 1)
	require.NoError(t, mw.WriteRawEvents([][]byte{ev1, ev2}))
	require.NoError(t, mw.Close())

	f, err := Open(mw.Bytes())
	require.NoError(t, err)

	cr, err := NewCompactReader(f)
	require.NoError(t, err)

	root0, err := cr.GetEvent(0)
	require.NoError(t, err)
	matches, err := cr.SearchEvent(0, 10, -1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, root0, matches[0])

	b, err := cr.GetScannedEvent(1)
	require.NoError(t, err)
	assert.Equal(t, ev2, b)

	require.NoError(t, cr.RemoveEvent(0))
	assert.Len(t, cr.Index().Events(), 1)
}

func TestMultipleRecords_SequentialAcrossRecords(t *testing.T) {
	e := endian.GetLittleEndianEngine()
	mw, err := NewMemoryWriter(e)
	require.NoError(t, err)

	ev1 := bankEvent(t, e, 1, 0, 1)
	ev2 := bankEvent(t, e, 2, 0, 1)
	ev3 := bankEvent(t, e, 3, 0, 1)

	require.NoError(t, mw.WriteRawEvents([][]byte{ev1}))
	require.NoError(t, mw.WriteRawEvents([][]byte{ev2, ev3}))
	require.NoError(t, mw.Close())

	f, err := Open(mw.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 3, f.EventCount())

	r := NewSequentialReader(f)
	for _, want := range [][]byte{ev1, ev2, ev3} {
		got, err := r.NextEvent()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestProbeHeader_BadMagic(t *testing.T) {
	_, err := probeHeader(make([]byte, section.BlockHeaderBytes))
	assert.Error(t, err)
}

func TestWriter_FirstEventAndUserRegister(t *testing.T) {
	e := endian.GetLittleEndianEngine()
	first := bankEvent(t, e, 99, 0, 1)
	mw, err := NewMemoryWriter(e, WithFirstEvent(first), WithUserRegister(0xdeadbeef))
	require.NoError(t, err)

	ev1 := bankEvent(t, e, 1, 1, 1)
	require.NoError(t, mw.WriteRawEvents([][]byte{ev1}))
	require.NoError(t, mw.Close())

	f, err := Open(mw.Bytes())
	require.NoError(t, err)
	assert.True(t, f.FileHeader().BitInfo.HasFirstEvent())
	assert.Equal(t, uint64(0xdeadbeef), f.FileHeader().UserRegister)
	assert.Equal(t, 2, f.EventCount())

	r := NewSequentialReader(f)
	got0, err := r.NextEvent()
	require.NoError(t, err)
	assert.Equal(t, first, got0)

	got1, err := r.NextEvent()
	require.NoError(t, err)
	assert.Equal(t, ev1, got1)
}
