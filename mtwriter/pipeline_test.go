package mtwriter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlab-go/evio/endian"
	"github.com/jlab-go/evio/evfile"
	"github.com/jlab-go/evio/section"
)

func TestPipeline_RoundTrip(t *testing.T) {
	e := endian.GetLittleEndianEngine()
	mw, err := evfile.NewMemoryWriter(e, evfile.WithTrailerIndex(true))
	require.NoError(t, err)

	p := New(mw, Config{
		Order:              e,
		Compression:        section.CompressionLZ4Fast,
		CompressionThreads: 3,
		MaxEventCount:      2,
		RingSize:           4,
	})

	const total = 9
	for i := 0; i < total; i++ {
		payload := make([]byte, 16)
		payload[0] = byte(i)
		require.NoError(t, p.AddEvent(payload))
	}
	require.NoError(t, p.Close())

	f, err := evfile.Open(mw.Bytes())
	require.NoError(t, err)
	assert.Equal(t, total, f.EventCount())

	for i := 0; i < total; i++ {
		b, err := f.EventBytes(i)
		require.NoError(t, err)
		assert.Equal(t, byte(i), b[0])
	}
}

func TestPipeline_PropagatesCompressError(t *testing.T) {
	e := endian.GetLittleEndianEngine()
	mw, err := evfile.NewMemoryWriter(e)
	require.NoError(t, err)

	p := New(mw, Config{Order: e, Compression: section.CompressionType(99), MaxEventCount: 1, RingSize: 2})
	_ = p.AddEvent([]byte{1, 2, 3, 4})
	err = p.Close()
	assert.Error(t, err)
}

// TestPipeline_DiskFullForceToDisk simulates a persistently full disk
// and checks the write stage blocks (rather than erroring out) until
// ForceToDisk names the pending record, per spec.md §4.8 "backpressure
// and disk-full": forcing lets a control event drain through even
// though the disk never actually frees up.
func TestPipeline_DiskFullForceToDisk(t *testing.T) {
	orig := statFreeBytes
	origInterval := diskPollInterval
	defer func() { statFreeBytes = orig; diskPollInterval = origInterval }()
	diskPollInterval = 5 * time.Millisecond

	statFreeBytes = func(path string) (uint64, error) { return 0, nil }

	e := endian.GetLittleEndianEngine()
	mw, err := evfile.NewMemoryWriter(e)
	require.NoError(t, err)

	p := New(mw, Config{
		Order: e, MaxEventCount: 1, RingSize: 2,
		DiskPath: filepath.Join(t.TempDir(), "data"), DiskFullThresholdBytes: 1024,
	})

	require.NoError(t, p.AddEvent([]byte{1, 2, 3, 4}))
	require.NoError(t, p.Flush())

	// The write stage is now spinning on waitForDiskSpace for record 1.
	// Force it through without the disk ever actually freeing up.
	time.Sleep(20 * time.Millisecond)
	p.ForceToDisk(1)

	require.NoError(t, p.Close())

	f, err := evfile.Open(mw.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 1, f.EventCount())
}

// TestPipeline_FlushAndSplit checks that a record flushed via
// FlushAndSplit causes the underlying SplitWriter to rotate to a new
// split file immediately after it is written (spec.md §4.8
// "split-at-write"), independent of the byte-threshold rotation
// SplitWriter already does on its own.
func TestPipeline_FlushAndSplit(t *testing.T) {
	e := endian.GetLittleEndianEngine()
	dir := t.TempDir()
	sw, err := evfile.NewSplitWriter(filepath.Join(dir, "run.%l.evio"), 1, 0, 1<<30, e)
	require.NoError(t, err)

	p := New(sw, Config{Order: e, MaxEventCount: 10, RingSize: 2})
	require.NoError(t, p.AddEvent([]byte{1, 2, 3, 4}))
	require.NoError(t, p.FlushAndSplit())
	require.NoError(t, p.AddEvent([]byte{5, 6, 7, 8}))
	require.NoError(t, p.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
