package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jlab-go/evio/dtype"
	"github.com/jlab-go/evio/endian"
	"github.com/jlab-go/evio/evfile"
	"github.com/jlab-go/evio/section"
)

func writeSampleFile(t *testing.T) string {
	t.Helper()
	e := endian.GetLittleEndianEngine()
	mw, err := evfile.NewMemoryWriter(e)
	require.NoError(t, err)

	h := section.BankHeader{Length: 3, Tag: 1, DataType: dtype.Uint32, Num: 1}
	buf := make([]byte, h.TotalBytes())
	require.NoError(t, h.Bytes(buf, e))
	e.PutUint32(buf[section.BankHeaderBytes:], 7)
	e.PutUint32(buf[section.BankHeaderBytes+4:], 8)

	require.NoError(t, mw.WriteRawEvents([][]byte{buf}))
	require.NoError(t, mw.Close())

	path := filepath.Join(t.TempDir(), "sample.evio")
	require.NoError(t, os.WriteFile(path, mw.Bytes(), 0o644))
	return path
}

func TestRun_EventsAndTree(t *testing.T) {
	path := writeSampleFile(t)
	require.NoError(t, run(path, true, 0))
}

func TestRun_MissingFile(t *testing.T) {
	require.Error(t, run("/nonexistent/path.evio", false, -1))
}
