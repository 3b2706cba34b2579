package compact

import (
	"testing"

	"github.com/jlab-go/evio/dtype"
	"github.com/jlab-go/evio/endian"
	"github.com/jlab-go/evio/section"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildBuffer(t *testing.T) []byte {
	t.Helper()
	e := endian.GetBigEndianEngine()

	child := section.BankHeader{Length: 3, Tag: 7, DataType: dtype.Int32, Num: 3}
	childBuf := make([]byte, section.BankHeaderBytes)
	require.NoError(t, child.Bytes(childBuf, e))
	childBuf = append(childBuf, 0, 0, 0, 1, 0, 0, 0, 2)

	root := section.BankHeader{Length: uint32(len(childBuf)/4 + 1), Tag: 1, DataType: dtype.Bank, Num: 0}
	rootBuf := make([]byte, section.BankHeaderBytes)
	require.NoError(t, root.Bytes(rootBuf, e))
	rootBuf = append(rootBuf, childBuf...)

	return rootBuf
}

func TestScan(t *testing.T) {
	buf := buildBuffer(t)
	ix, err := Scan(buf, endian.GetBigEndianEngine(), []int{0})
	require.NoError(t, err)
	require.Len(t, ix.Events(), 1)

	root, err := ix.Node(ix.Events()[0])
	require.NoError(t, err)
	assert.True(t, root.IsEvent())
	assert.Equal(t, uint16(1), root.Tag)
	require.Len(t, root.Children, 1)

	child, err := ix.Node(root.Children[0])
	require.NoError(t, err)
	assert.Equal(t, uint16(7), child.Tag)
	assert.Equal(t, dtype.Int32, child.DataType)
}

func TestRemoveStructure(t *testing.T) {
	buf := buildBuffer(t)
	ix, err := Scan(buf, endian.GetBigEndianEngine(), []int{0})
	require.NoError(t, err)

	root, _ := ix.Node(ix.Events()[0])
	child := root.Children[0]

	require.NoError(t, ix.RemoveStructure(child))

	_, err = ix.Node(child)
	assert.Error(t, err)

	root, _ = ix.Node(ix.Events()[0])
	assert.Empty(t, root.Children)
	assert.Equal(t, 2, root.LenWords) // header words only now (Bank: 2)
}

func TestRemoveEvent(t *testing.T) {
	buf := buildBuffer(t)
	ix, err := Scan(buf, endian.GetBigEndianEngine(), []int{0})
	require.NoError(t, err)

	require.NoError(t, ix.RemoveEvent(0))
	assert.Empty(t, ix.Events())
}
