package composite

import (
	"testing"

	"github.com/jlab-go/evio/endian"
	"github.com/jlab-go/evio/errs"
	"github.com/jlab-go/evio/primitive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_FlatLeaves(t *testing.T) {
	ops, err := Compile("I,D")
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, opLeaf, ops[0].kind())
	assert.Equal(t, LeafInt32, ops[0].leaf())
	assert.Equal(t, LeafDouble64, ops[1].leaf())
}

func TestCompile_LiteralRepeatGroup(t *testing.T) {
	ops, err := Compile("2(I,F)")
	require.NoError(t, err)
	require.Len(t, ops, 4) // LPAR I F RPAR
	assert.Equal(t, opLPar, ops[0].kind())
	assert.Equal(t, 2, ops[0].count())
	assert.Equal(t, opRPar, ops[3].kind())
}

func TestCompile_RuntimeCount(t *testing.T) {
	ops, err := Compile("NI")
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, opCountN, ops[0].kind())
	assert.Equal(t, opLeaf, ops[1].kind())
	assert.Equal(t, 0, ops[1].count())
}

func TestCompile_UnknownLetter(t *testing.T) {
	_, err := Compile("Z")
	assert.Error(t, err)
}

func TestCompile_UnmatchedParen(t *testing.T) {
	_, err := Compile("2(I,F")
	assert.Error(t, err)
}

func TestDecodeEncode_FlatLeaves_RoundTrip(t *testing.T) {
	e := endian.GetBigEndianEngine()
	ops, err := Compile("I,F,D")
	require.NoError(t, err)

	values := []Value{
		{Type: LeafInt32, I32: -7},
		{Type: LeafFloat32, F32: 1.5},
		{Type: LeafDouble64, F64: 2.25},
	}
	data, err := Encode(values, nil, ops, e)
	require.NoError(t, err)
	assert.Len(t, data, 4+4+8)

	got, err := Decode(data, ops, e)
	require.NoError(t, err)
	assert.Equal(t, values, got)
}

func TestDecodeEncode_LiteralGroup_RoundTrip(t *testing.T) {
	e := endian.GetLittleEndianEngine()
	ops, err := Compile("2(I)")
	require.NoError(t, err)

	values := []Value{
		{Type: LeafInt32, I32: 1},
		{Type: LeafInt32, I32: 2},
	}
	data, err := Encode(values, nil, ops, e)
	require.NoError(t, err)

	got, err := Decode(data, ops, e)
	require.NoError(t, err)
	assert.Equal(t, values, got)
}

func TestDecode_RuntimeCount(t *testing.T) {
	e := endian.GetBigEndianEngine()
	ops, err := Compile("NI")
	require.NoError(t, err)

	values := []Value{
		{Type: LeafInt32, I32: 10},
		{Type: LeafInt32, I32: 20},
		{Type: LeafInt32, I32: 30},
	}
	data, err := Encode(values, []int{3}, ops, e)
	require.NoError(t, err)

	got, err := Decode(data, ops, e)
	require.NoError(t, err)
	assert.Equal(t, values, got)
}

func TestDecode_TruncatedComposite(t *testing.T) {
	e := endian.GetBigEndianEngine()
	ops, err := Compile("I,D")
	require.NoError(t, err)

	_, err = Decode([]byte{0, 0, 0, 1}, ops, e)
	assert.ErrorIs(t, err, errs.ErrTruncatedComposite)
}

func TestSwap_FlatLeaves(t *testing.T) {
	ops, err := Compile("I")
	require.NoError(t, err)

	be := endian.GetBigEndianEngine()
	data := make([]byte, 4)
	require.NoError(t, primitive.PutUint32(data, be, 0x01020304))

	require.NoError(t, Swap(data, ops, be))
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, data)
}
