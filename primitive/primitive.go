// Package primitive implements C1: endian-aware get/put of scalars and
// arrays over a random-access byte span, and the padding rule that every
// other package defers to.
//
// Grounded on github.com/arloliu/mebo/section's direct use of an
// endian.EndianEngine for every field access (see NumericHeader.Parse /
// Bytes), generalized from fixed header layouts to arbitrary spans of
// primitive arrays.
package primitive

import (
	"fmt"
	"math"

	"github.com/jlab-go/evio/dtype"
	"github.com/jlab-go/evio/endian"
	"github.com/jlab-go/evio/errs"
)

// Pad is re-exported from dtype for callers that only import primitive.
func Pad(n int) int { return dtype.Pad(n) }

func checkBounds(b []byte, n int) error {
	if len(b) < n {
		return fmt.Errorf("%w: need %d bytes, have %d", errs.ErrBounds, n, len(b))
	}
	return nil
}

// GetInt16 reads a signed 16-bit integer at the start of b.
func GetInt16(b []byte, e endian.EndianEngine) (int16, error) {
	if err := checkBounds(b, 2); err != nil {
		return 0, err
	}
	return int16(e.Uint16(b)), nil
}

// PutInt16 writes a signed 16-bit integer to the start of b.
func PutInt16(b []byte, e endian.EndianEngine, v int16) error {
	if err := checkBounds(b, 2); err != nil {
		return err
	}
	e.PutUint16(b, uint16(v))
	return nil
}

// GetUint16 reads an unsigned 16-bit integer.
func GetUint16(b []byte, e endian.EndianEngine) (uint16, error) {
	if err := checkBounds(b, 2); err != nil {
		return 0, err
	}
	return e.Uint16(b), nil
}

// PutUint16 writes an unsigned 16-bit integer.
func PutUint16(b []byte, e endian.EndianEngine, v uint16) error {
	if err := checkBounds(b, 2); err != nil {
		return err
	}
	e.PutUint16(b, v)
	return nil
}

// GetInt32 reads a signed 32-bit integer.
func GetInt32(b []byte, e endian.EndianEngine) (int32, error) {
	if err := checkBounds(b, 4); err != nil {
		return 0, err
	}
	return int32(e.Uint32(b)), nil
}

// PutInt32 writes a signed 32-bit integer.
func PutInt32(b []byte, e endian.EndianEngine, v int32) error {
	if err := checkBounds(b, 4); err != nil {
		return err
	}
	e.PutUint32(b, uint32(v))
	return nil
}

// GetUint32 reads an unsigned 32-bit integer.
func GetUint32(b []byte, e endian.EndianEngine) (uint32, error) {
	if err := checkBounds(b, 4); err != nil {
		return 0, err
	}
	return e.Uint32(b), nil
}

// PutUint32 writes an unsigned 32-bit integer.
func PutUint32(b []byte, e endian.EndianEngine, v uint32) error {
	if err := checkBounds(b, 4); err != nil {
		return err
	}
	e.PutUint32(b, v)
	return nil
}

// GetFloat32 reads an IEEE-754 32-bit float.
func GetFloat32(b []byte, e endian.EndianEngine) (float32, error) {
	bits, err := GetUint32(b, e)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// PutFloat32 writes an IEEE-754 32-bit float.
func PutFloat32(b []byte, e endian.EndianEngine, v float32) error {
	return PutUint32(b, e, math.Float32bits(v))
}

// GetInt64 reads a signed 64-bit integer.
func GetInt64(b []byte, e endian.EndianEngine) (int64, error) {
	if err := checkBounds(b, 8); err != nil {
		return 0, err
	}
	return int64(e.Uint64(b)), nil
}

// PutInt64 writes a signed 64-bit integer.
func PutInt64(b []byte, e endian.EndianEngine, v int64) error {
	if err := checkBounds(b, 8); err != nil {
		return err
	}
	e.PutUint64(b, uint64(v))
	return nil
}

// GetUint64 reads an unsigned 64-bit integer.
func GetUint64(b []byte, e endian.EndianEngine) (uint64, error) {
	if err := checkBounds(b, 8); err != nil {
		return 0, err
	}
	return e.Uint64(b), nil
}

// PutUint64 writes an unsigned 64-bit integer.
func PutUint64(b []byte, e endian.EndianEngine, v uint64) error {
	if err := checkBounds(b, 8); err != nil {
		return err
	}
	e.PutUint64(b, v)
	return nil
}

// GetFloat64 reads an IEEE-754 64-bit float (double).
func GetFloat64(b []byte, e endian.EndianEngine) (float64, error) {
	bits, err := GetUint64(b, e)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// PutFloat64 writes an IEEE-754 64-bit float (double).
func PutFloat64(b []byte, e endian.EndianEngine, v float64) error {
	return PutUint64(b, e, math.Float64bits(v))
}

// GetInt32Array reads n contiguous signed 32-bit integers.
func GetInt32Array(b []byte, e endian.EndianEngine, n int) ([]int32, error) {
	if err := checkBounds(b, n*4); err != nil {
		return nil, err
	}
	out := make([]int32, n)
	for i := 0; i < n; i++ {
		out[i] = int32(e.Uint32(b[i*4:]))
	}
	return out, nil
}

// PutInt32Array writes a slice of signed 32-bit integers contiguously.
func PutInt32Array(b []byte, e endian.EndianEngine, v []int32) error {
	if err := checkBounds(b, len(v)*4); err != nil {
		return err
	}
	for i, x := range v {
		e.PutUint32(b[i*4:], uint32(x))
	}
	return nil
}

// GetUint32Array reads n contiguous unsigned 32-bit integers.
func GetUint32Array(b []byte, e endian.EndianEngine, n int) ([]uint32, error) {
	if err := checkBounds(b, n*4); err != nil {
		return nil, err
	}
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		out[i] = e.Uint32(b[i*4:])
	}
	return out, nil
}

// PutUint32Array writes a slice of unsigned 32-bit integers contiguously.
func PutUint32Array(b []byte, e endian.EndianEngine, v []uint32) error {
	if err := checkBounds(b, len(v)*4); err != nil {
		return err
	}
	for i, x := range v {
		e.PutUint32(b[i*4:], x)
	}
	return nil
}

// GetFloat32Array reads n contiguous 32-bit floats.
func GetFloat32Array(b []byte, e endian.EndianEngine, n int) ([]float32, error) {
	words, err := GetUint32Array(b, e, n)
	if err != nil {
		return nil, err
	}
	out := make([]float32, n)
	for i, w := range words {
		out[i] = math.Float32frombits(w)
	}
	return out, nil
}

// PutFloat32Array writes a slice of 32-bit floats contiguously.
func PutFloat32Array(b []byte, e endian.EndianEngine, v []float32) error {
	if err := checkBounds(b, len(v)*4); err != nil {
		return err
	}
	for i, x := range v {
		e.PutUint32(b[i*4:], math.Float32bits(x))
	}
	return nil
}

// GetFloat64Array reads n contiguous 64-bit floats.
func GetFloat64Array(b []byte, e endian.EndianEngine, n int) ([]float64, error) {
	if err := checkBounds(b, n*8); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = math.Float64frombits(e.Uint64(b[i*8:]))
	}
	return out, nil
}

// PutFloat64Array writes a slice of 64-bit floats contiguously.
func PutFloat64Array(b []byte, e endian.EndianEngine, v []float64) error {
	if err := checkBounds(b, len(v)*8); err != nil {
		return err
	}
	for i, x := range v {
		e.PutUint64(b[i*8:], math.Float64bits(x))
	}
	return nil
}

// GetInt64Array reads n contiguous signed 64-bit integers.
func GetInt64Array(b []byte, e endian.EndianEngine, n int) ([]int64, error) {
	if err := checkBounds(b, n*8); err != nil {
		return nil, err
	}
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		out[i] = int64(e.Uint64(b[i*8:]))
	}
	return out, nil
}

// PutInt64Array writes a slice of signed 64-bit integers contiguously.
func PutInt64Array(b []byte, e endian.EndianEngine, v []int64) error {
	if err := checkBounds(b, len(v)*8); err != nil {
		return err
	}
	for i, x := range v {
		e.PutUint64(b[i*8:], uint64(x))
	}
	return nil
}

// GetInt16Array reads n contiguous signed 16-bit integers.
func GetInt16Array(b []byte, e endian.EndianEngine, n int) ([]int16, error) {
	if err := checkBounds(b, n*2); err != nil {
		return nil, err
	}
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		out[i] = int16(e.Uint16(b[i*2:]))
	}
	return out, nil
}

// PutInt16Array writes a slice of signed 16-bit integers contiguously.
func PutInt16Array(b []byte, e endian.EndianEngine, v []int16) error {
	if err := checkBounds(b, len(v)*2); err != nil {
		return err
	}
	for i, x := range v {
		e.PutUint16(b[i*2:], uint16(x))
	}
	return nil
}

// GetUint16Array reads n contiguous unsigned 16-bit integers.
func GetUint16Array(b []byte, e endian.EndianEngine, n int) ([]uint16, error) {
	if err := checkBounds(b, n*2); err != nil {
		return nil, err
	}
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = e.Uint16(b[i*2:])
	}
	return out, nil
}

// PutUint16Array writes a slice of unsigned 16-bit integers contiguously.
func PutUint16Array(b []byte, e endian.EndianEngine, v []uint16) error {
	if err := checkBounds(b, len(v)*2); err != nil {
		return err
	}
	for i, x := range v {
		e.PutUint16(b[i*2:], x)
	}
	return nil
}

// PaddedLen returns the total byte length of a payload of n bytes after
// appending the padding prescribed by spec.md §3 invariant 3.
func PaddedLen(n int) int {
	return n + dtype.Pad(n)
}
