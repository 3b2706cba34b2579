package pool

import "sync"

// Slice pools for reusable []uint32 and []byte scratch buffers. No
// package in this module calls them; only their tests do.
//
// Adapted from github.com/arloliu/mebo/internal/pool/slice_pool.go: same
// get/cleanup shape, retargeted from row-to-columnar transform scratch
// (int64/float64/string) to the word-oriented scratch evio needs.
var (
	uint32SlicePool = sync.Pool{
		New: func() any { return &[]uint32{} },
	}
	byteSlicePool = sync.Pool{
		New: func() any { return &[]byte{} },
	}
)

// GetUint32Slice retrieves and resizes a uint32 slice from the pool.
// The returned slice has length exactly size; the caller must invoke the
// returned cleanup function (typically via defer) to return it.
func GetUint32Slice(size int) ([]uint32, func()) {
	ptr, _ := uint32SlicePool.Get().(*[]uint32)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]uint32, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { uint32SlicePool.Put(ptr) }
}

// GetByteSlice retrieves and resizes a byte slice from the pool. The
// returned slice has length exactly size; the caller must invoke the
// returned cleanup function to return it.
func GetByteSlice(size int) ([]byte, func()) {
	ptr, _ := byteSlicePool.Get().(*[]byte)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]byte, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { byteSlicePool.Put(ptr) }
}
