package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetUint32Slice(t *testing.T) {
	s, cleanup := GetUint32Slice(10)
	defer cleanup()

	assert.Len(t, s, 10)
	for _, v := range s {
		assert.Equal(t, uint32(0), v)
	}
}

func TestGetUint32Slice_Reuse(t *testing.T) {
	s, cleanup := GetUint32Slice(100)
	s[0] = 42
	cleanup()

	s2, cleanup2 := GetUint32Slice(10)
	defer cleanup2()
	assert.Len(t, s2, 10)
}

func TestGetByteSlice(t *testing.T) {
	s, cleanup := GetByteSlice(16)
	defer cleanup()

	assert.Len(t, s, 16)
}
