package pool

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	assert.Equal(t, 0, len(bb.B))
	assert.Equal(t, 1024, cap(bb.B))
}

func TestByteBuffer_MustWriteAndBytes(t *testing.T) {
	bb := NewByteBuffer(EventBufferDefaultSize)

	bb.MustWrite([]byte("hello"))
	bb.MustWrite([]byte(" world"))

	assert.Equal(t, []byte("hello world"), bb.Bytes())
	assert.Equal(t, 11, bb.Len())
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(EventBufferDefaultSize)
	bb.MustWrite([]byte("data"))
	originalCap := cap(bb.B)

	bb.Reset()

	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, originalCap, cap(bb.B))
}

func TestByteBuffer_Grow(t *testing.T) {
	bb := NewByteBuffer(EventBufferDefaultSize)
	bb.SetLength(EventBufferDefaultSize)

	bb.Grow(2048)

	assert.GreaterOrEqual(t, cap(bb.B), EventBufferDefaultSize+2048)
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(EventBufferDefaultSize)
	bb.MustWrite([]byte("test data"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)

	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
	assert.Equal(t, "test data", out.String())
}

func TestByteBufferPool_GetPut(t *testing.T) {
	p := NewByteBufferPool(1024, 4096)

	bb := p.Get()
	require.NotNil(t, bb)
	assert.GreaterOrEqual(t, cap(bb.B), 1024)

	bb.MustWrite([]byte("data"))
	p.Put(bb)

	bb2 := p.Get()
	assert.Equal(t, 0, bb2.Len())
}

func TestByteBufferPool_DiscardsOversized(t *testing.T) {
	p := NewByteBufferPool(1024, 4096)

	bb := p.Get()
	bb.Grow(10000)
	require.Greater(t, cap(bb.B), 4096)

	p.Put(bb)

	bb2 := p.Get()
	assert.LessOrEqual(t, cap(bb2.B), 4096*2)
}

func TestPutByteBuffer_Nil(t *testing.T) {
	p := NewByteBufferPool(1024, 4096)
	assert.NotPanics(t, func() {
		p.Put(nil)
	})
}

func TestEventAndRecordPools_Independence(t *testing.T) {
	eb := GetEventBuffer()
	rb := GetRecordBuffer()

	assert.GreaterOrEqual(t, cap(eb.B), EventBufferDefaultSize)
	assert.GreaterOrEqual(t, cap(rb.B), RecordBufferDefaultSize)

	PutEventBuffer(eb)
	PutRecordBuffer(rb)
}

func TestPool_ConcurrentAccess(t *testing.T) {
	const goroutines = 50
	const iterations = 200

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				bb := GetEventBuffer()
				bb.MustWrite([]byte("data"))
				assert.Equal(t, 4, bb.Len())
				PutEventBuffer(bb)
			}
		}()
	}

	wg.Wait()
}
