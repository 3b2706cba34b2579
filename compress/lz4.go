package compress

import (
	"sync"

	"github.com/jlab-go/evio/section"
	"github.com/pierrec/lz4/v4"
)

// lz4FastPool and lz4HCPool pool the two compressor flavors pierrec/lz4
// exposes, mirroring github.com/arloliu/mebo/compress's pooled
// lz4.Compressor: both compressor types carry internal state worth
// reusing across calls.
var (
	lz4FastPool = sync.Pool{New: func() any { return &lz4.Compressor{} }}
	lz4HCPool   = sync.Pool{New: func() any { return &lz4.CompressorHC{Level: lz4.Level9} }}
)

// LZ4Codec implements section.CompressionLZ4Fast and
// section.CompressionLZ4Best: the only difference between the two wire
// types is which of pierrec/lz4's block compressors is used.
type LZ4Codec struct {
	best bool
}

var _ Codec = LZ4Codec{}

// NewLZ4Codec returns an LZ4 codec. best selects CompressorHC (slower,
// higher ratio) over the default fast Compressor.
func NewLZ4Codec(best bool) LZ4Codec {
	return LZ4Codec{best: best}
}

func (c LZ4Codec) Type() section.CompressionType {
	if c.best {
		return section.CompressionLZ4Best
	}
	return section.CompressionLZ4Fast
}

// Compress block-compresses data with the selected pierrec/lz4
// compressor.
func (c LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	var n int
	var err error
	if c.best {
		hc, _ := lz4HCPool.Get().(*lz4.CompressorHC)
		defer lz4HCPool.Put(hc)
		n, err = hc.CompressBlock(data, dst)
	} else {
		fast, _ := lz4FastPool.Get().(*lz4.Compressor)
		defer lz4FastPool.Put(fast)
		n, err = fast.CompressBlock(data, dst)
	}
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress expands an LZ4 block into a buffer of exactly
// uncompressedLen bytes (known from the record header, so no growth
// loop is needed).
func (c LZ4Codec) Decompress(data []byte, uncompressedLen int) ([]byte, error) {
	if uncompressedLen == 0 {
		return nil, nil
	}
	dst := make([]byte, uncompressedLen)
	n, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}
