package compress

import (
	"fmt"

	"github.com/jlab-go/evio/errs"
	"github.com/jlab-go/evio/section"
)

// Compressor compresses a record's payload: the index array, user
// header, and event data concatenated as a single unit (spec.md §4.6
// "records are compressed as a unit").
//
// Grounded on github.com/arloliu/mebo/compress.Compressor: same
// single-method shape, same ownership contract (returned slice newly
// allocated, input left untouched).
type Compressor interface {
	// Compress compresses data and returns the compressed result.
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor. uncompressedLen is the record
// header's UncompressedLength field, used to size the output buffer
// without guessing at an expansion ratio.
type Decompressor interface {
	Decompress(data []byte, uncompressedLen int) ([]byte, error)
}

// Codec combines both directions for one CompressionType.
type Codec interface {
	Compressor
	Decompressor

	// Type identifies which of the 4 wire compression codes this codec implements.
	Type() section.CompressionType
}

// CreateCodec returns the Codec implementing t.
func CreateCodec(t section.CompressionType) (Codec, error) {
	switch t {
	case section.CompressionNone:
		return NewNoOpCodec(), nil
	case section.CompressionLZ4Fast:
		return NewLZ4Codec(false), nil
	case section.CompressionLZ4Best:
		return NewLZ4Codec(true), nil
	case section.CompressionGzip:
		return NewGzipCodec(), nil
	default:
		return nil, fmt.Errorf("%w: compression type %d", errs.ErrUnsupportedCompression, t)
	}
}
