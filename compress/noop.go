package compress

import (
	"fmt"

	"github.com/jlab-go/evio/errs"
	"github.com/jlab-go/evio/section"
)

// NoOpCodec implements section.CompressionNone: the payload is carried
// uncompressed and this codec only copies bytes in and out.
type NoOpCodec struct{}

var _ Codec = NoOpCodec{}

func NewNoOpCodec() NoOpCodec { return NoOpCodec{} }

func (NoOpCodec) Type() section.CompressionType { return section.CompressionNone }

// Compress returns a copy of data; a record's CompressedLength field
// still needs an owned slice distinct from the original payload buffer.
func (NoOpCodec) Compress(data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (NoOpCodec) Decompress(data []byte, uncompressedLen int) ([]byte, error) {
	if len(data) < uncompressedLen {
		return nil, fmt.Errorf("%w: uncompressed payload needs %d bytes, have %d", errs.ErrBounds, uncompressedLen, len(data))
	}
	out := make([]byte, uncompressedLen)
	copy(out, data[:uncompressedLen])
	return out, nil
}
