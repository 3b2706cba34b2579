package section

import (
	"fmt"

	"github.com/jlab-go/evio/dtype"
	"github.com/jlab-go/evio/endian"
	"github.com/jlab-go/evio/errs"
)

// SegmentHeader is the 1-word header of a Segment container (spec.md
// §3 "Segment"): an 8-bit tag, an 8-bit packed type+pad byte, and a
// 16-bit length (in words, not counting itself).
type SegmentHeader struct {
	Tag      uint8
	DataType dtype.Type
	Pad      int
	Length   uint16
}

// SegmentHeaderBytes is the fixed wire size of a segment header.
const SegmentHeaderBytes = 4

// ParseSegmentHeader decodes a segment header from the start of b.
func ParseSegmentHeader(b []byte, e endian.EndianEngine) (SegmentHeader, error) {
	if len(b) < SegmentHeaderBytes {
		return SegmentHeader{}, fmt.Errorf("%w: segment header needs %d bytes, have %d", errs.ErrBounds, SegmentHeaderBytes, len(b))
	}
	tag := b[0]
	typeByte := b[1]
	length := e.Uint16(b[2:4])

	dt, pad := dtype.UnpackTypeByte(typeByte)
	if !dt.IsValid() {
		return SegmentHeader{}, fmt.Errorf("%w: segment type byte 0x%02x", errs.ErrInvalidDataType, typeByte)
	}

	return SegmentHeader{Tag: tag, DataType: dt, Pad: pad, Length: length}, nil
}

// Bytes encodes h into b, which must be at least SegmentHeaderBytes long.
func (h SegmentHeader) Bytes(b []byte, e endian.EndianEngine) error {
	if len(b) < SegmentHeaderBytes {
		return fmt.Errorf("%w: segment header needs %d bytes, have %d", errs.ErrBounds, SegmentHeaderBytes, len(b))
	}
	b[0] = h.Tag
	b[1] = dtype.PackTypeByte(h.DataType, h.Pad)
	e.PutUint16(b[2:4], h.Length)
	return nil
}

// DataWords returns the number of words of data following the header.
func (h SegmentHeader) DataWords() uint32 { return uint32(h.Length) }

// TotalBytes returns the segment's total size on the wire, header
// included.
func (h SegmentHeader) TotalBytes() int {
	return (int(h.Length) + 1) * 4
}
