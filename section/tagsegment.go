package section

import (
	"fmt"

	"github.com/jlab-go/evio/dtype"
	"github.com/jlab-go/evio/endian"
	"github.com/jlab-go/evio/errs"
)

// TagSegmentHeader is the 1-word header of a TagSegment container
// (spec.md §3 "TagSegment"): a 12-bit tag, a 4-bit type with no
// padding bits of its own, and a 16-bit length. Unlike Bank and
// Segment, TagSegment's type nibble carries no pad field, so the header
// records no padding count.
type TagSegmentHeader struct {
	Tag      uint16 // 12 bits significant
	DataType dtype.Type
	Length   uint16
}

// TagSegmentHeaderBytes is the fixed wire size of a tagsegment header.
const TagSegmentHeaderBytes = 4

const (
	tagSegTagMask  = 0x0fff
	tagSegTypeMask = 0x0f
)

// ParseTagSegmentHeader decodes a tagsegment header from the start of b.
func ParseTagSegmentHeader(b []byte, e endian.EndianEngine) (TagSegmentHeader, error) {
	if len(b) < TagSegmentHeaderBytes {
		return TagSegmentHeader{}, fmt.Errorf("%w: tagsegment header needs %d bytes, have %d", errs.ErrBounds, TagSegmentHeaderBytes, len(b))
	}
	word := e.Uint16(b[0:2])
	tag := (word >> 4) & tagSegTagMask
	dt := dtype.Type(word & tagSegTypeMask)
	length := e.Uint16(b[2:4])

	if !dt.IsValid() {
		return TagSegmentHeader{}, fmt.Errorf("%w: tagsegment type nibble 0x%x", errs.ErrInvalidDataType, dt)
	}

	return TagSegmentHeader{Tag: tag, DataType: dt, Length: length}, nil
}

// Bytes encodes h into b, which must be at least TagSegmentHeaderBytes
// long.
func (h TagSegmentHeader) Bytes(b []byte, e endian.EndianEngine) error {
	if len(b) < TagSegmentHeaderBytes {
		return fmt.Errorf("%w: tagsegment header needs %d bytes, have %d", errs.ErrBounds, TagSegmentHeaderBytes, len(b))
	}
	word := (h.Tag&tagSegTagMask)<<4 | uint16(h.DataType)&tagSegTypeMask
	e.PutUint16(b[0:2], word)
	e.PutUint16(b[2:4], h.Length)
	return nil
}

// DataWords returns the number of words of data following the header.
func (h TagSegmentHeader) DataWords() uint32 { return uint32(h.Length) }

// TotalBytes returns the tagsegment's total size on the wire, header
// included.
func (h TagSegmentHeader) TotalBytes() int {
	return (int(h.Length) + 1) * 4
}
