package section

import (
	"fmt"

	"github.com/jlab-go/evio/endian"
	"github.com/jlab-go/evio/errs"
)

// BlockHeader is the 8-word legacy block header used by file format
// versions 1-4, before the v6 record/file header pair replaced it
// (spec.md §4.7 "v1-3 (legacy block header), v4 (block header with
// bit-info + event count)").
//
// Grounded on original_source/.../BlockHeaderV4.h's word layout; v1-3
// share the same 8-word shape (EventWriter.h's legacy path writes the
// same positions) but cannot be trusted to report an accurate
// EventCount, so callers of ParseBlockHeader should not rely on it for
// versions below 4.
type BlockHeader struct {
	LengthWords       uint32 // word 1: ints in block, inclusive
	Number            uint32 // word 2: starting at 1
	HeaderLengthWords uint32 // word 3: always 8
	EventCount        uint32 // word 4: unreliable pre-v4
	Reserved1         uint32 // word 5
	Version           uint8  // word 6 low byte
	HasDictionary     bool   // word 6 bit 8
	IsLastBlock       bool   // word 6 bit 9
	EventType         EventType // word 6 bits 10-13
	HasFirstEvent     bool   // word 6 bit 14
	Reserved2         uint32 // word 7
}

const (
	BlockHeaderWords = 8
	BlockHeaderBytes = BlockHeaderWords * 4
)

const (
	blockBitInfoDictionaryMask = 0x100
	blockBitInfoLastBlockMask  = 0x200
	blockBitInfoEventTypeShift = 10
	blockBitInfoEventTypeMask  = 0xf
	blockBitInfoFirstEventMask = 0x4000
)

// ParseBlockHeader decodes an 8-word legacy block header from the
// start of b.
func ParseBlockHeader(b []byte, e endian.EndianEngine) (BlockHeader, error) {
	if len(b) < BlockHeaderBytes {
		return BlockHeader{}, fmt.Errorf("%w: block header needs %d bytes, have %d", errs.ErrBounds, BlockHeaderBytes, len(b))
	}

	magic := e.Uint32(b[28:32])
	if magic != HeaderMagic {
		return BlockHeader{}, fmt.Errorf("%w: got 0x%08x, want 0x%08x", errs.ErrBadMagic, magic, HeaderMagic)
	}

	versionWord := e.Uint32(b[20:24])
	h := BlockHeader{
		LengthWords:       e.Uint32(b[0:4]),
		Number:            e.Uint32(b[4:8]),
		HeaderLengthWords: e.Uint32(b[8:12]),
		EventCount:        e.Uint32(b[12:16]),
		Reserved1:         e.Uint32(b[16:20]),
		Version:           uint8(versionWord & 0xff),
		HasDictionary:     versionWord&blockBitInfoDictionaryMask != 0,
		IsLastBlock:       versionWord&blockBitInfoLastBlockMask != 0,
		EventType:         EventType((versionWord >> blockBitInfoEventTypeShift) & blockBitInfoEventTypeMask),
		HasFirstEvent:     versionWord&blockBitInfoFirstEventMask != 0,
		Reserved2:         e.Uint32(b[24:28]),
	}

	if h.HeaderLengthWords != BlockHeaderWords {
		return BlockHeader{}, fmt.Errorf("%w: block header length %d words, want %d", errs.ErrInvalidLength, h.HeaderLengthWords, BlockHeaderWords)
	}

	return h, nil
}

// Bytes encodes h into b, which must be at least BlockHeaderBytes long.
func (h BlockHeader) Bytes(b []byte, e endian.EndianEngine) error {
	if len(b) < BlockHeaderBytes {
		return fmt.Errorf("%w: block header needs %d bytes, have %d", errs.ErrBounds, BlockHeaderBytes, len(b))
	}

	versionWord := uint32(h.Version)
	if h.HasDictionary {
		versionWord |= blockBitInfoDictionaryMask
	}
	if h.IsLastBlock {
		versionWord |= blockBitInfoLastBlockMask
	}
	versionWord |= uint32(h.EventType&blockBitInfoEventTypeMask) << blockBitInfoEventTypeShift
	if h.HasFirstEvent {
		versionWord |= blockBitInfoFirstEventMask
	}

	e.PutUint32(b[0:4], h.LengthWords)
	e.PutUint32(b[4:8], h.Number)
	e.PutUint32(b[8:12], BlockHeaderWords)
	e.PutUint32(b[12:16], h.EventCount)
	e.PutUint32(b[16:20], h.Reserved1)
	e.PutUint32(b[20:24], versionWord)
	e.PutUint32(b[24:28], h.Reserved2)
	e.PutUint32(b[28:32], HeaderMagic)

	return nil
}

// TotalBytes returns the block's total wire size, header included.
func (h BlockHeader) TotalBytes() int { return int(h.LengthWords) * 4 }
