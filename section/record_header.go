package section

import (
	"fmt"

	"github.com/jlab-go/evio/endian"
	"github.com/jlab-go/evio/errs"
)

// RecordHeader is the 14-word header of a record (spec.md §3
// "Record", §6 "Record header").
//
// Grounded on original_source/.../RecordHeader.h's GENERAL RECORD
// HEADER STRUCTURE diagram; word numbers in field comments are 1-based
// to match that diagram.
type RecordHeader struct {
	RecordLengthWords uint32 // word 1: total record length in words, inclusive
	RecordNumber      uint32 // word 2
	HeaderLengthWords uint32 // word 3: always HeaderWords (14) for a normal header
	EntryCount        uint32 // word 4: event (index) count
	IndexLength       uint32 // word 5: index array length in bytes
	BitInfo           BitInfo
	UserHeaderLength  uint32 // word 7: bytes
	// word 8 is HeaderMagic, implicit
	UncompressedLength uint32          // word 9: bytes
	CompressionType    CompressionType // word 10: top nibble
	CompressedLength   uint32          // word 10: low 28 bits, words
	UserRegister1      uint64          // words 11-12
	UserRegister2      uint64          // words 13-14
}

// NewRecordHeader returns a header with the fixed fields already set
// to their wire-mandated values.
func NewRecordHeader() RecordHeader {
	return RecordHeader{
		HeaderLengthWords: HeaderWords,
		BitInfo:           NewBitInfo(6, HeaderTypeEvioRecord),
	}
}

// ParseRecordHeader decodes a 14-word record header from the start of
// b.
func ParseRecordHeader(b []byte, e endian.EndianEngine) (RecordHeader, error) {
	if len(b) < HeaderBytes {
		return RecordHeader{}, fmt.Errorf("%w: record header needs %d bytes, have %d", errs.ErrBounds, HeaderBytes, len(b))
	}

	magic := e.Uint32(b[28:32])
	if magic != HeaderMagic {
		return RecordHeader{}, fmt.Errorf("%w: got 0x%08x, want 0x%08x", errs.ErrBadMagic, magic, HeaderMagic)
	}

	word10 := e.Uint32(b[36:40])
	h := RecordHeader{
		RecordLengthWords:  e.Uint32(b[0:4]),
		RecordNumber:       e.Uint32(b[4:8]),
		HeaderLengthWords:  e.Uint32(b[8:12]),
		EntryCount:         e.Uint32(b[12:16]),
		IndexLength:        e.Uint32(b[16:20]),
		BitInfo:            BitInfo(e.Uint32(b[20:24])),
		UserHeaderLength:   e.Uint32(b[24:28]),
		UncompressedLength: e.Uint32(b[32:36]),
		CompressionType:    CompressionType(word10 >> 28),
		CompressedLength:   word10 & 0x0fffffff,
		UserRegister1:      e.Uint64(b[40:48]),
		UserRegister2:      e.Uint64(b[48:56]),
	}

	if h.HeaderLengthWords != HeaderWords {
		return RecordHeader{}, fmt.Errorf("%w: record header length %d words, want %d", errs.ErrInvalidLength, h.HeaderLengthWords, HeaderWords)
	}

	return h, nil
}

// Bytes encodes h into b, which must be at least HeaderBytes long.
func (h RecordHeader) Bytes(b []byte, e endian.EndianEngine) error {
	if len(b) < HeaderBytes {
		return fmt.Errorf("%w: record header needs %d bytes, have %d", errs.ErrBounds, HeaderBytes, len(b))
	}

	e.PutUint32(b[0:4], h.RecordLengthWords)
	e.PutUint32(b[4:8], h.RecordNumber)
	e.PutUint32(b[8:12], HeaderWords)
	e.PutUint32(b[12:16], h.EntryCount)
	e.PutUint32(b[16:20], h.IndexLength)
	e.PutUint32(b[20:24], uint32(h.BitInfo))
	e.PutUint32(b[24:28], h.UserHeaderLength)
	e.PutUint32(b[28:32], HeaderMagic)
	e.PutUint32(b[32:36], h.UncompressedLength)
	e.PutUint32(b[36:40], uint32(h.CompressionType)<<28|h.CompressedLength&0x0fffffff)
	e.PutUint64(b[40:48], h.UserRegister1)
	e.PutUint64(b[48:56], h.UserRegister2)

	return nil
}

// IsLastRecord reports the record-header reading of bit 10 (spec.md
// §6; see BitInfo's doc comment for the File-vs-Record ambiguity this
// resolves).
func (h RecordHeader) IsLastRecord() bool { return h.BitInfo.IsLastRecord() }

// TotalBytes returns the record's total wire size, including this
// header, the index array, the user header (padded), and the payload
// (padded, compressed or not as CompressionType indicates).
func (h RecordHeader) TotalBytes() int { return int(h.RecordLengthWords) * 4 }

// PayloadLengthWords returns the number of words of compressed (or, if
// CompressionType is CompressionNone, uncompressed) payload following
// this header; the payload holds the index array, the padded user
// header and the padded event data.
func (h RecordHeader) PayloadLengthWords() uint32 {
	if h.CompressionType == CompressionNone {
		return (h.UncompressedLength + 3) / 4
	}
	return h.CompressedLength
}

// RecordIndexEntry is one event's length in bytes in a record's
// index array, one per event, in order (spec.md §3 "Index array").
type RecordIndexEntry struct {
	LengthBytes uint32
}

const RecordIndexEntryBytes = 4

// ParseRecordIndex decodes n index entries from the start of b.
func ParseRecordIndex(b []byte, e endian.EndianEngine, n int) ([]RecordIndexEntry, error) {
	need := n * RecordIndexEntryBytes
	if len(b) < need {
		return nil, fmt.Errorf("%w: record index needs %d bytes, have %d", errs.ErrBounds, need, len(b))
	}
	out := make([]RecordIndexEntry, n)
	for i := 0; i < n; i++ {
		out[i] = RecordIndexEntry{LengthBytes: e.Uint32(b[i*4:])}
	}
	return out, nil
}

// Bytes encodes a record index array.
func RecordIndexBytes(entries []RecordIndexEntry, b []byte, e endian.EndianEngine) error {
	need := len(entries) * RecordIndexEntryBytes
	if len(b) < need {
		return fmt.Errorf("%w: record index needs %d bytes, have %d", errs.ErrBounds, need, len(b))
	}
	for i, ent := range entries {
		e.PutUint32(b[i*4:], ent.LengthBytes)
	}
	return nil
}
