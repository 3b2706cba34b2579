package section

import (
	"fmt"

	"github.com/jlab-go/evio/endian"
	"github.com/jlab-go/evio/errs"
)

// FileHeader is the 14-word header at the start of an EVIO file
// (spec.md §3 "File", §6 "File header").
//
// Grounded on original_source/.../FileHeader.h's FILE HEADER STRUCTURE
// diagram; word numbers in field comments are 1-based to match that
// diagram.
type FileHeader struct {
	FileID            uint32 // word 1: EvioFileID or HipoFileID
	FileNumber        uint32 // word 2: split-file number, starting at 1
	HeaderLengthWords uint32 // word 3: always HeaderWords (14)
	RecordCount       uint32 // word 4
	IndexLength       uint32 // word 5: bytes
	BitInfo           BitInfo
	UserHeaderLength  uint32 // word 7: bytes
	// word 8 is HeaderMagic, implicit
	UserRegister    uint64 // words 9-10
	TrailerPosition uint64 // word 11-12: byte offset to trailer, 0 if none
	UserInt1        uint32 // word 13
	UserInt2        uint32 // word 14
}

// NewFileHeader returns a header with the fixed fields already set to
// their wire-mandated values.
func NewFileHeader() FileHeader {
	return FileHeader{
		FileID:            EvioFileID,
		FileNumber:        1,
		HeaderLengthWords: HeaderWords,
		BitInfo:           NewBitInfo(6, HeaderTypeEvioFile),
	}
}

// ParseFileHeader decodes a 14-word file header from the start of b.
func ParseFileHeader(b []byte, e endian.EndianEngine) (FileHeader, error) {
	if len(b) < HeaderBytes {
		return FileHeader{}, fmt.Errorf("%w: file header needs %d bytes, have %d", errs.ErrBounds, HeaderBytes, len(b))
	}

	magic := e.Uint32(b[28:32])
	if magic != HeaderMagic {
		return FileHeader{}, fmt.Errorf("%w: got 0x%08x, want 0x%08x", errs.ErrBadMagic, magic, HeaderMagic)
	}

	id := e.Uint32(b[0:4])
	if id != EvioFileID && id != HipoFileID {
		return FileHeader{}, fmt.Errorf("%w: file id 0x%08x matches neither evio nor hipo", errs.ErrFormat, id)
	}

	h := FileHeader{
		FileID:            id,
		FileNumber:        e.Uint32(b[4:8]),
		HeaderLengthWords: e.Uint32(b[8:12]),
		RecordCount:       e.Uint32(b[12:16]),
		IndexLength:       e.Uint32(b[16:20]),
		BitInfo:           BitInfo(e.Uint32(b[20:24])),
		UserHeaderLength:  e.Uint32(b[24:28]),
		UserRegister:      e.Uint64(b[32:40]),
		TrailerPosition:   e.Uint64(b[40:48]),
		UserInt1:          e.Uint32(b[48:52]),
		UserInt2:          e.Uint32(b[52:56]),
	}

	if h.HeaderLengthWords != HeaderWords {
		return FileHeader{}, fmt.Errorf("%w: file header length %d words, want %d", errs.ErrInvalidLength, h.HeaderLengthWords, HeaderWords)
	}

	return h, nil
}

// Bytes encodes h into b, which must be at least HeaderBytes long.
func (h FileHeader) Bytes(b []byte, e endian.EndianEngine) error {
	if len(b) < HeaderBytes {
		return fmt.Errorf("%w: file header needs %d bytes, have %d", errs.ErrBounds, HeaderBytes, len(b))
	}

	e.PutUint32(b[0:4], h.FileID)
	e.PutUint32(b[4:8], h.FileNumber)
	e.PutUint32(b[8:12], HeaderWords)
	e.PutUint32(b[12:16], h.RecordCount)
	e.PutUint32(b[16:20], h.IndexLength)
	e.PutUint32(b[20:24], uint32(h.BitInfo))
	e.PutUint32(b[24:28], h.UserHeaderLength)
	e.PutUint32(b[28:32], HeaderMagic)
	e.PutUint64(b[32:40], h.UserRegister)
	e.PutUint64(b[40:48], h.TrailerPosition)
	e.PutUint32(b[48:52], h.UserInt1)
	e.PutUint32(b[52:56], h.UserInt2)

	return nil
}

// HasTrailer reports whether TrailerPosition names a usable trailer
// offset.
func (h FileHeader) HasTrailer() bool { return h.TrailerPosition != 0 }

// HasTrailerWithIndex reports the file-header reading of bit 10
// (spec.md §6; see BitInfo's doc comment for the File-vs-Record
// ambiguity this resolves).
func (h FileHeader) HasTrailerWithIndex() bool { return h.BitInfo.HasTrailerWithIndex() }

// TrailerIndexEntry is one (record length in bytes, event count) pair
// in a trailer's optional index array, one per record written, in
// order (spec.md §3 "Trailer").
type TrailerIndexEntry struct {
	RecordLengthBytes uint32
	EventCount        uint32
}

const TrailerIndexEntryBytes = 8

// ParseTrailerIndex decodes n trailer index entries from the start of
// b.
func ParseTrailerIndex(b []byte, e endian.EndianEngine, n int) ([]TrailerIndexEntry, error) {
	need := n * TrailerIndexEntryBytes
	if len(b) < need {
		return nil, fmt.Errorf("%w: trailer index needs %d bytes, have %d", errs.ErrBounds, need, len(b))
	}
	out := make([]TrailerIndexEntry, n)
	for i := 0; i < n; i++ {
		off := i * TrailerIndexEntryBytes
		out[i] = TrailerIndexEntry{
			RecordLengthBytes: e.Uint32(b[off : off+4]),
			EventCount:        e.Uint32(b[off+4 : off+8]),
		}
	}
	return out, nil
}

// Bytes encodes a trailer index array.
func TrailerIndexBytes(entries []TrailerIndexEntry, b []byte, e endian.EndianEngine) error {
	need := len(entries) * TrailerIndexEntryBytes
	if len(b) < need {
		return fmt.Errorf("%w: trailer index needs %d bytes, have %d", errs.ErrBounds, need, len(b))
	}
	for i, ent := range entries {
		off := i * TrailerIndexEntryBytes
		e.PutUint32(b[off:off+4], ent.RecordLengthBytes)
		e.PutUint32(b[off+4:off+8], ent.EventCount)
	}
	return nil
}

// NewTrailerHeader builds a trailer's record header (which reuses the
// RecordHeader layout per original_source/.../RecordHeader.h's TRAILER
// HEADER STRUCTURE diagram: same 14 words, with fields 4, 7, 10-14
// fixed at zero and BitInfo.IsLastRecord always true).
func NewTrailerHeader(recordNumber uint32, indexLengthBytes uint32) RecordHeader {
	bi := NewBitInfo(6, HeaderTypeEvioTrailer).WithLastRecord(true)
	return RecordHeader{
		RecordNumber:      recordNumber,
		HeaderLengthWords: HeaderWords,
		EntryCount:        0,
		IndexLength:       indexLengthBytes,
		BitInfo:           bi,
	}
}
