package record

import (
	"github.com/jlab-go/evio/endian"
	"github.com/jlab-go/evio/section"
)

// Trailer is the dedicated record variant spec.md §4.6 describes: the
// "last record" bit set, and, optionally, an index of
// (record-length-in-bytes, event-count) pairs instead of the usual
// per-event index.
type Trailer struct {
	RecordNumber uint32
	Index        []section.TrailerIndexEntry
}

// Build assembles the trailer's wire bytes: its record header followed
// by the optional uncompressed index array (original_source
// RecordHeader.h's "TRAILER HEADER STRUCTURE" diagram — the trailer
// never compresses its index).
func (t Trailer) Build(e endian.EndianEngine) ([]byte, error) {
	indexBytes := make([]byte, len(t.Index)*section.TrailerIndexEntryBytes)
	if err := section.TrailerIndexBytes(t.Index, indexBytes, e); err != nil {
		return nil, err
	}

	hdr := section.NewTrailerHeader(t.RecordNumber, uint32(len(indexBytes)))
	hdr.UncompressedLength = uint32(len(indexBytes))
	hdr.RecordLengthWords = section.HeaderWords + uint32(len(indexBytes))/4

	out := make([]byte, hdr.TotalBytes())
	if err := hdr.Bytes(out, e); err != nil {
		return nil, err
	}
	copy(out[section.HeaderBytes:], indexBytes)
	return out, nil
}

// ReadTrailer decodes a trailer record and its index from the start of
// b.
func ReadTrailer(b []byte, e endian.EndianEngine) (Trailer, error) {
	hdr, err := section.ParseRecordHeader(b, e)
	if err != nil {
		return Trailer{}, err
	}

	n := int(hdr.IndexLength) / section.TrailerIndexEntryBytes
	idxBytes := b[section.HeaderBytes : section.HeaderBytes+int(hdr.IndexLength)]
	idx, err := section.ParseTrailerIndex(idxBytes, e, n)
	if err != nil {
		return Trailer{}, err
	}

	return Trailer{RecordNumber: hdr.RecordNumber, Index: idx}, nil
}
