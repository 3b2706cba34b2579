// Package record implements C6: building a record from staged event
// byte-blobs and reading one back, including the dedicated Trailer
// variant.
//
// Grounded on spec.md §4.6 and original_source/.../RecordOutput.h's
// "Uncompressed"/"Compressed" layout diagram: index array, then a
// padded user header, then padded event data are assembled as one
// block and compressed (or not) as a unit; RecordHeader.Pad1/Pad2/Pad3
// (section.BitInfo) record the three padding amounts the diagram
// shows. The pooled staging buffer follows
// github.com/arloliu/mebo/internal/pool's byte-buffer-pool style,
// adapted in internal/pool for event- and record-sized buffers.
package record

import (
	"fmt"

	"github.com/jlab-go/evio/endian"
	"github.com/jlab-go/evio/errs"
	"github.com/jlab-go/evio/section"
)

// Record is a decoded record: its header plus the three logical
// pieces the header's lengths describe.
type Record struct {
	Header     section.RecordHeader
	Index      []section.RecordIndexEntry
	UserHeader []byte
	Events     [][]byte
}

// IsTrailer reports whether this record is the dedicated Trailer
// variant (spec.md §4.6 "a dedicated Trailer record variant").
func (r Record) IsTrailer() bool {
	return r.Header.BitInfo.HeaderType() == section.HeaderTypeEvioTrailer
}

// EventCount returns the number of events the index describes.
func (r Record) EventCount() int { return len(r.Index) }

// Event returns the i'th event's bytes, sliced out of the decoded
// event payload by consulting the index (spec.md §4.6 "individual
// event extraction seeks into the index").
func (r Record) Event(i int) ([]byte, error) {
	if i < 0 || i >= len(r.Events) {
		return nil, fmt.Errorf("%w: event %d of %d", errs.ErrBounds, i, len(r.Events))
	}
	return r.Events[i], nil
}

// Read decodes one record from the start of b. e must already reflect
// the buffer's byte order (detected once at the file/buffer level).
func Read(b []byte, e endian.EndianEngine) (Record, error) {
	hdr, err := section.ParseRecordHeader(b, e)
	if err != nil {
		return Record{}, err
	}

	total := hdr.TotalBytes()
	if len(b) < total {
		return Record{}, fmt.Errorf("%w: record needs %d bytes, have %d", errs.ErrBounds, total, len(b))
	}

	payloadWords := hdr.PayloadLengthWords()
	raw := b[section.HeaderBytes : section.HeaderBytes+int(payloadWords)*4]

	unit, err := decompressUnit(raw, hdr)
	if err != nil {
		return Record{}, err
	}

	indexEnd := int(hdr.IndexLength)
	userHeaderEnd := indexEnd + int(hdr.UserHeaderLength)
	dataStart := userHeaderEnd + hdr.BitInfo.Pad1()
	if len(unit) < dataStart {
		return Record{}, fmt.Errorf("%w: decompressed record unit shorter than index+user-header", errs.ErrFormat)
	}

	n := int(hdr.EntryCount)
	idx, err := section.ParseRecordIndex(unit[:indexEnd], e, n)
	if err != nil {
		return Record{}, err
	}

	events := make([][]byte, n)
	off := dataStart
	for i, ent := range idx {
		end := off + int(ent.LengthBytes)
		if end > len(unit) {
			return Record{}, fmt.Errorf("%w: event %d index entry exceeds payload", errs.ErrFormat, i)
		}
		events[i] = unit[off:end]
		off = end
	}

	return Record{
		Header:     hdr,
		Index:      idx,
		UserHeader: unit[indexEnd:userHeaderEnd],
		Events:     events,
	}, nil
}
