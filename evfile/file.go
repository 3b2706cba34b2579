package evfile

import (
	"fmt"

	"github.com/jlab-go/evio/dtype"
	"github.com/jlab-go/evio/endian"
	"github.com/jlab-go/evio/errs"
	"github.com/jlab-go/evio/record"
	"github.com/jlab-go/evio/section"
)

// File is an opened, read-only view over an EVIO buffer, with its
// record (v6) or event (legacy) position table already built (spec.md
// §4.7 "File open (read)").
type File struct {
	buf     []byte
	order   endian.EndianEngine
	version uint8

	fileHeader section.FileHeader // zero value for legacy files

	recordOffsets []int // v6 only: byte offset of each record header
	eventOffsets  []int // flat offset of every top-level event bank, file order
}

func (f *File) Order() endian.EndianEngine { return f.order }
func (f *File) Version() uint8             { return f.version }
func (f *File) IsModern() bool             { return f.version >= 6 }
func (f *File) EventCount() int            { return len(f.eventOffsets) }

// FileHeader returns the v6 file header. Only meaningful when
// IsModern is true.
func (f *File) FileHeader() section.FileHeader { return f.fileHeader }

// Open reads data's header, determines its byte order and version,
// and builds a record/event position table without materializing
// events (spec.md §4.7).
func Open(data []byte) (*File, error) {
	p, err := probeHeader(data)
	if err != nil {
		return nil, err
	}

	if p.isModern() {
		return openModern(data, p.order)
	}
	return openLegacy(data, p.order, p.version)
}

// openModern handles v6: file header + records, following the trailer
// offset to avoid a full scan when one is present (spec.md §4.7 "For
// v6, optionally follow the trailer offset to load the record index
// without scanning").
func openModern(data []byte, e endian.EndianEngine) (*File, error) {
	hdr, err := section.ParseFileHeader(data, e)
	if err != nil {
		return nil, err
	}

	f := &File{buf: data, order: e, version: uint8(hdr.BitInfo.Version()), fileHeader: hdr}

	firstRecordPos := section.HeaderBytes + int(hdr.UserHeaderLength)
	firstRecordPos += dtype.Pad(int(hdr.UserHeaderLength))

	if hdr.HasTrailer() && hdr.HasTrailerWithIndex() {
		tr, err := record.ReadTrailer(data[hdr.TrailerPosition:], e)
		if err != nil {
			return nil, err
		}
		pos := firstRecordPos
		for _, ent := range tr.Index {
			if pos >= int(hdr.TrailerPosition) {
				break
			}
			if err := f.indexRecordAt(pos); err != nil {
				return nil, err
			}
			pos += int(ent.RecordLengthBytes)
		}
		return f, nil
	}

	pos := firstRecordPos
	limit := len(data)
	if hdr.HasTrailer() {
		limit = int(hdr.TrailerPosition)
	}
	for pos < limit {
		rh, err := section.ParseRecordHeader(data[pos:], e)
		if err != nil {
			return nil, err
		}
		if err := f.indexRecordAt(pos); err != nil {
			return nil, err
		}
		pos += rh.TotalBytes()
	}
	return f, nil
}

// indexRecordAt decodes the record at pos well enough to append its
// event byte offsets, without materializing event bytes.
func (f *File) indexRecordAt(pos int) error {
	rh, err := section.ParseRecordHeader(f.buf[pos:], f.order)
	if err != nil {
		return err
	}
	f.recordOffsets = append(f.recordOffsets, pos)

	rec, err := record.Read(f.buf[pos:pos+rh.TotalBytes()], f.order)
	if err != nil {
		return err
	}

	// Events decoded by record.Read are slices of a freshly
	// decompressed buffer for compressed records, so their absolute
	// file offsets can't be recovered for those; track offsets only
	// for uncompressed records; for the rest EventBytes decodes the
	// record again on demand.
	if rh.CompressionType == section.CompressionNone {
		dataStart := pos + section.HeaderBytes + int(rh.IndexLength) + int(rh.UserHeaderLength) + rh.BitInfo.Pad1()
		off := dataStart
		for _, ent := range rec.Index {
			f.eventOffsets = append(f.eventOffsets, off)
			off += int(ent.LengthBytes)
		}
	} else {
		for range rec.Events {
			f.eventOffsets = append(f.eventOffsets, -1) // sentinel: not a direct buffer offset
		}
	}
	return nil
}

// openLegacy handles v1-4: chain 8-word block headers by length,
// treating each block's data as a sequence of top-level event banks
// (spec.md §4.7 "the reader synthesizes a record position table by
// scanning").
func openLegacy(data []byte, e endian.EndianEngine, version uint8) (*File, error) {
	f := &File{buf: data, order: e, version: version}

	pos := 0
	for pos < len(data) {
		bh, err := section.ParseBlockHeader(data[pos:], e)
		if err != nil {
			return nil, err
		}
		cur := pos + section.BlockHeaderBytes
		end := pos + bh.TotalBytes()
		for cur < end {
			if cur+section.BankHeaderBytes > len(data) {
				return nil, fmt.Errorf("%w: event bank header at %d", errs.ErrBounds, cur)
			}
			eh, err := section.ParseBankHeader(data[cur:], e)
			if err != nil {
				return nil, err
			}
			f.eventOffsets = append(f.eventOffsets, cur)
			cur += eh.TotalBytes()
		}
		if bh.IsLastBlock {
			break
		}
		pos = end
	}
	return f, nil
}

// EventBytes returns the i'th event's raw bytes. For events inside an
// uncompressed record or a legacy block, this is a direct slice of the
// opened buffer; for events inside a compressed record, the whole
// record is decompressed on demand.
func (f *File) EventBytes(i int) ([]byte, error) {
	if i < 0 || i >= len(f.eventOffsets) {
		return nil, fmt.Errorf("%w: event %d of %d", errs.ErrBounds, i, len(f.eventOffsets))
	}

	if off := f.eventOffsets[i]; off >= 0 {
		hdr, err := section.ParseBankHeader(f.buf[off:], f.order)
		if err != nil {
			return nil, err
		}
		return f.buf[off : off+hdr.TotalBytes()], nil
	}

	return f.eventBytesViaRecordScan(i)
}

// eventBytesViaRecordScan re-walks the modern record table to find and
// decompress the record owning event i, used only when that event's
// record was compressed (see indexRecordAt).
func (f *File) eventBytesViaRecordScan(i int) ([]byte, error) {
	seen := 0
	for _, pos := range f.recordOffsets {
		rh, err := section.ParseRecordHeader(f.buf[pos:], f.order)
		if err != nil {
			return nil, err
		}
		n := int(rh.EntryCount)
		if i < seen+n {
			rec, err := record.Read(f.buf[pos:pos+rh.TotalBytes()], f.order)
			if err != nil {
				return nil, err
			}
			return rec.Event(i - seen)
		}
		seen += n
	}
	return nil, fmt.Errorf("%w: event %d not found in any record", errs.ErrFormat, i)
}
