package record

import (
	"github.com/jlab-go/evio/dtype"
	"github.com/jlab-go/evio/endian"
	"github.com/jlab-go/evio/internal/options"
	"github.com/jlab-go/evio/internal/pool"
	"github.com/jlab-go/evio/section"
)

// Builder stages events, an optional user header, and a compression
// choice, then assembles them into one wire-format record (spec.md
// §4.6 "build path").
//
// Grounded on github.com/arloliu/mebo's functional-options encoder
// constructors: zero-value-unsafe configuration happens once at
// construction via Option values, not via a long positional
// constructor signature.
type Builder struct {
	events      [][]byte
	userHeader  []byte
	compression section.CompressionType
	recordNumber uint32
	eventType   section.EventType
	hasDictionary bool
	hasFirstEvent bool
	userRegister1 uint64
	userRegister2 uint64
}

// Option configures a Builder.
type Option = options.Option[*Builder]

func WithCompression(t section.CompressionType) Option {
	return options.NoError[*Builder](func(b *Builder) { b.compression = t })
}

func WithRecordNumber(n uint32) Option {
	return options.NoError[*Builder](func(b *Builder) { b.recordNumber = n })
}

func WithUserHeader(h []byte) Option {
	return options.NoError[*Builder](func(b *Builder) { b.userHeader = h })
}

func WithEventType(t section.EventType) Option {
	return options.NoError[*Builder](func(b *Builder) { b.eventType = t })
}

func WithDictionary(v bool) Option {
	return options.NoError[*Builder](func(b *Builder) { b.hasDictionary = v })
}

func WithFirstEvent(v bool) Option {
	return options.NoError[*Builder](func(b *Builder) { b.hasFirstEvent = v })
}

func WithUserRegisters(r1, r2 uint64) Option {
	return options.NoError[*Builder](func(b *Builder) { b.userRegister1, b.userRegister2 = r1, r2 })
}

// NewBuilder returns a Builder with the given options applied over
// CompressionNone/record-number-0 defaults.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{compression: section.CompressionNone, eventType: section.EventTypeRocRaw}
	if err := options.Apply(b, opts...); err != nil {
		return nil, err
	}
	return b, nil
}

// AddEvent stages one event's already-serialized bytes (spec.md §4.6
// "collect event byte-blobs"). The slice is retained, not copied; the
// caller must not mutate it until after Build.
func (b *Builder) AddEvent(data []byte) *Builder {
	b.events = append(b.events, data)
	return b
}

// EventCount returns the number of events staged so far.
func (b *Builder) EventCount() int { return len(b.events) }

// RecordNumber returns the record number this Builder will stamp into
// its header on Build.
func (b *Builder) RecordNumber() uint32 { return b.recordNumber }

// Build assembles the staged pieces into a complete wire-format record
// and returns its bytes (spec.md §4.6).
func (b *Builder) Build(e endian.EndianEngine) ([]byte, error) {
	unit := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(unit)

	indexBytes := make([]byte, len(b.events)*section.RecordIndexEntryBytes)
	entries := make([]section.RecordIndexEntry, len(b.events))
	for i, ev := range b.events {
		entries[i] = section.RecordIndexEntry{LengthBytes: uint32(len(ev))}
	}
	if err := section.RecordIndexBytes(entries, indexBytes, e); err != nil {
		return nil, err
	}
	unit.MustWrite(indexBytes)

	unit.MustWrite(b.userHeader)
	pad1 := dtype.Pad(len(b.userHeader))
	writeZeros(unit, pad1)

	dataStart := unit.Len()
	for _, ev := range b.events {
		unit.MustWrite(ev)
	}
	pad2 := dtype.Pad(unit.Len() - dataStart)
	writeZeros(unit, pad2)

	uncompressedLen := unit.Len()

	compressed, err := compressUnit(unit.Bytes(), b.compression)
	if err != nil {
		return nil, err
	}
	pad3 := dtype.Pad(len(compressed))
	compressedPadded := make([]byte, len(compressed)+pad3)
	copy(compressedPadded, compressed)

	hdr := section.NewRecordHeader()
	hdr.RecordNumber = b.recordNumber
	hdr.EntryCount = uint32(len(b.events))
	hdr.IndexLength = uint32(len(indexBytes))
	hdr.UserHeaderLength = uint32(len(b.userHeader))
	hdr.UncompressedLength = uint32(uncompressedLen)
	hdr.CompressionType = b.compression
	hdr.CompressedLength = uint32(len(compressedPadded) / 4)
	hdr.RecordLengthWords = section.HeaderWords + hdr.CompressedLength
	hdr.UserRegister1 = b.userRegister1
	hdr.UserRegister2 = b.userRegister2
	hdr.BitInfo = hdr.BitInfo.
		WithPad1(pad1).WithPad2(pad2).WithPad3(pad3).
		WithEventType(b.eventType).
		WithDictionary(b.hasDictionary).
		WithFirstEvent(b.hasFirstEvent)

	out := make([]byte, hdr.TotalBytes())
	if err := hdr.Bytes(out, e); err != nil {
		return nil, err
	}
	copy(out[section.HeaderBytes:], compressedPadded)

	return out, nil
}

func writeZeros(buf *pool.ByteBuffer, n int) {
	for i := 0; i < n; i++ {
		buf.MustWrite([]byte{0})
	}
}
