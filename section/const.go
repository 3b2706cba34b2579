// Package section implements C2 (container headers), C6 (record header),
// and C7 (file header): the fixed-layout wire structures EVIO headers
// encode to and decode from, plus their bit-info sub-fields and index
// entries.
//
// Grounded on github.com/arloliu/mebo/section: mebo's NumericHeader /
// NumericFlag / NumericIndexEntry triad (fixed-size header struct, a
// packed bitfield type, and a fixed-size index entry, each with
// Parse/Bytes pairs keyed off an endian.EndianEngine) is the direct
// template for BankHeader/SegmentHeader/TagSegmentHeader, BitInfo, and
// RecordIndexEntry below.
package section

import "github.com/jlab-go/evio/endian"

// HeaderMagic is the fixed word every EVIO record/file header begins
// with (after its length/number fields); readers detect byte order by
// comparing it as read vs. swapped (spec.md §3 "Byte order").
const HeaderMagic uint32 = 0xc0da0100

// EvioFileID and HipoFileID are the first-word file identifiers
// (spec.md §6 "File identifier words").
const (
	EvioFileID uint32 = 0x4556494F // 'EVIO'
	HipoFileID uint32 = 0x4F504948 // 'HIPO'
)

// HeaderWords / HeaderBytes: fixed size of a record or file
// header (spec.md §3 "Record", §6 "Record header").
const (
	HeaderWords = 14
	HeaderBytes = HeaderWords * 4
)

// Compression type codes (spec.md §4.6).
type CompressionType uint8

const (
	CompressionNone    CompressionType = 0
	CompressionLZ4Fast CompressionType = 1
	CompressionLZ4Best CompressionType = 2
	CompressionGzip    CompressionType = 3
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4Fast:
		return "lz4-fast"
	case CompressionLZ4Best:
		return "lz4-best"
	case CompressionGzip:
		return "gzip"
	default:
		return "invalid"
	}
}

// GeneralHeaderType is the 4-bit type carried in bits 28-31 of the
// bit-info word (spec.md §6).
type GeneralHeaderType uint8

const (
	HeaderTypeEvioRecord       GeneralHeaderType = 0
	HeaderTypeEvioFile         GeneralHeaderType = 1
	HeaderTypeEvioFileExtended GeneralHeaderType = 2
	HeaderTypeEvioTrailer      GeneralHeaderType = 3
	HeaderTypeHipoRecord       GeneralHeaderType = 4
	HeaderTypeHipoFile         GeneralHeaderType = 5
	HeaderTypeHipoFileExtended GeneralHeaderType = 6
	HeaderTypeHipoTrailer      GeneralHeaderType = 7
)

// EventType is the 4-bit CODA event-type nibble carried in a record's
// bit-info word (spec.md §6, original_source RecordHeader.h).
type EventType uint8

const (
	EventTypeRocRaw        EventType = 0
	EventTypePhysics       EventType = 1
	EventTypePartial       EventType = 2
	EventTypeDisentangled  EventType = 3
	EventTypeUser          EventType = 4
	EventTypeControl       EventType = 5
	EventTypeMixed         EventType = 6
	EventTypeOther         EventType = 15
)

// defaultEngine is used by zero-value constructors before a caller
// overrides it with the order detected from a buffer.
func defaultEngine() endian.EndianEngine { return endian.GetLittleEndianEngine() }
