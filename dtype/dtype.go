// Package dtype defines the EVIO data type enumeration and the small set
// of bit-level conventions (padding-in-type-byte, container predicate)
// that every other package builds on.
//
// This is the Go-native replacement for the teacher's format.EncodingType
// (github.com/arloliu/mebo/format): a closed, 6-bit enumeration instead
// of a hand-rolled byte with a String() method, generalized from two
// encoding flavors to EVIO's eighteen structure/primitive codes.
package dtype

// Type is the 6-bit EVIO data type code carried in the low 6 bits of a
// structure's type byte (the top 2 bits hold padding, see Pad).
type Type uint8

const (
	Unknown    Type = 0x0
	Uint32     Type = 0x1
	Float32    Type = 0x2
	Charstar8  Type = 0x3 // NUL-terminated, $04-padded string array
	Short16    Type = 0x4
	Ushort16   Type = 0x5
	Char8      Type = 0x6
	Uchar8     Type = 0x7
	Double64   Type = 0x8
	Int64      Type = 0x9
	Uint64     Type = 0xa
	Int32      Type = 0xb
	TagSegment Type = 0xc
	AlsoSegment Type = 0xd
	AlsoBank   Type = 0xe
	Composite  Type = 0xf
	Bank       Type = 0x10
	Segment    Type = 0x20

	// typeMask extracts the 6-bit code from a packed type byte.
	typeMask = 0x3f
	// padMask extracts the 2-bit padding count from a packed type byte.
	padMask = 0xc0
	// padShift is the bit position of the padding field.
	padShift = 6
)

// String renders the type code using the same names as the specification.
func (t Type) String() string {
	switch t {
	case Unknown:
		return "unknown"
	case Uint32:
		return "uint32"
	case Float32:
		return "float32"
	case Charstar8:
		return "charstar8"
	case Short16:
		return "short16"
	case Ushort16:
		return "ushort16"
	case Char8:
		return "char8"
	case Uchar8:
		return "uchar8"
	case Double64:
		return "double64"
	case Int64:
		return "int64"
	case Uint64:
		return "uint64"
	case Int32:
		return "int32"
	case TagSegment:
		return "tagsegment"
	case AlsoSegment:
		return "alsosegment"
	case AlsoBank:
		return "alsobank"
	case Composite:
		return "composite"
	case Bank:
		return "bank"
	case Segment:
		return "segment"
	default:
		return "invalid"
	}
}

// IsValid reports whether t is one of the closed enumeration members.
func (t Type) IsValid() bool {
	switch t {
	case Unknown, Uint32, Float32, Charstar8, Short16, Ushort16, Char8, Uchar8,
		Double64, Int64, Uint64, Int32, TagSegment, AlsoSegment, AlsoBank,
		Composite, Bank, Segment:
		return true
	default:
		return false
	}
}

// IsContainer reports whether a structure of this type holds children
// rather than a raw primitive payload (spec.md §3 "Container types").
func (t Type) IsContainer() bool {
	switch t {
	case Bank, AlsoBank, Segment, AlsoSegment, TagSegment:
		return true
	default:
		return false
	}
}

// Canonical maps the ALSOBANK/ALSOSEGMENT aliases to their semantic
// BANK/SEGMENT equivalents (spec.md §4.2 cross-representation tie-break).
// The raw type byte is preserved separately by callers that need to
// round-trip the original code on re-encode; Canonical only affects how
// a decoded container is interpreted in memory.
func (t Type) Canonical() Type {
	switch t {
	case AlsoBank:
		return Bank
	case AlsoSegment:
		return Segment
	default:
		return t
	}
}

// IsNarrow reports whether the type's element width is less than 4
// bytes, making its payload subject to the padding convention.
func (t Type) IsNarrow() bool {
	switch t {
	case Short16, Ushort16, Char8, Uchar8, Charstar8:
		return true
	default:
		return false
	}
}

// ElementSize returns the width in bytes of one element of this
// primitive type, or 0 for container/unknown/composite types whose
// payload is not a flat array of fixed-width elements.
func (t Type) ElementSize() int {
	switch t {
	case Char8, Uchar8, Charstar8:
		return 1
	case Short16, Ushort16:
		return 2
	case Uint32, Float32, Int32:
		return 4
	case Double64, Int64, Uint64:
		return 8
	default:
		return 0
	}
}

// Pad returns the number of padding bytes (0..3) required to bring a
// payload of n bytes to a 4-byte boundary: pad(n) = (-n) mod 4.
// This is the single source of truth for the padding rule referenced
// throughout spec.md §3 and §4.1.
func Pad(n int) int {
	return (4 - (n % 4)) % 4
}

// PackTypeByte combines a 6-bit type code and a 0..3 padding count into
// the single byte representation used by Bank/Segment headers. TagSegment
// never carries padding bits (spec.md §3) and must be packed with pad=0.
func PackTypeByte(t Type, pad int) uint8 {
	return uint8(t)&typeMask | uint8(pad)<<padShift
}

// UnpackTypeByte splits a packed type byte into its type code and
// padding count.
func UnpackTypeByte(b uint8) (t Type, pad int) {
	return Type(b & typeMask), int(b&padMask) >> padShift
}
