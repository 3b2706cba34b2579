// Package composite implements C3: the format-string driven streaming
// codec for composite data, EVIO's way of packing a heterogeneous
// record (a TagSegment holding a format string immediately followed by
// a Bank holding the data it describes) into one logical value.
//
// Grounded on github.com/arloliu/mebo/encoding: mebo compiles a column
// spec into a fixed instruction sequence once and then walks it
// identically for encode, decode, and (there) delta-decode; composite
// generalizes that same "compile once, walk for every operation"
// structure to a stack machine over nested repetition groups instead
// of a flat column list.
package composite

// LeafType is one of the primitive codon letters a format string can
// name (spec.md §3 "Composite data").
type LeafType uint8

const (
	LeafInt32   LeafType = iota // 'I' - int32
	LeafUint32                  // 'i' - uint32
	LeafInt64                   // 'L' - int64
	LeafUint64                  // 'l' - uint64
	LeafShort16                 // 'S' - int16
	LeafUshort16                // 's' - uint16
	LeafByte                    // 'B' - int8
	LeafUbyte                   // 'b' - uint8
	LeafFloat32                 // 'F' - float32
	LeafDouble64                // 'D' - float64
	LeafChar                    // 'C' - uint8, rendered as a character array
	LeafAscii                   // 'A' - uint8, rendered as a Hollerith-style ASCII run
)

// Width returns the element size in bytes of one value of this leaf
// type.
func (lt LeafType) Width() int {
	switch lt {
	case LeafInt32, LeafUint32, LeafFloat32:
		return 4
	case LeafInt64, LeafUint64, LeafDouble64:
		return 8
	case LeafShort16, LeafUshort16:
		return 2
	case LeafByte, LeafUbyte, LeafChar, LeafAscii:
		return 1
	default:
		return 0
	}
}

func (lt LeafType) String() string {
	switch lt {
	case LeafInt32:
		return "I"
	case LeafUint32:
		return "i"
	case LeafInt64:
		return "L"
	case LeafUint64:
		return "l"
	case LeafShort16:
		return "S"
	case LeafUshort16:
		return "s"
	case LeafByte:
		return "B"
	case LeafUbyte:
		return "b"
	case LeafFloat32:
		return "F"
	case LeafDouble64:
		return "D"
	case LeafChar:
		return "C"
	case LeafAscii:
		return "A"
	default:
		return "?"
	}
}

// opKind is the low nibble of a compiled instruction word.
type opKind uint16

const (
	opLeaf opKind = iota
	opLPar
	opRPar
	opCountN // 32-bit runtime repeat count follows in the data stream
	opCountn // 16-bit runtime repeat count
	opCountm // 8-bit runtime repeat count
)

// Op is one compiled instruction. Encoded as a 16-bit word: bits 0-2
// are the opKind, bits 3-6 are the LeafType (opLeaf only), bits 7-15
// are a literal repeat count (opLeaf / opLPar with a compile-time
// count; 0 means "sourced from the most recently executed
// opCountN/n/m instruction").
type Op uint16

const (
	opKindMask  = 0x7
	opLeafShift = 3
	opLeafMask  = 0xf
	opCountShift = 7
)

func makeOp(kind opKind, leaf LeafType, count int) Op {
	return Op(uint16(kind)&opKindMask | (uint16(leaf)&opLeafMask)<<opLeafShift | uint16(count)<<opCountShift)
}

func (o Op) kind() opKind   { return opKind(o & opKindMask) }
func (o Op) leaf() LeafType { return LeafType((o >> opLeafShift) & opLeafMask) }
func (o Op) count() int     { return int(o >> opCountShift) }

// maxStackDepth bounds the interpreter's loop stack (spec.md §4.3: "a
// small (≤ depth 20) stack").
const maxStackDepth = 20

type loopFrame struct {
	startIP    int // instruction index just after the matching LPAR
	remaining  int // iterations left, including the current one
}

// Value is one decoded leaf value. Exactly one of the typed fields is
// meaningful, selected by Type.
type Value struct {
	Type LeafType
	I32  int32
	U32  uint32
	I64  int64
	U64  uint64
	I16  int16
	U16  uint16
	I8   int8
	U8   uint8
	F32  float32
	F64  float64
}
