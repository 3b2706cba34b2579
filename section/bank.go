package section

import (
	"fmt"

	"github.com/jlab-go/evio/dtype"
	"github.com/jlab-go/evio/endian"
	"github.com/jlab-go/evio/errs"
)

// BankHeader is the 2-word header of a Bank container (spec.md §3
// "Bank"): a 32-bit length (in words, not counting itself), a 16-bit
// tag, an 8-bit packed type+pad byte, and an 8-bit num.
//
// Grounded on github.com/arloliu/mebo/section's NumericHeader
// Parse/Bytes pattern, generalized to EVIO's tag/type/pad/num layout.
type BankHeader struct {
	Length   uint32 // words following this field, i.e. total words - 1
	Tag      uint16
	DataType dtype.Type
	Pad      int
	Num      uint8
}

// BankHeaderBytes is the fixed wire size of a bank header.
const BankHeaderBytes = 8

// ParseBankHeader decodes a bank header from the start of b.
func ParseBankHeader(b []byte, e endian.EndianEngine) (BankHeader, error) {
	if len(b) < BankHeaderBytes {
		return BankHeader{}, fmt.Errorf("%w: bank header needs %d bytes, have %d", errs.ErrBounds, BankHeaderBytes, len(b))
	}
	length := e.Uint32(b[0:4])
	tag := e.Uint16(b[4:6])
	typeByte := b[6]
	num := b[7]

	dt, pad := dtype.UnpackTypeByte(typeByte)
	if !dt.IsValid() {
		return BankHeader{}, fmt.Errorf("%w: bank type byte 0x%02x", errs.ErrInvalidDataType, typeByte)
	}

	return BankHeader{Length: length, Tag: tag, DataType: dt, Pad: pad, Num: num}, nil
}

// Bytes encodes h into b, which must be at least BankHeaderBytes long.
func (h BankHeader) Bytes(b []byte, e endian.EndianEngine) error {
	if len(b) < BankHeaderBytes {
		return fmt.Errorf("%w: bank header needs %d bytes, have %d", errs.ErrBounds, BankHeaderBytes, len(b))
	}
	e.PutUint32(b[0:4], h.Length)
	e.PutUint16(b[4:6], h.Tag)
	b[6] = dtype.PackTypeByte(h.DataType, h.Pad)
	b[7] = h.Num
	return nil
}

// DataWords returns the number of words of data following the header,
// i.e. Length - 1 (the header's second word, tag/type/num, counts
// toward Length but not toward the data span).
func (h BankHeader) DataWords() uint32 {
	if h.Length == 0 {
		return 0
	}
	return h.Length - 1
}

// TotalBytes returns the bank's total size on the wire, header
// included.
func (h BankHeader) TotalBytes() int {
	return int(h.Length+1) * 4
}
