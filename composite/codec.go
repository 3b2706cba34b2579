package composite

import (
	"fmt"

	"github.com/jlab-go/evio/endian"
	"github.com/jlab-go/evio/errs"
	"github.com/jlab-go/evio/primitive"
)

// Decode walks prog over data, materializing one Value per leaf
// element encountered. Running out of data mid-program is reported as
// errs.ErrTruncatedComposite (spec.md §4.3).
func Decode(data []byte, prog []Op, e endian.EndianEngine) ([]Value, error) {
	d := &decoder{data: data, e: e}
	if err := run(prog, d); err != nil {
		return nil, err
	}
	return d.values, nil
}

type decoder struct {
	data   []byte
	pos    int
	e      endian.EndianEngine
	values []Value
}

func (d *decoder) readCount(kind opKind) (int, error) {
	var width int
	switch kind {
	case opCountN:
		width = 4
	case opCountn:
		width = 2
	case opCountm:
		width = 1
	}
	if d.pos+width > len(d.data) {
		return 0, fmt.Errorf("%w: count source at %d", errs.ErrTruncatedComposite, d.pos)
	}
	var n int
	switch width {
	case 4:
		v, _ := primitive.GetUint32(d.data[d.pos:], d.e)
		n = int(v)
	case 2:
		v, _ := primitive.GetUint16(d.data[d.pos:], d.e)
		n = int(v)
	case 1:
		n = int(d.data[d.pos])
	}
	d.pos += width
	return n, nil
}

func (d *decoder) leaf(lt LeafType, n int) error {
	width := lt.Width()
	need := width * n
	if d.pos+need > len(d.data) {
		return fmt.Errorf("%w: %s run of %d at %d", errs.ErrTruncatedComposite, lt, n, d.pos)
	}
	for i := 0; i < n; i++ {
		b := d.data[d.pos:]
		v := Value{Type: lt}
		switch lt {
		case LeafInt32:
			x, _ := primitive.GetInt32(b, d.e)
			v.I32 = x
		case LeafUint32:
			x, _ := primitive.GetUint32(b, d.e)
			v.U32 = x
		case LeafInt64:
			x, _ := primitive.GetInt64(b, d.e)
			v.I64 = x
		case LeafUint64:
			x, _ := primitive.GetUint64(b, d.e)
			v.U64 = x
		case LeafShort16:
			x, _ := primitive.GetInt16(b, d.e)
			v.I16 = x
		case LeafUshort16:
			x, _ := primitive.GetUint16(b, d.e)
			v.U16 = x
		case LeafByte:
			v.I8 = int8(b[0])
		case LeafUbyte, LeafChar, LeafAscii:
			v.U8 = b[0]
		case LeafFloat32:
			x, _ := primitive.GetFloat32(b, d.e)
			v.F32 = x
		case LeafDouble64:
			x, _ := primitive.GetFloat64(b, d.e)
			v.F64 = x
		}
		d.values = append(d.values, v)
		d.pos += width
	}
	return nil
}

// Encode walks prog, consuming values and counts in program order and
// producing the wire bytes they represent. counts supplies the
// runtime-sourced repeat count for each opCountN/n/m instruction the
// program contains, in program order.
func Encode(values []Value, counts []int, prog []Op, e endian.EndianEngine) ([]byte, error) {
	enc := &encoder{values: values, counts: counts, e: e}
	if err := run(prog, enc); err != nil {
		return nil, err
	}
	return enc.out, nil
}

type encoder struct {
	values   []Value
	vi       int
	counts   []int
	ci       int
	e        endian.EndianEngine
	out      []byte
}

func (enc *encoder) readCount(kind opKind) (int, error) {
	if enc.ci >= len(enc.counts) {
		return 0, fmt.Errorf("%w: missing runtime count %d", errs.ErrFormat, enc.ci)
	}
	n := enc.counts[enc.ci]
	enc.ci++

	var width int
	switch kind {
	case opCountN:
		width = 4
	case opCountn:
		width = 2
	case opCountm:
		width = 1
	}
	buf := make([]byte, width)
	switch width {
	case 4:
		_ = primitive.PutUint32(buf, enc.e, uint32(n))
	case 2:
		_ = primitive.PutUint16(buf, enc.e, uint16(n))
	case 1:
		buf[0] = byte(n)
	}
	enc.out = append(enc.out, buf...)
	return n, nil
}

func (enc *encoder) leaf(lt LeafType, n int) error {
	if enc.vi+n > len(enc.values) {
		return fmt.Errorf("%w: need %d more %s values, have %d", errs.ErrFormat, n, lt, len(enc.values)-enc.vi)
	}
	for i := 0; i < n; i++ {
		v := enc.values[enc.vi]
		enc.vi++
		buf := make([]byte, lt.Width())
		switch lt {
		case LeafInt32:
			_ = primitive.PutInt32(buf, enc.e, v.I32)
		case LeafUint32:
			_ = primitive.PutUint32(buf, enc.e, v.U32)
		case LeafInt64:
			_ = primitive.PutInt64(buf, enc.e, v.I64)
		case LeafUint64:
			_ = primitive.PutUint64(buf, enc.e, v.U64)
		case LeafShort16:
			_ = primitive.PutInt16(buf, enc.e, v.I16)
		case LeafUshort16:
			_ = primitive.PutUint16(buf, enc.e, v.U16)
		case LeafByte:
			buf[0] = byte(v.I8)
		case LeafUbyte, LeafChar, LeafAscii:
			buf[0] = v.U8
		case LeafFloat32:
			_ = primitive.PutFloat32(buf, enc.e, v.F32)
		case LeafDouble64:
			_ = primitive.PutFloat64(buf, enc.e, v.F64)
		}
		enc.out = append(enc.out, buf...)
	}
	return nil
}

// Swap byte-swaps data in place according to prog, without
// materializing Values. Used when a record's declared byte order
// differs from the host's (spec.md §4.3 "Endianness swap walks the
// program and swaps each leaf in place").
func Swap(data []byte, prog []Op, e endian.EndianEngine) error {
	s := &swapper{data: data, e: e}
	return run(prog, s)
}

type swapper struct {
	data []byte
	pos  int
	e    endian.EndianEngine
}

func (s *swapper) readCount(kind opKind) (int, error) {
	var width int
	switch kind {
	case opCountN:
		width = 4
	case opCountn:
		width = 2
	case opCountm:
		width = 1
	}
	if s.pos+width > len(s.data) {
		return 0, fmt.Errorf("%w: count source at %d", errs.ErrTruncatedComposite, s.pos)
	}
	var n int
	switch width {
	case 4:
		n = int(s.e.Uint32(s.data[s.pos:]))
		swap4(s.data[s.pos : s.pos+4])
	case 2:
		n = int(s.e.Uint16(s.data[s.pos:]))
		swap2(s.data[s.pos : s.pos+2])
	case 1:
		n = int(s.data[s.pos])
	}
	s.pos += width
	return n, nil
}

func (s *swapper) leaf(lt LeafType, n int) error {
	width := lt.Width()
	need := width * n
	if s.pos+need > len(s.data) {
		return fmt.Errorf("%w: %s run of %d at %d", errs.ErrTruncatedComposite, lt, n, s.pos)
	}
	if width > 1 {
		for i := 0; i < n; i++ {
			off := s.pos + i*width
			switch width {
			case 2:
				swap2(s.data[off : off+2])
			case 4:
				swap4(s.data[off : off+4])
			case 8:
				swap8(s.data[off : off+8])
			}
		}
	}
	s.pos += need
	return nil
}

func swap2(b []byte) { b[0], b[1] = b[1], b[0] }
func swap4(b []byte) { b[0], b[1], b[2], b[3] = b[3], b[2], b[1], b[0] }
func swap8(b []byte) { b[0], b[1], b[2], b[3], b[4], b[5], b[6], b[7] = b[7], b[6], b[5], b[4], b[3], b[2], b[1], b[0] }
