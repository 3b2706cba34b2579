package tree

import (
	"github.com/jlab-go/evio/endian"
	"github.com/jlab-go/evio/errs"
	"github.com/jlab-go/evio/section"
)

// Write recursively serializes root (header plus children or raw
// bytes) into a freshly allocated buffer, recomputing header lengths
// first (spec.md §4.4 "write(dst, order) -> bytes").
func (t *Tree) Write(root NodeID, e endian.EndianEngine) ([]byte, error) {
	if err := t.SetAllHeaderLengths(root, e); err != nil {
		return nil, err
	}
	return t.WriteQuick(root, e)
}

// WriteQuick serializes root without recomputing lengths; the caller
// must have called SetAllHeaderLengths since the last mutation
// (spec.md §4.4).
func (t *Tree) WriteQuick(root NodeID, e endian.EndianEngine) ([]byte, error) {
	var out []byte
	if err := t.writeNode(root, e, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *Tree) writeNode(id NodeID, e endian.EndianEngine, out *[]byte, quick bool) error {
	n, err := t.Node(id)
	if err != nil {
		return err
	}

	var dataWords uint32
	if quick {
		dataWords, err = t.cachedDataWordsOf(id)
	} else {
		dataWords, err = t.computeDataWords(id, e)
	}
	if err != nil {
		return err
	}

	switch n.Kind {
	case KindBank:
		hdr := section.BankHeader{
			Length:   dataWords + 1,
			Tag:      n.Tag,
			DataType: n.DataType,
			Pad:      n.Pad,
			Num:      n.Num,
		}
		buf := make([]byte, section.BankHeaderBytes)
		if err := hdr.Bytes(buf, e); err != nil {
			return err
		}
		*out = append(*out, buf...)

	case KindSegment:
		hdr := section.SegmentHeader{
			Tag:      uint8(n.Tag),
			DataType: n.DataType,
			Pad:      n.Pad,
			Length:   uint16(dataWords),
		}
		buf := make([]byte, section.SegmentHeaderBytes)
		if err := hdr.Bytes(buf, e); err != nil {
			return err
		}
		*out = append(*out, buf...)

	case KindTagSegment:
		hdr := section.TagSegmentHeader{
			Tag:      n.Tag,
			DataType: n.DataType,
			Length:   uint16(dataWords),
		}
		buf := make([]byte, section.TagSegmentHeaderBytes)
		if err := hdr.Bytes(buf, e); err != nil {
			return err
		}
		*out = append(*out, buf...)
	}

	if n.IsContainer() {
		for _, c := range n.children {
			if err := t.writeNode(c, e, out, quick); err != nil {
				return err
			}
		}
		return nil
	}

	if n.rawStale {
		return errs.ErrFormat
	}
	*out = append(*out, n.raw...)
	for i := 0; i < n.Pad; i++ {
		*out = append(*out, 0)
	}
	return nil
}
