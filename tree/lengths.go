package tree

import (
	"fmt"

	"github.com/jlab-go/evio/dtype"
	"github.com/jlab-go/evio/endian"
	"github.com/jlab-go/evio/errs"
	"github.com/jlab-go/evio/primitive"
)

func headerWordsFor(k Kind) uint32 {
	switch k {
	case KindBank:
		return 2
	default:
		return 1
	}
}

// Resync regenerates a leaf node's raw bytes from its typed view, if
// the view is the authoritative source, and computes the padding the
// view's element width requires.
func (t *Tree) Resync(id NodeID, e endian.EndianEngine) error {
	n, err := t.Node(id)
	if err != nil {
		return err
	}
	if !n.rawStale {
		return nil
	}
	if !n.viewSet {
		n.rawStale = false
		return nil
	}

	raw, err := encodeView(n.view, n.DataType, e)
	if err != nil {
		return err
	}
	n.raw = raw
	n.Pad = dtype.Pad(len(raw))
	n.rawStale = false
	return nil
}

func encodeView(v TypedView, dt dtype.Type, e endian.EndianEngine) ([]byte, error) {
	switch v.Kind {
	case ViewInt32:
		b := make([]byte, len(v.Int32s)*4)
		return b, primitive.PutInt32Array(b, e, v.Int32s)
	case ViewUint32:
		b := make([]byte, len(v.Uint32s)*4)
		return b, primitive.PutUint32Array(b, e, v.Uint32s)
	case ViewFloat32:
		b := make([]byte, len(v.Float32s)*4)
		return b, primitive.PutFloat32Array(b, e, v.Float32s)
	case ViewFloat64:
		b := make([]byte, len(v.Float64s)*8)
		return b, primitive.PutFloat64Array(b, e, v.Float64s)
	case ViewInt64:
		b := make([]byte, len(v.Int64s)*8)
		return b, primitive.PutInt64Array(b, e, v.Int64s)
	case ViewUint64:
		b := make([]byte, len(v.Uint64s)*8)
		for i, x := range v.Uint64s {
			e.PutUint64(b[i*8:], x)
		}
		return b, nil
	case ViewInt16:
		b := make([]byte, len(v.Int16s)*2)
		return b, primitive.PutInt16Array(b, e, v.Int16s)
	case ViewUint16:
		b := make([]byte, len(v.Uint16s)*2)
		return b, primitive.PutUint16Array(b, e, v.Uint16s)
	case ViewChar8:
		return append([]byte(nil), v.Char8s...), nil
	case ViewUchar8:
		return append([]byte(nil), v.Uchar8s...), nil
	case ViewString:
		return primitive.PackStrings(v.Strings), nil
	case ViewComposite:
		return append([]byte(nil), v.Composite...), nil
	case ViewNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown view kind for type %s", errs.ErrFormat, dt)
	}
}

// SetAllHeaderLengths performs the bottom-up recomputation spec.md
// §4.4 names: every node's cached data-word count (and, transitively,
// its ancestors') is refreshed from current children/raw bytes, and
// lengthsUpToDate is set on the whole subtree.
func (t *Tree) SetAllHeaderLengths(root NodeID, e endian.EndianEngine) error {
	_, err := t.computeDataWords(root, e)
	return err
}

func (t *Tree) computeDataWords(id NodeID, e endian.EndianEngine) (uint32, error) {
	n, err := t.Node(id)
	if err != nil {
		return 0, err
	}

	if n.IsContainer() {
		var total uint32
		for _, c := range n.children {
			cn, err := t.Node(c)
			if err != nil {
				return 0, err
			}
			childData, err := t.computeDataWords(c, e)
			if err != nil {
				return 0, err
			}
			total += headerWordsFor(cn.Kind) + childData
		}
		n.lengthsUpToDate = true
		n.cachedDataWords = total
		return total, nil
	}

	if err := t.Resync(id, e); err != nil {
		return 0, err
	}
	words := uint32((len(n.raw) + n.Pad) / 4)
	n.lengthsUpToDate = true
	n.cachedDataWords = words
	return words, nil
}

// DataWords recomputes and returns id's current data-word count.
func (t *Tree) DataWords(id NodeID, e endian.EndianEngine) (uint32, error) {
	return t.computeDataWords(id, e)
}

// cachedDataWordsOf returns the last value SetAllHeaderLengths computed
// for id, without recomputing. Returns an error if lengths were never
// computed or have since been invalidated.
func (t *Tree) cachedDataWordsOf(id NodeID) (uint32, error) {
	n, err := t.Node(id)
	if err != nil {
		return 0, err
	}
	if !n.lengthsUpToDate {
		return 0, fmt.Errorf("%w: lengths stale for node %d, call SetAllHeaderLengths", errs.ErrFormat, id)
	}
	return n.cachedDataWords, nil
}
