package evfile

import (
	"fmt"

	"github.com/jlab-go/evio/compact"
	"github.com/jlab-go/evio/errs"
)

// CompactReader is the facade over a File's events (spec.md
// §4.9 "compact reader: GetEvent/SearchEvent/RemoveEvent/AddStructure",
// C9), built on a compact.Index scanned once up front over a flat copy
// of the events; node lookups after that read the copy in place.
//
// Grounded on spec.md §4.5's Index and the C9 operation list;
// structurally this is a thin pass-through, since compact.Index already
// carries the mutation and lookup primitives the facade exposes.
type CompactReader struct {
	file *File
	ix   *compact.Index
}

// NewCompactReader scans every event in file and returns a reader
// over the resulting index. Events are concatenated into one flat
// buffer first, since compressed records decompress into their own
// per-record buffer and would otherwise leave compact.Scan with
// discontiguous offsets.
func NewCompactReader(file *File) (*CompactReader, error) {
	n := file.EventCount()
	var flat []byte
	offsets := make([]int, n)
	for i := 0; i < n; i++ {
		b, err := file.EventBytes(i)
		if err != nil {
			return nil, err
		}
		offsets[i] = len(flat)
		flat = append(flat, b...)
	}

	ix, err := compact.Scan(flat, file.Order(), offsets)
	if err != nil {
		return nil, err
	}
	return &CompactReader{file: file, ix: ix}, nil
}

// Index exposes the underlying compact.Index for callers that need
// direct node access beyond this facade's operations.
func (r *CompactReader) Index() *compact.Index { return r.ix }

// GetEvent returns the n'th event's root node id.
func (r *CompactReader) GetEvent(n int) (compact.NodeID, error) {
	events := r.ix.Events()
	if n < 0 || n >= len(events) {
		return compact.NoNode, fmt.Errorf("%w: event index %d out of range", errs.ErrFormat, n)
	}
	return events[n], nil
}

// GetScannedEvent returns the n'th event's raw wire bytes, header
// included, as already materialized by the index's scan.
func (r *CompactReader) GetScannedEvent(n int) ([]byte, error) {
	return r.ix.EventBytes(n)
}

// SearchEvent returns every node within event n whose tag and num
// match. Pass num -1 to match any num.
func (r *CompactReader) SearchEvent(n int, tag uint16, num int) ([]compact.NodeID, error) {
	root, err := r.GetEvent(n)
	if err != nil {
		return nil, err
	}
	return r.ix.Find(root, tag, num)
}

// RemoveEvent removes the n'th top-level event.
func (r *CompactReader) RemoveEvent(n int) error { return r.ix.RemoveEvent(n) }

// RemoveStructure removes node and its subtree.
func (r *CompactReader) RemoveStructure(node compact.NodeID) error {
	return r.ix.RemoveStructure(node)
}

// AddStructure inserts bytes as the new last child of event n's
// top-level bank.
func (r *CompactReader) AddStructure(eventN int, bytes []byte, child compact.Node) error {
	return r.ix.AddStructure(eventN, bytes, child)
}

// GetData returns node's data bytes, header excluded.
func (r *CompactReader) GetData(node compact.NodeID) ([]byte, error) {
	return r.ix.Data(node)
}

// GetEventBuffer returns the reader's whole backing buffer, reflecting
// any RemoveEvent/RemoveStructure/AddStructure mutations applied so
// far.
func (r *CompactReader) GetEventBuffer() []byte { return r.ix.Buf() }

// ToFile writes the reader's current (possibly mutated) buffer out as
// a single uncompressed record via w.
func (r *CompactReader) ToFile(w *Writer) error {
	return w.WriteRawEvents(splitEvents(r.ix))
}

// splitEvents re-slices the index's buffer back into one []byte per
// surviving top-level event, in root order.
func splitEvents(ix *compact.Index) [][]byte {
	events := ix.Events()
	out := make([][]byte, 0, len(events))
	for _, id := range events {
		n, err := ix.Node(id)
		if err != nil {
			continue
		}
		out = append(out, ix.Buf()[n.Pos:n.Pos+n.LenWords*4])
	}
	return out
}
