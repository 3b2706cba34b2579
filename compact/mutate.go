package compact

import (
	"fmt"

	"github.com/jlab-go/evio/errs"
)

// maxSegmentLength is the largest value a 16-bit segment/tagsegment
// length field can hold (spec.md §4.5 "aborts if it would overflow
// 16-bit segment/tagseg length").
const maxSegmentLength = 0xffff

// UpdateLengths walks from node to the root of its event, adding delta
// (in words) to the length of node and of each ancestor container, both
// in the cached length fields and in the header length words in the
// buffer. It aborts without modifying anything if any ancestor's new
// length would overflow its header's length field width.
func (ix *Index) UpdateLengths(node NodeID, deltaWords int) error {
	n, err := ix.Node(node)
	if err != nil {
		return err
	}

	chain := []NodeID{node}
	for cur := n.Parent; cur != NoNode; {
		cn, err := ix.Node(cur)
		if err != nil {
			return err
		}
		chain = append(chain, cur)
		cur = cn.Parent
	}

	for _, id := range chain {
		cn := &ix.nodes[id]
		newLen := cn.LenWords + deltaWords
		if (cn.Kind == KindSegment || cn.Kind == KindTagSegment) && newLen-1 > maxSegmentLength {
			return fmt.Errorf("%w: segment/tagsegment length overflow at node %d", errs.ErrFormat, id)
		}
	}

	for _, id := range chain {
		cn := &ix.nodes[id]
		cn.LenWords += deltaWords
		cn.DataLenWords += deltaWords
		switch cn.Kind {
		case KindBank:
			ix.order.PutUint32(ix.buf[cn.Pos:cn.Pos+4], uint32(cn.LenWords-1))
		default:
			ix.order.PutUint16(ix.buf[cn.Pos+2:cn.Pos+4], uint16(cn.LenWords-1))
		}
	}
	return nil
}

func (ix *Index) markObsolete(id NodeID) {
	if !ix.alive(id) {
		return
	}
	n := &ix.nodes[id]
	n.obsolete = true
	for _, c := range n.Children {
		ix.markObsolete(c)
	}
}

// removeBytes closes the gap [pos, pos+length) in the underlying
// buffer by copying the tail left over it (spec.md §4.5 "copy tail
// bytes left to close the gap").
func (ix *Index) removeBytes(pos, length int) {
	copy(ix.buf[pos:], ix.buf[pos+length:])
	ix.buf = ix.buf[:len(ix.buf)-length]

	for i := range ix.nodes {
		if ix.nodes[i].obsolete {
			continue
		}
		if ix.nodes[i].Pos > pos {
			ix.nodes[i].Pos -= length
			ix.nodes[i].DataPos -= length
		}
		if ix.nodes[i].RecordPos > pos {
			ix.nodes[i].RecordPos -= length
		}
	}
}

// insertBytes opens a gap of length bytes at pos by copying the tail
// right, then copies data into the gap (spec.md §4.5 "shift tail
// right").
func (ix *Index) insertBytes(pos int, data []byte) {
	length := len(data)
	ix.buf = append(ix.buf, make([]byte, length)...)
	copy(ix.buf[pos+length:], ix.buf[pos:len(ix.buf)-length])
	copy(ix.buf[pos:pos+length], data)

	for i := range ix.nodes {
		if ix.nodes[i].obsolete {
			continue
		}
		if ix.nodes[i].Pos >= pos {
			ix.nodes[i].Pos += length
			ix.nodes[i].DataPos += length
		}
		if ix.nodes[i].RecordPos >= pos {
			ix.nodes[i].RecordPos += length
		}
	}
}

// RemoveStructure removes node (and its subtree) from the buffer,
// closing the gap and propagating the length delta to its ancestors
// (spec.md §4.5 "remove_structure").
func (ix *Index) RemoveStructure(node NodeID) error {
	n, err := ix.Node(node)
	if err != nil {
		return err
	}
	parent := n.Parent
	lengthBytes := n.LenWords * 4
	pos := n.Pos

	if parent != NoNode {
		pn, err := ix.Node(parent)
		if err != nil {
			return err
		}
		idx := -1
		for i, c := range pn.Children {
			if c == node {
				idx = i
				break
			}
		}
		if idx >= 0 {
			pn.Children = append(pn.Children[:idx], pn.Children[idx+1:]...)
		}
	}

	ix.markObsolete(node)
	ix.removeBytes(pos, lengthBytes)

	if parent != NoNode {
		return ix.UpdateLengths(parent, -(lengthBytes / 4))
	}
	return nil
}

// RemoveEvent removes the n'th top-level event, closing the gap and
// shifting subsequent event indices down (spec.md §4.5 "remove_event").
func (ix *Index) RemoveEvent(n int) error {
	if n < 0 || n >= len(ix.roots) {
		return fmt.Errorf("%w: event index %d out of range", errs.ErrFormat, n)
	}
	root := ix.roots[n]
	rn, err := ix.Node(root)
	if err != nil {
		return err
	}
	lengthBytes := rn.LenWords * 4
	pos := rn.Pos

	ix.markObsolete(root)
	ix.removeBytes(pos, lengthBytes)
	ix.roots = append(ix.roots[:n], ix.roots[n+1:]...)
	return nil
}

// AddStructure inserts bytes as the new last child of the event's
// top-level bank, shifts the tail right, and propagates the length
// delta upward (spec.md §4.5 "add_structure").
func (ix *Index) AddStructure(eventN int, bytes []byte, child Node) error {
	if eventN < 0 || eventN >= len(ix.roots) {
		return fmt.Errorf("%w: event index %d out of range", errs.ErrFormat, eventN)
	}
	root := ix.roots[eventN]
	rn, err := ix.Node(root)
	if err != nil {
		return err
	}

	insertPos := rn.Pos + rn.LenWords*4
	ix.insertBytes(insertPos, bytes)

	child.Pos = insertPos
	child.DataPos = insertPos + headerBytesFor(child.Kind)
	child.Parent = root
	id := ix.addNode(child)
	ix.nodes[root].Children = append(ix.nodes[root].Children, id)

	return ix.UpdateLengths(root, len(bytes)/4)
}
