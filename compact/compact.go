// Package compact implements C5: a zero-copy index over an EVIO
// buffer. Unlike tree, which materializes a mutable node graph, a
// compact Node only records where a structure lives (tag, num, type,
// byte offsets, lengths) so random access and buffer mutation can
// avoid re-parsing payload bytes.
//
// Grounded on spec.md §4.5 and original_source/.../EvioNode.h, which
// the scan/construction and mutation operations below track field for
// field (pos/dataPos/len/dataLen, the allNodes flattened list kept on
// the event root, and the obsolete flag raised on removal).
package compact

import (
	"fmt"

	"github.com/jlab-go/evio/dtype"
	"github.com/jlab-go/evio/endian"
	"github.com/jlab-go/evio/errs"
	"github.com/jlab-go/evio/section"
)

// NodeID addresses a Node within an Index's flat node table.
type NodeID int

const NoNode NodeID = -1

// Node describes one structure located inside a buffer, without
// holding a copy of its payload.
type Node struct {
	Tag      uint16
	Num      uint8
	Pad      int
	DataType dtype.Type
	Kind     Kind

	Pos         int // byte offset of this structure's header
	DataPos     int // byte offset of its first data byte
	LenWords    int // total words, header included
	DataLenWords int // words of data following the header

	RecordPos int // byte offset of the record containing this node, in the owning buffer

	Parent   NodeID
	Children []NodeID

	isEvent  bool
	obsolete bool
}

func (n Node) IsEvent() bool { return n.isEvent }

// Kind mirrors tree.Kind: which of the three header shapes this node
// describes.
type Kind uint8

const (
	KindBank Kind = iota
	KindSegment
	KindTagSegment
)

func headerBytesFor(k Kind) int {
	switch k {
	case KindBank:
		return section.BankHeaderBytes
	default:
		return 4
	}
}

// Index is the flattened DFS node table for one event buffer (spec.md
// §4.5 "all_nodes vector (flattened DFS order)").
type Index struct {
	buf   []byte
	order endian.EndianEngine
	nodes []Node
	roots []NodeID // one per top-level event
}

func (ix *Index) alive(id NodeID) bool {
	return id >= 0 && int(id) < len(ix.nodes) && !ix.nodes[id].obsolete
}

// Node returns the node at id. Dereferencing a removed node fails with
// errs.ErrObsolete (spec.md §4.5).
func (ix *Index) Node(id NodeID) (*Node, error) {
	if !ix.alive(id) {
		return nil, fmt.Errorf("%w: compact node %d", errs.ErrObsolete, id)
	}
	return &ix.nodes[id], nil
}

// Events returns the root node id of every event in the buffer.
func (ix *Index) Events() []NodeID { return ix.roots }

// Buf returns the Index's backing buffer. Callers reading structure
// bytes through Node.Pos/LenWords use this rather than holding their
// own copy, since mutation (RemoveStructure, AddStructure) may resize
// and relocate it.
func (ix *Index) Buf() []byte { return ix.buf }

// EventBytes returns the raw wire bytes of the n'th top-level event,
// header included.
func (ix *Index) EventBytes(n int) ([]byte, error) {
	if n < 0 || n >= len(ix.roots) {
		return nil, fmt.Errorf("%w: event index %d out of range", errs.ErrFormat, n)
	}
	rn, err := ix.Node(ix.roots[n])
	if err != nil {
		return nil, err
	}
	return ix.buf[rn.Pos : rn.Pos+rn.LenWords*4], nil
}

// Data returns node's data bytes (header excluded).
func (ix *Index) Data(node NodeID) ([]byte, error) {
	n, err := ix.Node(node)
	if err != nil {
		return nil, err
	}
	return ix.buf[n.DataPos : n.DataPos+n.DataLenWords*4], nil
}

// Find returns every live node under root (root included) whose tag
// and num match, in DFS order. Pass num -1 to match any num, which
// segments and tagsegments (which carry no num) always satisfy.
func (ix *Index) Find(root NodeID, tag uint16, num int) ([]NodeID, error) {
	n, err := ix.Node(root)
	if err != nil {
		return nil, err
	}

	var out []NodeID
	if n.Tag == tag && (num < 0 || (n.Kind == KindBank && int(n.Num) == num)) {
		out = append(out, root)
	}
	for _, c := range n.Children {
		matches, err := ix.Find(c, tag, num)
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
	}
	return out, nil
}

// Scan builds an Index over buf by decoding each top-level event bank
// at offset, in turn, and recursively enumerating the containers
// nested inside it (spec.md §4.5 "Construction is by scanning").
func Scan(buf []byte, order endian.EndianEngine, eventOffsets []int) (*Index, error) {
	ix := &Index{buf: buf, order: order}
	for _, off := range eventOffsets {
		id, err := ix.scanBank(off, NoNode, off)
		if err != nil {
			return nil, err
		}
		ix.nodes[id].isEvent = true
		ix.roots = append(ix.roots, id)
	}
	return ix, nil
}

func (ix *Index) addNode(n Node) NodeID {
	id := NodeID(len(ix.nodes))
	ix.nodes = append(ix.nodes, n)
	return id
}

func (ix *Index) scanBank(pos int, parent NodeID, recordPos int) (NodeID, error) {
	if pos+section.BankHeaderBytes > len(ix.buf) {
		return NoNode, fmt.Errorf("%w: bank header at %d", errs.ErrBounds, pos)
	}
	hdr, err := section.ParseBankHeader(ix.buf[pos:], ix.order)
	if err != nil {
		return NoNode, err
	}
	dataPos := pos + section.BankHeaderBytes
	lenWords := int(hdr.Length) + 1
	dataLenWords := int(hdr.DataWords())

	id := ix.addNode(Node{
		Tag: hdr.Tag, Num: hdr.Num, Pad: hdr.Pad, DataType: hdr.DataType, Kind: KindBank,
		Pos: pos, DataPos: dataPos, LenWords: lenWords, DataLenWords: dataLenWords,
		RecordPos: recordPos, Parent: parent,
	})

	if err := ix.scanChildren(id, hdr.DataType, dataPos, dataLenWords*4, recordPos); err != nil {
		return NoNode, err
	}
	return id, nil
}

func (ix *Index) scanSegment(pos int, parent NodeID, recordPos int) (NodeID, error) {
	hdr, err := section.ParseSegmentHeader(ix.buf[pos:], ix.order)
	if err != nil {
		return NoNode, err
	}
	dataPos := pos + section.SegmentHeaderBytes
	lenWords := int(hdr.Length) + 1
	dataLenWords := int(hdr.DataWords())

	id := ix.addNode(Node{
		Tag: uint16(hdr.Tag), Pad: hdr.Pad, DataType: hdr.DataType, Kind: KindSegment,
		Pos: pos, DataPos: dataPos, LenWords: lenWords, DataLenWords: dataLenWords,
		RecordPos: recordPos, Parent: parent,
	})

	if err := ix.scanChildren(id, hdr.DataType, dataPos, dataLenWords*4, recordPos); err != nil {
		return NoNode, err
	}
	return id, nil
}

func (ix *Index) scanTagSegment(pos int, parent NodeID, recordPos int) (NodeID, error) {
	hdr, err := section.ParseTagSegmentHeader(ix.buf[pos:], ix.order)
	if err != nil {
		return NoNode, err
	}
	dataPos := pos + section.TagSegmentHeaderBytes
	lenWords := int(hdr.Length) + 1
	dataLenWords := int(hdr.DataWords())

	id := ix.addNode(Node{
		Tag: hdr.Tag, DataType: hdr.DataType, Kind: KindTagSegment,
		Pos: pos, DataPos: dataPos, LenWords: lenWords, DataLenWords: dataLenWords,
		RecordPos: recordPos, Parent: parent,
	})

	if err := ix.scanChildren(id, hdr.DataType, dataPos, dataLenWords*4, recordPos); err != nil {
		return NoNode, err
	}
	return id, nil
}

// scanChildren walks the containers nested directly inside [dataPos,
// dataPos+dataLenBytes), advancing by each child's own total byte
// length (spec.md §4.5 "advancing data_pos over data_len_words*4
// bytes").
func (ix *Index) scanChildren(parent NodeID, dt dtype.Type, dataPos, dataLenBytes, recordPos int) error {
	if !dt.IsValid() {
		return fmt.Errorf("%w: data type 0x%x", errs.ErrInvalidDataType, dt)
	}
	if !dt.IsContainer() {
		return nil
	}

	end := dataPos + dataLenBytes
	cur := dataPos
	var childID NodeID
	var err error
	for cur < end {
		switch dt.Canonical() {
		case dtype.Bank:
			childID, err = ix.scanBank(cur, parent, recordPos)
		case dtype.Segment:
			childID, err = ix.scanSegment(cur, parent, recordPos)
		case dtype.TagSegment:
			childID, err = ix.scanTagSegment(cur, parent, recordPos)
		}
		if err != nil {
			return err
		}
		ix.nodes[parent].Children = append(ix.nodes[parent].Children, childID)
		cur = ix.nodes[childID].Pos + ix.nodes[childID].LenWords*4
	}
	return nil
}
