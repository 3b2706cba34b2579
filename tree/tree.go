// Package tree implements C4: the mutable in-memory event tree built
// from decoded Bank/Segment/TagSegment headers, with lazily-materialized
// typed views over each node's payload.
//
// Grounded on spec.md §9's design note and arloliu/mebo's ownership
// style (values keyed by integer handles rather than pointer graphs):
// nodes live in a single Tree's arena, addressed by NodeID, so parent
// and child links are plain integers instead of the ref-counted
// parent-pointer cycles the original object model used.
package tree

import (
	"fmt"

	"github.com/jlab-go/evio/dtype"
	"github.com/jlab-go/evio/errs"
)

// NodeID addresses a node within a Tree's arena. Ids are assigned from
// 0 upward in creation order; NoNode represents "no parent" / "not found".
type NodeID int

const NoNode NodeID = -1

// Kind distinguishes the three container header shapes a node can
// carry.
type Kind uint8

const (
	KindBank Kind = iota
	KindSegment
	KindTagSegment
)

// ViewKind selects which slice of a node's TypedView is authoritative.
type ViewKind uint8

const (
	ViewNone ViewKind = iota
	ViewInt16
	ViewUint16
	ViewInt32
	ViewUint32
	ViewInt64
	ViewUint64
	ViewFloat32
	ViewFloat64
	ViewChar8
	ViewUchar8
	ViewString
	ViewComposite
)

// TypedView is a tagged union of the twelve materialized payload
// shapes a leaf node can present (spec.md §9 "tagged union ... plus a
// which-view-is-authoritative flag").
type TypedView struct {
	Kind      ViewKind
	Int16s    []int16
	Uint16s   []uint16
	Int32s    []int32
	Uint32s   []uint32
	Int64s    []int64
	Uint64s   []uint64
	Float32s  []float32
	Float64s  []float64
	Char8s    []byte
	Uchar8s   []byte
	Strings   []string
	Composite []byte // opaque encoded composite payload; composite package interprets it
}

// Node is one element of a Tree's arena.
type Node struct {
	id     NodeID
	parent NodeID
	children []NodeID

	Kind     Kind
	Tag      uint16 // widened; callers narrow per Kind when serializing
	Num      uint8  // bank only
	DataType dtype.Type
	Pad      int

	raw      []byte // authoritative payload bytes for a non-container node
	view     TypedView
	viewSet  bool

	lengthsUpToDate bool
	rawStale        bool
	removed         bool
	cachedDataWords uint32
}

func (n *Node) IsContainer() bool { return n.DataType.IsContainer() }

// Tree owns an arena of nodes reachable from a single root (an event).
type Tree struct {
	nodes []Node
	root  NodeID
}

// New creates an empty tree whose root will be the first node added
// with AddRoot.
func New() *Tree { return &Tree{root: NoNode} }

func (t *Tree) alive(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes) && !t.nodes[id].removed
}

// Node returns a pointer to the node addressed by id. Dereferencing a
// removed node is refused (spec.md §4.5 "obsolete").
func (t *Tree) Node(id NodeID) (*Node, error) {
	if !t.alive(id) {
		return nil, fmt.Errorf("%w: node %d", errs.ErrObsolete, id)
	}
	return &t.nodes[id], nil
}

// Root returns the tree's root node id, or NoNode if empty.
func (t *Tree) Root() NodeID { return t.root }

func (t *Tree) newNode(kind Kind, dt dtype.Type) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{
		id:              id,
		parent:          NoNode,
		Kind:            kind,
		DataType:        dt,
		lengthsUpToDate: true,
	})
	return id
}

// AddRoot creates the tree's root node. It must be called exactly once
// on an empty tree.
func (t *Tree) AddRoot(kind Kind, dt dtype.Type) (NodeID, error) {
	if t.root != NoNode {
		return NoNode, fmt.Errorf("%w: tree already has a root", errs.ErrFormat)
	}
	id := t.newNode(kind, dt)
	t.root = id
	return id, nil
}

// AddChild appends a new child to parent, in insertion order, and
// invalidates lengthsUpToDate up the ancestor chain.
func (t *Tree) AddChild(parent NodeID, kind Kind, dt dtype.Type) (NodeID, error) {
	if !t.alive(parent) {
		return NoNode, fmt.Errorf("%w: parent node %d", errs.ErrObsolete, parent)
	}
	id := t.newNode(kind, dt)
	t.nodes[id].parent = parent
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	t.invalidateLengths(parent)
	return id, nil
}

// Children returns the ordered child ids of id.
func (t *Tree) Children(id NodeID) ([]NodeID, error) {
	n, err := t.Node(id)
	if err != nil {
		return nil, err
	}
	return n.children, nil
}

// Parent returns the parent id of id, or NoNode for the root.
func (t *Tree) Parent(id NodeID) (NodeID, error) {
	n, err := t.Node(id)
	if err != nil {
		return NoNode, err
	}
	return n.parent, nil
}

// SetRaw installs raw as the authoritative payload for a leaf node,
// clearing any materialized typed view.
func (t *Tree) SetRaw(id NodeID, raw []byte) error {
	n, err := t.Node(id)
	if err != nil {
		return err
	}
	n.raw = raw
	n.viewSet = false
	n.view = TypedView{}
	n.rawStale = false
	t.invalidateLengths(id)
	return nil
}

// Raw returns the node's raw payload bytes. It fails with errs.ErrFormat
// if a typed view set on the node has not yet been written back with
// Resync.
func (t *Tree) Raw(id NodeID) ([]byte, error) {
	n, err := t.Node(id)
	if err != nil {
		return nil, err
	}
	if n.rawStale {
		return nil, fmt.Errorf("%w: raw bytes stale, call Resync first", errs.ErrFormat)
	}
	return n.raw, nil
}

// SetView installs a typed view as the authoritative payload. The node
// becomes container-incompatible; raw bytes are marked stale until
// Resync regenerates them.
func (t *Tree) SetView(id NodeID, v TypedView) error {
	n, err := t.Node(id)
	if err != nil {
		return err
	}
	n.view = v
	n.viewSet = true
	n.rawStale = true
	t.invalidateLengths(id)
	return nil
}

// View returns the node's materialized typed view, if one has been set.
func (t *Tree) View(id NodeID) (TypedView, bool, error) {
	n, err := t.Node(id)
	if err != nil {
		return TypedView{}, false, err
	}
	return n.view, n.viewSet, nil
}

func (t *Tree) invalidateLengths(id NodeID) {
	for cur := id; t.alive(cur); {
		t.nodes[cur].lengthsUpToDate = false
		cur = t.nodes[cur].parent
	}
}

// LengthsUpToDate reports whether id's header-length fields reflect its
// current children/data.
func (t *Tree) LengthsUpToDate(id NodeID) (bool, error) {
	n, err := t.Node(id)
	if err != nil {
		return false, err
	}
	return n.lengthsUpToDate, nil
}

// Depth returns id's distance from the root (root is depth 0).
func (t *Tree) Depth(id NodeID) (int, error) {
	if !t.alive(id) {
		return 0, fmt.Errorf("%w: node %d", errs.ErrObsolete, id)
	}
	d := 0
	for cur := t.nodes[id].parent; cur != NoNode; cur = t.nodes[cur].parent {
		d++
	}
	return d, nil
}

// IsAncestor reports whether anc is an ancestor of (or equal to) desc.
func (t *Tree) IsAncestor(anc, desc NodeID) bool {
	for _, cur := range t.pathToRoot(desc) {
		if cur == anc {
			return true
		}
	}
	return false
}

// SharedAncestor returns the lowest common ancestor of a and b, or
// NoNode if they belong to different trees.
func (t *Tree) SharedAncestor(a, b NodeID) NodeID {
	pathA := t.pathToRoot(a)
	set := make(map[NodeID]bool, len(pathA))
	for _, id := range pathA {
		set[id] = true
	}
	for _, cur := range t.pathToRoot(b) {
		if set[cur] {
			return cur
		}
	}
	return NoNode
}

// PathToRoot returns the chain of ids from id up to and including the
// root.
func (t *Tree) PathToRoot(id NodeID) []NodeID { return t.pathToRoot(id) }

func (t *Tree) pathToRoot(id NodeID) []NodeID {
	var path []NodeID
	for cur := id; t.alive(cur); cur = t.nodes[cur].parent {
		path = append(path, cur)
		if t.nodes[cur].parent == NoNode {
			break
		}
	}
	return path
}

// IsLeaf reports whether id has no children.
func (t *Tree) IsLeaf(id NodeID) (bool, error) {
	n, err := t.Node(id)
	if err != nil {
		return false, err
	}
	return len(n.children) == 0, nil
}

// RemoveChild detaches child from its parent. The removed subtree's
// nodes are marked obsolete; any later dereference through a Tree
// method fails with errs.ErrObsolete.
func (t *Tree) RemoveChild(parent, child NodeID) error {
	p, err := t.Node(parent)
	if err != nil {
		return err
	}
	idx := -1
	for i, c := range p.children {
		if c == child {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: node %d is not a child of %d", errs.ErrFormat, child, parent)
	}
	p.children = append(p.children[:idx], p.children[idx+1:]...)
	t.markObsolete(child)
	t.invalidateLengths(parent)
	return nil
}

func (t *Tree) markObsolete(id NodeID) {
	if !t.alive(id) {
		return
	}
	n := &t.nodes[id]
	n.removed = true
	for _, c := range n.children {
		t.markObsolete(c)
	}
}
