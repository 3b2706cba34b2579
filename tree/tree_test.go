package tree

import (
	"testing"

	"github.com/jlab-go/evio/dtype"
	"github.com/jlab-go/evio/endian"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildE1(t *testing.T) (*Tree, NodeID) {
	t.Helper()
	tr := New()
	root, err := tr.AddRoot(KindBank, dtype.Bank)
	require.NoError(t, err)
	rn, _ := tr.Node(root)
	rn.Tag = 1
	rn.Num = 0

	child, err := tr.AddChild(root, KindBank, dtype.Int32)
	require.NoError(t, err)
	cn, _ := tr.Node(child)
	cn.Tag = 7
	cn.Num = 3

	require.NoError(t, tr.SetView(child, TypedView{Kind: ViewInt32, Int32s: []int32{0x11223344, 0x55667788}}))
	return tr, root
}

// TestWrite_E1Scenario exercises an event bank with one child int32
// bank. The type byte follows dtype's closed enumeration (Int32 =
// 0x0b) rather than the 0x00 shown in spec.md's E1 worked example,
// which is inconsistent with that same enumeration; see DESIGN.md.
func TestWrite_E1Scenario(t *testing.T) {
	tr, root := buildE1(t)
	e := endian.GetBigEndianEngine()

	data, err := tr.Write(root, e)
	require.NoError(t, err)

	want := []byte{
		0x00, 0x00, 0x00, 0x05, 0x00, 0x01, 0x10, 0x00,
		0x00, 0x00, 0x00, 0x03, 0x00, 0x07, 0x0b, 0x03,
		0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88,
	}
	assert.Equal(t, want, data)
}

func TestDFSIterator_VisitsParentBeforeChildren(t *testing.T) {
	tr, root := buildE1(t)
	it := NewDFSIterator(tr, root)

	first, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, root, first)

	second, ok := it.Next()
	require.True(t, ok)
	assert.NotEqual(t, root, second)

	_, ok = it.Next()
	assert.False(t, ok)
}

func TestBFSIterator(t *testing.T) {
	tr, root := buildE1(t)
	it := NewBFSIterator(tr, root)
	var seen []NodeID
	for {
		id, ok := it.Next()
		if !ok {
			break
		}
		seen = append(seen, id)
	}
	assert.Len(t, seen, 2)
	assert.Equal(t, root, seen[0])
}

func TestVisitAll_StartEndOrder(t *testing.T) {
	tr, root := buildE1(t)
	var events []string
	VisitAll(tr, root, Listener{
		Start: func(id NodeID) { events = append(events, "start") },
		End:   func(id NodeID) { events = append(events, "end") },
	}, nil)
	assert.Equal(t, []string{"start", "start", "end", "end"}, events)
}

func TestGetMatching(t *testing.T) {
	tr, root := buildE1(t)
	matches := GetMatching(tr, root, func(t *Tree, id NodeID) bool {
		n, _ := t.Node(id)
		return n.DataType == dtype.Int32
	})
	assert.Len(t, matches, 1)
}

func TestRemoveChild_MarksObsolete(t *testing.T) {
	tr, root := buildE1(t)
	children, err := tr.Children(root)
	require.NoError(t, err)
	child := children[0]

	require.NoError(t, tr.RemoveChild(root, child))

	_, err = tr.Node(child)
	assert.Error(t, err)

	remaining, err := tr.Children(root)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestDepthAndAncestry(t *testing.T) {
	tr, root := buildE1(t)
	children, _ := tr.Children(root)
	child := children[0]

	d, err := tr.Depth(child)
	require.NoError(t, err)
	assert.Equal(t, 1, d)

	assert.True(t, tr.IsAncestor(root, child))
	assert.False(t, tr.IsAncestor(child, root))
	assert.Equal(t, root, tr.SharedAncestor(root, child))
}

func TestWriteQuick_RequiresPriorLengths(t *testing.T) {
	tr, root := buildE1(t)
	_, err := tr.WriteQuick(root, endian.GetBigEndianEngine())
	assert.Error(t, err)

	require.NoError(t, tr.SetAllHeaderLengths(root, endian.GetBigEndianEngine()))
	_, err = tr.WriteQuick(root, endian.GetBigEndianEngine())
	assert.NoError(t, err)
}
