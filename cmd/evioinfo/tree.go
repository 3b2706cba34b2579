package main

import (
	"fmt"

	"github.com/jlab-go/evio/compact"
	"github.com/jlab-go/evio/evfile"
)

// printTree prints event n's structure as an indented tree, one line
// per node: tag, num (banks only), type, byte offset, and length in words.
func printTree(cr *evfile.CompactReader, n int) error {
	root, err := cr.GetEvent(n)
	if err != nil {
		return err
	}
	return printNode(cr.Index(), root, 0)
}

func printNode(ix *compact.Index, id compact.NodeID, depth int) error {
	node, err := ix.Node(id)
	if err != nil {
		return err
	}

	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}

	if node.Kind == compact.KindBank {
		fmt.Printf("%stag=0x%04x num=%d type=%s pos=%d len=%d\n", indent, node.Tag, node.Num, node.DataType, node.Pos, node.LenWords)
	} else {
		fmt.Printf("%stag=0x%04x type=%s pos=%d len=%d\n", indent, node.Tag, node.DataType, node.Pos, node.LenWords)
	}

	for _, c := range node.Children {
		if err := printNode(ix, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}
