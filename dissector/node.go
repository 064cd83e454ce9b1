package dissector

import (
	"fmt"
	"io"
	"strings"
)

// Node is one entry of a display tree.
type Node struct {
	Field    Field
	Label    string
	Offset   int
	Length   int
	Children []*Node
}

// Add appends a child and returns it.
func (n *Node) Add(field Field, label string, offset, length int) *Node {
	child := &Node{Field: field, Label: label, Offset: offset, Length: length}
	n.Children = append(n.Children, child)
	return child
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(depth int, n *Node) bool) {
	n.walk(0, fn)
}

func (n *Node) walk(depth int, fn func(int, *Node) bool) {
	if !fn(depth, n) {
		return
	}
	for _, c := range n.Children {
		c.walk(depth+1, fn)
	}
}

// Count returns the number of nodes in the tree.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(int, *Node) bool {
		total++
		return true
	})
	return total
}

// Find returns the first node of the given field, depth-first.
func (n *Node) Find(field Field) *Node {
	var found *Node
	n.Walk(func(_ int, x *Node) bool {
		if found == nil && x.Field == field {
			found = x
		}
		return found == nil
	})
	return found
}

// WriteTo renders the tree as indented text, one node per line.
func (n *Node) WriteTo(w io.Writer) (int64, error) {
	var total int64
	var err error
	n.Walk(func(depth int, x *Node) bool {
		if err != nil {
			return false
		}
		var c int
		c, err = fmt.Fprintf(w, "%s%s: %s [%d+%d]\n", strings.Repeat("  ", depth), x.Field, x.Label, x.Offset, x.Length)
		total += int64(c)
		return true
	})
	return total, err
}

func (n *Node) String() string {
	var b strings.Builder
	_, _ = n.WriteTo(&b)
	return b.String()
}
