// Package transform implements the operations that change a document.
//
// Every function leaves its input untouched and returns a new document
// together with the selection that results from the change. When an input
// position does not resolve, the returned error wraps
// [document.ErrInvalidPosition] and no document is returned.
package transform

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/stateful/runpad/pkg/document"
)

// Match selects block-level nodes for [SetNodes].
type Match func(el *document.Element) bool

// AnyBlock matches every block-level node.
func AnyBlock(*document.Element) bool { return true }

// MatchType matches block-level nodes of the given type.
func MatchType(typ document.BlockType) Match {
	return func(el *document.Element) bool { return el.Type == typ }
}

// Props are the element properties written by [SetNodes]. The zero
// value of a field clears it.
type Props struct {
	Type document.BlockType
}

func indexOf(children []document.Node, n document.Node) int {
	return slices.IndexFunc(children, func(c document.Node) bool { return c == n })
}

// replaceChild swaps old for repl within parent.
func replaceChild(parent *document.Element, old document.Node, repl ...document.Node) error {
	idx := indexOf(parent.Children, old)
	if idx < 0 {
		return errors.New("node is not a child of its parent")
	}
	parent.Children = slices.Replace(parent.Children, idx, idx+1, repl...)
	return nil
}

// leafPath finds the current path of the leaf t.
func leafPath(doc *document.Document, t *document.Text) (document.Path, bool) {
	for _, entry := range doc.Leaves() {
		if entry.Text == t {
			return entry.Path, true
		}
	}
	return nil, false
}

// splitAt splits the block containing at into two blocks in place. The new
// block takes the block's type and the content after at. It returns the
// path of the new block.
func splitAt(doc *document.Document, at document.Point) (document.Path, error) {
	leaf, err := doc.Leaf(at.Path)
	if err != nil {
		return nil, err
	}
	block, blockPath, err := doc.Block(at.Path)
	if err != nil {
		return nil, err
	}
	parent, err := doc.Element(blockPath.Parent())
	if err != nil {
		return nil, err
	}

	leafIdx := at.Path.Last()
	left := &document.Text{Text: leaf.Text[:at.Offset], Marks: leaf.Marks}
	right := &document.Text{Text: leaf.Text[at.Offset:], Marks: leaf.Marks}

	tail := append([]document.Node{right}, block.Children[leafIdx+1:]...)
	block.Children = append(block.Children[:leafIdx:leafIdx], left)

	newBlock := &document.Element{Type: block.Type, Children: tail}
	blockIdx := blockPath.Last()
	parent.Children = slices.Insert(parent.Children, blockIdx+1, document.Node(newBlock))

	return blockPath.Parent().Child(blockIdx + 1), nil
}

func errInvalidProps(props Props) error {
	return errors.Errorf("invalid block type %q", props.Type)
}
