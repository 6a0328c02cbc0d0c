package transform

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/stateful/runpad/pkg/document"
)

// InsertNodes inserts nodes at the point.
//
// Text nodes are inserted inline: the leaf at the point is split and the
// nodes are placed between its halves. Elements are inserted as siblings of
// the block containing the point: after it when the point is at its end,
// before it when the point is at its start, and between the two halves of
// the block otherwise.
//
// The returned point is the end of the last inserted node.
func InsertNodes(doc *document.Document, at document.Point, nodes ...document.Node) (*document.Document, document.Point, error) {
	if err := doc.ValidatePoint(at); err != nil {
		return nil, document.Point{}, err
	}
	if len(nodes) == 0 {
		return doc.Clone(), at.Clone(), nil
	}

	var texts, elements int
	cloned := make([]document.Node, 0, len(nodes))
	for _, n := range nodes {
		switch n.(type) {
		case *document.Text:
			texts++
		case *document.Element:
			elements++
		default:
			return nil, document.Point{}, errors.New("unknown node kind")
		}
		cloned = append(cloned, document.CloneNode(n))
	}
	if texts > 0 && elements > 0 {
		return nil, document.Point{}, errors.New("cannot insert text and elements at once")
	}

	out := doc.Clone()
	var (
		caret document.Point
		err   error
	)
	if texts > 0 {
		caret, err = insertInline(out, at, cloned)
	} else {
		caret, err = insertBlocks(out, at, cloned)
	}
	if err != nil {
		return nil, document.Point{}, err
	}

	if err := out.Validate(); err != nil {
		return nil, document.Point{}, errors.WithMessage(err, "inserted nodes break the document")
	}

	document.Normalize(out, &caret)
	return out, caret, nil
}

func insertInline(doc *document.Document, at document.Point, nodes []document.Node) (document.Point, error) {
	leaf, err := doc.Leaf(at.Path)
	if err != nil {
		return document.Point{}, err
	}
	parent, err := doc.Element(at.Path.Parent())
	if err != nil {
		return document.Point{}, err
	}

	left := &document.Text{Text: leaf.Text[:at.Offset], Marks: leaf.Marks}
	right := &document.Text{Text: leaf.Text[at.Offset:], Marks: leaf.Marks}

	repl := make([]document.Node, 0, len(nodes)+2)
	repl = append(repl, left)
	repl = append(repl, nodes...)
	repl = append(repl, right)
	if err := replaceChild(parent, leaf, repl...); err != nil {
		return document.Point{}, err
	}

	last := nodes[len(nodes)-1].(*document.Text)
	lastPath := at.Path.Parent().Child(at.Path.Last() + len(nodes))
	return document.Point{Path: lastPath, Offset: len(last.Text)}, nil
}

func insertBlocks(doc *document.Document, at document.Point, nodes []document.Node) (document.Point, error) {
	_, blockPath, err := doc.Block(at.Path)
	if err != nil {
		return document.Point{}, err
	}
	blockStart, err := doc.StartOf(blockPath)
	if err != nil {
		return document.Point{}, err
	}
	blockEnd, err := doc.EndOf(blockPath)
	if err != nil {
		return document.Point{}, err
	}

	var idx int
	switch {
	case at.Equal(blockEnd):
		idx = blockPath.Last() + 1
	case at.Equal(blockStart):
		idx = blockPath.Last()
	default:
		newBlockPath, err := splitAt(doc, at)
		if err != nil {
			return document.Point{}, err
		}
		idx = newBlockPath.Last()
	}

	parentPath := blockPath.Parent()
	parent, err := doc.Element(parentPath)
	if err != nil {
		return document.Point{}, err
	}
	parent.Children = slices.Insert(parent.Children, idx, nodes...)

	return doc.EndOf(parentPath.Child(idx + len(nodes) - 1))
}
