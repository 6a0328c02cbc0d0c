package transform

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/stateful/runpad/pkg/document"
)

// DeleteRange removes the content between the start and the end of r.
// Nodes lying entirely inside the range are removed, the block holding the
// end is merged into the block holding the start, and the boundary leaves
// merge when their marks match. The returned point is the start of r.
//
// A collapsed range is a no-op.
func DeleteRange(doc *document.Document, r document.Range) (*document.Document, document.Point, error) {
	if err := doc.ValidateRange(r); err != nil {
		return nil, document.Point{}, err
	}

	out := doc.Clone()
	if r.IsCollapsed() {
		return out, r.Anchor.Clone(), nil
	}

	start, end := r.Start().Clone(), r.End().Clone()

	startLeaf, err := out.Leaf(start.Path)
	if err != nil {
		return nil, document.Point{}, err
	}

	if start.Path.Equal(end.Path) {
		startLeaf.Text = startLeaf.Text[:start.Offset] + startLeaf.Text[end.Offset:]
		document.Normalize(out, &start)
		return out, start, nil
	}

	endLeaf, err := out.Leaf(end.Path)
	if err != nil {
		return nil, document.Point{}, err
	}
	startLeaf.Text = startLeaf.Text[:start.Offset]
	endLeaf.Text = endLeaf.Text[end.Offset:]

	// Depth at which the paths to the boundary leaves diverge.
	d := 0
	for start.Path[d] == end.Path[d] {
		d++
	}

	common, err := out.Element(start.Path[:d])
	if err != nil {
		return nil, document.Point{}, err
	}
	pruneAfter(common.Children[start.Path[d]], start.Path[d+1:])
	pruneBefore(common.Children[end.Path[d]], end.Path[d+1:])
	common.Children = slices.Delete(common.Children, start.Path[d]+1, end.Path[d])

	// After pruning, the end leaf is the first leaf of the sibling
	// following the start branch.
	endPath := start.Path[:d].Child(start.Path[d] + 1)
	for i := d + 1; i < len(end.Path); i++ {
		endPath = endPath.Child(0)
	}

	if err := mergeBlocks(out, start.Path, endPath); err != nil {
		return nil, document.Point{}, err
	}

	document.Normalize(out, &start)
	return out, start, nil
}

// pruneAfter drops every node following the branch rel inside n.
func pruneAfter(n document.Node, rel document.Path) {
	if len(rel) == 0 {
		return
	}
	el := n.(*document.Element)
	el.Children = el.Children[:rel[0]+1]
	pruneAfter(el.Children[rel[0]], rel[1:])
}

// pruneBefore drops every node preceding the branch rel inside n.
func pruneBefore(n document.Node, rel document.Path) {
	if len(rel) == 0 {
		return
	}
	el := n.(*document.Element)
	el.Children = el.Children[rel[0]:]
	pruneBefore(el.Children[0], rel[1:])
}

// mergeBlocks moves the content of the block holding endLeaf right after
// startLeaf and removes the emptied block and its emptied ancestors.
func mergeBlocks(doc *document.Document, startLeaf, endLeaf document.Path) error {
	startBlockPath, endBlockPath := startLeaf.Parent(), endLeaf.Parent()
	if startBlockPath.Equal(endBlockPath) || endBlockPath.IsAncestorOf(startBlockPath) {
		return nil
	}

	startBlock, err := doc.Element(startBlockPath)
	if err != nil {
		return err
	}
	endBlock, err := doc.Element(endBlockPath)
	if err != nil {
		return err
	}

	moved := endBlock.Children
	startBlock.Children = slices.Insert(startBlock.Children, startLeaf.Last()+1, moved...)
	endBlock.Children = nil

	endBlockPath = endBlockPath.Clone()
	if startBlockPath.IsAncestorOf(endBlockPath) {
		endBlockPath[len(startBlockPath)] += len(moved)
	}

	for len(endBlockPath) > 0 {
		parent, err := doc.Element(endBlockPath.Parent())
		if err != nil {
			return err
		}
		idx := endBlockPath.Last()
		if idx >= len(parent.Children) {
			return errors.Wrapf(document.ErrInvalidPosition, "block %s vanished while merging", endBlockPath)
		}
		parent.Children = slices.Delete(parent.Children, idx, idx+1)
		if len(parent.Children) > 0 || len(endBlockPath) == 1 {
			break
		}
		endBlockPath = endBlockPath.Parent()
	}
	return nil
}
