package editor

import (
	"github.com/stateful/runpad/pkg/document"
	"github.com/stateful/runpad/pkg/document/transform"
)

// Marks returns the marks in effect at the selection.
//
// Pending marks win. At a caret it is the marks of the leaf holding the
// caret, or of the previous leaf in the same block when the caret is at
// offset 0. For an expanded selection it is the marks of the leaf at the
// start, or of the following leaf when the start is at the end of its leaf.
func (e *Editor) Marks() document.Marks {
	if e.pending != nil {
		return *e.pending
	}
	if e.selection == nil {
		return 0
	}

	if e.selection.IsCollapsed() {
		caret := e.selection.Anchor
		leaf, err := e.doc.Leaf(caret.Path)
		if err != nil {
			return 0
		}
		if caret.Offset == 0 {
			prev, ok := e.doc.PreviousLeaf(caret.Path)
			if ok && prev.Path.HasPrefix(caret.Path.Parent()) {
				return prev.Text.Marks
			}
		}
		return leaf.Marks
	}

	start := e.selection.Start()
	leaf, err := e.doc.Leaf(start.Path)
	if err != nil {
		return 0
	}
	if start.Offset == len(leaf.Text) {
		if next, ok := e.doc.NextLeaf(start.Path); ok {
			return next.Text.Marks
		}
	}
	return leaf.Marks
}

func (e *Editor) IsMarkActive(mark document.Mark) bool {
	return e.Marks().Has(mark)
}

// ToggleMark removes mark when it is active and adds it otherwise.
func (e *Editor) ToggleMark(mark document.Mark) error {
	if e.IsMarkActive(mark) {
		return e.RemoveMark(mark)
	}
	return e.AddMark(mark)
}

// AddMark sets mark on the selected text. At a caret it only affects the
// text typed next.
func (e *Editor) AddMark(mark document.Mark) error {
	return e.setMark(mark, true)
}

func (e *Editor) RemoveMark(mark document.Mark) error {
	return e.setMark(mark, false)
}

func (e *Editor) setMark(mark document.Mark, value bool) error {
	sel, err := e.requireSelection()
	if err != nil {
		return err
	}

	if sel.IsCollapsed() {
		marks := e.Marks().Set(mark, value)
		e.pending = &marks
		e.commit(e.doc, e.Selection())
		return nil
	}

	doc, r, err := transform.SetMark(e.doc, sel, mark, value)
	if err != nil {
		return err
	}
	e.commit(doc, &r, Operation{Type: OpSetMark})
	return nil
}
