package editor

import (
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/stateful/runpad/pkg/document"
	"github.com/stateful/runpad/pkg/document/transform"
)

// InsertText replaces the selection with text. When pending marks differ
// from the marks of the leaf at the caret, the text becomes a new leaf
// carrying the pending marks.
func (e *Editor) InsertText(text string) error {
	sel, err := e.requireSelection()
	if err != nil {
		return err
	}
	if !utf8.ValidString(text) {
		return errors.Wrapf(transform.ErrInvalidText, "%q", text)
	}
	doc, caret, ops, err := e.insertText(e.doc, sel, text)
	if err != nil {
		return err
	}
	e.commit(doc, collapsed(caret), ops...)
	return nil
}

func (e *Editor) insertText(doc *document.Document, sel document.Range, text string) (*document.Document, document.Point, []Operation, error) {
	doc, caret, ops, err := deleteExpanded(doc, sel)
	if err != nil {
		return nil, document.Point{}, nil, err
	}

	leaf, err := doc.Leaf(caret.Path)
	if err != nil {
		return nil, document.Point{}, nil, err
	}

	if e.pending != nil && *e.pending != leaf.Marks {
		doc, caret, err = transform.InsertNodes(doc, caret, document.NewText(text, e.pending.List()...))
		if err != nil {
			return nil, document.Point{}, nil, err
		}
		return doc, caret, append(ops, Operation{Type: OpInsertNodes}), nil
	}

	doc, caret, err = transform.InsertText(doc, caret, text)
	if err != nil {
		return nil, document.Point{}, nil, err
	}
	return doc, caret, append(ops, Operation{Type: OpInsertText}), nil
}

// DeleteSelection removes the selected content and collapses the selection
// to its start. A caret is left alone.
func (e *Editor) DeleteSelection() error {
	sel, err := e.requireSelection()
	if err != nil {
		return err
	}
	if sel.IsCollapsed() {
		return nil
	}
	doc, caret, ops, err := deleteExpanded(e.doc, sel)
	if err != nil {
		return err
	}
	e.commit(doc, collapsed(caret), ops...)
	return nil
}

// InsertNodes replaces the selection with nodes and places the caret at
// the end of the last inserted node.
func (e *Editor) InsertNodes(nodes ...document.Node) error {
	sel, err := e.requireSelection()
	if err != nil {
		return err
	}
	doc, caret, ops, err := deleteExpanded(e.doc, sel)
	if err != nil {
		return err
	}
	doc, caret, err = transform.InsertNodes(doc, caret, nodes...)
	if err != nil {
		return err
	}
	e.commit(doc, collapsed(caret), append(ops, Operation{Type: OpInsertNodes})...)
	return nil
}

// LoadText replaces the whole document with a single paragraph holding
// content verbatim and puts the caret at its end.
func (e *Editor) LoadText(content string) error {
	return e.Replace(document.FromText(content))
}

// Replace installs doc as the whole document and puts the caret at its
// end.
func (e *Editor) Replace(doc *document.Document) error {
	if doc == nil {
		return errors.New("document is nil")
	}
	if err := doc.Validate(); err != nil {
		return errors.WithMessage(err, "invalid document")
	}
	doc = doc.Clone()
	e.commit(doc, collapsed(doc.End()), Operation{Type: OpReplaceDocument})
	return nil
}

func deleteExpanded(doc *document.Document, sel document.Range) (*document.Document, document.Point, []Operation, error) {
	if sel.IsCollapsed() {
		return doc, sel.Anchor, nil, nil
	}
	out, caret, err := transform.DeleteRange(doc, sel)
	if err != nil {
		return nil, document.Point{}, nil, err
	}
	return out, caret, []Operation{{Type: OpDeleteRange}}, nil
}
