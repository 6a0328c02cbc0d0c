// Package editor implements the command layer on top of the transform
// package. An Editor owns a document, the selection and the marks pending
// for the next typed text, and notifies observers about every change.
package editor

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/stateful/runpad/pkg/document"
)

// ErrNoSelection is returned by commands that need a selection when the
// editor has none.
var ErrNoSelection = errors.New("editor has no selection")

// Editor is not safe for concurrent use.
type Editor struct {
	doc       *document.Document
	selection *document.Range
	pending   *document.Marks

	observers []observer
	nextID    int

	logger *zap.Logger
}

type observer struct {
	id int
	fn func(Change)
}

// New returns an Editor for doc. A nil doc is replaced with
// [document.Default]. The editor starts without a selection.
func New(doc *document.Document, logger *zap.Logger) (*Editor, error) {
	if doc == nil {
		doc = document.Default()
	}
	if err := doc.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid document")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Editor{doc: doc, logger: logger}, nil
}

// Document returns the current document. Documents are never mutated in
// place, so the result stays valid after further edits.
func (e *Editor) Document() *document.Document {
	return e.doc
}

// Selection returns a copy of the current selection or nil.
func (e *Editor) Selection() *document.Range {
	if e.selection == nil {
		return nil
	}
	r := e.selection.Clone()
	return &r
}

// OnChange registers fn to be called after every change. The returned
// function unregisters it.
func (e *Editor) OnChange(fn func(Change)) func() {
	e.nextID++
	id := e.nextID
	e.observers = append(e.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range e.observers {
			if o.id == id {
				e.observers = append(e.observers[:i:i], e.observers[i+1:]...)
				return
			}
		}
	}
}

// Select sets the selection. A nil range removes it. Pending marks are
// dropped.
func (e *Editor) Select(r *document.Range) error {
	if r != nil {
		if err := e.doc.ValidateRange(*r); err != nil {
			return err
		}
		clone := r.Clone()
		r = &clone
	}
	e.pending = nil
	e.commit(e.doc, r, Operation{Type: OpSetSelection})
	return nil
}

func (e *Editor) requireSelection() (document.Range, error) {
	if e.selection == nil {
		return document.Range{}, ErrNoSelection
	}
	return e.selection.Clone(), nil
}

// commit installs a new state and notifies observers.
func (e *Editor) commit(doc *document.Document, sel *document.Range, ops ...Operation) {
	change := Change{Document: doc, Selection: sel, Operations: ops}
	if change.IsContentChange() {
		e.pending = nil
	}
	e.doc = doc
	e.selection = sel

	e.logger.Debug("editor changed", zap.Stringers("operations", ops), zap.Bool("content", change.IsContentChange()))

	for _, o := range append([]observer(nil), e.observers...) {
		o.fn(change)
	}
}

func collapsed(p document.Point) *document.Range {
	r := document.Collapsed(p)
	return &r
}
