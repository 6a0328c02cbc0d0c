package editor

import (
	"github.com/stateful/runpad/pkg/document"
	"github.com/stateful/runpad/pkg/document/transform"
)

// InsertBreak handles the paragraph break gesture. Inside a code element
// it inserts a literal "\n" so the code stays in one block; elsewhere it
// splits the block at the caret.
func (e *Editor) InsertBreak() error {
	sel, err := e.requireSelection()
	if err != nil {
		return err
	}

	doc, caret, ops, err := deleteExpanded(e.doc, sel)
	if err != nil {
		return err
	}

	block, _, err := doc.Block(caret.Path)
	if err != nil {
		return err
	}
	if block.Type == document.CodeType {
		doc, caret, textOps, err := e.insertText(doc, document.Collapsed(caret), "\n")
		if err != nil {
			return err
		}
		e.commit(doc, collapsed(caret), append(ops, textOps...)...)
		return nil
	}

	doc, caret, err = transform.SplitBlock(doc, caret)
	if err != nil {
		return err
	}
	e.commit(doc, collapsed(caret), append(ops, Operation{Type: OpSplitBlock})...)
	return nil
}

// InsertSoftBreak inserts an empty paragraph at the caret regardless of the
// block type.
func (e *Editor) InsertSoftBreak() error {
	return e.InsertNodes(document.NewElement(document.ParagraphType, document.NewText("")))
}
