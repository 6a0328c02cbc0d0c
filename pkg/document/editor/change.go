package editor

import (
	"github.com/stateful/runpad/pkg/document"
)

type OperationType string

const (
	OpInsertText      OperationType = "insert_text"
	OpDeleteRange     OperationType = "delete_range"
	OpInsertNodes     OperationType = "insert_nodes"
	OpSplitBlock      OperationType = "split_block"
	OpSetNodes        OperationType = "set_nodes"
	OpSetMark         OperationType = "set_mark"
	OpReplaceDocument OperationType = "replace_document"
	OpSetSelection    OperationType = "set_selection"
)

type Operation struct {
	Type OperationType
}

func (o Operation) String() string { return string(o.Type) }

// Change describes the editor state after a command.
type Change struct {
	Document   *document.Document
	Selection  *document.Range
	Operations []Operation
}

// IsContentChange reports whether the document itself may have changed.
// Changes made only of selection updates are not content changes;
// neither are changes to pending marks, which carry no operations.
func (c Change) IsContentChange() bool {
	for _, op := range c.Operations {
		if op.Type != OpSetSelection {
			return true
		}
	}
	return false
}
