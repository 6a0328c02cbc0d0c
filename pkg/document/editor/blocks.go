package editor

import (
	"github.com/pkg/errors"

	"github.com/stateful/runpad/pkg/document"
	"github.com/stateful/runpad/pkg/document/transform"
)

// ErrNotCodeBlock is returned when a path does not address a code element.
var ErrNotCodeBlock = errors.New("not a code block")

// IsBlockTypeActive reports whether any element enclosing a leaf within the
// selection has type typ.
func (e *Editor) IsBlockTypeActive(typ document.BlockType) bool {
	if e.selection == nil {
		return false
	}
	leaves, err := e.doc.LeavesIn(*e.selection)
	if err != nil {
		return false
	}
	for _, entry := range leaves {
		ancestors, err := e.doc.Ancestors(entry.Path)
		if err != nil {
			continue
		}
		for _, el := range ancestors {
			if el.Type == typ {
				return true
			}
		}
	}
	return false
}

// ToggleBlockType clears the type of the selected blocks when typ is
// active and sets it to typ otherwise.
func (e *Editor) ToggleBlockType(typ document.BlockType) error {
	if !typ.Valid() {
		return errors.Errorf("invalid block type %q", typ)
	}
	sel, err := e.requireSelection()
	if err != nil {
		return err
	}

	props := transform.Props{Type: typ}
	if e.IsBlockTypeActive(typ) {
		props.Type = document.DefaultType
	}

	doc, err := transform.SetNodes(e.doc, sel, transform.AnyBlock, props)
	if err != nil {
		return err
	}
	e.commit(doc, &sel, Operation{Type: OpSetNodes})
	return nil
}

func (e *Editor) ToggleHeading(level int) error {
	typ, ok := document.HeadingType(level)
	if !ok {
		return errors.Errorf("invalid heading level %d", level)
	}
	return e.ToggleBlockType(typ)
}

func (e *Editor) ToggleCodeBlock() error {
	return e.ToggleBlockType(document.CodeType)
}

// CodeBlocks returns the paths of all code elements in document order.
func (e *Editor) CodeBlocks() []document.Path {
	return e.doc.Find(func(el *document.Element) bool {
		return el.Type == document.CodeType
	})
}

// CodeBlockText returns the concatenated text of the code element at path.
func (e *Editor) CodeBlockText(path document.Path) (string, error) {
	el, err := e.doc.Element(path)
	if err != nil {
		return "", err
	}
	if len(path) == 0 || el.Type != document.CodeType {
		return "", errors.Wrapf(ErrNotCodeBlock, "element at %s", path)
	}
	return document.TextContent(el), nil
}

// SelectedCodeBlock returns the path of the innermost code element
// enclosing the selection anchor.
func (e *Editor) SelectedCodeBlock() (document.Path, error) {
	sel, err := e.requireSelection()
	if err != nil {
		return nil, err
	}
	ancestors, err := e.doc.Ancestors(sel.Anchor.Path)
	if err != nil {
		return nil, err
	}
	for i := len(ancestors) - 1; i >= 0; i-- {
		if ancestors[i].Type == document.CodeType {
			return sel.Anchor.Path[:i+1].Clone(), nil
		}
	}
	return nil, errors.Wrap(ErrNotCodeBlock, "selection is outside of code blocks")
}
