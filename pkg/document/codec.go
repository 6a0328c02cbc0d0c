package document

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// wireNode is the storage representation of both node kinds.
// Elements are {"type"?, "children": [...]} and Text leaves are
// {"text", "bold"?, "italic"?, "strikethrough"?}.
type wireNode struct {
	Text          *string     `json:"text,omitempty"`
	Type          *BlockType  `json:"type,omitempty"`
	Bold          bool        `json:"bold,omitempty"`
	Italic        bool        `json:"italic,omitempty"`
	Strikethrough bool        `json:"strikethrough,omitempty"`
	Children      []*wireNode `json:"children,omitempty"`
}

// Encode serializes the document into its storage representation:
// a JSON array of top-level elements.
func Encode(doc *Document) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, errors.WithMessage(err, "failed to encode document")
	}
	wire := make([]*wireNode, 0, doc.Len())
	for _, block := range doc.Blocks() {
		wire = append(wire, toWire(block))
	}
	data, err := json.Marshal(wire)
	return data, errors.WithStack(err)
}

// Decode parses the storage representation produced by [Encode].
func Decode(data []byte) (*Document, error) {
	var wire []*wireNode
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, errors.Wrap(err, "failed to decode document")
	}

	doc := New()
	for i, w := range wire {
		n, err := fromWire(w, Path{i})
		if err != nil {
			return nil, err
		}
		el, ok := n.(*Element)
		if !ok {
			return nil, errors.Errorf("failed to decode document: top-level node %d is not an element", i)
		}
		doc.root.Children = append(doc.root.Children, el)
	}

	if err := doc.Validate(); err != nil {
		return nil, errors.WithMessage(err, "failed to decode document")
	}
	return doc, nil
}

func toWire(n Node) *wireNode {
	switch v := n.(type) {
	case *Text:
		text := v.Text
		return &wireNode{
			Text:          &text,
			Bold:          v.Marks.Has(Bold),
			Italic:        v.Marks.Has(Italic),
			Strikethrough: v.Marks.Has(Strikethrough),
		}
	case *Element:
		w := &wireNode{Children: make([]*wireNode, 0, len(v.Children))}
		if v.Type != DefaultType {
			typ := v.Type
			w.Type = &typ
		}
		for _, child := range v.Children {
			w.Children = append(w.Children, toWire(child))
		}
		return w
	default:
		panic("document: unknown node kind")
	}
}

func fromWire(w *wireNode, path Path) (Node, error) {
	if w == nil {
		return nil, errors.Errorf("failed to decode document: node %s is null", path)
	}

	switch {
	case w.Text != nil && w.Children != nil:
		return nil, errors.Errorf("failed to decode document: node %s has both text and children", path)
	case w.Text != nil:
		marks := NewMarks().
			Set(Bold, w.Bold).
			Set(Italic, w.Italic).
			Set(Strikethrough, w.Strikethrough)
		return &Text{Text: *w.Text, Marks: marks}, nil
	case w.Children != nil:
		el := &Element{Children: make([]Node, 0, len(w.Children))}
		if w.Type != nil {
			el.Type = *w.Type
		}
		for i, child := range w.Children {
			n, err := fromWire(child, path.Child(i))
			if err != nil {
				return nil, err
			}
			el.Children = append(el.Children, n)
		}
		return el, nil
	default:
		return nil, errors.Errorf("failed to decode document: node %s has neither text nor children", path)
	}
}
