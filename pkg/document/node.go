package document

import (
	"strings"
)

// BlockType tags an Element. The zero value is the default (untyped) block
// which renders like a paragraph.
type BlockType string

const (
	DefaultType   BlockType = ""
	ParagraphType BlockType = "paragraph"
	Heading1Type  BlockType = "heading1"
	Heading2Type  BlockType = "heading2"
	Heading3Type  BlockType = "heading3"
	CodeType      BlockType = "code"
)

var blockTypes = []BlockType{
	DefaultType,
	ParagraphType,
	Heading1Type,
	Heading2Type,
	Heading3Type,
	CodeType,
}

func (t BlockType) Valid() bool {
	for _, bt := range blockTypes {
		if bt == t {
			return true
		}
	}
	return false
}

// HeadingType returns the block type for a heading level in [1, 3].
func HeadingType(level int) (BlockType, bool) {
	switch level {
	case 1:
		return Heading1Type, true
	case 2:
		return Heading2Type, true
	case 3:
		return Heading3Type, true
	default:
		return DefaultType, false
	}
}

// Node is either a *Text leaf or an *Element. The set is closed.
type Node interface {
	node()
	clone() Node
}

type Text struct {
	Text  string
	Marks Marks
}

func NewText(text string, marks ...Mark) *Text {
	return &Text{Text: text, Marks: NewMarks(marks...)}
}

func (*Text) node() {}

func (t *Text) clone() Node {
	c := *t
	return &c
}

type Element struct {
	Type     BlockType
	Children []Node
}

func NewElement(typ BlockType, children ...Node) *Element {
	return &Element{Type: typ, Children: children}
}

func (*Element) node() {}

func (e *Element) clone() Node {
	return e.Clone()
}

func (e *Element) Clone() *Element {
	c := &Element{
		Type:     e.Type,
		Children: make([]Node, 0, len(e.Children)),
	}
	for _, child := range e.Children {
		c.Children = append(c.Children, child.clone())
	}
	return c
}

// IsTextBlock reports whether all children are Text leaves.
func (e *Element) IsTextBlock() bool {
	for _, child := range e.Children {
		if _, ok := child.(*Text); !ok {
			return false
		}
	}
	return true
}

// CloneNode returns a deep copy of n.
func CloneNode(n Node) Node {
	if n == nil {
		return nil
	}
	return n.clone()
}

// TextContent concatenates all descendant Text leaves of n in document order.
func TextContent(n Node) string {
	var b strings.Builder
	writeText(&b, n)
	return b.String()
}

func writeText(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Text:
		b.WriteString(v.Text)
	case *Element:
		for _, child := range v.Children {
			writeText(b, child)
		}
	}
}

func equalNode(a, b Node) bool {
	switch av := a.(type) {
	case *Text:
		bv, ok := b.(*Text)
		return ok && av.Text == bv.Text && av.Marks == bv.Marks
	case *Element:
		bv, ok := b.(*Element)
		if !ok || av.Type != bv.Type || len(av.Children) != len(bv.Children) {
			return false
		}
		for i := range av.Children {
			if !equalNode(av.Children[i], bv.Children[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
