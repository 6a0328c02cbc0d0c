package transform

import (
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/stateful/runpad/pkg/document"
)

// ErrInvalidText is returned when inserted text is not valid UTF-8.
var ErrInvalidText = errors.New("text is not valid UTF-8")

// InsertText inserts text as literal characters at the point. It never
// creates block structure; a "\n" stays inside the leaf.
func InsertText(doc *document.Document, at document.Point, text string) (*document.Document, document.Point, error) {
	if err := doc.ValidatePoint(at); err != nil {
		return nil, document.Point{}, err
	}
	if !utf8.ValidString(text) {
		return nil, document.Point{}, errors.Wrapf(ErrInvalidText, "%q", text)
	}

	out := doc.Clone()
	leaf, err := out.Leaf(at.Path)
	if err != nil {
		return nil, document.Point{}, err
	}
	leaf.Text = leaf.Text[:at.Offset] + text + leaf.Text[at.Offset:]

	return out, document.Point{Path: at.Path.Clone(), Offset: at.Offset + len(text)}, nil
}

// SplitBlock splits the block containing at into two blocks. The new block
// keeps the type of the original one and the marks of the split leaf.
// The returned point is the start of the new block.
func SplitBlock(doc *document.Document, at document.Point) (*document.Document, document.Point, error) {
	if err := doc.ValidatePoint(at); err != nil {
		return nil, document.Point{}, err
	}

	out := doc.Clone()
	newBlockPath, err := splitAt(out, at)
	if err != nil {
		return nil, document.Point{}, err
	}

	caret, err := out.StartOf(newBlockPath)
	if err != nil {
		return nil, document.Point{}, err
	}
	document.Normalize(out, &caret)
	return out, caret, nil
}
