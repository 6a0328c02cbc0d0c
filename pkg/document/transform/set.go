package transform

import (
	"github.com/stateful/runpad/pkg/document"
)

// SetNodes writes props to every block-level node intersecting r for which
// match returns true. The block-level node of a leaf is its nearest
// ancestor Element.
func SetNodes(doc *document.Document, r document.Range, match Match, props Props) (*document.Document, error) {
	if match == nil {
		match = AnyBlock
	}
	if !props.Type.Valid() {
		return nil, errInvalidProps(props)
	}

	out := doc.Clone()
	leaves, err := out.LeavesIn(r)
	if err != nil {
		return nil, err
	}

	seen := make(map[*document.Element]struct{})
	for _, entry := range leaves {
		block, _, err := out.Block(entry.Path)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[block]; ok {
			continue
		}
		seen[block] = struct{}{}
		if match(block) {
			block.Type = props.Type
		}
	}
	return out, nil
}

// SetMark sets or clears mark on the content covered by r. Leaves crossing
// the range boundaries are split so that only the covered characters
// change. The returned range addresses the same characters as r in the new
// document and keeps its direction.
//
// A collapsed range covers nothing and is returned unchanged.
func SetMark(doc *document.Document, r document.Range, mark document.Mark, value bool) (*document.Document, document.Range, error) {
	if err := doc.ValidateRange(r); err != nil {
		return nil, document.Range{}, err
	}

	out := doc.Clone()
	if r.IsCollapsed() {
		return out, r.Clone(), nil
	}

	start, end := r.Start(), r.End()
	leaves, err := out.LeavesIn(r)
	if err != nil {
		return nil, document.Range{}, err
	}

	type split struct {
		parent *document.Element
		leaf   *document.Text
		from   int
		to     int
	}
	var splits []split
	for _, entry := range leaves {
		from, to := 0, len(entry.Text.Text)
		if entry.Path.Equal(start.Path) {
			from = start.Offset
		}
		if entry.Path.Equal(end.Path) {
			to = end.Offset
		}
		if from >= to {
			continue
		}
		parent, err := out.Element(entry.Path.Parent())
		if err != nil {
			return nil, document.Range{}, err
		}
		splits = append(splits, split{parent: parent, leaf: entry.Text, from: from, to: to})
	}
	if len(splits) == 0 {
		return out, r.Clone(), nil
	}

	targets := make([]*document.Text, 0, len(splits))
	for _, s := range splits {
		text, marks := s.leaf.Text, s.leaf.Marks
		middle := &document.Text{Text: text[s.from:s.to], Marks: marks.Set(mark, value)}

		var repl []document.Node
		if s.from > 0 {
			repl = append(repl, &document.Text{Text: text[:s.from], Marks: marks})
		}
		repl = append(repl, middle)
		if s.to < len(text) {
			repl = append(repl, &document.Text{Text: text[s.to:], Marks: marks})
		}
		if err := replaceChild(s.parent, s.leaf, repl...); err != nil {
			return nil, document.Range{}, err
		}
		targets = append(targets, middle)
	}

	first, last := targets[0], targets[len(targets)-1]
	firstPath, _ := leafPath(out, first)
	lastPath, _ := leafPath(out, last)
	newStart := document.Point{Path: firstPath, Offset: 0}
	newEnd := document.Point{Path: lastPath, Offset: len(last.Text)}

	document.Normalize(out, &newStart, &newEnd)

	if r.IsBackward() {
		return out, document.Range{Anchor: newEnd, Focus: newStart}, nil
	}
	return out, document.Range{Anchor: newStart, Focus: newEnd}, nil
}
