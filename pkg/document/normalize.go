package document

// Normalize restores the canonical shape of doc in place:
//
//   - adjacent Text siblings with equal marks are merged,
//   - an empty Text next to another Text is dropped,
//   - an Element without children gets an empty Text,
//   - an empty document gets an empty paragraph.
//
// Points are remapped so they keep addressing the same character.
func Normalize(doc *Document, points ...*Point) {
	for _, p := range points {
		p.Path = p.Path.Clone()
	}
	if len(doc.root.Children) == 0 {
		doc.root.Children = append(doc.root.Children, NewElement(ParagraphType, NewText("")))
	}
	for i, child := range doc.root.Children {
		if el, ok := child.(*Element); ok {
			normalizeElement(el, Path{i}, points)
		}
	}
}

type slotShift struct {
	slot  int
	shift int
}

func normalizeElement(el *Element, path Path, points []*Point) {
	for i, child := range el.Children {
		if childEl, ok := child.(*Element); ok {
			normalizeElement(childEl, path.Child(i), points)
		}
	}

	mapping := make([]slotShift, len(el.Children))
	out := make([]Node, 0, len(el.Children))

	for i, child := range el.Children {
		if t, ok := child.(*Text); ok && len(out) > 0 {
			if prev, ok := out[len(out)-1].(*Text); ok {
				switch {
				case prev.Marks == t.Marks:
					mapping[i] = slotShift{slot: len(out) - 1, shift: len(prev.Text)}
					prev.Text += t.Text
					continue
				case prev.Text == "":
					out[len(out)-1] = t
					mapping[i] = slotShift{slot: len(out) - 1}
					continue
				case t.Text == "":
					mapping[i] = slotShift{slot: len(out) - 1, shift: len(prev.Text)}
					continue
				}
			}
		}
		mapping[i] = slotShift{slot: len(out)}
		out = append(out, child)
	}

	if len(out) == 0 {
		out = append(out, NewText(""))
	}
	el.Children = out

	depth := len(path)
	for _, p := range points {
		if len(p.Path) <= depth || !p.Path.HasPrefix(path) {
			continue
		}
		old := p.Path[depth]
		if old < 0 || old >= len(mapping) {
			continue
		}
		m := mapping[old]
		p.Path[depth] = m.slot
		if len(p.Path) == depth+1 {
			p.Offset += m.shift
		}
	}
}
