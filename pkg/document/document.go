package document

import (
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ErrInvalidPosition is returned when a Path, Point or Range does not
// resolve against a Document.
var ErrInvalidPosition = errors.New("invalid position")

const defaultSeedText = "A line of text in a paragraph."

// Document is an ordered, non-empty sequence of top-level Elements.
// It is not safe for concurrent use.
type Document struct {
	root *Element
}

func New(blocks ...*Element) *Document {
	root := &Element{Children: make([]Node, 0, len(blocks))}
	for _, b := range blocks {
		root.Children = append(root.Children, b)
	}
	return &Document{root: root}
}

// Default returns the document used when nothing was persisted yet.
func Default() *Document {
	return New(NewElement(ParagraphType, NewText(defaultSeedText)))
}

// FromText returns a document with a single paragraph holding text verbatim.
func FromText(text string) *Document {
	return New(NewElement(ParagraphType, NewText(text)))
}

// Root returns the synthetic root element whose children are the
// top-level blocks. Its Type is meaningless. Mutating it mutates
// the document.
func (d *Document) Root() *Element {
	return d.root
}

func (d *Document) Blocks() []*Element {
	result := make([]*Element, 0, len(d.root.Children))
	for _, child := range d.root.Children {
		if el, ok := child.(*Element); ok {
			result = append(result, el)
		}
	}
	return result
}

func (d *Document) Len() int {
	return len(d.root.Children)
}

func (d *Document) Clone() *Document {
	return &Document{root: d.root.Clone()}
}

func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	return equalNode(d.root, other.root)
}

// Validate checks the structural invariants of the document.
func (d *Document) Validate() error {
	if len(d.root.Children) == 0 {
		return errors.New("document has no blocks")
	}
	for i, child := range d.root.Children {
		el, ok := child.(*Element)
		if !ok {
			return errors.Errorf("top-level node %d is not an element", i)
		}
		if err := validateElement(el, Path{i}); err != nil {
			return err
		}
	}
	return nil
}

func validateElement(el *Element, path Path) error {
	if !el.Type.Valid() {
		return errors.Errorf("element %s has unknown type %q", path, el.Type)
	}
	if len(el.Children) == 0 {
		return errors.Errorf("element %s has no children", path)
	}
	for i, child := range el.Children {
		switch v := child.(type) {
		case *Element:
			if err := validateElement(v, path.Child(i)); err != nil {
				return err
			}
		case *Text:
			if !utf8.ValidString(v.Text) {
				return errors.Errorf("text %s is not valid UTF-8", path.Child(i))
			}
		default:
			return errors.Errorf("node %s has unknown kind", path.Child(i))
		}
	}
	return nil
}

// Node resolves path to a node. An empty path resolves to the root.
func (d *Document) Node(path Path) (Node, error) {
	var current Node = d.root
	for depth, i := range path {
		el, ok := current.(*Element)
		if !ok || i < 0 || i >= len(el.Children) {
			return nil, errors.Wrapf(ErrInvalidPosition, "path %s does not resolve at depth %d", path, depth)
		}
		current = el.Children[i]
	}
	return current, nil
}

// Element resolves path to an Element.
func (d *Document) Element(path Path) (*Element, error) {
	n, err := d.Node(path)
	if err != nil {
		return nil, err
	}
	el, ok := n.(*Element)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidPosition, "path %s is not an element", path)
	}
	return el, nil
}

// Leaf resolves the Text leaf at path.
func (d *Document) Leaf(path Path) (*Text, error) {
	n, err := d.Node(path)
	if err != nil {
		return nil, err
	}
	t, ok := n.(*Text)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidPosition, "path %s is not a text leaf", path)
	}
	return t, nil
}

// ValidatePoint reports an error wrapping ErrInvalidPosition if p does
// not address a rune boundary of an existing Text leaf.
func (d *Document) ValidatePoint(p Point) error {
	leaf, err := d.Leaf(p.Path)
	if err != nil {
		return err
	}
	if p.Offset < 0 || p.Offset > len(leaf.Text) {
		return errors.Wrapf(ErrInvalidPosition, "offset of %s is out of bounds [0, %d]", p, len(leaf.Text))
	}
	if p.Offset < len(leaf.Text) && !utf8.RuneStart(leaf.Text[p.Offset]) {
		return errors.Wrapf(ErrInvalidPosition, "offset of %s is not at a character boundary", p)
	}
	return nil
}

func (d *Document) ValidateRange(r Range) error {
	if err := d.ValidatePoint(r.Anchor); err != nil {
		return err
	}
	return d.ValidatePoint(r.Focus)
}

// Block returns the block-level node for path together with its own path:
// the nearest ancestor Element of a Text leaf, or the Element itself.
func (d *Document) Block(path Path) (*Element, Path, error) {
	n, err := d.Node(path)
	if err != nil {
		return nil, nil, err
	}
	if len(path) == 0 {
		return nil, nil, errors.Wrap(ErrInvalidPosition, "root is not a block")
	}
	if el, ok := n.(*Element); ok {
		return el, path.Clone(), nil
	}
	parent := path.Parent()
	if len(parent) == 0 {
		return nil, nil, errors.Wrapf(ErrInvalidPosition, "leaf %s has no enclosing block", path)
	}
	el, err := d.Element(parent)
	if err != nil {
		return nil, nil, err
	}
	return el, parent.Clone(), nil
}

// Ancestors returns the Elements enclosing path, outermost first.
// The root is not included.
func (d *Document) Ancestors(path Path) ([]*Element, error) {
	var result []*Element
	for depth := 1; depth < len(path); depth++ {
		el, err := d.Element(path[:depth])
		if err != nil {
			return nil, err
		}
		result = append(result, el)
	}
	return result, nil
}

type LeafEntry struct {
	Path Path
	Text *Text
}

// Leaves returns every Text leaf in document order.
func (d *Document) Leaves() []LeafEntry {
	var result []LeafEntry
	collectLeaves(d.root, Path{}, &result)
	return result
}

func collectLeaves(el *Element, path Path, result *[]LeafEntry) {
	for i, child := range el.Children {
		switch v := child.(type) {
		case *Text:
			*result = append(*result, LeafEntry{Path: path.Child(i), Text: v})
		case *Element:
			collectLeaves(v, path.Child(i), result)
		}
	}
}

// LeavesIn returns the Text leaves intersecting r in document order.
func (d *Document) LeavesIn(r Range) ([]LeafEntry, error) {
	if err := d.ValidateRange(r); err != nil {
		return nil, err
	}
	start, end := r.Start(), r.End()
	var result []LeafEntry
	for _, entry := range d.Leaves() {
		if entry.Path.Compare(start.Path) < 0 {
			continue
		}
		if entry.Path.Compare(end.Path) > 0 {
			break
		}
		result = append(result, entry)
	}
	return result, nil
}

// PreviousLeaf returns the leaf preceding path in document order.
func (d *Document) PreviousLeaf(path Path) (LeafEntry, bool) {
	var prev LeafEntry
	found := false
	for _, entry := range d.Leaves() {
		if entry.Path.Compare(path) >= 0 {
			break
		}
		prev, found = entry, true
	}
	return prev, found
}

// NextLeaf returns the leaf following path in document order.
func (d *Document) NextLeaf(path Path) (LeafEntry, bool) {
	for _, entry := range d.Leaves() {
		if entry.Path.Compare(path) > 0 {
			return entry, true
		}
	}
	return LeafEntry{}, false
}

// Start returns the first point of the document.
func (d *Document) Start() Point {
	leaves := d.Leaves()
	if len(leaves) == 0 {
		return Point{}
	}
	return Point{Path: leaves[0].Path, Offset: 0}
}

// End returns the last point of the document.
func (d *Document) End() Point {
	leaves := d.Leaves()
	if len(leaves) == 0 {
		return Point{}
	}
	last := leaves[len(leaves)-1]
	return Point{Path: last.Path, Offset: len(last.Text.Text)}
}

// StartOf returns the first point inside the node at path.
func (d *Document) StartOf(path Path) (Point, error) {
	for _, entry := range d.Leaves() {
		if entry.Path.HasPrefix(path) {
			return Point{Path: entry.Path, Offset: 0}, nil
		}
	}
	return Point{}, errors.Wrapf(ErrInvalidPosition, "no leaf under %s", path)
}

// EndOf returns the last point inside the node at path.
func (d *Document) EndOf(path Path) (Point, error) {
	var (
		last  LeafEntry
		found bool
	)
	for _, entry := range d.Leaves() {
		if entry.Path.HasPrefix(path) {
			last, found = entry, true
		}
	}
	if !found {
		return Point{}, errors.Wrapf(ErrInvalidPosition, "no leaf under %s", path)
	}
	return Point{Path: last.Path, Offset: len(last.Text.Text)}, nil
}

// FullRange spans the whole document.
func (d *Document) FullRange() Range {
	return Range{Anchor: d.Start(), Focus: d.End()}
}

// Find returns paths of Elements for which match returns true,
// in document order.
func (d *Document) Find(match func(*Element) bool) []Path {
	var result []Path
	findElements(d.root, Path{}, match, &result)
	return result
}

func findElements(el *Element, path Path, match func(*Element) bool, result *[]Path) {
	for i, child := range el.Children {
		childEl, ok := child.(*Element)
		if !ok {
			continue
		}
		childPath := path.Child(i)
		if match(childEl) {
			*result = append(*result, childPath)
		}
		findElements(childEl, childPath, match, result)
	}
}
