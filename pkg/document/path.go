package document

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Path is a sequence of child indexes from the document root to a node.
type Path []int

func (p Path) Clone() Path {
	return slices.Clone(p)
}

func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1:len(p)-1]
}

func (p Path) Last() int {
	return p[len(p)-1]
}

// Child returns a new path pointing at the i-th child of p.
func (p Path) Child(i int) Path {
	result := make(Path, len(p), len(p)+1)
	copy(result, p)
	return append(result, i)
}

// Compare orders paths in document order. An ancestor sorts before
// its descendants.
func (p Path) Compare(other Path) int {
	for i := 0; i < len(p) && i < len(other); i++ {
		if p[i] != other[i] {
			if p[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(p) < len(other):
		return -1
	case len(p) > len(other):
		return 1
	default:
		return 0
	}
}

func (p Path) Equal(other Path) bool {
	return slices.Equal(p, other)
}

// IsAncestorOf reports whether p is a strict ancestor of other.
func (p Path) IsAncestorOf(other Path) bool {
	return len(p) < len(other) && slices.Equal(p, other[:len(p)])
}

// HasPrefix reports whether p equals prefix or descends from it.
func (p Path) HasPrefix(prefix Path) bool {
	return len(p) >= len(prefix) && slices.Equal(p[:len(prefix)], prefix)
}

func (p Path) String() string {
	parts := make([]string, 0, len(p))
	for _, i := range p {
		parts = append(parts, strconv.Itoa(i))
	}
	return strings.Join(parts, ".")
}

// ParsePath parses the dotted form produced by [Path.String].
func ParsePath(s string) (Path, error) {
	if s == "" {
		return Path{}, nil
	}
	var result Path
	for _, part := range strings.Split(s, ".") {
		i, err := strconv.Atoi(part)
		if err != nil || i < 0 {
			return nil, errors.Errorf("invalid path %q", s)
		}
		result = append(result, i)
	}
	return result, nil
}

// Point addresses a position inside a Text leaf. Offset is a byte offset
// into the leaf's UTF-8 text.
type Point struct {
	Path   Path
	Offset int
}

func (p Point) Compare(other Point) int {
	if c := p.Path.Compare(other.Path); c != 0 {
		return c
	}
	switch {
	case p.Offset < other.Offset:
		return -1
	case p.Offset > other.Offset:
		return 1
	default:
		return 0
	}
}

func (p Point) Equal(other Point) bool {
	return p.Compare(other) == 0
}

func (p Point) Clone() Point {
	return Point{Path: p.Path.Clone(), Offset: p.Offset}
}

func (p Point) String() string {
	return fmt.Sprintf("%s:%d", p.Path, p.Offset)
}

// ParsePoint parses the "path:offset" form produced by [Point.String].
func ParsePoint(s string) (Point, error) {
	pathPart, offsetPart, ok := strings.Cut(s, ":")
	if !ok {
		return Point{}, errors.Errorf("invalid point %q: missing offset", s)
	}
	path, err := ParsePath(pathPart)
	if err != nil {
		return Point{}, err
	}
	offset, err := strconv.Atoi(offsetPart)
	if err != nil || offset < 0 {
		return Point{}, errors.Errorf("invalid point %q: bad offset", s)
	}
	return Point{Path: path, Offset: offset}, nil
}

type Range struct {
	Anchor Point
	Focus  Point
}

// Collapsed returns a caret range at p.
func Collapsed(p Point) Range {
	return Range{Anchor: p, Focus: p.Clone()}
}

func (r Range) IsCollapsed() bool {
	return r.Anchor.Equal(r.Focus)
}

func (r Range) IsExpanded() bool {
	return !r.IsCollapsed()
}

func (r Range) IsBackward() bool {
	return r.Anchor.Compare(r.Focus) > 0
}

func (r Range) Start() Point {
	if r.IsBackward() {
		return r.Focus
	}
	return r.Anchor
}

func (r Range) End() Point {
	if r.IsBackward() {
		return r.Anchor
	}
	return r.Focus
}

func (r Range) Clone() Range {
	return Range{Anchor: r.Anchor.Clone(), Focus: r.Focus.Clone()}
}

func (r Range) String() string {
	if r.IsCollapsed() {
		return r.Anchor.String()
	}
	return r.Anchor.String() + "," + r.Focus.String()
}

// ParseRange parses "anchor,focus" or a single point for a collapsed range.
func ParseRange(s string) (Range, error) {
	anchorPart, focusPart, ok := strings.Cut(s, ",")
	anchor, err := ParsePoint(anchorPart)
	if err != nil {
		return Range{}, err
	}
	if !ok {
		return Collapsed(anchor), nil
	}
	focus, err := ParsePoint(focusPart)
	if err != nil {
		return Range{}, err
	}
	return Range{Anchor: anchor, Focus: focus}, nil
}
