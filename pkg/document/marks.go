package document

import (
	"strings"

	"github.com/pkg/errors"
)

type Mark uint8

const (
	Bold Mark = 1 << iota
	Italic
	Strikethrough
)

var markNames = []struct {
	mark Mark
	name string
}{
	{Bold, "bold"},
	{Italic, "italic"},
	{Strikethrough, "strikethrough"},
}

func (m Mark) String() string {
	for _, mn := range markNames {
		if mn.mark == m {
			return mn.name
		}
	}
	return "unknown"
}

// ParseMark returns the mark with the given name.
func ParseMark(name string) (Mark, error) {
	for _, mn := range markNames {
		if mn.name == name {
			return mn.mark, nil
		}
	}
	return 0, errors.Errorf("unknown mark %q", name)
}

// Marks is a set of marks applied to a Text leaf.
// A mark which is not in the set is false.
type Marks uint8

func NewMarks(marks ...Mark) Marks {
	var result Marks
	for _, m := range marks {
		result = result.With(m)
	}
	return result
}

func (m Marks) Has(mark Mark) bool {
	return m&Marks(mark) != 0
}

func (m Marks) With(mark Mark) Marks {
	return m | Marks(mark)
}

func (m Marks) Without(mark Mark) Marks {
	return m &^ Marks(mark)
}

// Set returns marks with mark set to value.
func (m Marks) Set(mark Mark, value bool) Marks {
	if value {
		return m.With(mark)
	}
	return m.Without(mark)
}

func (m Marks) List() []Mark {
	var result []Mark
	for _, mn := range markNames {
		if m.Has(mn.mark) {
			result = append(result, mn.mark)
		}
	}
	return result
}

func (m Marks) String() string {
	names := make([]string, 0, len(markNames))
	for _, mark := range m.List() {
		names = append(names, mark.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}
