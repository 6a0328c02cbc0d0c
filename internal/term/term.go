// Package term tells whether the CLI writes to an interactive terminal.
package term

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

type Term interface {
	Out() io.Writer
	ErrOut() io.Writer
	IsTTY() bool
}

func System() Term {
	return FromIO(os.Stdout, os.Stderr)
}

// FromIO wraps the output streams. The result is a TTY only when out is a
// file attached to a terminal.
func FromIO(out, errOut io.Writer) Term {
	t := &ioTerm{out: out, errOut: errOut}
	if f, ok := out.(*os.File); ok {
		t.isTTY = isTerminal(f)
	}
	return t
}

type ioTerm struct {
	out    io.Writer
	errOut io.Writer
	isTTY  bool
}

func (t *ioTerm) Out() io.Writer    { return t.out }
func (t *ioTerm) ErrOut() io.Writer { return t.errOut }

func (t *ioTerm) IsTTY() bool { return t.isTTY }

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
