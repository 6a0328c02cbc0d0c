package term

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSystem(t *testing.T) {
	term := System()
	require.NotNil(t, term)
	require.Equal(t, os.Stdout, term.Out())
	require.Equal(t, os.Stderr, term.ErrOut())
	require.Equal(t, isTerminal(os.Stdout), term.IsTTY())
}

func TestFromIO(t *testing.T) {
	// Using writers should work.
	term := FromIO(new(bytes.Buffer), nil)
	require.NotNil(t, term.Out())
	require.Nil(t, term.ErrOut())
	require.False(t, term.IsTTY())

	// A regular file is not a terminal.
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()
	require.False(t, FromIO(f, f).IsTTY())
}
