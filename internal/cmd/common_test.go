package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/stateful/runpad/pkg/document"
	"github.com/stateful/runpad/pkg/document/editor"
)

func TestApplySelection(t *testing.T) {
	newEditor := func(t *testing.T) *editor.Editor {
		e, err := editor.New(nil, zaptest.NewLogger(t))
		require.NoError(t, err)
		return e
	}

	t.Run("Flag", func(t *testing.T) {
		e := newEditor(t)
		require.NoError(t, applySelection(e, "0.0:2,0.0:6", selectAll))
		assert.Equal(t, "0.0:2,0.0:6", e.Selection().String())
	})

	t.Run("InvalidFlag", func(t *testing.T) {
		e := newEditor(t)
		require.Error(t, applySelection(e, "zero", selectNone))
		require.ErrorIs(t, applySelection(e, "4.0:0", selectNone), document.ErrInvalidPosition)
	})

	t.Run("Defaults", func(t *testing.T) {
		e := newEditor(t)
		require.NoError(t, applySelection(e, "", selectNone))
		assert.Nil(t, e.Selection())

		require.NoError(t, applySelection(e, "", selectEnd))
		assert.Equal(t, document.Collapsed(e.Document().End()), *e.Selection())

		require.NoError(t, applySelection(e, "", selectAll))
		assert.Equal(t, e.Document().FullRange(), *e.Selection())
	})
}

func TestBlockToRun(t *testing.T) {
	doc := document.New(
		document.NewElement(document.ParagraphType, document.NewText("intro")),
		document.NewElement(document.CodeType, document.NewText("print(1)")),
	)
	e, err := editor.New(doc, zaptest.NewLogger(t))
	require.NoError(t, err)

	path, err := blockToRun(e, nil, false)
	require.NoError(t, err)
	assert.Equal(t, document.Path{1}, path)

	path, err = blockToRun(e, []string{"0"}, false)
	require.NoError(t, err)
	assert.Equal(t, document.Path{0}, path)

	_, err = blockToRun(e, []string{"-1"}, false)
	require.Error(t, err)

	_, err = blockToRun(e, nil, true)
	require.ErrorIs(t, err, editor.ErrNoSelection)
}

func executeRoot(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	root := Root()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{
		"--config", filepath.Join(dir, "runpad.yaml"),
		"--store", filepath.Join(dir, "runpad.db"),
		"--root", filepath.Join(dir, "data"),
		"--home", dir,
	}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestRoot_EditAndShow(t *testing.T) {
	dir := t.TempDir()

	out, err := executeRoot(t, dir, "show")
	require.NoError(t, err)
	assert.Equal(t, "[0] A line of text in a paragraph.\n", out)

	_, err = executeRoot(t, dir, "toggle", "heading1")
	require.NoError(t, err)
	_, err = executeRoot(t, dir, "break")
	require.NoError(t, err)
	_, err = executeRoot(t, dir, "insert", "echo hi")
	require.NoError(t, err)
	_, err = executeRoot(t, dir, "toggle", "code", "--select", "1.0:0")
	require.NoError(t, err)

	out, err = executeRoot(t, dir, "show")
	require.NoError(t, err)
	assert.Equal(t, "[0] # A line of text in a paragraph.\n[1] ```\necho hi\n```\n", out)

	_, err = executeRoot(t, dir, "toggle", "underline")
	require.ErrorContains(t, err, "unknown mark or block type")

	_, err = executeRoot(t, dir, "reset")
	require.NoError(t, err)
	out, err = executeRoot(t, dir, "show")
	require.NoError(t, err)
	assert.Equal(t, "[0] A line of text in a paragraph.\n", out)
}
