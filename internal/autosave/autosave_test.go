package autosave

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/stateful/runpad/internal/store"
	"github.com/stateful/runpad/pkg/document"
	"github.com/stateful/runpad/pkg/document/editor"
)

const testKey = "content"

type countingStore struct {
	store.Store
	sets int
	err  error
}

func (s *countingStore) Set(key string, value []byte) error {
	s.sets++
	if s.err != nil {
		return s.err
	}
	return s.Store.Set(key, value)
}

func newEditor(t *testing.T, saver *Saver) *editor.Editor {
	t.Helper()
	e, err := editor.New(nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	e.OnChange(saver.Observe)
	return e
}

func selectStart(t *testing.T, e *editor.Editor) {
	t.Helper()
	r := document.Collapsed(e.Document().Start())
	require.NoError(t, e.Select(&r))
}

func TestSaver_Synchronous(t *testing.T) {
	st := &countingStore{Store: store.NewMemory()}
	saver := New(st, testKey, 0, zaptest.NewLogger(t))
	e := newEditor(t, saver)

	selectStart(t, e)
	assert.Equal(t, 0, st.sets, "selection changes are not persisted")

	require.NoError(t, e.InsertText("# "))
	assert.Equal(t, 1, st.sets)
	assert.Equal(t, StateIdle, saver.State())

	loaded := Load(st, testKey, zaptest.NewLogger(t))
	assert.True(t, e.Document().Equal(loaded))
}

func TestSaver_Debounce(t *testing.T) {
	st := &countingStore{Store: store.NewMemory()}
	saver := New(st, testKey, 200*time.Millisecond, zaptest.NewLogger(t))
	e := newEditor(t, saver)
	selectStart(t, e)

	require.NoError(t, e.InsertText("a"))
	require.NoError(t, e.InsertText("b"))
	require.NoError(t, e.InsertText("c"))

	require.Eventually(t, func() bool { return !saver.Pending() && saver.State() == StateIdle }, 2*time.Second, 10*time.Millisecond)

	loaded := Load(st, testKey, zaptest.NewLogger(t))
	assert.True(t, e.Document().Equal(loaded))
	assert.Equal(t, 1, st.sets)
}

func TestSaver_Flush(t *testing.T) {
	st := &countingStore{Store: store.NewMemory()}
	saver := New(st, testKey, time.Hour, zaptest.NewLogger(t))
	e := newEditor(t, saver)
	selectStart(t, e)

	require.NoError(t, saver.Flush())
	assert.Equal(t, 0, st.sets)

	require.NoError(t, e.ToggleCodeBlock())
	assert.True(t, saver.Pending())

	require.NoError(t, saver.Flush())
	assert.False(t, saver.Pending())
	assert.Equal(t, 1, st.sets)

	loaded := Load(st, testKey, zaptest.NewLogger(t))
	assert.Equal(t, document.CodeType, loaded.Blocks()[0].Type)
}

func TestSaver_WriteFailure(t *testing.T) {
	st := &countingStore{Store: store.NewMemory(), err: errors.New("disk full")}
	saver := New(st, testKey, 0, zaptest.NewLogger(t))
	e := newEditor(t, saver)
	selectStart(t, e)

	// The edit itself succeeds; the failure is only logged.
	require.NoError(t, e.InsertText("x"))
	assert.Equal(t, 1, st.sets)
	assert.Equal(t, StateIdle, saver.State())
	assert.False(t, saver.Pending())
}

func TestLoad(t *testing.T) {
	st := store.NewMemory()
	logger := zaptest.NewLogger(t)

	assert.True(t, document.Default().Equal(Load(st, testKey, logger)))

	require.NoError(t, st.Set(testKey, []byte(`{"not": "a document"}`)))
	assert.True(t, document.Default().Equal(Load(st, testKey, logger)))

	require.NoError(t, st.Set(testKey, []byte(`[{"type": "code", "children": [{"text": "print(1)"}]}]`)))
	doc := Load(st, testKey, logger)
	require.Equal(t, 1, doc.Len())
	assert.Equal(t, document.CodeType, doc.Blocks()[0].Type)
}
