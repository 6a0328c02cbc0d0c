package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, s Store) {
	t.Helper()

	_, err := s.Get("content")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set("content", []byte(`[1]`)))
	require.NoError(t, s.Set("other", []byte(`[2]`)))
	require.NoError(t, s.Set("content", []byte(`[3]`)))

	value, err := s.Get("content")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[3]`), value)

	value, err = s.Get("other")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[2]`), value)
}

func TestMemory(t *testing.T) {
	s := NewMemory()
	testStore(t, s)

	value := []byte("abc")
	require.NoError(t, s.Set("k", value))
	value[0] = 'x'
	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	require.NoError(t, s.Close())
}

func TestBolt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "runpad.db")

	s, err := OpenBolt(path)
	require.NoError(t, err)
	testStore(t, s)
	require.NoError(t, s.Close())

	// Values survive reopening.
	s, err = OpenBolt(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	value, err := s.Get("content")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[3]`), value)
}
