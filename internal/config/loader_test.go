package config

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewLoader(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		NewLoader("", "yaml", fstest.MapFS{})
	}, "config name is not set")
}

func TestLoader_RootConfig(t *testing.T) {
	t.Parallel()

	t.Run("without root config", func(t *testing.T) {
		t.Parallel()

		loader := NewLoader("runpad", "yaml", fstest.MapFS{}, WithLogger(zaptest.NewLogger(t)))
		result, err := loader.RootConfig()
		require.ErrorIs(t, err, ErrRootConfigNotFound)
		require.Nil(t, result)
	})

	t.Run("with root config", func(t *testing.T) {
		t.Parallel()

		data := []byte("version: v1alpha1\n")
		fsys := fstest.MapFS{
			"runpad.yaml": {Data: data},
		}
		loader := NewLoader("runpad", "yaml", fsys, WithLogger(zaptest.NewLogger(t)))
		result, err := loader.RootConfig()
		require.NoError(t, err)
		require.Equal(t, data, result)
	})
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		loader := NewLoader("runpad", "yaml", fstest.MapFS{}, WithLogger(zaptest.NewLogger(t)))
		cfg, err := loader.Load()
		require.NoError(t, err)
		assert.Equal(t, "python3", cfg.RunInterpreter)
	})

	t.Run("file", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"runpad.yaml": {Data: []byte("version: v1alpha1\nrun:\n  interpreter: node\n  filename: script.js\n")},
		}
		loader := NewLoader("runpad", "yaml", fsys, WithLogger(zaptest.NewLogger(t)))
		cfg, err := loader.Load()
		require.NoError(t, err)
		assert.Equal(t, "node", cfg.RunInterpreter)
		assert.Equal(t, "script.js", cfg.RunFilename)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"runpad.yaml": {Data: []byte("version: v1alpha1\nrun: [\n")},
		}
		loader := NewLoader("runpad", "yaml", fsys, WithLogger(zaptest.NewLogger(t)))
		_, err := loader.Load()
		require.Error(t, err)
	})
}
