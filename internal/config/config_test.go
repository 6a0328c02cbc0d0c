package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	expected := &Config{
		StorageKey:               "content",
		AutosaveDebounce:         500 * time.Millisecond,
		EnvFiles:                 []string{".env"},
		RunFilename:              "script.py",
		RunInterpreter:           "python3",
		ExplorerIgnore:           []string{".DS_Store", "__pycache__", "*.pyc"},
		ExplorerRespectGitignore: true,
	}
	got := Default()
	opts := []cmp.Option{cmpopts.EquateEmpty(), cmpopts.IgnoreUnexported(Filter{})}
	require.True(t, cmp.Equal(expected, got, opts...), "%s", cmp.Diff(expected, got, opts...))
}

func TestParseYAML(t *testing.T) {
	testCases := []struct {
		name           string
		rawConfig      string
		check          func(t *testing.T, cfg *Config)
		errorSubstring string
	}{
		{
			name: "run and log",
			rawConfig: `version: v1alpha1
run:
  filename: main.sh
  interpreter: bash -e
log:
  enabled: true
  verbose: true
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "main.sh", cfg.RunFilename)
				assert.Equal(t, "bash -e", cfg.RunInterpreter)
				assert.True(t, cfg.LogEnabled)
				assert.True(t, cfg.LogVerbose)
				// Untouched fields keep their defaults.
				assert.Equal(t, "content", cfg.StorageKey)
			},
		},
		{
			name: "synchronous autosave",
			rawConfig: `version: v1alpha1
editor:
  autosave_debounce: 0s
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, time.Duration(0), cfg.AutosaveDebounce)
			},
		},
		{
			name: "explorer lists replace defaults",
			rawConfig: `version: v1alpha1
explorer:
  ignore: ["node_modules"]
  respect_gitignore: false
  filters:
    - condition: "!is_folder || name != 'vendor'"
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"node_modules"}, cfg.ExplorerIgnore)
				assert.False(t, cfg.ExplorerRespectGitignore)
				require.Len(t, cfg.ExplorerFilters, 1)
			},
		},
		{
			name:           "unknown version",
			rawConfig:      "version: v2\n",
			errorSubstring: `unknown version: "v2"`,
		},
		{
			name:           "missing version",
			rawConfig:      "run:\n  filename: a.py\n",
			errorSubstring: `unknown version: ""`,
		},
		{
			name: "negative debounce",
			rawConfig: `version: v1alpha1
editor:
  autosave_debounce: -1s
`,
			errorSubstring: "failed to validate v1alpha1 config",
		},
		{
			name: "empty interpreter",
			rawConfig: `version: v1alpha1
run:
  interpreter: ""
`,
			errorSubstring: "Interpreter",
		},
		{
			name: "filename with directory",
			rawConfig: `version: v1alpha1
run:
  filename: ../script.py
`,
			errorSubstring: "run.filename",
		},
		{
			name: "absolute env file",
			rawConfig: `version: v1alpha1
bridge:
  env_files: ["/etc/environment"]
`,
			errorSubstring: "bridge.env_files",
		},
		{
			name: "invalid filter",
			rawConfig: `version: v1alpha1
explorer:
  filters:
    - condition: "size > 10"
`,
			errorSubstring: "explorer.filters",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := ParseYAML([]byte(tc.rawConfig))

			if tc.errorSubstring != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.errorSubstring)
				return
			}

			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestParseYAML_Multiple(t *testing.T) {
	cfg1 := []byte("version: v1alpha1\nrun:\n  filename: a.py\n  interpreter: python2\n")
	cfg2 := []byte("version: v1alpha1\nrun:\n  filename: b.py\n")

	cfg, err := ParseYAML(cfg1, cfg2)
	require.NoError(t, err)
	assert.Equal(t, "b.py", cfg.RunFilename)
	assert.Equal(t, "python2", cfg.RunInterpreter)
}

func TestConfig_Resolve(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.DataDir = dir

	dataDir, err := cfg.ResolveDataDir()
	require.NoError(t, err)
	assert.Equal(t, dir, dataDir)

	storePath, err := cfg.ResolveStorePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "runpad.db"), storePath)

	cfg.StorePath = filepath.Join(dir, "other.db")
	storePath, err = cfg.ResolveStorePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "other.db"), storePath)
}
