package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const appName = "runpad"

// Config is a uniform configuration structure for runpad.
// It should unify all past, current, and future config versions.
type Config struct {
	// Editor related fields.
	StorageKey       string
	AutosaveDebounce time.Duration

	// Store related fields.
	StorePath string

	// Bridge related fields.
	DataDir  string
	Home     string
	EnvFiles []string

	// Run related fields.
	RunFilename    string
	RunInterpreter string

	// Explorer related fields.
	ExplorerIgnore           []string
	ExplorerRespectGitignore bool
	ExplorerFilters          []*Filter

	// Log related fields.
	LogEnabled bool
	LogPath    string
	LogVerbose bool
}

// ResolveDataDir returns DataDir or, when empty, the runpad directory
// inside the user config directory.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return filepath.Abs(c.DataDir)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.WithMessage(err, "failed to resolve user config dir")
	}
	return filepath.Join(dir, appName), nil
}

// ResolveStorePath returns StorePath or the default database path inside
// the data dir.
func (c *Config) ResolveStorePath() (string, error) {
	if c.StorePath != "" {
		return filepath.Abs(c.StorePath)
	}
	dir, err := c.ResolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".db"), nil
}

//go:embed runpad.defaults.yaml
var defaultsRaw []byte

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg, err := ParseYAML()
	if err != nil {
		panic(err)
	}
	return cfg
}

// ParseYAML parses configuration documents on top of the defaults. Later
// documents override fields set by earlier ones.
func ParseYAML(data ...[]byte) (*Config, error) {
	var cfg configV1alpha1
	if err := decodeV1alpha1(defaultsRaw, &cfg); err != nil {
		return nil, errors.WithMessage(err, "invalid defaults")
	}

	for _, item := range data {
		if err := decodeV1alpha1(item, &cfg); err != nil {
			return nil, err
		}
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to validate v1alpha1 config")
	}

	config := configV1alpha1ToConfig(&cfg)

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "failed to validate config")
	}

	return config, nil
}

type versionOnly struct {
	Version string `yaml:"version"`
}

func parseVersionFromYAML(data []byte) (string, error) {
	var result versionOnly

	if err := yaml.Unmarshal(data, &result); err != nil {
		return "", errors.Wrap(err, "failed to unmarshal version")
	}

	return result.Version, nil
}

func decodeV1alpha1(data []byte, cfg *configV1alpha1) error {
	version, err := parseVersionFromYAML(data)
	if err != nil {
		return err
	}
	if version != "v1alpha1" {
		return errors.Errorf("unknown version: %q", version)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(err, "failed to parse v1alpha1 config")
	}
	return nil
}

type configV1alpha1 struct {
	Version string `yaml:"version" validate:"eq=v1alpha1"`

	Editor struct {
		StorageKey       string        `yaml:"storage_key" validate:"required"`
		AutosaveDebounce time.Duration `yaml:"autosave_debounce" validate:"gte=0s"`
	} `yaml:"editor"`

	Store struct {
		Path string `yaml:"path"`
	} `yaml:"store"`

	Bridge struct {
		DataDir  string   `yaml:"data_dir"`
		Home     string   `yaml:"home"`
		EnvFiles []string `yaml:"env_files" validate:"dive,required"`
	} `yaml:"bridge"`

	Run struct {
		Filename    string `yaml:"filename" validate:"required"`
		Interpreter string `yaml:"interpreter" validate:"required"`
	} `yaml:"run"`

	Explorer struct {
		Ignore           []string         `yaml:"ignore" validate:"dive,required"`
		RespectGitignore bool             `yaml:"respect_gitignore"`
		Filters          []filterV1alpha1 `yaml:"filters" validate:"dive"`
	} `yaml:"explorer"`

	Log struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
		Verbose bool   `yaml:"verbose"`
	} `yaml:"log"`
}

type filterV1alpha1 struct {
	Condition string `yaml:"condition" validate:"required"`
}

func configV1alpha1ToConfig(c *configV1alpha1) *Config {
	var filters []*Filter
	for _, f := range c.Explorer.Filters {
		filters = append(filters, &Filter{Condition: f.Condition})
	}

	return &Config{
		StorageKey:       c.Editor.StorageKey,
		AutosaveDebounce: c.Editor.AutosaveDebounce,

		StorePath: c.Store.Path,

		DataDir:  c.Bridge.DataDir,
		Home:     c.Bridge.Home,
		EnvFiles: c.Bridge.EnvFiles,

		RunFilename:    c.Run.Filename,
		RunInterpreter: c.Run.Interpreter,

		ExplorerIgnore:           c.Explorer.Ignore,
		ExplorerRespectGitignore: c.Explorer.RespectGitignore,
		ExplorerFilters:          filters,

		LogEnabled: c.Log.Enabled,
		LogPath:    c.Log.Path,
		LogVerbose: c.Log.Verbose,
	}
}

func validateConfig(cfg *Config) error {
	// Scripts are saved directly in the data dir.
	if name := cfg.RunFilename; filepath.Base(name) != name || name == "." || name == ".." {
		return errors.Errorf("run.filename: %q must be a plain file name", name)
	}

	for _, f := range cfg.EnvFiles {
		if filepath.IsAbs(f) {
			return errors.Errorf("bridge.env_files: %q must be relative to the data dir", f)
		}
	}

	for _, f := range cfg.ExplorerFilters {
		if err := f.Compile(); err != nil {
			return errors.WithMessage(err, "explorer.filters")
		}
	}

	return nil
}
