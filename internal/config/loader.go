package config

import (
	"io/fs"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrRootConfigNotFound = errors.New("root configuration file not found")

// Loader allows to load configuration files from a file system.
type Loader struct {
	// configRootPath is the directory holding the configuration file,
	// typically the runpad directory in the user config dir.
	configRootPath fs.FS

	// configName and configType form the name of the configuration file.
	configName string
	configType string

	logger *zap.Logger
}

type LoaderOption func(*Loader)

func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

func NewLoader(configName, configType string, configRootPath fs.FS, opts ...LoaderOption) *Loader {
	if configName == "" {
		panic("config name is not set")
	}

	l := &Loader{
		configRootPath: configRootPath,
		configName:     configName,
		configType:     configType,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.logger == nil {
		l.logger = zap.NewNop()
	}

	return l
}

func (l *Loader) configFullName() string {
	if l.configType == "" {
		return l.configName
	}
	return l.configName + "." + l.configType
}

func (l *Loader) RootConfig() ([]byte, error) {
	data, err := fs.ReadFile(l.configRootPath, l.configFullName())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrRootConfigNotFound
		}
		return nil, errors.Wrapf(err, "failed to read %s", l.configFullName())
	}
	return data, nil
}

// Load parses the root configuration file. Defaults are returned when the
// file does not exist.
func (l *Loader) Load() (*Config, error) {
	data, err := l.RootConfig()
	if errors.Is(err, ErrRootConfigNotFound) {
		l.logger.Debug("configuration file not found, using defaults", zap.String("name", l.configFullName()))
		return ParseYAML()
	}
	if err != nil {
		return nil, err
	}

	l.logger.Debug("loading configuration file", zap.String("name", l.configFullName()))
	return ParseYAML(data)
}
