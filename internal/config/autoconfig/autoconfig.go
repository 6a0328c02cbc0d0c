// autoconfig provides a way to create various instances from the [config.Config] like
// [app.App], [store.Store], [zap.Logger].
//
// For example, to instantiate [app.App], you can write:
//
//	autoconfig.NewBuilder().Invoke(func(a *app.App) error {
//	    ...
//	})
//
// Treat it as a dependency injection mechanism.
package autoconfig

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/stateful/runpad/internal/app"
	"github.com/stateful/runpad/internal/bridge"
	"github.com/stateful/runpad/internal/config"
	"github.com/stateful/runpad/internal/log"
	"github.com/stateful/runpad/internal/store"
	"github.com/stateful/runpad/internal/version"
)

// Builder holds the providers of a single invocation. Instances are
// created at most once per Builder.
type Builder struct {
	container *dig.Container
}

func NewBuilder() *Builder {
	b := &Builder{container: dig.New()}

	b.mustProvide(getConfigLoader)
	b.mustProvide(getConfig)
	b.mustProvide(getLogger)
	b.mustProvide(getStore)
	b.mustProvide(getBridge)
	b.mustProvide(getApp)

	return b
}

func (b *Builder) mustProvide(constructor interface{}) {
	if err := b.container.Provide(constructor); err != nil {
		panic("failed to provide: " + err.Error())
	}
}

// Decorate replaces or modifies an instance before it is passed to
// dependents, for example to apply command line flags to [config.Config].
func (b *Builder) Decorate(decorator interface{}, opts ...dig.DecorateOption) error {
	err := b.container.Decorate(decorator, opts...)
	return dig.RootCause(err)
}

// Invoke is used to invoke the function with the given dependencies.
// The package will automatically figure out how to instantiate them
// using the available configuration.
func (b *Builder) Invoke(function interface{}, opts ...dig.InvokeOption) error {
	err := b.container.Invoke(function, opts...)
	return dig.RootCause(err)
}

// ConfigDir returns the directory searched for runpad.yaml.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.WithMessage(err, "failed to resolve user config dir")
	}
	return filepath.Join(dir, "runpad"), nil
}

func getConfigLoader() (*config.Loader, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return config.NewLoader("runpad", "yaml", os.DirFS(dir)), nil
}

func getConfig(loader *config.Loader) (*config.Config, error) {
	return loader.Load()
}

func getLogger(c *config.Config) (*zap.Logger, error) {
	if c == nil {
		return zap.NewNop(), nil
	}

	logger, err := log.New(log.Options{
		Enabled: c.LogEnabled,
		Verbose: c.LogVerbose,
		Path:    c.LogPath,
	})
	if err != nil {
		return nil, err
	}
	logger = logger.With(zap.String("version", version.BaseVersion()))
	log.Set(logger)
	return logger, nil
}

func getStore(c *config.Config, logger *zap.Logger) (store.Store, error) {
	path, err := c.ResolveStorePath()
	if err != nil {
		return nil, err
	}
	logger.Debug("opening store", zap.String("path", path))
	return store.OpenBolt(path)
}

func getBridge(c *config.Config, logger *zap.Logger) (bridge.Bridge, error) {
	root, err := c.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	return bridge.NewLocal(bridge.Options{
		WritableRoot: root,
		Home:         c.Home,
		EnvFiles:     c.EnvFiles,
	}, logger.Named("bridge"))
}

func getApp(c *config.Config, s store.Store, b bridge.Bridge, logger *zap.Logger) (*app.App, error) {
	return app.New(c, s, b, logger)
}
