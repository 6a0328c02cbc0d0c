// Package app ties an editor session together: it restores the document
// from a store, persists changes in the background, runs code blocks and
// opens files picked in the explorer.
package app

import (
	"context"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/stateful/runpad/internal/autosave"
	"github.com/stateful/runpad/internal/bridge"
	"github.com/stateful/runpad/internal/config"
	"github.com/stateful/runpad/internal/explorer"
	"github.com/stateful/runpad/internal/runner"
	"github.com/stateful/runpad/internal/store"
	"github.com/stateful/runpad/pkg/document"
	"github.com/stateful/runpad/pkg/document/editor"
)

var ErrNotMounted = errors.New("session is not mounted")

// App is a single editor session. It is not safe for concurrent use.
type App struct {
	cfg      *config.Config
	store    store.Store
	bridge   bridge.Bridge
	pipeline *runner.Pipeline
	explorer *explorer.Explorer
	logger   *zap.Logger

	editor      *editor.Editor
	saver       *autosave.Saver
	unsubscribe func()
	closed      bool
}

func New(cfg *config.Config, s store.Store, b bridge.Bridge, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if s == nil {
		return nil, errors.New("store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	pipeline, err := runner.NewPipeline(b, runner.Options{
		Filename:    cfg.RunFilename,
		Interpreter: cfg.RunInterpreter,
	}, logger.Named("runner"))
	if err != nil {
		return nil, err
	}

	exp, err := explorer.New(b, explorer.Options{
		Ignore:           cfg.ExplorerIgnore,
		RespectGitignore: cfg.ExplorerRespectGitignore,
		Filters:          explorerFilters(cfg),
	}, logger.Named("explorer"))
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		store:    s,
		bridge:   b,
		pipeline: pipeline,
		explorer: exp,
		logger:   logger,
	}, nil
}

func explorerFilters(cfg *config.Config) []explorer.Filter {
	var filters []explorer.Filter

	for _, filter := range cfg.ExplorerFilters {
		filter := filter

		filters = append(filters, explorer.Filter(func(entry bridge.FileEntry) (bool, error) {
			env := config.FilterEntryEnv{
				Name:     entry.Name,
				Path:     entry.Path,
				Ext:      filepath.Ext(entry.Name),
				IsFolder: entry.IsFolder(),
			}
			return filter.Evaluate(env)
		}))
	}

	return filters
}

// Mount restores the persisted document, or the default one, and starts
// saving changes. Mounting twice returns the same editor.
func (a *App) Mount() (*editor.Editor, error) {
	if a.closed {
		return nil, errors.New("session is closed")
	}
	if a.editor != nil {
		return a.editor, nil
	}

	doc := autosave.Load(a.store, a.cfg.StorageKey, a.logger.Named("autosave"))
	ed, err := editor.New(doc, a.logger.Named("editor"))
	if err != nil {
		a.logger.Warn("persisted document is invalid, using default", zap.Error(err))
		ed, err = editor.New(document.Default(), a.logger.Named("editor"))
		if err != nil {
			return nil, err
		}
	}

	a.saver = autosave.New(a.store, a.cfg.StorageKey, a.cfg.AutosaveDebounce, a.logger.Named("autosave"))
	a.unsubscribe = ed.OnChange(a.saver.Observe)
	a.editor = ed

	a.logger.Debug("mounted session", zap.String("key", a.cfg.StorageKey), zap.Int("blocks", ed.Document().Len()))
	return ed, nil
}

// Editor returns the mounted editor or nil.
func (a *App) Editor() *editor.Editor { return a.editor }

func (a *App) Explorer() *explorer.Explorer { return a.explorer }

// Run executes the code block at path.
func (a *App) Run(ctx context.Context, path document.Path) (*runner.Result, error) {
	if a.editor == nil {
		return nil, ErrNotMounted
	}
	source, err := a.editor.CodeBlockText(path)
	if err != nil {
		return nil, err
	}
	return a.pipeline.Run(ctx, source)
}

// RunAtSelection executes the code block holding the selection.
func (a *App) RunAtSelection(ctx context.Context) (*runner.Result, error) {
	if a.editor == nil {
		return nil, ErrNotMounted
	}
	path, err := a.editor.SelectedCodeBlock()
	if err != nil {
		return nil, err
	}
	return a.Run(ctx, path)
}

// OpenFile replaces the document with the content of a text file.
func (a *App) OpenFile(ctx context.Context, entry bridge.FileEntry) (*explorer.Selection, error) {
	if a.editor == nil {
		return nil, ErrNotMounted
	}
	selection, err := a.explorer.Open(ctx, entry)
	if err != nil {
		return nil, err
	}
	if err := a.editor.LoadText(selection.Content); err != nil {
		return nil, err
	}
	a.logger.Info("opened file", zap.String("path", entry.Path), zap.String("mime", selection.MIMEType))
	return selection, nil
}

// Reset replaces the document with the default one.
func (a *App) Reset() error {
	if a.editor == nil {
		return ErrNotMounted
	}
	return a.editor.Replace(document.Default())
}

// Teardown writes pending changes and closes the store. It is safe to call
// more than once.
func (a *App) Teardown() (err error) {
	if a.closed {
		return nil
	}
	a.closed = true

	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if a.saver != nil {
		err = multierr.Append(err, a.saver.Flush())
	}
	err = multierr.Append(err, errors.WithMessage(a.store.Close(), "failed to close store"))
	return err
}
