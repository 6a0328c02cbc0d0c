package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/stateful/runpad/internal/app"
	"github.com/stateful/runpad/internal/config"
	"github.com/stateful/runpad/internal/config/autoconfig"
	"github.com/stateful/runpad/pkg/document"
	"github.com/stateful/runpad/pkg/document/editor"
)

// defaultSelection picks the selection used when --select is not given.
type defaultSelection int

const (
	selectNone defaultSelection = iota
	selectEnd
	selectAll
)

func newBuilder(cFlags *commonFlags) (*autoconfig.Builder, error) {
	builder := autoconfig.NewBuilder()

	if cFlags.configPath != "" {
		dir, name := filepath.Split(cFlags.configPath)
		if dir == "" {
			dir = "."
		}
		ext := filepath.Ext(name)
		err := builder.Decorate(func() *config.Loader {
			return config.NewLoader(strings.TrimSuffix(name, ext), strings.TrimPrefix(ext, "."), os.DirFS(dir))
		})
		if err != nil {
			return nil, err
		}
	}

	err := builder.Decorate(func(cfg *config.Config) *config.Config {
		if cFlags.storePath != "" {
			cfg.StorePath = cFlags.storePath
		}
		if cFlags.dataDir != "" {
			cfg.DataDir = cFlags.dataDir
		}
		if cFlags.home != "" {
			cfg.Home = cFlags.home
		}
		if cFlags.logPath != "" {
			cfg.LogEnabled = true
			cfg.LogPath = cFlags.logPath
		}
		if cFlags.verbose {
			cfg.LogVerbose = true
		}
		return cfg
	})
	return builder, err
}

// withSession mounts the document, applies the selection and calls fn.
// The session is torn down afterwards, which persists the changes.
func withSession(
	cmd *cobra.Command,
	cFlags *commonFlags,
	sel defaultSelection,
	fn func(a *app.App, e *editor.Editor, logger *zap.Logger) error,
) error {
	builder, err := newBuilder(cFlags)
	if err != nil {
		return err
	}

	return builder.Invoke(func(a *app.App, logger *zap.Logger) (err error) {
		defer func() { _ = logger.Sync() }()
		defer func() { err = multierr.Append(err, a.Teardown()) }()

		e, err := a.Mount()
		if err != nil {
			return err
		}

		if err := applySelection(e, cFlags.selection, sel); err != nil {
			return err
		}

		logger.Debug("running command", zap.String("command", cmd.CommandPath()), zap.Stringer("selection", selectionStringer{e.Selection()}))

		return fn(a, e, logger)
	})
}

func applySelection(e *editor.Editor, raw string, sel defaultSelection) error {
	if raw != "" {
		r, err := document.ParseRange(raw)
		if err != nil {
			return err
		}
		return errors.WithMessage(e.Select(&r), "invalid --select")
	}

	switch sel {
	case selectEnd:
		r := document.Collapsed(e.Document().End())
		return e.Select(&r)
	case selectAll:
		r := e.Document().FullRange()
		return e.Select(&r)
	default:
		return nil
	}
}

type selectionStringer struct {
	r *document.Range
}

func (s selectionStringer) String() string {
	if s.r == nil {
		return "none"
	}
	return s.r.String()
}
