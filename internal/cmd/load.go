package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stateful/runpad/internal/app"
	"github.com/stateful/runpad/internal/bridge"
	"github.com/stateful/runpad/pkg/document/editor"
)

func loadCmd(cFlags *commonFlags) *cobra.Command {
	cmd := cobra.Command{
		Use:   "load <file>",
		Short: "Replace the document with the content of a text file.",
		Long: `Replace the document with a single paragraph holding the content of
a text file. Binary files are refused.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return errors.WithStack(err)
			}

			return withSession(cmd, cFlags, selectNone, func(a *app.App, _ *editor.Editor, _ *zap.Logger) error {
				entry := bridge.FileEntry{
					Name: filepath.Base(path),
					Type: bridge.EntryFile,
					Path: path,
				}
				selection, err := a.OpenFile(cmd.Context(), entry)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.ErrOrStderr(), "loaded %s (%s)\n", path, selection.MIMEType)
				return errors.WithStack(err)
			})
		},
	}

	return &cmd
}
