package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stateful/runpad/internal/app"
	"github.com/stateful/runpad/internal/bridge"
	"github.com/stateful/runpad/pkg/document/editor"
)

func listCmd(cFlags *commonFlags) *cobra.Command {
	var depth int

	cmd := cobra.Command{
		Use:     "list [dir]",
		Aliases: []string{"ls"},
		Short:   "List a directory like the file explorer does.",
		Long: `List a directory, by default the home directory. Folders come
first. Entries matched by the ignore patterns, .gitignore files or
filters from runpad.yaml are hidden. With --depth greater than one,
folders are expanded and their entries are indented below them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if depth < 1 {
				return errors.Errorf("invalid depth %d", depth)
			}

			var dir string
			if len(args) == 1 {
				var err error
				dir, err = filepath.Abs(args[0])
				if err != nil {
					return errors.WithStack(err)
				}
			}

			return withSession(cmd, cFlags, selectNone, func(a *app.App, _ *editor.Editor, logger *zap.Logger) error {
				entries, err := a.Explorer().Root(cmd.Context(), dir)
				if err != nil {
					return err
				}
				logger.Info("listed directory", zap.String("dir", dir), zap.Int("count", len(entries)))

				return writeEntries(cmd.OutOrStdout(), entries, depth, "", func(entry bridge.FileEntry) ([]bridge.FileEntry, error) {
					return a.Explorer().Expand(cmd.Context(), entry)
				})
			})
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 1, "Number of folder levels to list.")

	return &cmd
}

type expandFunc func(bridge.FileEntry) ([]bridge.FileEntry, error)

func writeEntries(w io.Writer, entries []bridge.FileEntry, depth int, indent string, expand expandFunc) error {
	for _, entry := range entries {
		name := entry.Name
		if entry.IsFolder() {
			name = folderColor.Sprint(name + "/")
		}
		if _, err := fmt.Fprintln(w, indent+name); err != nil {
			return errors.WithStack(err)
		}

		if !entry.IsFolder() || depth <= 1 {
			continue
		}
		children, err := expand(entry)
		if err != nil {
			return err
		}
		if err := writeEntries(w, children, depth-1, indent+"  ", expand); err != nil {
			return err
		}
	}
	return nil
}
