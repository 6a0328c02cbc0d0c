package cmd

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stateful/runpad/internal/app"
	"github.com/stateful/runpad/pkg/document"
	"github.com/stateful/runpad/pkg/document/editor"
)

func runCmd(cFlags *commonFlags) *cobra.Command {
	cmd := cobra.Command{
		Use:   "run [block-index]",
		Short: "Save a code block and execute it.",
		Long: `Save a code block to the data directory and execute it with the
configured interpreter.

The block is chosen by its index as printed by "runpad show", by the
selection given with --select, or else the first code block is run.`,
		Example: `Run the code block at index 2:
  runpad run 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cFlags, selectNone, func(a *app.App, e *editor.Editor, logger *zap.Logger) error {
				path, err := blockToRun(e, args, cFlags.selection != "")
				if err != nil {
					return err
				}
				logger.Debug("running block", zap.Stringer("path", path))

				result, err := a.Run(cmd.Context(), path)
				if err != nil {
					return err
				}

				if _, err := fmt.Fprint(cmd.OutOrStdout(), result.Stdout); err != nil {
					return errors.WithStack(err)
				}
				if result.Stderr != "" {
					if _, err := fmt.Fprint(cmd.ErrOrStderr(), errorColor.Sprint(result.Stderr)); err != nil {
						return errors.WithStack(err)
					}
				}
				return result.Err()
			})
		},
	}

	return &cmd
}

func blockToRun(e *editor.Editor, args []string, selected bool) (document.Path, error) {
	switch {
	case len(args) == 1:
		idx, err := strconv.Atoi(args[0])
		if err != nil || idx < 0 {
			return nil, errors.Errorf("invalid block index %q", args[0])
		}
		return document.Path{idx}, nil
	case selected:
		return e.SelectedCodeBlock()
	default:
		blocks := e.CodeBlocks()
		if len(blocks) == 0 {
			return nil, errors.New("document has no code blocks")
		}
		return blocks[0], nil
	}
}
