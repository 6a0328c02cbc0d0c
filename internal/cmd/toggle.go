package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stateful/runpad/internal/app"
	"github.com/stateful/runpad/pkg/document"
	"github.com/stateful/runpad/pkg/document/editor"
)

func toggleCmd(cFlags *commonFlags) *cobra.Command {
	cmd := cobra.Command{
		Use:   "toggle <bold|italic|strikethrough|heading1|heading2|heading3|code>",
		Short: "Toggle a mark or a block type on the selection.",
		Long: `Toggle a mark or a block type on the selection. Without --select
the whole document is selected.`,
		Example: `Make the first three characters bold:
  runpad toggle bold --select 0.0:0,0.0:3

Turn the second block into a code block:
  runpad toggle code --select 1.0:0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			return withSession(cmd, cFlags, selectAll, func(_ *app.App, e *editor.Editor, logger *zap.Logger) error {
				if mark, err := document.ParseMark(name); err == nil {
					logger.Debug("toggling mark", zap.Stringer("mark", mark))
					return e.ToggleMark(mark)
				}

				typ := document.BlockType(name)
				if typ == document.DefaultType || !typ.Valid() {
					return errors.Errorf("unknown mark or block type %q", name)
				}
				logger.Debug("toggling block type", zap.String("type", name))
				return e.ToggleBlockType(typ)
			})
		},
	}

	return &cmd
}
