package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stateful/runpad/internal/app"
	"github.com/stateful/runpad/pkg/document/editor"
)

func insertCmd(cFlags *commonFlags) *cobra.Command {
	cmd := cobra.Command{
		Use:   "insert <text>",
		Short: "Insert text at the selection.",
		Long: `Insert text replacing the selection. Without --select the text is
appended to the end of the document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cFlags, selectEnd, func(_ *app.App, e *editor.Editor, _ *zap.Logger) error {
				return e.InsertText(args[0])
			})
		},
	}

	return &cmd
}

func breakCmd(cFlags *commonFlags) *cobra.Command {
	var soft bool

	cmd := cobra.Command{
		Use:   "break",
		Short: "Insert a line break at the selection.",
		Long: `Insert a line break at the selection. Inside a code block the break
is a newline in the code. Elsewhere the block is split in two.

With --soft a new empty paragraph is inserted instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cFlags, selectEnd, func(_ *app.App, e *editor.Editor, _ *zap.Logger) error {
				if soft {
					return e.InsertSoftBreak()
				}
				return e.InsertBreak()
			})
		},
	}

	cmd.Flags().BoolVar(&soft, "soft", false, "Insert a soft break.")

	return &cmd
}

func deleteCmd(cFlags *commonFlags) *cobra.Command {
	cmd := cobra.Command{
		Use:   "delete",
		Short: "Delete the selected content.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cFlags, selectNone, func(_ *app.App, e *editor.Editor, _ *zap.Logger) error {
				return e.DeleteSelection()
			})
		},
	}

	return &cmd
}

func resetCmd(cFlags *commonFlags) *cobra.Command {
	cmd := cobra.Command{
		Use:   "reset",
		Short: "Replace the document with the initial one.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cFlags, selectNone, func(a *app.App, _ *editor.Editor, _ *zap.Logger) error {
				return a.Reset()
			})
		},
	}

	return &cmd
}
