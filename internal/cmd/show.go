package cmd

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stateful/runpad/internal/app"
	"github.com/stateful/runpad/pkg/document"
	"github.com/stateful/runpad/pkg/document/editor"
)

func showCmd(cFlags *commonFlags) *cobra.Command {
	var asJSON bool

	cmd := cobra.Command{
		Use:   "show",
		Short: "Print the document.",
		Long: `Print the document block by block. Each block is prefixed with its
index which can be passed to "runpad run".

With --json the stored representation is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cFlags, selectNone, func(_ *app.App, e *editor.Editor, _ *zap.Logger) error {
				if !asJSON {
					return renderDocument(cmd.OutOrStdout(), e.Document())
				}

				data, err := document.Encode(e.Document())
				if err != nil {
					return err
				}
				var buf bytes.Buffer
				if err := json.Indent(&buf, data, "", "  "); err != nil {
					return errors.WithStack(err)
				}
				buf.WriteByte('\n')
				_, err = buf.WriteTo(cmd.OutOrStdout())
				return errors.WithStack(err)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the document as JSON.")

	return &cmd
}
