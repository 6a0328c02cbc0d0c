package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stateful/runpad/internal/term"
)

type commonFlags struct {
	configPath string
	storePath  string
	dataDir    string
	home       string
	logPath    string
	verbose    bool
	selection  string
	noColor    bool
}

func Root() *cobra.Command {
	cFlags := &commonFlags{}

	cmd := cobra.Command{
		Use:   "runpad",
		Short: "Edit a rich-text scratchpad and run its code blocks",
		Long: `runpad keeps a single rich-text document with paragraphs, headings
and code blocks. Every command opens the document, applies one change
and saves it again.

Code blocks are saved to a file in the data directory and executed
with the configured interpreter.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			color.NoColor = cFlags.noColor || !term.FromIO(cmd.OutOrStdout(), cmd.ErrOrStderr()).IsTTY()
		},
	}

	bindFlags(cmd.PersistentFlags(), cFlags)

	cmd.AddCommand(showCmd(cFlags))
	cmd.AddCommand(toggleCmd(cFlags))
	cmd.AddCommand(insertCmd(cFlags))
	cmd.AddCommand(breakCmd(cFlags))
	cmd.AddCommand(deleteCmd(cFlags))
	cmd.AddCommand(loadCmd(cFlags))
	cmd.AddCommand(listCmd(cFlags))
	cmd.AddCommand(runCmd(cFlags))
	cmd.AddCommand(resetCmd(cFlags))

	return &cmd
}

// bindFlags registers the persistent flags. They override fields of
// runpad.yaml.
func bindFlags(pFlags *pflag.FlagSet, cFlags *commonFlags) {
	pFlags.StringVar(&cFlags.configPath, "config", "", "Path to the configuration file. Defaults to runpad.yaml in the user config dir.")
	pFlags.StringVar(&cFlags.storePath, "store", "", "Path to the document database.")
	pFlags.StringVar(&cFlags.dataDir, "root", "", "Writable directory where code blocks are saved and executed.")
	pFlags.StringVar(&cFlags.home, "home", "", "Directory listed by default.")
	pFlags.StringVar(&cFlags.logPath, "log", "", "Enable logging to the given file.")
	pFlags.BoolVar(&cFlags.verbose, "verbose", false, "Log debug messages.")
	pFlags.StringVar(&cFlags.selection, "select", "", `Selection to apply before the command, for example "0.0:3" or "0.0:0,1.0:4".`)
	pFlags.BoolVar(&cFlags.noColor, "no-color", false, "Disable colored output.")
}
