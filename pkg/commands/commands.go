package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/journal/pkg/commands/options"
)

var (
	output = &options.OutputOptions{}
	global = &options.GlobalOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "journal",
		Short: base.Wrap80("Daily, weekly, monthly and yearly journaling on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	options.AddGlobalArgs(cmd, global)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addAdd(topLevel)
	addList(topLevel)
	addShow(topLevel)
	addTrash(topLevel)
	addQuestions(topLevel)
	addExport(topLevel)
	addImport(topLevel)
	addStats(topLevel)
	addServe(topLevel)
	addSync(topLevel)
	addInfo(topLevel)
	addBrowse(topLevel)
	addMCP(topLevel)
	addHashPassword(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
