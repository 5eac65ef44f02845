package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/commands/options"
	"tableflip.dev/journal/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	ao := &options.AddOptions{}

	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Write a journal entry",
		Long: `Add writes a new entry. Without text the entry is structured and gets one
empty answer for each active question of its category. With text, or with
--free, the text is stored as free writing.`,
		Example: `
journal add "Walked along the river, long talk with Sam."
journal add --category weekly --date 2024-W10 --title "Sprint wrap-up"
journal add --mood good --location Lisbon --tag travel
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			partial, err := ao.Entry(strings.Join(args, " "), s.svc.Journal().Location())
			if err != nil {
				return output.HandleError(err)
			}
			r := add.Add{
				Entry:   partial,
				Service: s.svc,
				JSON:    output.JSON,
			}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddEntryArgs(cmd, ao)
	_ = cmd.RegisterFlagCompletionFunc("category", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return categoryCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
