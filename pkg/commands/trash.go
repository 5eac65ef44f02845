package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/runner/trash"
)

func addTrash(topLevel *cobra.Command) {
	for _, a := range []struct {
		use     string
		short   string
		action  trash.Action
		aliases []string
	}{
		{use: "trash <id>", short: "Move an entry to the trash", action: trash.ActionTrash},
		{use: "restore <id>", short: "Take an entry out of the trash", action: trash.ActionRestore},
		{use: "rm <id>", short: "Delete an entry for good", action: trash.ActionDelete, aliases: []string{"delete"}},
	} {
		action := a.action
		cmd := &cobra.Command{
			Use:     a.use,
			Short:   a.short,
			Aliases: a.aliases,
			Args:    cobra.ExactArgs(1),
			ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
				if len(args) != 0 {
					return nil, cobra.ShellCompDirectiveNoFileComp
				}
				return idCompletions(cmd.Context(), toComplete), cobra.ShellCompDirectiveNoFileComp
			},
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := open(cmd.Context())
				if err != nil {
					return output.HandleError(err)
				}
				defer s.Close()

				r := trash.Trash{
					ID:      args[0],
					Action:  action,
					Service: s.svc,
				}
				return output.HandleError(r.Do(cmd.Context()))
			},
		}
		topLevel.AddCommand(cmd)
	}

	empty := &cobra.Command{
		Use:   "empty-trash",
		Short: "Delete every trashed entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			r := trash.Empty{Service: s.svc}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}
	topLevel.AddCommand(empty)
}
