package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/commands/options"
	"tableflip.dev/journal/pkg/query"
	"tableflip.dev/journal/pkg/runner/get"
)

func addList(topLevel *cobra.Command) {
	fo := &options.FilterOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "get"},
		Short:   "List entries, newest first",
		Long: `List runs the same selection as the journal views: private entries are
hidden unless --admin-password unlocks them, the active category includes
the lower categories its configuration names, and --search matches the
title, location, free text, answers and tags.`,
		Example: `
journal list
journal list --category weekly --search lisbon
journal list --view trash --admin-password secret
journal list --from 7d --mood good
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			r := get.List{
				Params:  fo.Params,
				Caller:  s.caller(),
				ShowID:  io.ShowID,
				JSON:    output.JSON,
				Service: s.svc,
			}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddFilterArgs(cmd, fo)
	_ = cmd.RegisterFlagCompletionFunc("category", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return categoryCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addShow(topLevel *cobra.Command) {
	fo := &options.FilterOptions{}
	var next, prev bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one entry, or its neighbor in the list",
		Example: `
journal show 6f1c...
journal show 6f1c... --next
journal show 6f1c... --prev --category monthly
`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) != 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return idCompletions(cmd.Context(), toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if next && prev {
				return output.HandleError(errors.New("--next and --prev are exclusive"))
			}
			s, err := open(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			r := get.Show{
				ID:      args[0],
				Params:  fo.Params,
				Caller:  s.caller(),
				JSON:    output.JSON,
				Service: s.svc,
			}
			if !cmd.Flags().Changed("category") {
				// The entry's own category is used instead.
				r.Params.Category = ""
			}
			switch {
			case next:
				r.Direction = query.Next
			case prev:
				r.Direction = query.Prev
			}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddFilterArgs(cmd, fo)
	cmd.Flags().BoolVar(&next, "next", false, "Show the next, more recent, entry.")
	cmd.Flags().BoolVar(&prev, "prev", false, "Show the previous, older, entry.")
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
