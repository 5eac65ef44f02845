package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/category"
	"tableflip.dev/journal/pkg/commands/options"
	"tableflip.dev/journal/pkg/runner/questions"
)

func addQuestions(topLevel *cobra.Command) {
	var cat string

	cmd := &cobra.Command{
		Use:     "questions",
		Aliases: []string{"q"},
		Short:   "Manage the questions structured entries answer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var c category.Category
			if cat != "" {
				var err error
				if c, err = category.Parse(cat); err != nil {
					return output.HandleError(err)
				}
			}
			s, err := open(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			r := questions.Questions{Category: c, JSON: output.JSON, Service: s.svc}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}
	list.Flags().StringVarP(&cat, "category", "c", "", "Only questions of this category.")
	options.AddOutputArg(list, output)

	var addCat string
	add := &cobra.Command{
		Use:   "add <text>",
		Short: "Add an active question",
		Example: `
journal questions add --category weekly "What drained my energy this week?"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := category.Parse(addCat)
			if err != nil {
				return output.HandleError(err)
			}
			s, err := open(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			r := questions.Add{Text: strings.Join(args, " "), Category: c, Service: s.svc}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}
	add.Flags().StringVarP(&addCat, "category", "c", "daily", "Category the question belongs to.")

	toggle := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Switch a question between active and inactive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			r := questions.Toggle{ID: args[0], Service: s.svc}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a question, answers already given are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			r := questions.Delete{ID: args[0], Service: s.svc}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}

	for _, c := range []*cobra.Command{list, add} {
		_ = c.RegisterFlagCompletionFunc("category", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return categoryCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
		})
	}

	cmd.AddCommand(list, add, toggle, rm)
	topLevel.AddCommand(cmd)
}
