package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/commands/options"
	"tableflip.dev/journal/pkg/runner/stats"
	"tableflip.dev/journal/pkg/timeutil"
)

func addStats(topLevel *cobra.Command) {
	var (
		last string
		year bool
	)

	cmd := &cobra.Command{
		Use:     "stats",
		Aliases: []string{"report"},
		Short:   "Summarize writing activity, moods and streaks",
		Long: `Stats counts the entries, words, moods and tags written in a time window
and prints the current and longest daily streaks.

Examples:
  journal stats
  journal stats --last 30d
  journal stats --last all --year`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			until := s.svc.Journal().Now()
			r := stats.Stats{
				Until:   until,
				Year:    year,
				Caller:  s.caller(),
				JSON:    output.JSON,
				Service: s.svc,
			}
			if last != "all" {
				d, err := timeutil.ParseWindow(last)
				if err != nil {
					return output.HandleError(err)
				}
				r.Since = until.Add(-d)
			}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}

	cmd.Flags().StringVar(&last, "last", "30d", `Time window to include, for example 7d, 2w, or "all".`)
	cmd.Flags().BoolVar(&year, "year", false, "Print the activity calendar for the whole year.")
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
