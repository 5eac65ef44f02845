package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/query"
)

// FilterOptions select entries the way the list views do.
type FilterOptions struct {
	query.Params
}

func AddFilterArgs(cmd *cobra.Command, o *FilterOptions) {
	cmd.Flags().StringVarP(&o.Category, "category", "c", "daily",
		"Active category: daily, weekly, monthly or yearly.")
	cmd.Flags().StringVarP(&o.Search, "search", "s", "",
		"Case-insensitive text search.")
	cmd.Flags().StringVar(&o.View, "view", "",
		"Global view: trash, stats, streak, atlas, gallery, onThisDay or tags.")
	cmd.Flags().StringVar(&o.Mood, "mood", "",
		"Only entries with this mood.")
	AddRangeArgs(cmd, &o.Params)
	cmd.Flags().BoolVar(&o.HasPhoto, "has-photo", false,
		"Only entries with a photo.")
}

// AddRangeArgs registers --from and --to.
func AddRangeArgs(cmd *cobra.Command, p *query.Params) {
	cmd.Flags().StringVar(&p.From, "from", "",
		`Lower bound: a date, "today", "yesterday" or a window such as "7d".`)
	cmd.Flags().StringVar(&p.To, "to", "",
		`Upper bound: a date, "today", "yesterday" or a window such as "7d".`)
}
