package options

import (
	"github.com/spf13/cobra"
)

// GlobalOptions are shared by every command.
type GlobalOptions struct {
	ConfigFile    string
	AdminPassword string
}

func AddGlobalArgs(cmd *cobra.Command, o *GlobalOptions) {
	cmd.PersistentFlags().StringVar(&o.ConfigFile, "config", "",
		"Config file, defaults to .journal.yaml in $JOURNAL_CONFIG_PATH, ./ or $HOME.")
	cmd.PersistentFlags().StringVar(&o.AdminPassword, "admin-password", "",
		"Admin password, unlocks private entries and locations.")
}
