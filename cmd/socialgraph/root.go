package main

import (
	"socialgraph/config"

	"github.com/spf13/cobra"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configDirs []string
}

// NewRootCmd creates the root command for the socialgraph CLI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "socialgraph",
		Short:        "socialgraph - accounts, sessions and a follow graph over REST",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringSliceVar(&opts.configDirs, "config-dir", nil,
		"directories searched for config.yaml (default: ., config, ../config, ../../config)")

	cmd.AddCommand(NewServeCmd(opts))
	cmd.AddCommand(NewMigrateCmd(opts))

	return cmd
}

// loadConfig reads configuration from the flag directories or the defaults.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if len(o.configDirs) == 0 {
		return config.New()
	}

	return config.Load(o.configDirs...)
}
