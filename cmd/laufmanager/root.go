package main

import (
	"laufmanager.de/configs"
	"laufmanager.de/configs/configslog"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	ConfigFile string
	cfg        *configs.AppConfig
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "laufmanager",
		Short:         "Lauf Manager: run calendar, attendance and club mail",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configs.Load(opts.ConfigFile)
			if err != nil {
				return err
			}
			configslog.InitLogger(cfg.LogLevel)
			opts.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			configslog.SyncLogger()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "YAML config file (overrides APP_CONFIG_FILE)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newFeedCommand(opts))
	cmd.AddCommand(newTokenCommand(opts))

	return cmd
}
