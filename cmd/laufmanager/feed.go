package main

import (
	"laufmanager.de/configs/configsdatabase"

	"github.com/spf13/cobra"
)

func newFeedCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "feed <token>",
		Short: "Print the calendar feed for a feed token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			if err := cfg.Validate(); err != nil {
				return err
			}

			db, err := configsdatabase.InitDB(cfg.Database)
			if err != nil {
				return err
			}
			defer configsdatabase.CloseDB()

			deps, err := buildDependencies(cfg, db)
			if err != nil {
				return err
			}

			feed, err := deps.Feeds.BuildFeed(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(feed.Body)
			return err
		},
	}
}
