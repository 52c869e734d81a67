package main

import (
	"laufmanager.de/configs/configsdatabase"
	"laufmanager.de/database"
	"laufmanager.de/database/seeders"

	"github.com/spf13/cobra"
)

func newMigrateCommand(root *rootOptions) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema, optionally seeding the admin runner",
		Args:  cobra.NoArgs,
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

			return database.Initialize(db, database.Options{
				Migrate: true,
				Seed:    seed,
				Admin: seeders.AdminSeed{
					Email:       cfg.Seed.AdminEmail,
					DisplayName: cfg.Seed.AdminName,
				},
			})
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "ensure the admin runner from SEED_ADMIN_EMAIL")
	return cmd
}
