package database

import (
	"errors"
	"fmt"

	"laufmanager.de/configs/configslog"
	"laufmanager.de/database/migrations"
	"laufmanager.de/database/seeders"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options selects the initialisation steps.
type Options struct {
	Migrate bool
	Seed    bool
	Admin   seeders.AdminSeed
}

// Initialize runs migrations and seeders inside one transaction.
func Initialize(db *gorm.DB, opts Options) (err error) {
	if !opts.Migrate && !opts.Seed {
		configslog.SLog.Info("Neither migrate nor seed requested, nothing to do.")
		return nil
	}

	tx := db.Begin()
	if tx.Error != nil {
		configslog.Log.Error("Could not begin database transaction", zap.Error(tx.Error))
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			configslog.Log.Error("Database initialisation panicked", zap.Any("panic_info", r))
			err = fmt.Errorf("database initialisation panicked: %v", r)
			return
		}
		if err != nil {
			configslog.SLog.Warn("Rolling back because initialisation failed.")
			if rbErr := tx.Rollback().Error; rbErr != nil && !errors.Is(rbErr, gorm.ErrInvalidTransaction) {
				configslog.Log.Error("Rollback failed as well", zap.Error(rbErr))
				err = multierr.Append(err, rbErr)
			}
		}
	}()

	configslog.SLog.Info("Database initialisation starting...")

	if opts.Migrate {
		if err = RunMigrationsInOrder(tx); err != nil {
			configslog.Log.Error("Migration failed", zap.Error(err))
			return err
		}
	} else {
		configslog.SLog.Info("Migrate not requested, skipping migrations.")
	}

	if opts.Seed {
		if err = RunSeeders(tx, opts.Admin); err != nil {
			configslog.Log.Error("Seeding failed", zap.Error(err))
			return err
		}
	} else {
		configslog.SLog.Info("Seed not requested, skipping seeders.")
	}

	configslog.SLog.Info("Committing...")
	if err = tx.Commit().Error; err != nil {
		configslog.Log.Error("Commit failed", zap.Error(err))
		return err
	}

	configslog.SLog.Info("Database initialisation finished")
	return nil
}

type migrationStep struct {
	name string
	run  func(*gorm.DB) error
}

// RunMigrationsInOrder migrates all tables; referenced tables come first.
func RunMigrationsInOrder(db *gorm.DB) error {
	steps := []migrationStep{
		{"runners", migrations.MigrateRunnersTable},
		{"events", migrations.MigrateEventsTable},
		{"attendance", migrations.MigrateAttendanceTable},
		{"messages", migrations.MigrateMessagesTable},
	}

	configslog.SLog.Info("Running migrations in order...")
	for _, step := range steps {
		configslog.SLog.Infof(" -> %s migration running...", step.name)
		if err := step.run(db); err != nil {
			configslog.Log.Error("Migration step failed", zap.String("table", step.name), zap.Error(err))
			return fmt.Errorf("migrating %s: %w", step.name, err)
		}
		configslog.SLog.Infof(" -> %s migration done.", step.name)
	}
	configslog.SLog.Info("All migrations finished.")
	return nil
}

// RunSeeders creates or promotes the configured admin runner.
func RunSeeders(db *gorm.DB, admin seeders.AdminSeed) error {
	configslog.SLog.Info(" -> Admin runner seeder running...")
	if err := seeders.SeedAdminRunner(db, admin); err != nil {
		return fmt.Errorf("seeding admin runner: %w", err)
	}
	configslog.SLog.Info("All seeders finished.")
	return nil
}
