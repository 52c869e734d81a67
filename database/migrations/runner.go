package migrations

import (
	"laufmanager.de/configs/configslog"
	"laufmanager.de/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateRunnersTable creates or updates the runners table.
func MigrateRunnersTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating runners table...")
	if err := db.AutoMigrate(&models.Runner{}); err != nil {
		configslog.Log.Error("Failed to migrate runners table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Runners table migrated successfully")
	return nil
}
