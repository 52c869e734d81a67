package migrations

import (
	"laufmanager.de/configs/configslog"
	"laufmanager.de/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateMessagesTable creates the broadcast audit log.
func MigrateMessagesTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating messages table...")
	if err := db.AutoMigrate(&models.Message{}); err != nil {
		configslog.Log.Error("Failed to migrate messages table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Messages table migrated successfully")
	return nil
}
