package migrations

import (
	"laufmanager.de/configs/configslog"
	"laufmanager.de/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateAttendanceTable creates the attendance ledger. Runners and events must exist first for the FKs.
func MigrateAttendanceTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating attendance table...")
	if err := db.AutoMigrate(&models.Attendance{}); err != nil {
		configslog.Log.Error("Failed to migrate attendance table", zap.Error(err))
		return err
	}

	// the roster queries filter on (event_id, status)
	if !db.Migrator().HasIndex(&models.Attendance{}, "idx_attendance_event_status") {
		sql := `CREATE INDEX IF NOT EXISTS idx_attendance_event_status ON attendance (event_id, status)`
		if err := db.Exec(sql).Error; err != nil {
			configslog.Log.Error("Failed to create idx_attendance_event_status", zap.Error(err))
			return err
		}
		configslog.SLog.Info("Index idx_attendance_event_status created.")
	}

	configslog.SLog.Info("Attendance table migrated successfully")
	return nil
}
