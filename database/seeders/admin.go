package seeders

import (
	"errors"
	"strings"

	"laufmanager.de/configs/configslog"
	"laufmanager.de/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminSeed describes the runner that gets admin rights on a fresh install.
type AdminSeed struct {
	Email       string
	DisplayName string
}

// SeedAdminRunner makes sure a runner with the given email exists and is an admin.
// It links to the auth identity on first login through the email address.
func SeedAdminRunner(db *gorm.DB, seed AdminSeed) error {
	email := strings.ToLower(strings.TrimSpace(seed.Email))
	if email == "" {
		configslog.SLog.Info("No admin email configured, skipping admin seed.")
		return nil
	}

	var existing models.Runner
	result := db.Where("LOWER(email) = ?", email).First(&existing)

	switch {
	case result.Error == nil:
		if existing.IsAdmin {
			configslog.SLog.Debugf("Runner '%s' is already an admin, skipping.", email)
			return nil
		}
		if err := db.Model(&existing).Update("is_admin", true).Error; err != nil {
			configslog.Log.Error("Could not promote runner to admin", zap.String("email", email), zap.Error(err))
			return err
		}
		configslog.SLog.Infof("Runner '%s' (ID: %d) promoted to admin.", email, existing.ID)
		return nil

	case !errors.Is(result.Error, gorm.ErrRecordNotFound):
		configslog.Log.Error("Database error while looking up admin runner", zap.String("email", email), zap.Error(result.Error))
		return result.Error
	}

	name := strings.TrimSpace(seed.DisplayName)
	if name == "" {
		name = models.DisplayNameFromEmail(email)
	}
	token := models.NewFeedToken()
	admin := models.Runner{
		DisplayName: name,
		Email:       email,
		IsAdmin:     true,
		ICalToken:   &token,
	}
	if err := db.Create(&admin).Error; err != nil {
		configslog.Log.Error("Admin runner could not be created", zap.String("email", email), zap.Error(err))
		return err
	}

	configslog.SLog.Infof("Admin runner '%s' created (ID: %d).", email, admin.ID)
	return nil
}
