package configsdatabase

import (
	"fmt"
	"time"

	"laufmanager.de/configs"
	"laufmanager.de/configs/configslog"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// InitDB opens the postgres pool and keeps it for GetDB.
func InitDB(cfg configs.DatabaseConfig) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: NewGormLogger(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	configslog.SLog.Infof("Database connection established (host=%s db=%s)", cfg.Host, cfg.Name)
	db = conn
	return conn, nil
}

// GetDB returns the pool opened by InitDB, nil before that.
func GetDB() *gorm.DB {
	return db
}

// CloseDB closes the pool opened by InitDB.
func CloseDB() {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		configslog.Log.Error("Could not get database handle for closing", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		configslog.Log.Error("Closing database failed", zap.Error(err))
		return
	}
	db = nil
	configslog.SLog.Info("Database connection closed")
}

// NewGormLogger routes gorm's log output through zap.
func NewGormLogger(level logger.LogLevel) logger.Interface {
	return logger.New(zap.NewStdLog(configslog.Log), logger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
