package configslog

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the structured application logger, SLog its sugared twin.
// Both are no-op loggers until InitLogger runs, so packages and tests can log freely.
var (
	Log  = zap.NewNop()
	SLog = Log.Sugar()
)

// InitLogger builds the global loggers. APP_ENV=development switches to the console encoder.
func InitLogger(level string) {
	var cfg zap.Config
	if strings.EqualFold(os.Getenv("APP_ENV"), "development") {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if lvl, err := zapcore.ParseLevel(level); err == nil && level != "" {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := cfg.Build(zap.AddCaller())
	if err != nil {
		// invalid encoder or sink settings, fall back to defaults
		logger = zap.Must(zap.NewProduction())
		logger.Warn("logger config rejected, using defaults", zap.Error(err))
	}

	Log = logger
	SLog = logger.Sugar()
}

// SyncLogger flushes buffered entries. Errors from syncing stdout/stderr are ignored.
func SyncLogger() {
	_ = Log.Sync()
}
