package database

import (
	"fitcoach-app/config"
	"fitcoach-app/internal/domain/profiles"
	"fitcoach-app/internal/domain/webhookevents"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Models lists every table owned by this service.
func Models() []interface{} {
	return []interface{}{
		&profiles.Profile{},
		&webhookevents.StripeEvent{},
	}
}

func InitDB(log *zap.Logger) {
	db, err := gorm.Open(postgres.Open(config.DB_URL), &gorm.Config{
		// Store writes are single statements.
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormLogLevel(config.LOG_LEVEL)),
	})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	DB = db

	if err := DB.AutoMigrate(Models()...); err != nil {
		log.Fatal("auto-migrate failed", zap.Error(err))
	}

	log.Info("connected and migrated")
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}
