package database

import (
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"workspace/models"
)

// Init connects to PostgreSQL and migrates the schema.
func Init(dsn, logLevel string) (*gorm.DB, error) {
	db, err := Open(postgres.Open(dsn), logLevel)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Open opens a gorm handle on dialector. Driver errors are translated so that
// unique-constraint violations surface as gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector, logLevel string) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(parseLogLevel(logLevel)),
		TranslateError: true,
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Team{},
		&models.User{},
		&models.Collection{},
		&models.Document{},
		&models.Attachment{},
		&models.TeamDomain{},
		&models.AuthenticationProvider{},
	)
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
