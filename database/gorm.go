package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/facade-admin/models"
)

// Options controls how the connection is opened
type Options struct {
	URL         string
	AutoMigrate bool
	LogLevel    logrus.Level
}

// Open sets up the GORM database connection, logging through log
func Open(opts Options, log *logrus.Entry) (*gorm.DB, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("database URL cannot be empty")
	}

	db, err := gorm.Open(postgres.Open(opts.URL), &gorm.Config{
		Logger:         NewGormLogger(log, opts.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get and configure the underlying SQL DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if opts.AutoMigrate {
		if err := db.AutoMigrate(models.All()...); err != nil {
			return nil, fmt.Errorf("failed to auto migrate: %w", err)
		}
		log.Info("Schema auto-migrated")
	}

	log.Info("Connected to database")

	var version string
	if err := db.Raw("SELECT version()").Scan(&version).Error; err == nil {
		log.WithField("version", version).Debug("Database server")
	}
	return db, nil
}

// NewGormLogger adapts a logrus entry to GORM's logger. SQL statements are
// only traced at debug level.
func NewGormLogger(log *logrus.Entry, level logrus.Level) logger.Interface {
	gormLevel := logger.Warn
	switch {
	case level >= logrus.DebugLevel:
		gormLevel = logger.Info
	case level <= logrus.ErrorLevel:
		gormLevel = logger.Error
	}
	return logger.New(
		log.WithField("component", "gorm"),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLevel,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)
}
