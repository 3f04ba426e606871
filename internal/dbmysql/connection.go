package dbmysql

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"chatrelay/internal/config"
)

// NewMySQL returns a GORM DB instance connected to MySQL.
func NewMySQL(cnf *config.Config) (*gorm.DB, error) {
	dsn := cnf.DSN()
	if dsn == "" {
		return nil, fmt.Errorf("MySQL DSN is not set")
	}

	logMode := logger.Warn
	if cnf.Server.Environment == "development" {
		logMode = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:      logger.Default.LogMode(logMode),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql.DB error: %w", err)
	}
	sqlDB.SetMaxOpenConns(cnf.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cnf.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	logrus.WithFields(logrus.Fields{
		"host": cnf.Database.Host,
		"db":   cnf.Database.DatabaseName,
	}).Info("connected to MySQL")

	return db, nil
}

// Migrate runs auto-migration for every chat model. Services call this once
// from main, not from repositories.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Room{},
		&Participant{},
		&Message{},
		&Notification{},
	)
}
