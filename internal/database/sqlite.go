package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite opens the embedded SQLite database through GORM.
func OpenSQLite(config Config) (*gorm.DB, error) {
	if config.Type != TypeSQLite {
		return nil, fmt.Errorf("unsupported database type: %s", config.Type)
	}
	if config.DSN == "" {
		return nil, fmt.Errorf("sqlite dsn cannot be empty")
	}

	if err := ensureDir(config.DSN); err != nil {
		return nil, err
	}

	gormLogger := logger.New(gormWriter{}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormLogLevel(),
		IgnoreRecordNotFoundError: true,
	})

	db, err := gorm.Open(sqlite.Open(config.DSN), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying database: %w", err)
	}
	// an in-memory database lives only as long as one of its connections,
	// so the idle pool is never shrunk to zero
	if config.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	}

	log.Info().Str("dsn", config.DSN).Msg("sqlite database opened")
	return db, nil
}

// ensureDir creates the directory of a plain file path DSN
func ensureDir(dsn string) error {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}
	return nil
}

// CloseGorm closes the connection behind a GORM handle
func CloseGorm(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database: %w", err)
	}
	return sqlDB.Close()
}

// gormWriter routes GORM's log lines to the global zerolog logger.
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	log.Logger.Printf(format, args...)
}

func gormLogLevel() logger.LogLevel {
	switch zerolog.GlobalLevel() {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return logger.Info
	case zerolog.InfoLevel, zerolog.WarnLevel:
		return logger.Warn
	default:
		return logger.Error
	}
}
