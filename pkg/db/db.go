package db

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds database connection configuration
type Config struct {
	// URL is the PostgreSQL connection URL
	URL string
	// Logger receives SQL traces. Defaults to the standard logrus logger.
	Logger *logrus.Logger
}

// Connect establishes a database connection.
func Connect(cfg Config) (*gorm.DB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := gorm.Open(
		postgres.New(postgres.Config{
			DSN:                  cfg.URL,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}),
		&gorm.Config{
			Logger: NewLogger(cfg.Logger),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// NewLogger bridges gorm's logger onto logrus. SQL is traced only when the
// logrus level is debug or finer.
func NewLogger(l *logrus.Logger) logger.Interface {
	if l == nil {
		l = logrus.StandardLogger()
	}

	mode := logger.Silent
	if l.IsLevelEnabled(logrus.DebugLevel) {
		mode = logger.Info
	}

	return logger.New(gormWriter{entry: logrus.NewEntry(l).WithField("component", "gorm")}, logger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  mode,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

type gormWriter struct {
	entry *logrus.Entry
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.entry.Debugf(format, args...)
}
