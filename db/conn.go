// Package db opens the SQL and document databases the stores run on
package db

import (
	"errors"
	"fmt"
	"os"
	"time"

	"bitwise74/socials-api/internal/store/gormstore"
	"bitwise74/socials-api/pkg/util"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Options struct {
	// Type is sqlite or postgres
	Type string
	// Path of the SQLite file
	Path string
	// DSN of the Postgres server
	DSN string
}

func New(opts Options) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch opts.Type {
	case "sqlite":
		// Inside a container don't allow the sqlite file to be created.
		// The host should instead mount it using volumes
		if util.InContainer() {
			if _, err := os.Stat(opts.Path); errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("SQLite database file not mounted, please use docker volumes to mount it to %s", opts.Path)
			}
		}

		dialector = sqlite.Open(opts.Path + "?_busy_timeout=5000&_foreign_keys=on")
	case "postgres":
		dialector = postgres.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database type %q", opts.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s database, %w", opts.Type, err)
	}

	if opts.Type == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}

		// SQLite has a single writer, more connections only add lock contention
		sqlDB.SetMaxOpenConns(1)
	}

	if err := gormstore.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	zap.L().Debug("Database ready", zap.String("type", opts.Type))

	return db, nil
}
