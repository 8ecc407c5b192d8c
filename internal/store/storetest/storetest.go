// Package storetest opens throwaway SQLite backed stores for tests
package storetest

import (
	"path/filepath"
	"testing"
	"time"

	"bitwise74/socials-api/internal/store"
	"bitwise74/socials-api/internal/store/gormstore"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated SQLite database living in t.TempDir()
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")

	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)

	// SQLite allows one writer, serialise everything through one connection
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gormstore.Migrate(db))

	t.Cleanup(func() { sqlDB.Close() })

	return db
}

func New(t *testing.T) *store.Store {
	t.Helper()
	return gormstore.New(NewDB(t))
}
