// Package testutil provides an in-memory catalog database for tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"go-catalog-api/internal/model"
)

// NewDB opens a private in-memory SQLite database, installs the given plugins
// and migrates every catalog model. The pool is pinned to a single connection
// so the in-memory database survives across queries.
func NewDB(t *testing.T, plugins ...gorm.Plugin) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, p := range plugins {
		require.NoError(t, db.Use(p))
	}
	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

// Seed inserts rows in order and fails the test on the first error.
func Seed(t *testing.T, db *gorm.DB, rows ...interface{}) {
	t.Helper()
	for _, row := range rows {
		require.NoError(t, db.Create(row).Error)
	}
}

func Ptr[T any](v T) *T { return &v }
