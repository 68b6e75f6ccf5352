// Package storetest opens throwaway databases for tests.
package storetest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"building-registry/internal/store"
)

var seq atomic.Int64

// Gorm returns a private in-memory SQLite connection closed at test cleanup.
func Gorm(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:registry_test_%d?mode=memory&cache=shared", seq.Add(1))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return gormDB
}

// Open returns a ready database backed by in-memory SQLite.
func Open(t testing.TB) *store.Database {
	t.Helper()

	db := store.New(Gorm(t), zap.NewNop())
	require.NoError(t, db.Open(context.Background()))
	return db
}
