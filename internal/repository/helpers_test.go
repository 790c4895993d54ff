package repository

import (
	"path/filepath"
	"testing"

	"go-catalog-admin/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Shared-cache writers fail with SQLITE_LOCKED instead of waiting, so keep one connection.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.Product{}))
	return db
}

// newFileTestDB opens a WAL database file so several connections can write;
// busy_timeout makes competing writers wait instead of failing.
func newFileTestDB(t *testing.T, conns int) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "catalog.db") +
		"?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(conns)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.Product{}))
	return db
}

func seedProduct(t *testing.T, repo ProductRepository, name, category string, price int64, stock int) *model.Product {
	t.Helper()

	p := &model.Product{
		Name:     name,
		Slug:     model.GenerateSlug(name),
		Category: category,
		Price:    decimal.NewFromInt(price),
		Stock:    stock,
		Unit:     model.DefaultUnit,
		IsActive: true,
	}
	require.NoError(t, repo.Create(t.Context(), p))
	return p
}
