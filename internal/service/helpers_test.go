package service

import (
	"encoding/json"
	"sync"
	"testing"

	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testActor = Actor{ID: "u-1", Name: "Budi", Email: "budi@example.com"}

type recordingPublisher struct {
	mu     sync.Mutex
	events []map[string]interface{}
}

func (p *recordingPublisher) Publish(msg []byte) {
	var event map[string]interface{}
	if err := json.Unmarshal(msg, &event); err != nil {
		panic(err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e["action"].(string))
	}
	return out
}

type fixture struct {
	db      *gorm.DB
	repo    repository.ProductRepository
	catalog CatalogService
	query   QueryService
	stats   StatsService
	events  *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
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

	repo := repository.NewProductRepo(db)
	events := &recordingPublisher{}
	return &fixture{
		db:      db,
		repo:    repo,
		catalog: NewCatalogService(repo, db, events, zap.NewNop()),
		query:   NewQueryService(repo, zap.NewNop()),
		stats:   NewStatsService(repo),
		events:  events,
	}
}

func ptr[T any](v T) *T { return &v }

func createReq(name, category string, price int64, stock int) *CreateProductRequest {
	return &CreateProductRequest{
		Name:     name,
		Category: category,
		Price:    ptr(decimal.NewFromInt(price)),
		Stock:    ptr(stock),
	}
}

func (f *fixture) create(t *testing.T, name, category string, price int64, stock int) *model.Product {
	t.Helper()
	p, err := f.catalog.Create(t.Context(), createReq(name, category, price, stock), testActor)
	require.NoError(t, err)
	return p
}
