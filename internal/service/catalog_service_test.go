package service

import (
	"errors"
	"sync"
	"testing"

	"go-catalog-admin/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_SemenGresikScenario(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	req := createReq("Semen Gresik 50kg", model.CategorySemen, 65000, 100)
	req.Unit = "sak"
	p, err := f.catalog.Create(ctx, req, testActor)
	require.NoError(t, err)
	assert.Equal(t, "semen-gresik-50kg", p.Slug)
	assert.True(t, p.Available())
	assert.Equal(t, "Rp 65.000", p.FormattedPrice())

	_, err = f.catalog.AdjustStock(ctx, p.ID, -150, testActor)
	assert.ErrorIs(t, err, model.ErrNegativeStock)

	got, err := f.catalog.Get(ctx, p.ID.String(), false)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Stock)

	got, err = f.catalog.AdjustStock(ctx, p.ID, -100, testActor)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
	assert.False(t, got.Available())

	assert.Equal(t, []string{ActionProductCreated, ActionStockAdjusted}, f.events.actions())
}

func TestCatalog_CreateDefaults(t *testing.T) {
	f := newFixture(t)

	p := f.create(t, "  Besi Beton 10mm ", model.CategoryBesi, 85000, 30)
	assert.Equal(t, "Besi Beton 10mm", p.Name)
	assert.Equal(t, model.DefaultUnit, p.Unit)
	assert.True(t, p.IsActive)
	assert.Equal(t, testActor.ID, p.CreatedBy)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	req := createReq("Kayu Meranti", model.CategoryKayu, 120000, 3)
	req.IsActive = ptr(false)
	req.Unit = "batang"
	req.Price = ptr(decimal.RequireFromString("120000.456"))
	inactive, err := f.catalog.Create(t.Context(), req, testActor)
	require.NoError(t, err)
	assert.False(t, inactive.IsActive)
	assert.False(t, inactive.Available())
	assert.Equal(t, "batang", inactive.Unit)
	assert.True(t, inactive.Price.Equal(decimal.RequireFromString("120000.46")))
}

func TestCatalog_CreateSameNameSameSlug(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, model.GenerateSlug("Pasir Beton"), f.create(t, "Pasir Beton", model.CategoryPasir, 1, 1).Slug)

	_, err := f.catalog.Create(t.Context(), createReq("Pasir Beton", model.CategoryPasir, 1, 1), testActor)
	assert.ErrorIs(t, err, model.ErrDuplicateSlug)
}

func TestCatalog_CreateDuplicateExplicitSlug(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	first := createReq("Semen Padang", model.CategorySemen, 60000, 1)
	first.Slug = "semen-murah"
	_, err := f.catalog.Create(ctx, first, testActor)
	require.NoError(t, err)

	second := createReq("Semen Holcim", model.CategorySemen, 62000, 1)
	second.Slug = "semen-murah"
	_, err = f.catalog.Create(ctx, second, testActor)
	assert.ErrorIs(t, err, model.ErrDuplicateSlug)
}

func TestCatalog_CreateSlugReservedBySoftDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	p := f.create(t, "Batu Split", model.CategoryBatu, 300000, 2)
	require.NoError(t, f.catalog.SoftDelete(ctx, p.ID, testActor))

	_, err := f.catalog.Create(ctx, createReq("Batu Split", model.CategoryBatu, 300000, 2), testActor)
	assert.ErrorIs(t, err, model.ErrDuplicateSlug)

	require.NoError(t, f.catalog.Purge(ctx, p.ID, testActor))
	_, err = f.catalog.Create(ctx, createReq("Batu Split", model.CategoryBatu, 300000, 2), testActor)
	assert.NoError(t, err)
}

func TestCatalog_CreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   *CreateProductRequest
		field string
		tag   string
	}{
		{"missing name", createReq("  ", model.CategorySemen, 1, 1), "CreateProductRequest.Name", "required"},
		{"missing price", &CreateProductRequest{Name: "Semen", Category: model.CategorySemen, Stock: ptr(1)}, "CreateProductRequest.Price", "required"},
		{"missing stock", &CreateProductRequest{Name: "Semen", Category: model.CategorySemen, Price: ptr(decimal.Zero)}, "CreateProductRequest.Stock", "required"},
		{"unknown category", createReq("Semen", "Plastik", 1, 1), "CreateProductRequest.Category", "category"},
		{"negative price", createReq("Semen", model.CategorySemen, -5, 1), "Product.Price", "gte"},
		{"negative stock", createReq("Semen", model.CategorySemen, 5, -1), "Product.Stock", "gte"},
		{"name without slug characters", createReq("!!!", model.CategorySemen, 5, 1), "Product.Slug", "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.catalog.Create(t.Context(), tt.req, testActor)
			require.ErrorIs(t, err, model.ErrValidation)

			var vErr *model.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
			assert.Equal(t, tt.tag, vErr.Tag)
			assert.Empty(t, f.events.actions())
		})
	}
}

func TestCatalog_CreateZeroPriceAndStock(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Sample Keramik", model.CategoryKeramik, 0, 0)
	assert.True(t, p.Price.IsZero())
	assert.False(t, p.Available())
}

func TestCatalog_UpdatePartial(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	p := f.create(t, "Semen Gresik 50kg", model.CategorySemen, 65000, 100)

	updated, err := f.catalog.Update(ctx, p.ID, &UpdateProductRequest{
		Name:  ptr("Semen Gresik 50 kg"),
		Price: ptr(decimal.NewFromInt(67000)),
	}, Actor{ID: "u-2"})
	require.NoError(t, err)
	assert.Equal(t, "Semen Gresik 50 kg", updated.Name)
	assert.Equal(t, "semen-gresik-50kg", updated.Slug, "slug is not recomputed on rename")
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(67000)))
	assert.Equal(t, 100, updated.Stock)
	assert.Equal(t, "u-2", updated.UpdatedBy)
	assert.Equal(t, testActor.ID, updated.CreatedBy)

	updated, err = f.catalog.Update(ctx, p.ID, &UpdateProductRequest{IsActive: ptr(false)}, testActor)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.False(t, updated.Available())
	assert.Equal(t, "Semen Gresik 50 kg", updated.Name)
}

func TestCatalog_UpdateSlug(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	p := f.create(t, "Semen Padang", model.CategorySemen, 60000, 1)
	other := f.create(t, "Semen Holcim", model.CategorySemen, 62000, 1)

	_, err := f.catalog.Update(ctx, p.ID, &UpdateProductRequest{Slug: ptr(other.Slug)}, testActor)
	assert.ErrorIs(t, err, model.ErrDuplicateSlug)

	_, err = f.catalog.Update(ctx, p.ID, &UpdateProductRequest{Slug: ptr(p.Slug)}, testActor)
	assert.NoError(t, err, "keeping its own slug is not a collision")

	updated, err := f.catalog.Update(ctx, p.ID, &UpdateProductRequest{Slug: ptr("semen-padang-40kg")}, testActor)
	require.NoError(t, err)
	assert.Equal(t, "semen-padang-40kg", updated.Slug)

	_, err = f.catalog.Update(ctx, p.ID, &UpdateProductRequest{Slug: ptr("Bad Slug")}, testActor)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestCatalog_UpdateFailureWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	p := f.create(t, "Pasir Beton", model.CategoryPasir, 250000, 5)

	_, err := f.catalog.Update(ctx, p.ID, &UpdateProductRequest{
		Name:  ptr("Pasir Cor"),
		Stock: ptr(-1),
	}, testActor)
	assert.ErrorIs(t, err, model.ErrValidation)

	got, err := f.catalog.Get(ctx, p.Slug, false)
	require.NoError(t, err)
	assert.Equal(t, "Pasir Beton", got.Name)
	assert.Equal(t, 5, got.Stock)
}

func TestCatalog_UpdateNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	_, err := f.catalog.Update(ctx, uuid.New(), &UpdateProductRequest{Name: ptr("x")}, testActor)
	assert.ErrorIs(t, err, model.ErrProductNotFound)

	p := f.create(t, "Kayu Jati", model.CategoryKayu, 450000, 2)
	require.NoError(t, f.catalog.SoftDelete(ctx, p.ID, testActor))
	_, err = f.catalog.Update(ctx, p.ID, &UpdateProductRequest{Name: ptr("x")}, testActor)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestCatalog_SoftDeleteAndRestore(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	p := f.create(t, "Atap Spandek", model.CategoryAtap, 75000, 40)

	require.NoError(t, f.catalog.SoftDelete(ctx, p.ID, testActor))
	require.NoError(t, f.catalog.SoftDelete(ctx, p.ID, testActor), "soft delete is idempotent")

	_, err := f.catalog.Get(ctx, p.ID.String(), false)
	assert.ErrorIs(t, err, model.ErrProductNotFound)

	trashed, err := f.catalog.Get(ctx, p.Slug, true)
	require.NoError(t, err)
	assert.True(t, trashed.IsDeleted())
	assert.Equal(t, testActor.ID, trashed.DeletedBy)

	restored, err := f.catalog.Restore(ctx, p.ID, testActor)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted())

	_, err = f.catalog.Restore(ctx, p.ID, testActor)
	require.NoError(t, err, "restore is idempotent")

	got, err := f.catalog.Get(ctx, p.ID.String(), false)
	require.NoError(t, err)
	assert.Equal(t, 40, got.Stock)

	assert.Equal(t, []string{ActionProductCreated, ActionProductDeleted, ActionProductRestored}, f.events.actions())

	assert.ErrorIs(t, f.catalog.SoftDelete(ctx, uuid.New(), testActor), model.ErrProductNotFound)
	_, err = f.catalog.Restore(ctx, uuid.New(), testActor)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestCatalog_Purge(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	p := f.create(t, "Lantai Parket", model.CategoryLantai, 150000, 12)

	require.NoError(t, f.catalog.Purge(ctx, p.ID, testActor))
	_, err := f.catalog.Get(ctx, p.ID.String(), true)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
	assert.ErrorIs(t, f.catalog.Purge(ctx, p.ID, testActor), model.ErrProductNotFound)
}

func TestCatalog_AdjustStock(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	p := f.create(t, "Dinding Bata Ringan", model.CategoryDinding, 9000, 0)
	assert.False(t, p.Available())

	_, err := f.catalog.AdjustStock(ctx, p.ID, 0, testActor)
	assert.ErrorIs(t, err, model.ErrValidation)

	got, err := f.catalog.AdjustStock(ctx, p.ID, 500, testActor)
	require.NoError(t, err)
	assert.Equal(t, 500, got.Stock)
	assert.True(t, got.Available())

	_, err = f.catalog.AdjustStock(ctx, uuid.New(), 1, testActor)
	assert.ErrorIs(t, err, model.ErrProductNotFound)

	require.NoError(t, f.catalog.SoftDelete(ctx, p.ID, testActor))
	_, err = f.catalog.AdjustStock(ctx, p.ID, 1, testActor)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

// Checks the service keeps stock and events consistent under concurrent calls.
// The fixture pool has one connection, so database access is serialised; the
// multi-connection race lives in the repository tests.
func TestCatalog_AdjustStockConcurrent(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Plesteran Instan", model.CategoryPlesteran, 80000, 20)

	var wg sync.WaitGroup
	for i := range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			delta := -1
			if i%2 == 0 {
				delta = -2
			}
			_, err := f.catalog.AdjustStock(t.Context(), p.ID, delta, testActor)
			if err != nil {
				assert.ErrorIs(t, err, model.ErrNegativeStock)
			}
		}()
	}
	wg.Wait()

	got, err := f.catalog.Get(t.Context(), p.ID.String(), false)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got.Stock, 0)
	assert.Less(t, got.Stock, 2)
}

func TestCatalog_GetByKey(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	p := f.create(t, "Keramik Roman 40x40", model.CategoryKeramik, 95000, 15)

	byID, err := f.catalog.Get(ctx, p.ID.String(), false)
	require.NoError(t, err)
	bySlug, err := f.catalog.Get(ctx, "keramik-roman-40x40", false)
	require.NoError(t, err)
	assert.Equal(t, byID.ID, bySlug.ID)

	_, err = f.catalog.Get(ctx, "does-not-exist", false)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
	_, err = f.catalog.Get(ctx, " ", false)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestCatalog_GetUUIDShapedSlug(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	key := "123e4567-e89b-12d3-a456-426614174000"
	req := createReq("Semen Curah", model.CategorySemen, 1000, 1)
	req.Slug = key
	p, err := f.catalog.Create(ctx, req, testActor)
	require.NoError(t, err)

	got, err := f.catalog.Get(ctx, key, false)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	byID, err := f.catalog.Get(ctx, p.ID.String(), false)
	require.NoError(t, err)
	assert.Equal(t, key, byID.Slug)

	_, err = f.catalog.Get(ctx, uuid.NewString(), false)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestCatalog_PriceUpperBound(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	var vErr *model.ValidationError
	_, err := f.catalog.Create(ctx, createReq("Keramik Impor", model.CategoryKeramik, 10_000_000_000, 1), testActor)
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "CreateProductRequest.Price", vErr.Field)
	assert.Equal(t, "lt", vErr.Tag)

	req := createReq("Keramik Impor", model.CategoryKeramik, 1, 1)
	req.Price = ptr(decimal.RequireFromString("9999999999.999"))
	_, err = f.catalog.Create(ctx, req, testActor)
	require.True(t, errors.As(err, &vErr), "rounding up to the bound is rejected")
	assert.Equal(t, "Product.Price", vErr.Field)

	p := f.create(t, "Keramik Lokal", model.CategoryKeramik, 50000, 1)
	_, err = f.catalog.Update(ctx, p.ID, &UpdateProductRequest{Price: ptr(decimal.New(1, 12))}, testActor)
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "Product.Price", vErr.Field)
	assert.Equal(t, "lt", vErr.Tag)
}

func TestCatalog_SetActive(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	a := f.create(t, "Semen A", model.CategorySemen, 1000, 1)
	b := f.create(t, "Semen B", model.CategorySemen, 1000, 1)
	missing := uuid.New()

	result := f.catalog.SetActive(ctx, []uuid.UUID{a.ID, missing, b.ID}, false, testActor)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, result.Succeeded)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, missing, result.Failed[0].ID)
	assert.Equal(t, model.ErrProductNotFound.Error(), result.Failed[0].Error)

	for _, id := range []uuid.UUID{a.ID, b.ID} {
		got, err := f.catalog.Get(ctx, id.String(), false)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
	}

	result = f.catalog.SetActive(ctx, []uuid.UUID{a.ID}, true, testActor)
	assert.Len(t, result.Succeeded, 1)
	assert.Empty(t, result.Failed)
}

func TestCatalog_BulkDelete(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	a := f.create(t, "Kayu A", model.CategoryKayu, 1000, 1)
	b := f.create(t, "Kayu B", model.CategoryKayu, 1000, 1)
	require.NoError(t, f.catalog.SoftDelete(ctx, b.ID, testActor))

	result := f.catalog.BulkDelete(ctx, []uuid.UUID{a.ID, b.ID}, testActor)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, result.Succeeded)
	assert.Empty(t, result.Failed)

	total, err := f.query.Count(ctx, filterAll())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCatalog_EventPayload(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Semen Gresik 50kg", model.CategorySemen, 65000, 100)

	require.Len(t, f.events.events, 1)
	event := f.events.events[0]
	assert.Equal(t, "catalog_update", event["type"])
	assert.Equal(t, "Budi created product 'Semen Gresik 50kg'", event["message"])

	product := event["product"].(map[string]interface{})
	assert.Equal(t, p.ID.String(), product["id"])
	assert.Equal(t, "semen-gresik-50kg", product["slug"])
	assert.Equal(t, true, product["available"])

	user := event["user"].(map[string]interface{})
	assert.Equal(t, "budi@example.com", user["email"])
}
