package repository

import (
	"context"
	"errors"
	"strings"

	"go-catalog-admin/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Product, error)
	FindBySlug(ctx context.Context, slug string, includeDeleted bool) (*model.Product, error)
	SlugTaken(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	UpdateColumns(ctx context.Context, id uuid.UUID, columns map[string]interface{}) error
	SoftDelete(ctx context.Context, id uuid.UUID, deletedBy string) error
	Restore(ctx context.Context, id uuid.UUID, updatedBy string) error
	Purge(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, delta int, updatedBy string) (*model.Product, error)
	List(ctx context.Context, query Query) ([]model.Product, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	GetStats(ctx context.Context) (*CatalogStats, error)
}

// CatalogStats feeds the navigation badge and dashboard cards
type CatalogStats struct {
	TotalProducts  int64           `json:"total_products"`
	ActiveProducts int64           `json:"active_products"`
	OutOfStock     int64           `json:"out_of_stock"`
	TotalValuation decimal.Decimal `json:"total_valuation"`
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{db: tx}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return translateError(r.db.WithContext(ctx).Create(product).Error)
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Product, error) {
	var product model.Product
	err := r.scoped(ctx, includeDeleted).First(&product, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

func (r *productRepo) FindBySlug(ctx context.Context, slug string, includeDeleted bool) (*model.Product, error) {
	var product model.Product
	err := r.scoped(ctx, includeDeleted).First(&product, "slug = ?", slug).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

// SlugTaken also looks at soft-deleted rows, they keep their slug until purged.
func (r *productRepo) SlugTaken(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Unscoped().Model(&model.Product{}).Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *productRepo) UpdateColumns(ctx context.Context, id uuid.UUID, columns map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Updates(columns)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

func (r *productRepo) SoftDelete(ctx context.Context, id uuid.UUID, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Product{}).Where("id = ?", id).UpdateColumn("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Product{}, "id = ?", id).Error
	})
}

func (r *productRepo) Restore(ctx context.Context, id uuid.UUID, updatedBy string) error {
	return r.db.WithContext(ctx).Unscoped().Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": nil,
			"deleted_by": "",
			"updated_by": updatedBy,
		}).Error
}

func (r *productRepo) Purge(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Unscoped().Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

// AdjustStock applies delta with one guarded UPDATE so concurrent adjustments
// serialise on the row and stock never drops below zero.
func (r *productRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int, updatedBy string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).
			Where("id = ?", id).
			Where("stock + ? >= 0", delta).
			Updates(map[string]interface{}{
				"stock":      gorm.Expr("stock + ?", delta),
				"updated_by": updatedBy,
			})
		if res.Error != nil {
			return res.Error
		}

		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			return translateError(err)
		}
		if res.RowsAffected == 0 {
			return model.ErrNegativeStock
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) List(ctx context.Context, query Query) ([]model.Product, error) {
	column, ok := sortColumns[query.Sort.Field]
	if !ok {
		column = sortColumns[DefaultSort.Field]
	}
	page := query.Page.Normalize()

	var products []model.Product
	err := r.filtered(ctx, query.Filter).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: query.Sort.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&products).Error
	return products, err
}

func (r *productRepo) Count(ctx context.Context, filter Filter) (int64, error) {
	var total int64
	err := r.filtered(ctx, filter).Count(&total).Error
	return total, err
}

func (r *productRepo) GetStats(ctx context.Context) (*CatalogStats, error) {
	var stats CatalogStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).Where("is_active = ?", true).Count(&stats.ActiveProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).Where("stock <= ?", 0).Count(&stats.OutOfStock).Error; err != nil {
		return nil, err
	}

	// Total Valuation (SUM of stock * price)
	row := db.Model(&model.Product{}).Select("COALESCE(SUM(stock * price), 0)").Row()
	if err := row.Scan(&stats.TotalValuation); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *productRepo) scoped(ctx context.Context, includeDeleted bool) *gorm.DB {
	db := r.db.WithContext(ctx)
	if includeDeleted {
		db = db.Unscoped()
	}
	return db
}

func (r *productRepo) filtered(ctx context.Context, f Filter) *gorm.DB {
	q := r.scoped(ctx, f.IncludeDeleted).Model(&model.Product{})

	if len(f.Categories) > 0 {
		q = q.Where("category IN ?", f.Categories)
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	if f.InStock {
		q = q.Where("stock > ?", 0)
	}
	if f.PriceRange.Min != nil {
		q = q.Where("price >= ?", *f.PriceRange.Min)
	}
	if f.PriceRange.Max != nil {
		q = q.Where("price <= ?", *f.PriceRange.Max)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(search))+"%")
	}
	return q
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.ErrProductNotFound
	case isUniqueViolation(err):
		return model.ErrDuplicateSlug
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
