package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-catalog-admin/internal/metrics"
	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"
	"go-catalog-admin/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CatalogService interface {
	Create(ctx context.Context, req *CreateProductRequest, actor Actor) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateProductRequest, actor Actor) (*model.Product, error)
	SoftDelete(ctx context.Context, id uuid.UUID, actor Actor) error
	Restore(ctx context.Context, id uuid.UUID, actor Actor) (*model.Product, error)
	Purge(ctx context.Context, id uuid.UUID, actor Actor) error
	AdjustStock(ctx context.Context, id uuid.UUID, delta int, actor Actor) (*model.Product, error)
	Get(ctx context.Context, key string, includeDeleted bool) (*model.Product, error)
	SetActive(ctx context.Context, ids []uuid.UUID, active bool, actor Actor) BulkResult
	BulkDelete(ctx context.Context, ids []uuid.UUID, actor Actor) BulkResult
}

type catalogService struct {
	productRepo repository.ProductRepository
	db          *gorm.DB
	publisher   Publisher
	log         *zap.Logger
}

func NewCatalogService(pRepo repository.ProductRepository, db *gorm.DB, publisher Publisher, log *zap.Logger) CatalogService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &catalogService{
		productRepo: pRepo,
		db:          db,
		publisher:   publisher,
		log:         log.Named("catalog.service"),
	}
}

func (s *catalogService) Create(ctx context.Context, req *CreateProductRequest, actor Actor) (*model.Product, error) {
	// 1. Validate the request shape, then the product it produces
	req.normalize()
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	product := req.toProduct()
	if err := validator.Validate(product); err != nil {
		return nil, err
	}

	// 2. Slugs stay reserved by soft-deleted rows
	taken, err := s.productRepo.SlugTaken(ctx, product.Slug, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	}
	if taken {
		return nil, model.ErrDuplicateSlug
	}

	// 3. Audit fields
	product.CreatedBy = actor.ID
	product.UpdatedBy = actor.ID

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	metrics.ProductsCreated.Inc()
	s.log.Info("product created",
		zap.String("id", product.ID.String()),
		zap.String("slug", product.Slug),
		zap.String("actor", actor.ID))
	s.publish(ActionProductCreated, product, actor, "created product", nil)

	return product, nil
}

func (s *catalogService) Update(ctx context.Context, id uuid.UUID, req *UpdateProductRequest, actor Actor) (*model.Product, error) {
	var updated *model.Product

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.productRepo.WithTx(tx)

		existing, err := repo.FindByID(ctx, id, false)
		if err != nil {
			return err
		}
		oldSlug := existing.Slug

		columns := req.apply(existing)
		if err := validator.Validate(existing); err != nil {
			return err
		}

		if existing.Slug != oldSlug {
			taken, err := repo.SlugTaken(ctx, existing.Slug, id)
			if err != nil {
				return fmt.Errorf("check slug: %w", err)
			}
			if taken {
				return model.ErrDuplicateSlug
			}
		}

		columns["updated_by"] = actor.ID
		if err := repo.UpdateColumns(ctx, id, columns); err != nil {
			return err
		}

		updated, err = repo.FindByID(ctx, id, false)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.ProductsUpdated.Inc()
	s.log.Info("product updated", zap.String("id", id.String()), zap.String("actor", actor.ID))
	s.publish(ActionProductUpdated, updated, actor, "updated product", nil)

	return updated, nil
}

func (s *catalogService) SoftDelete(ctx context.Context, id uuid.UUID, actor Actor) error {
	product, err := s.productRepo.FindByID(ctx, id, true)
	if err != nil {
		return err
	}
	if product.IsDeleted() {
		return nil
	}

	if err := s.productRepo.SoftDelete(ctx, id, actor.ID); err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}

	metrics.ProductsDeleted.Inc()
	s.log.Info("product deleted", zap.String("id", id.String()), zap.String("actor", actor.ID))
	s.publish(ActionProductDeleted, product, actor, "deleted product", nil)
	return nil
}

func (s *catalogService) Restore(ctx context.Context, id uuid.UUID, actor Actor) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if !product.IsDeleted() {
		return product, nil
	}

	if err := s.productRepo.Restore(ctx, id, actor.ID); err != nil {
		return nil, fmt.Errorf("restore product: %w", err)
	}
	restored, err := s.productRepo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	metrics.ProductsRestored.Inc()
	s.log.Info("product restored", zap.String("id", id.String()), zap.String("actor", actor.ID))
	s.publish(ActionProductRestored, restored, actor, "restored product", nil)
	return restored, nil
}

func (s *catalogService) Purge(ctx context.Context, id uuid.UUID, actor Actor) error {
	product, err := s.productRepo.FindByID(ctx, id, true)
	if err != nil {
		return err
	}
	if err := s.productRepo.Purge(ctx, id); err != nil {
		return err
	}

	metrics.ProductsPurged.Inc()
	s.log.Warn("product purged",
		zap.String("id", id.String()),
		zap.String("slug", product.Slug),
		zap.String("actor", actor.ID))
	s.publish(ActionProductPurged, product, actor, "permanently removed product", nil)
	return nil
}

func (s *catalogService) AdjustStock(ctx context.Context, id uuid.UUID, delta int, actor Actor) (*model.Product, error) {
	if delta == 0 {
		return nil, model.NewValidationError("delta", "ne", "0")
	}

	product, err := s.productRepo.AdjustStock(ctx, id, delta, actor.ID)
	if err != nil {
		if errors.Is(err, model.ErrNegativeStock) {
			metrics.ObserveStockRejection()
			s.log.Info("stock adjustment rejected",
				zap.String("id", id.String()),
				zap.Int("delta", delta))
		}
		return nil, err
	}

	metrics.ObserveStockAdjustment(delta)
	s.log.Info("stock adjusted",
		zap.String("id", id.String()),
		zap.Int("delta", delta),
		zap.Int("stock", product.Stock),
		zap.String("actor", actor.ID))

	verb := fmt.Sprintf("added %d units to", delta)
	if delta < 0 {
		verb = fmt.Sprintf("removed %d units from", -delta)
	}
	s.publish(ActionStockAdjusted, product, actor, verb, map[string]interface{}{
		"delta":     delta,
		"old_stock": product.Stock - delta,
		"new_stock": product.Stock,
	})
	return product, nil
}

// Get resolves key as a product id when it parses as a UUID, otherwise as a slug.
// A UUID-shaped key that matches no id is retried as a slug.
func (s *catalogService) Get(ctx context.Context, key string, includeDeleted bool) (*model.Product, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, model.ErrProductNotFound
	}
	if id, err := uuid.Parse(key); err == nil {
		product, err := s.productRepo.FindByID(ctx, id, includeDeleted)
		if !errors.Is(err, model.ErrProductNotFound) {
			return product, err
		}
	}
	return s.productRepo.FindBySlug(ctx, key, includeDeleted)
}

func (s *catalogService) SetActive(ctx context.Context, ids []uuid.UUID, active bool, actor Actor) BulkResult {
	result := newBulkResult()
	for _, id := range ids {
		_, err := s.Update(ctx, id, &UpdateProductRequest{IsActive: &active}, actor)
		result.record(id, err)
	}
	return result
}

func (s *catalogService) BulkDelete(ctx context.Context, ids []uuid.UUID, actor Actor) BulkResult {
	result := newBulkResult()
	for _, id := range ids {
		result.record(id, s.SoftDelete(ctx, id, actor))
	}
	return result
}
