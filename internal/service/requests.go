package service

import (
	"strings"

	"go-catalog-admin/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// pricePrecision is the number of decimals kept for prices.
const pricePrecision = 2

type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Slug        string           `json:"slug" validate:"omitempty,max=255,slug"`
	Description string           `json:"description" validate:"max=1000"`
	Category    string           `json:"category" validate:"required,category"`
	Price       *decimal.Decimal `json:"price" validate:"required,lt=10000000000"`
	Stock       *int             `json:"stock" validate:"required"`
	Unit        string           `json:"unit" validate:"max=50"`
	Image       string           `json:"image" validate:"max=255"`
	IsActive    *bool            `json:"is_active"`
}

func (r *CreateProductRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Slug = strings.TrimSpace(r.Slug)
	r.Description = strings.TrimSpace(r.Description)
	r.Category = strings.TrimSpace(r.Category)
	r.Unit = strings.TrimSpace(r.Unit)
	r.Image = strings.TrimSpace(r.Image)
}

func (r *CreateProductRequest) toProduct() *model.Product {
	p := &model.Product{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Category:    r.Category,
		Unit:        r.Unit,
		Image:       r.Image,
		IsActive:    true,
	}
	if p.Slug == "" {
		p.Slug = model.GenerateSlug(r.Name)
	}
	if p.Unit == "" {
		p.Unit = model.DefaultUnit
	}
	if r.Price != nil {
		p.Price = r.Price.Round(pricePrecision)
	}
	if r.Stock != nil {
		p.Stock = *r.Stock
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	return p
}

// UpdateProductRequest is a partial update; nil fields are left untouched.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Slug        *string          `json:"slug"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	Unit        *string          `json:"unit"`
	Image       *string          `json:"image"`
	IsActive    *bool            `json:"is_active"`
}

// apply merges the request into p and returns the columns to write.
func (r *UpdateProductRequest) apply(p *model.Product) map[string]interface{} {
	columns := make(map[string]interface{})
	trimmed := func(s *string) string { return strings.TrimSpace(*s) }

	if r.Name != nil {
		p.Name = trimmed(r.Name)
		columns["name"] = p.Name
	}
	if r.Slug != nil {
		p.Slug = trimmed(r.Slug)
		columns["slug"] = p.Slug
	}
	if r.Description != nil {
		p.Description = trimmed(r.Description)
		columns["description"] = p.Description
	}
	if r.Category != nil {
		p.Category = trimmed(r.Category)
		columns["category"] = p.Category
	}
	if r.Price != nil {
		p.Price = r.Price.Round(pricePrecision)
		columns["price"] = p.Price
	}
	if r.Stock != nil {
		p.Stock = *r.Stock
		columns["stock"] = p.Stock
	}
	if r.Unit != nil {
		p.Unit = trimmed(r.Unit)
		columns["unit"] = p.Unit
	}
	if r.Image != nil {
		p.Image = trimmed(r.Image)
		columns["image"] = p.Image
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
		columns["is_active"] = p.IsActive
	}
	return columns
}

// BulkFailure reports why one record of a bulk action was skipped.
type BulkFailure struct {
	ID    uuid.UUID `json:"id"`
	Error string    `json:"error"`
}

type BulkResult struct {
	Succeeded []uuid.UUID   `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

func newBulkResult() BulkResult {
	return BulkResult{Succeeded: []uuid.UUID{}, Failed: []BulkFailure{}}
}

func (r *BulkResult) record(id uuid.UUID, err error) {
	if err != nil {
		r.Failed = append(r.Failed, BulkFailure{ID: id, Error: err.Error()})
		return
	}
	r.Succeeded = append(r.Succeeded, id)
}
