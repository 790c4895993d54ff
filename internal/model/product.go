package model

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultUnit is used when a product is created without a unit.
const DefaultUnit = "sak"

const (
	DefaultImageBaseURL   = "/storage/products"
	DefaultPlaceholderURL = "https://via.placeholder.com/300x200?text="
)

type Product struct {
	BaseModel
	Name        string          `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	Slug        string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug" validate:"required,max=255,slug"`
	Description string          `gorm:"type:text" json:"description" validate:"max=1000"`
	Category    string          `gorm:"type:varchar(100);index;not null" json:"category" validate:"required,category"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price" validate:"gte=0,lt=10000000000"` // decimal(12,2) upper bound
	Stock       int             `gorm:"not null" json:"stock" validate:"gte=0"`
	Unit        string          `gorm:"type:varchar(50);not null" json:"unit" validate:"required,max=50"`
	Image       string          `gorm:"type:varchar(255)" json:"image" validate:"max=255"`
	IsActive    bool            `gorm:"index;not null" json:"is_active"`
}

// TableName specifies the table name for GORM
func (Product) TableName() string {
	return "products"
}

// slugSub runs before the language substitutions so "&" becomes a separator, not "and".
var slugSub = map[string]string{"&": " "}

// GenerateSlug derives the URL slug for a product name.
func GenerateSlug(name string) string {
	return slug.Make(slug.Substitute(name, slugSub))
}

// Available reports whether the product can be sold right now.
func (p *Product) Available() bool {
	return p.Stock > 0 && p.IsActive
}

// FormattedPrice renders the price in Rupiah, e.g. "Rp 65.000".
func (p *Product) FormattedPrice() string {
	return FormatRupiah(p.Price)
}

// StockColor is the badge colour of the stock column.
func (p *Product) StockColor() string {
	if p.Stock > 0 {
		return "success"
	}
	return "danger"
}

// FormatRupiah rounds to whole rupiah and groups thousands with dots.
func FormatRupiah(amount decimal.Decimal) string {
	printer := message.NewPrinter(language.Indonesian)
	return "Rp " + printer.Sprintf("%d", amount.Round(0).IntPart())
}

// ImageResolver turns a stored image filename into a public URL.
type ImageResolver struct {
	BaseURL        string
	PlaceholderURL string
}

// DefaultImageResolver serves images from the local storage path.
func DefaultImageResolver() ImageResolver {
	return ImageResolver{BaseURL: DefaultImageBaseURL, PlaceholderURL: DefaultPlaceholderURL}
}

// URL returns the image URL, or a placeholder labelled with the product name.
func (r ImageResolver) URL(image, name string) string {
	if image != "" {
		base := r.BaseURL
		if base == "" {
			base = DefaultImageBaseURL
		}
		return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(image, "/")
	}
	placeholder := r.PlaceholderURL
	if placeholder == "" {
		placeholder = DefaultPlaceholderURL
	}
	return placeholder + url.QueryEscape(name)
}

// ProductResponse is the admin table/detail view of a product.
type ProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Slug           string          `json:"slug"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	CategoryColor  string          `json:"category_color"`
	Price          decimal.Decimal `json:"price"`
	FormattedPrice string          `json:"formatted_price"`
	Stock          int             `json:"stock"`
	StockColor     string          `json:"stock_color"`
	Unit           string          `json:"unit"`
	Image          string          `json:"image,omitempty"`
	ImageURL       string          `json:"image_url"`
	IsActive       bool            `json:"is_active"`
	Available      bool            `json:"available"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      *time.Time      `json:"deleted_at,omitempty"`
	CreatedBy      string          `json:"created_by"`
	UpdatedBy      string          `json:"updated_by"`
}

// ToResponse converts Product to ProductResponse
func (p *Product) ToResponse(images ImageResolver) ProductResponse {
	response := ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Slug:           p.Slug,
		Description:    p.Description,
		Category:       p.Category,
		CategoryColor:  CategoryColor(p.Category),
		Price:          p.Price,
		FormattedPrice: p.FormattedPrice(),
		Stock:          p.Stock,
		StockColor:     p.StockColor(),
		Unit:           p.Unit,
		Image:          p.Image,
		ImageURL:       images.URL(p.Image, p.Name),
		IsActive:       p.IsActive,
		Available:      p.Available(),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		CreatedBy:      p.CreatedBy,
		UpdatedBy:      p.UpdatedBy,
	}
	if p.DeletedAt.Valid {
		deletedAt := p.DeletedAt.Time
		response.DeletedAt = &deletedAt
	}
	return response
}
