package repository

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// DefaultPageSize is the default number of items per page.
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type SortField string

const (
	SortName      SortField = "name"
	SortCategory  SortField = "category"
	SortPrice     SortField = "price"
	SortStock     SortField = "stock"
	SortCreatedAt SortField = "createdAt"
	SortUpdatedAt SortField = "updatedAt"
)

var sortColumns = map[SortField]string{
	SortName:      "name",
	SortCategory:  "category",
	SortPrice:     "price",
	SortStock:     "stock",
	SortCreatedAt: "created_at",
	SortUpdatedAt: "updated_at",
}

// Valid reports whether the field maps to a sortable column.
func (f SortField) Valid() bool {
	_, ok := sortColumns[f]
	return ok
}

// SortFields lists the accepted sort keys.
func SortFields() []string {
	return []string{
		string(SortName), string(SortCategory), string(SortPrice),
		string(SortStock), string(SortCreatedAt), string(SortUpdatedAt),
	}
}

// ParseSortField accepts the camelCase keys and their column names.
func ParseSortField(raw string) (SortField, bool) {
	raw = strings.TrimSpace(raw)
	if _, ok := sortColumns[SortField(raw)]; ok {
		return SortField(raw), true
	}
	for field, column := range sortColumns {
		if column == raw {
			return field, true
		}
	}
	return "", false
}

// PriceRange bounds are inclusive; nil means unbounded.
type PriceRange struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

// Empty reports whether the range cannot match anything (min > max).
func (r PriceRange) Empty() bool {
	return r.Min != nil && r.Max != nil && r.Min.GreaterThan(*r.Max)
}

type Filter struct {
	Categories     []string
	Active         *bool
	InStock        bool
	PriceRange     PriceRange
	Search         string
	IncludeDeleted bool
}

type Sort struct {
	Field SortField
	Desc  bool
}

// DefaultSort lists the newest products first.
var DefaultSort = Sort{Field: SortCreatedAt, Desc: true}

type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page to sane bounds.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	p.Size = min(p.Size, MaxPageSize)
	return p
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

type Query struct {
	Filter Filter
	Sort   Sort
	Page   Page
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
