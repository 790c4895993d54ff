package service

import (
	"context"
	"strings"

	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"

	"go.uber.org/zap"
)

type ListResult struct {
	Items    []model.Product `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// TotalPages is the number of pages needed for Total at PageSize.
func (r *ListResult) TotalPages() int {
	if r.PageSize <= 0 {
		return 0
	}
	return int((r.Total + int64(r.PageSize) - 1) / int64(r.PageSize))
}

type QueryService interface {
	List(ctx context.Context, filter repository.Filter, sort repository.Sort, page repository.Page) (*ListResult, error)
	Count(ctx context.Context, filter repository.Filter) (int64, error)
}

type queryService struct {
	productRepo repository.ProductRepository
	log         *zap.Logger
}

func NewQueryService(pRepo repository.ProductRepository, log *zap.Logger) QueryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &queryService{productRepo: pRepo, log: log.Named("catalog.query")}
}

// ParseSort turns the raw sort key and order of a request into a Sort.
// An empty key keeps the default ordering.
func ParseSort(key, order string) (repository.Sort, error) {
	if strings.TrimSpace(key) == "" {
		return repository.DefaultSort, nil
	}
	field, ok := repository.ParseSortField(key)
	if !ok {
		return repository.Sort{}, model.NewValidationError("sort", "oneof", strings.Join(repository.SortFields(), " "))
	}

	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "asc":
		return repository.Sort{Field: field}, nil
	case "desc":
		return repository.Sort{Field: field, Desc: true}, nil
	}
	return repository.Sort{}, model.NewValidationError("order", "oneof", "asc desc")
}

func (s *queryService) List(ctx context.Context, filter repository.Filter, sort repository.Sort, page repository.Page) (*ListResult, error) {
	if sort.Field == "" {
		sort = repository.DefaultSort
	}
	if !sort.Field.Valid() {
		return nil, model.NewValidationError("sort", "oneof", strings.Join(repository.SortFields(), " "))
	}
	page = page.Normalize()

	result := &ListResult{Items: []model.Product{}, Page: page.Number, PageSize: page.Size}
	if filter.PriceRange.Empty() {
		return result, nil
	}

	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	result.Total = total
	if total == 0 {
		return result, nil
	}

	items, err := s.productRepo.List(ctx, repository.Query{Filter: filter, Sort: sort, Page: page})
	if err != nil {
		return nil, err
	}
	result.Items = items

	s.log.Debug("listed products",
		zap.Int64("total", total),
		zap.Int("page", page.Number),
		zap.String("sort", string(sort.Field)))
	return result, nil
}

func (s *queryService) Count(ctx context.Context, filter repository.Filter) (int64, error) {
	if filter.PriceRange.Empty() {
		return 0, nil
	}
	return s.productRepo.Count(ctx, filter)
}
