package service

import (
	"context"

	"go-catalog-admin/internal/repository"
)

// CatalogStats is the navigation badge and dashboard card data.
type CatalogStats struct {
	repository.CatalogStats
	BadgeColor string `json:"badge_color"`
}

type StatsService interface {
	Stats(ctx context.Context) (*CatalogStats, error)
}

type statsService struct {
	productRepo repository.ProductRepository
}

func NewStatsService(pRepo repository.ProductRepository) StatsService {
	return &statsService{productRepo: pRepo}
}

func (s *statsService) Stats(ctx context.Context) (*CatalogStats, error) {
	stats, err := s.productRepo.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	badge := "danger"
	if stats.ActiveProducts > 0 {
		badge = "success"
	}
	return &CatalogStats{CatalogStats: *stats, BadgeColor: badge}, nil
}
