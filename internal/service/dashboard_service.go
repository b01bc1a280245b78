package service

import (
	"context"
	"time"

	"go-catalog-api/internal/repository"
	"go-catalog-api/pkg/apperror"
)

// MaxActivityDays bounds the activity window a client may request.
const MaxActivityDays = 365

type DashboardService interface {
	GetCatalogActivity(ctx context.Context, days int) ([]repository.CatalogActivityData, error)
	GetCatalogStats(ctx context.Context) (*repository.CatalogStats, error)
}

type dashboardService struct {
	statsRepo repository.StatsRepository
	now       func() time.Time
}

func NewDashboardService(statsRepo repository.StatsRepository) DashboardService {
	return &dashboardService{statsRepo: statsRepo, now: time.Now}
}

func (s *dashboardService) GetCatalogActivity(ctx context.Context, days int) ([]repository.CatalogActivityData, error) {
	if days < 1 || days > MaxActivityDays {
		return nil, apperror.BadRequest("days must be between 1 and %d", MaxActivityDays)
	}
	endDate := s.now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.statsRepo.GetCatalogActivity(ctx, startDate, endDate)
}

func (s *dashboardService) GetCatalogStats(ctx context.Context) (*repository.CatalogStats, error) {
	return s.statsRepo.GetCatalogStats(ctx)
}
