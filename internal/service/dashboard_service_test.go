package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/service"
)

func TestDashboardService(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	seedCategories(t, s)

	dash := service.NewDashboardService(repository.NewStatsRepo(s.db))
	_, err := dash.GetCatalogActivity(ctx, 0)
	requireAppError(t, err, 400, "days must be between 1 and 365")

	stats, err := dash.GetCatalogStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalCategoryTypes)
	assert.Equal(t, int64(2), stats.TotalCategories)

	activity, err := dash.GetCatalogActivity(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, activity)
}
