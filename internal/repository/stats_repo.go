package repository

import (
	"context"
	"sort"
	"time"

	"go-catalog-api/internal/model"

	"gorm.io/gorm"
)

// CatalogStats is the dashboard overview
type CatalogStats struct {
	TotalCategoryTypes int64 `json:"total_category_types"`
	TotalCategories    int64 `json:"total_categories"`
	TotalSuppliers     int64 `json:"total_suppliers"`
	TotalProducts      int64 `json:"total_products"`
	TotalSkus          int64 `json:"total_skus"`
	TotalPricelists    int64 `json:"total_pricelists"`
	TotalAttributes    int64 `json:"total_attributes"`
	ActivePriceDetails int64 `json:"active_price_details"`
	InactiveSkus       int64 `json:"inactive_skus"`
}

// CatalogActivityData is one day of the activity chart
type CatalogActivityData struct {
	Date     string `json:"date"`
	Products int    `json:"products"`
	Skus     int    `json:"skus"`
}

type StatsRepository interface {
	GetCatalogStats(ctx context.Context) (*CatalogStats, error)
	GetCatalogActivity(ctx context.Context, startDate, endDate time.Time) ([]CatalogActivityData, error)
}

type statsRepo struct {
	db *gorm.DB
}

func NewStatsRepo(db *gorm.DB) StatsRepository {
	return &statsRepo{db}
}

func (r *statsRepo) GetCatalogStats(ctx context.Context) (*CatalogStats, error) {
	var stats CatalogStats
	db := r.db.WithContext(ctx)

	counts := []struct {
		model interface{}
		dest  *int64
		where []interface{}
	}{
		{&model.CategoryType{}, &stats.TotalCategoryTypes, nil},
		{&model.Category{}, &stats.TotalCategories, nil},
		{&model.Supplier{}, &stats.TotalSuppliers, nil},
		{&model.Product{}, &stats.TotalProducts, nil},
		{&model.Sku{}, &stats.TotalSkus, nil},
		{&model.Pricelist{}, &stats.TotalPricelists, nil},
		{&model.Attribute{}, &stats.TotalAttributes, nil},
		{&model.PriceDetail{}, &stats.ActivePriceDetails, []interface{}{"is_active = ?", true}},
		{&model.Sku{}, &stats.InactiveSkus, []interface{}{"is_active = ?", false}},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if len(c.where) > 0 {
			q = q.Where(c.where[0], c.where[1:]...)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return &stats, nil
}

// GetCatalogActivity counts products and SKUs created per day. Days are
// bucketed in Go so the query stays portable across dialects.
func (r *statsRepo) GetCatalogActivity(ctx context.Context, startDate, endDate time.Time) ([]CatalogActivityData, error) {
	byDay := map[string]*CatalogActivityData{}
	bucket := func(m interface{}, add func(*CatalogActivityData)) error {
		var stamps []time.Time
		err := r.db.WithContext(ctx).Model(m).
			Where("created_at BETWEEN ? AND ?", startDate, endDate).
			Pluck("created_at", &stamps).Error
		if err != nil {
			return err
		}
		for _, ts := range stamps {
			day := ts.Format("2006-01-02")
			if byDay[day] == nil {
				byDay[day] = &CatalogActivityData{Date: day}
			}
			add(byDay[day])
		}
		return nil
	}

	if err := bucket(&model.Product{}, func(d *CatalogActivityData) { d.Products++ }); err != nil {
		return nil, err
	}
	if err := bucket(&model.Sku{}, func(d *CatalogActivityData) { d.Skus++ }); err != nil {
		return nil, err
	}

	results := make([]CatalogActivityData, 0, len(byDay))
	for _, d := range byDay {
		results = append(results, *d)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Date < results[j].Date })
	return results, nil
}
