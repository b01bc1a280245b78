package repository

import (
	"context"

	"go-catalog-api/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Store[model.Product]
	WithTx(tx *gorm.DB) ProductRepository
	CountSkus(ctx context.Context, id uint) (int64, error)
}

type productRepo struct {
	store[model.Product]
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{store[model.Product]{db}}
}

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return NewProductRepo(tx)
}

func (r *productRepo) CountSkus(ctx context.Context, id uint) (int64, error) {
	return count(ctx, r.db, &model.Sku{}, "product_id = ?", id)
}
