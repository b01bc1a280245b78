package repository

import (
	"context"

	"go-catalog-api/internal/model"

	"gorm.io/gorm"
)

type SupplierRepository interface {
	Store[model.Supplier]
	WithTx(tx *gorm.DB) SupplierRepository
	CountProducts(ctx context.Context, id uint) (int64, error)
}

type supplierRepo struct {
	store[model.Supplier]
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{store[model.Supplier]{db}}
}

func (r *supplierRepo) WithTx(tx *gorm.DB) SupplierRepository {
	return NewSupplierRepo(tx)
}

func (r *supplierRepo) CountProducts(ctx context.Context, id uint) (int64, error) {
	return count(ctx, r.db, &model.Product{}, "supplier_id = ?", id)
}
