package repository

import (
	"go-catalog-api/internal/model"

	"gorm.io/gorm"
)

type PricelistRepository interface {
	Store[model.Pricelist]
	WithTx(tx *gorm.DB) PricelistRepository
}

type pricelistRepo struct {
	store[model.Pricelist]
}

func NewPricelistRepo(db *gorm.DB) PricelistRepository {
	return &pricelistRepo{store[model.Pricelist]{db}}
}

func (r *pricelistRepo) WithTx(tx *gorm.DB) PricelistRepository {
	return NewPricelistRepo(tx)
}
