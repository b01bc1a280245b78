package repository

import (
	"context"

	"go-catalog-api/internal/model"

	"gorm.io/gorm"
)

type SkuRepository interface {
	Store[model.Sku]
	WithTx(tx *gorm.DB) SkuRepository
	FindDetail(ctx context.Context, id uint) (*model.Sku, error)
	DeleteWithDetails(ctx context.Context, sku *model.Sku) error
}

type skuRepo struct {
	store[model.Sku]
}

func NewSkuRepo(db *gorm.DB) SkuRepository {
	return &skuRepo{store[model.Sku]{db}}
}

func (r *skuRepo) WithTx(tx *gorm.DB) SkuRepository {
	return NewSkuRepo(tx)
}

// FindDetail loads a SKU with its active price details and attribute values.
func (r *skuRepo) FindDetail(ctx context.Context, id uint) (*model.Sku, error) {
	var sku model.Sku
	err := r.conn(ctx).
		Preload("PriceDetails", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("pricelist_id ASC, minimum_quantity ASC")
		}).
		Preload("PriceDetails.Pricelist").
		Preload("AttributeValues", func(db *gorm.DB) *gorm.DB {
			return db.Order("attribute_id ASC")
		}).
		Preload("AttributeValues.Attribute").
		First(&sku, id).Error
	if err != nil {
		return nil, err
	}
	return &sku, nil
}

// DeleteWithDetails removes the SKU together with its price details and
// attribute values.
func (r *skuRepo) DeleteWithDetails(ctx context.Context, sku *model.Sku) error {
	db := r.conn(ctx)
	if err := db.Where("sku_id = ?", sku.ID).Delete(&model.PriceDetail{}).Error; err != nil {
		return err
	}
	if err := db.Where("sku_id = ?", sku.ID).Delete(&model.SkuAttributeValue{}).Error; err != nil {
		return err
	}
	return db.Delete(sku).Error
}

type PriceDetailRepository interface {
	Store[model.PriceDetail]
	WithTx(tx *gorm.DB) PriceDetailRepository
	FindTier(ctx context.Context, skuID, pricelistID uint, minimumQuantity int) (*model.PriceDetail, error)
	CountActiveBySku(ctx context.Context, skuID uint) (int64, error)
	CountByPricelist(ctx context.Context, pricelistID uint) (int64, error)
}

type priceDetailRepo struct {
	store[model.PriceDetail]
}

func NewPriceDetailRepo(db *gorm.DB) PriceDetailRepository {
	return &priceDetailRepo{store[model.PriceDetail]{db}}
}

func (r *priceDetailRepo) WithTx(tx *gorm.DB) PriceDetailRepository {
	return NewPriceDetailRepo(tx)
}

// FindTier returns the price detail, active or not, occupying a unique tier.
func (r *priceDetailRepo) FindTier(ctx context.Context, skuID, pricelistID uint, minimumQuantity int) (*model.PriceDetail, error) {
	var pd model.PriceDetail
	err := r.conn(ctx).
		Where("sku_id = ? AND pricelist_id = ? AND minimum_quantity = ?", skuID, pricelistID, minimumQuantity).
		First(&pd).Error
	if err != nil {
		return nil, err
	}
	return &pd, nil
}

func (r *priceDetailRepo) CountActiveBySku(ctx context.Context, skuID uint) (int64, error) {
	return count(ctx, r.db, &model.PriceDetail{}, "sku_id = ? AND is_active = ?", skuID, true)
}

func (r *priceDetailRepo) CountByPricelist(ctx context.Context, pricelistID uint) (int64, error) {
	return count(ctx, r.db, &model.PriceDetail{}, "pricelist_id = ?", pricelistID)
}

type SkuAttributeValueRepository interface {
	Store[model.SkuAttributeValue]
	WithTx(tx *gorm.DB) SkuAttributeValueRepository
	FindBySku(ctx context.Context, skuID uint, attributeIDs []uint) ([]model.SkuAttributeValue, error)
	CountByAttribute(ctx context.Context, attributeID uint) (int64, error)
}

type skuAttributeValueRepo struct {
	store[model.SkuAttributeValue]
}

func NewSkuAttributeValueRepo(db *gorm.DB) SkuAttributeValueRepository {
	return &skuAttributeValueRepo{store[model.SkuAttributeValue]{db}}
}

func (r *skuAttributeValueRepo) WithTx(tx *gorm.DB) SkuAttributeValueRepository {
	return NewSkuAttributeValueRepo(tx)
}

func (r *skuAttributeValueRepo) FindBySku(ctx context.Context, skuID uint, attributeIDs []uint) ([]model.SkuAttributeValue, error) {
	var values []model.SkuAttributeValue
	err := r.conn(ctx).Preload("Attribute").
		Where("sku_id = ? AND attribute_id IN ?", skuID, attributeIDs).
		Find(&values).Error
	return values, err
}

func (r *skuAttributeValueRepo) CountByAttribute(ctx context.Context, attributeID uint) (int64, error) {
	return count(ctx, r.db, &model.SkuAttributeValue{}, "attribute_id = ?", attributeID)
}
