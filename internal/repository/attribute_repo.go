package repository

import (
	"context"

	"go-catalog-api/internal/model"

	"gorm.io/gorm"
)

type AttributeRepository interface {
	Store[model.Attribute]
	WithTx(tx *gorm.DB) AttributeRepository
	FindByIDs(ctx context.Context, ids []uint) ([]model.Attribute, error)
	DeleteWithLinks(ctx context.Context, a *model.Attribute) error
}

type attributeRepo struct {
	store[model.Attribute]
}

func NewAttributeRepo(db *gorm.DB) AttributeRepository {
	return &attributeRepo{store[model.Attribute]{db}}
}

func (r *attributeRepo) WithTx(tx *gorm.DB) AttributeRepository {
	return NewAttributeRepo(tx)
}

func (r *attributeRepo) FindByIDs(ctx context.Context, ids []uint) ([]model.Attribute, error) {
	var attrs []model.Attribute
	if len(ids) == 0 {
		return attrs, nil
	}
	err := r.conn(ctx).Where("id IN ?", ids).Order("id ASC").Find(&attrs).Error
	return attrs, err
}

// DeleteWithLinks removes the attribute and its attribute set memberships.
func (r *attributeRepo) DeleteWithLinks(ctx context.Context, a *model.Attribute) error {
	db := r.conn(ctx)
	if err := db.Exec("DELETE FROM attribute_set_attribute WHERE attribute_id = ?", a.ID).Error; err != nil {
		return err
	}
	return db.Delete(a).Error
}

type AttributeSetRepository interface {
	Store[model.AttributeSet]
	WithTx(tx *gorm.DB) AttributeSetRepository
	FindDetail(ctx context.Context, id uint) (*model.AttributeSet, error)
	ReplaceAttributes(ctx context.Context, set *model.AttributeSet, attrs []model.Attribute) error
	ReplaceCategories(ctx context.Context, set *model.AttributeSet, categories []model.Category) error
	DeleteWithLinks(ctx context.Context, set *model.AttributeSet) error
}

type attributeSetRepo struct {
	store[model.AttributeSet]
}

func NewAttributeSetRepo(db *gorm.DB) AttributeSetRepository {
	return &attributeSetRepo{store[model.AttributeSet]{db}}
}

func (r *attributeSetRepo) WithTx(tx *gorm.DB) AttributeSetRepository {
	return NewAttributeSetRepo(tx)
}

func (r *attributeSetRepo) FindDetail(ctx context.Context, id uint) (*model.AttributeSet, error) {
	return r.FindByID(ctx, id, "Attributes", "Categories")
}

// association replacement skips hooks on the linked rows; only join rows change
func (r *attributeSetRepo) ReplaceAttributes(ctx context.Context, set *model.AttributeSet, attrs []model.Attribute) error {
	return r.conn(ctx).Session(&gorm.Session{SkipHooks: true}).Omit("Attributes.*").
		Model(set).Association("Attributes").Replace(attrs)
}

func (r *attributeSetRepo) ReplaceCategories(ctx context.Context, set *model.AttributeSet, categories []model.Category) error {
	return r.conn(ctx).Session(&gorm.Session{SkipHooks: true}).Omit("Categories.*").
		Model(set).Association("Categories").Replace(categories)
}

func (r *attributeSetRepo) DeleteWithLinks(ctx context.Context, set *model.AttributeSet) error {
	db := r.conn(ctx)
	if err := db.Model(set).Association("Attributes").Clear(); err != nil {
		return err
	}
	if err := db.Model(set).Association("Categories").Clear(); err != nil {
		return err
	}
	return db.Delete(set).Error
}
