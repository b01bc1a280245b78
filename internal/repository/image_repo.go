package repository

import (
	"context"

	"go-catalog-api/internal/model"

	"gorm.io/gorm"
)

type ImageRepository interface {
	Store[model.Image]
	WithTx(tx *gorm.DB) ImageRepository
	ListByObject(ctx context.Context, contentType string, objectID uint) ([]model.Image, error)
	DeleteByObject(ctx context.Context, contentType string, objectID uint) error
	ResolveParent(ctx context.Context, contentType string, objectID uint) (model.Imageable, error)
}

type imageRepo struct {
	store[model.Image]
}

func NewImageRepo(db *gorm.DB) ImageRepository {
	return &imageRepo{store[model.Image]{db}}
}

func (r *imageRepo) WithTx(tx *gorm.DB) ImageRepository {
	return NewImageRepo(tx)
}

func (r *imageRepo) ListByObject(ctx context.Context, contentType string, objectID uint) ([]model.Image, error) {
	images := []model.Image{}
	err := r.conn(ctx).
		Where("content_type = ? AND object_id = ?", contentType, objectID).
		Order("is_primary DESC, id ASC").
		Find(&images).Error
	return images, err
}

func (r *imageRepo) DeleteByObject(ctx context.Context, contentType string, objectID uint) error {
	return r.conn(ctx).
		Where("content_type = ? AND object_id = ?", contentType, objectID).
		Delete(&model.Image{}).Error
}

// ResolveParent loads the row an image is attached to. The caller checks the
// content type against the registry first.
func (r *imageRepo) ResolveParent(ctx context.Context, contentType string, objectID uint) (model.Imageable, error) {
	parent, ok := model.NewContentType(contentType)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if err := r.conn(ctx).First(parent, objectID).Error; err != nil {
		return nil, err
	}
	return parent, nil
}
