package repository

import (
	"context"

	"go-catalog-api/internal/model"

	"gorm.io/gorm"
)

type CategoryTypeRepository interface {
	Store[model.CategoryType]
	WithTx(tx *gorm.DB) CategoryTypeRepository
	CountCategories(ctx context.Context, id uint) (int64, error)
}

type categoryTypeRepo struct {
	store[model.CategoryType]
}

func NewCategoryTypeRepo(db *gorm.DB) CategoryTypeRepository {
	return &categoryTypeRepo{store[model.CategoryType]{db}}
}

func (r *categoryTypeRepo) WithTx(tx *gorm.DB) CategoryTypeRepository {
	return NewCategoryTypeRepo(tx)
}

func (r *categoryTypeRepo) CountCategories(ctx context.Context, id uint) (int64, error) {
	return count(ctx, r.db, &model.Category{}, "category_type_id = ?", id)
}

type CategoryRepository interface {
	Store[model.Category]
	WithTx(tx *gorm.DB) CategoryRepository
	FindDetail(ctx context.Context, id uint) (*model.Category, error)
	CountChildren(ctx context.Context, id uint) (int64, error)
	CountProducts(ctx context.Context, id uint) (int64, error)
	Path(ctx context.Context, id uint) ([]model.Category, error)
	IsDescendant(ctx context.Context, ancestorID, id uint) (bool, error)
	DeleteWithLinks(ctx context.Context, c *model.Category) error
}

type categoryRepo struct {
	store[model.Category]
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{store[model.Category]{db}}
}

func (r *categoryRepo) WithTx(tx *gorm.DB) CategoryRepository {
	return NewCategoryRepo(tx)
}

// FindDetail loads a category with its direct children and type.
func (r *categoryRepo) FindDetail(ctx context.Context, id uint) (*model.Category, error) {
	return r.FindByID(ctx, id, "CategoryType", "Children")
}

func (r *categoryRepo) CountChildren(ctx context.Context, id uint) (int64, error) {
	return count(ctx, r.db, &model.Category{}, "parent_id = ?", id)
}

func (r *categoryRepo) CountProducts(ctx context.Context, id uint) (int64, error) {
	return count(ctx, r.db, &model.Product{}, "category_id = ?", id)
}

// Path returns the chain from the root category down to id. The root carries
// its CategoryType.
func (r *categoryRepo) Path(ctx context.Context, id uint) ([]model.Category, error) {
	var chain []model.Category
	seen := map[uint]bool{}
	next := &id
	for next != nil && !seen[*next] {
		seen[*next] = true
		var c model.Category
		if err := r.conn(ctx).Preload("CategoryType").First(&c, *next).Error; err != nil {
			return nil, err
		}
		chain = append(chain, c)
		next = c.ParentID
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// IsDescendant reports whether id sits somewhere below ancestorID.
func (r *categoryRepo) IsDescendant(ctx context.Context, ancestorID, id uint) (bool, error) {
	path, err := r.Path(ctx, id)
	if err != nil {
		return false, err
	}
	for _, c := range path[:len(path)-1] {
		if c.ID == ancestorID {
			return true, nil
		}
	}
	return false, nil
}

// DeleteWithLinks removes the category and its attribute set links.
func (r *categoryRepo) DeleteWithLinks(ctx context.Context, c *model.Category) error {
	db := r.conn(ctx)
	if err := db.Model(c).Association("AttributeSets").Clear(); err != nil {
		return err
	}
	return db.Delete(c).Error
}
