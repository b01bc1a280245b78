package service

import (
	"context"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/ws"
	"go-catalog-api/pkg/apperror"

	"gorm.io/gorm"
)

const entityCategory = "Category"

// CategoryResponse is a category with its breadcrumb and images.
type CategoryResponse struct {
	model.Category
	FullPath []model.PathItem `json:"full_path"`
	Images   []model.Image    `json:"images"`
}

type CategoryService interface {
	List(ctx context.Context, filter repository.CategoryFilter, page repository.Page) ([]CategoryResponse, int64, error)
	Get(ctx context.Context, id uint) (*CategoryResponse, error)
	Children(ctx context.Context, parentID uint, page repository.Page) ([]CategoryResponse, int64, error)
	Create(ctx context.Context, req *CategoryCreateRequest, actor Actor) (*CategoryResponse, error)
	Update(ctx context.Context, id uint, req *CategoryUpdateRequest, actor Actor) (*CategoryResponse, error)
	Delete(ctx context.Context, id uint, actor Actor) (*CategoryResponse, error)
}

type CategoryCreateRequest struct {
	BaseInput
	Name           string       `json:"name" validate:"notblank,max=100"`
	Description    *string      `json:"description"`
	CategoryTypeID *uint        `json:"category_type_id" validate:"omitempty,gt=0"`
	ParentID       *uint        `json:"parent_id" validate:"omitempty,gt=0"`
	Images         []ImageInput `json:"images" validate:"omitempty,dive"`
}

// CategoryUpdateRequest changes a category. A parent_id or category_type_id
// of 0 clears that column, which is how a category is moved between the top
// level and a parent.
type CategoryUpdateRequest struct {
	BaseInput
	ImageChanges
	Name           *string `json:"name" validate:"omitempty,notblank,max=100"`
	Description    *string `json:"description"`
	CategoryTypeID *uint   `json:"category_type_id"`
	ParentID       *uint   `json:"parent_id"`
}

type categoryService struct {
	repo      repository.CategoryRepository
	typeRepo  repository.CategoryTypeRepository
	imageRepo repository.ImageRepository
	db        *gorm.DB
	wsHub     *ws.Hub
}

func NewCategoryService(
	repo repository.CategoryRepository,
	typeRepo repository.CategoryTypeRepository,
	imageRepo repository.ImageRepository,
	db *gorm.DB,
	hub *ws.Hub,
) CategoryService {
	return &categoryService{repo: repo, typeRepo: typeRepo, imageRepo: imageRepo, db: db, wsHub: hub}
}

func (s *categoryService) List(ctx context.Context, filter repository.CategoryFilter, page repository.Page) ([]CategoryResponse, int64, error) {
	items, total, err := s.repo.List(ctx, filter.Scope(), page, "CategoryType", "Children")
	if err != nil {
		return nil, 0, err
	}
	out, err := s.responses(ctx, s.repo, s.imageRepo, items)
	return out, total, err
}

func (s *categoryService) Get(ctx context.Context, id uint) (*CategoryResponse, error) {
	return s.detail(ctx, s.repo, s.imageRepo, id)
}

func (s *categoryService) Children(ctx context.Context, parentID uint, page repository.Page) ([]CategoryResponse, int64, error) {
	if _, err := s.repo.FindByID(ctx, parentID); err != nil {
		if repository.IsNotFound(err) {
			return nil, 0, apperror.NotFound("Parent category with id %d not found", parentID)
		}
		return nil, 0, err
	}
	return s.List(ctx, repository.CategoryFilter{ParentID: &parentID}, page)
}

func (s *categoryService) Create(ctx context.Context, req *CategoryCreateRequest, actor Actor) (*CategoryResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	ctx = actor.Context(ctx)

	c := &model.Category{
		Name:           req.Name,
		Description:    req.Description,
		CategoryTypeID: req.CategoryTypeID,
		ParentID:       req.ParentID,
	}
	req.init(&c.BaseModel)
	if err := c.CheckHierarchy(); err != nil {
		return nil, valueError("category_type_id", err.Error())
	}

	var created *CategoryResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		images := s.imageRepo.WithTx(tx)

		if err := s.ensureUniqueName(ctx, repo, req.Name, 0); err != nil {
			return err
		}
		if err := s.ensureRefs(ctx, repo, s.typeRepo.WithTx(tx), c.ParentID, c.CategoryTypeID); err != nil {
			return err
		}
		if err := repo.Create(ctx, c); err != nil {
			return writeError(err, entityCategory)
		}
		if err := createImages(ctx, images, c.TableName(), c.ID, req.Images); err != nil {
			return err
		}

		var err error
		created, err = s.detail(ctx, repo, images, c.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("categories", ws.ActionCreated, created.ID, created.Name))
	return created, nil
}

func (s *categoryService) Update(ctx context.Context, id uint, req *CategoryUpdateRequest, actor Actor) (*CategoryResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	ctx = actor.Context(ctx)

	var updated *CategoryResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		images := s.imageRepo.WithTx(tx)

		existing, err := repo.Lock(ctx, id)
		if err != nil {
			return lookupError(err, entityCategory, id)
		}
		if err := actor.CanModify(existing.Owner()); err != nil {
			return err
		}

		if req.Name != nil && *req.Name != existing.Name {
			if err := s.ensureUniqueName(ctx, repo, *req.Name, id); err != nil {
				return err
			}
			existing.Name = *req.Name
		}
		if req.Description != nil {
			existing.Description = req.Description
		}

		if req.ParentID != nil || req.CategoryTypeID != nil {
			if err := s.moveTo(ctx, repo, s.typeRepo.WithTx(tx), existing, req.ParentID, req.CategoryTypeID); err != nil {
				return err
			}
		}
		req.apply(&existing.BaseModel)

		existing.Children = nil
		existing.CategoryType = nil
		if err := repo.Save(ctx, existing); err != nil {
			return writeError(err, entityCategory)
		}
		if err := applyImageChanges(ctx, images, existing.TableName(), id, req.ImageChanges); err != nil {
			return err
		}

		updated, err = s.detail(ctx, repo, images, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("categories", ws.ActionUpdated, updated.ID, updated.Name))
	return updated, nil
}

// moveTo applies a parent/type change after checking the merged hierarchy.
func (s *categoryService) moveTo(ctx context.Context, repo repository.CategoryRepository, types repository.CategoryTypeRepository, c *model.Category, parentID, typeID *uint) error {
	merged := &model.Category{ParentID: c.ParentID, CategoryTypeID: c.CategoryTypeID}
	if parentID != nil {
		merged.ParentID = nonZero(*parentID)
	}
	if typeID != nil {
		merged.CategoryTypeID = nonZero(*typeID)
	}
	if err := merged.CheckHierarchy(); err != nil {
		return apperror.BadRequest("%s", err.Error())
	}

	if err := s.ensureRefs(ctx, repo, types, merged.ParentID, merged.CategoryTypeID); err != nil {
		return err
	}
	if merged.ParentID != nil {
		if *merged.ParentID == c.ID {
			return apperror.BadRequest("A category cannot be its own parent")
		}
		below, err := repo.IsDescendant(ctx, c.ID, *merged.ParentID)
		if err != nil {
			return err
		}
		if below {
			return apperror.BadRequest("A category cannot be moved under its own descendant")
		}
	}

	c.ParentID = merged.ParentID
	c.CategoryTypeID = merged.CategoryTypeID
	return nil
}

func (s *categoryService) Delete(ctx context.Context, id uint, actor Actor) (*CategoryResponse, error) {
	var deleted *CategoryResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		images := s.imageRepo.WithTx(tx)

		existing, err := repo.Lock(ctx, id)
		if err != nil {
			return lookupError(err, entityCategory, id)
		}
		if err := actor.CanModify(existing.Owner()); err != nil {
			return err
		}

		n, err := repo.CountChildren(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperror.BadRequest("Cannot delete category. It has %d child categories", n)
		}
		if n, err = repo.CountProducts(ctx, id); err != nil {
			return err
		}
		if n > 0 {
			return apperror.BadRequest("Cannot delete category. It has %d products", n)
		}

		if deleted, err = s.detail(ctx, repo, images, id); err != nil {
			return err
		}
		if err := images.DeleteByObject(ctx, existing.TableName(), id); err != nil {
			return err
		}
		return repo.DeleteWithLinks(ctx, existing)
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("categories", ws.ActionDeleted, deleted.ID, deleted.Name))
	return deleted, nil
}

func (s *categoryService) detail(ctx context.Context, repo repository.CategoryRepository, images repository.ImageRepository, id uint) (*CategoryResponse, error) {
	c, err := repo.FindDetail(ctx, id)
	if err != nil {
		return nil, lookupError(err, entityCategory, id)
	}
	out, err := s.responses(ctx, repo, images, []model.Category{*c})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *categoryService) responses(ctx context.Context, repo repository.CategoryRepository, images repository.ImageRepository, items []model.Category) ([]CategoryResponse, error) {
	out := make([]CategoryResponse, 0, len(items))
	for _, c := range items {
		path, err := categoryPath(ctx, repo, c.ID)
		if err != nil {
			return nil, err
		}
		imgs, err := images.ListByObject(ctx, c.TableName(), c.ID)
		if err != nil {
			return nil, err
		}
		if c.Children == nil {
			c.Children = []model.Category{}
		}
		out = append(out, CategoryResponse{Category: c, FullPath: path, Images: imgs})
	}
	return out, nil
}

// ensureRefs checks that the parent and category type exist.
func (s *categoryService) ensureRefs(ctx context.Context, repo repository.CategoryRepository, types repository.CategoryTypeRepository, parentID, typeID *uint) error {
	if parentID != nil {
		missing, err := repo.MissingIDs(ctx, []uint{*parentID})
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return apperror.NotFound("Categories with id %d not found", *parentID)
		}
	}
	if typeID != nil {
		missing, err := types.MissingIDs(ctx, []uint{*typeID})
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return apperror.NotFound("CategoryTypes with id %d not found", *typeID)
		}
	}
	return nil
}

func (s *categoryService) ensureUniqueName(ctx context.Context, repo repository.CategoryRepository, name string, excludeID uint) error {
	exists, err := repo.Exists(ctx, "name", name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return apperror.BadRequest("%s with name '%s' already exists", entityCategory, name)
	}
	return nil
}

func nonZero(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
