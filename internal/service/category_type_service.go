package service

import (
	"context"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/ws"
	"go-catalog-api/pkg/apperror"

	"gorm.io/gorm"
)

const entityCategoryType = "Category type"

type CategoryTypeService interface {
	List(ctx context.Context, filter repository.CategoryTypeFilter, page repository.Page) ([]model.CategoryType, int64, error)
	Get(ctx context.Context, id uint) (*model.CategoryType, error)
	Create(ctx context.Context, req *CategoryTypeCreateRequest, actor Actor) (*model.CategoryType, error)
	Update(ctx context.Context, id uint, req *CategoryTypeUpdateRequest, actor Actor) (*model.CategoryType, error)
	Delete(ctx context.Context, id uint, actor Actor) (*model.CategoryType, error)
}

type CategoryTypeCreateRequest struct {
	BaseInput
	Name string `json:"name" validate:"notblank,max=100"`
}

type CategoryTypeUpdateRequest struct {
	BaseInput
	Name *string `json:"name" validate:"omitempty,notblank,max=100"`
}

type categoryTypeService struct {
	repo  repository.CategoryTypeRepository
	db    *gorm.DB
	wsHub *ws.Hub
}

func NewCategoryTypeService(repo repository.CategoryTypeRepository, db *gorm.DB, hub *ws.Hub) CategoryTypeService {
	return &categoryTypeService{repo: repo, db: db, wsHub: hub}
}

func (s *categoryTypeService) List(ctx context.Context, filter repository.CategoryTypeFilter, page repository.Page) ([]model.CategoryType, int64, error) {
	return s.repo.List(ctx, filter.Scope(), page)
}

func (s *categoryTypeService) Get(ctx context.Context, id uint) (*model.CategoryType, error) {
	ct, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, entityCategoryType, id)
	}
	return ct, nil
}

func (s *categoryTypeService) Create(ctx context.Context, req *CategoryTypeCreateRequest, actor Actor) (*model.CategoryType, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	ctx = actor.Context(ctx)

	ct := &model.CategoryType{Name: req.Name}
	req.init(&ct.BaseModel)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := s.ensureUniqueName(ctx, repo, req.Name, 0); err != nil {
			return err
		}
		return writeError(repo.Create(ctx, ct), entityCategoryType)
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("category_types", ws.ActionCreated, ct.ID, ct.Name))
	return ct, nil
}

func (s *categoryTypeService) Update(ctx context.Context, id uint, req *CategoryTypeUpdateRequest, actor Actor) (*model.CategoryType, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	ctx = actor.Context(ctx)

	var updated *model.CategoryType
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.Lock(ctx, id)
		if err != nil {
			return lookupError(err, entityCategoryType, id)
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
		req.apply(&existing.BaseModel)

		if err := repo.Save(ctx, existing); err != nil {
			return writeError(err, entityCategoryType)
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("category_types", ws.ActionUpdated, updated.ID, updated.Name))
	return updated, nil
}

func (s *categoryTypeService) Delete(ctx context.Context, id uint, actor Actor) (*model.CategoryType, error) {
	var deleted *model.CategoryType
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.Lock(ctx, id)
		if err != nil {
			return lookupError(err, entityCategoryType, id)
		}
		if err := actor.CanModify(existing.Owner()); err != nil {
			return err
		}

		n, err := repo.CountCategories(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperror.BadRequest("Cannot delete category type. It has %d categories", n)
		}
		if err := repo.Delete(ctx, existing); err != nil {
			return err
		}
		deleted = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("category_types", ws.ActionDeleted, deleted.ID, deleted.Name))
	return deleted, nil
}

func (s *categoryTypeService) ensureUniqueName(ctx context.Context, repo repository.CategoryTypeRepository, name string, excludeID uint) error {
	exists, err := repo.Exists(ctx, "name", name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return apperror.BadRequest("%s with name '%s' already exists", entityCategoryType, name)
	}
	return nil
}
