package service

import (
	"context"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/ws"
	"go-catalog-api/pkg/apperror"

	"gorm.io/gorm"
)

const entityAttributeSet = "Attribute set"

type CategorySummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// AttributeSetResponse lists the linked categories and attributes as summaries.
type AttributeSetResponse struct {
	model.AttributeSet
	Categories []CategorySummary  `json:"categories"`
	Attributes []AttributeSummary `json:"attributes"`
}

type AttributeSetService interface {
	List(ctx context.Context, filter repository.AttributeSetFilter, page repository.Page) ([]AttributeSetResponse, int64, error)
	Get(ctx context.Context, id uint) (*AttributeSetResponse, error)
	Create(ctx context.Context, req *AttributeSetCreateRequest, actor Actor) (*AttributeSetResponse, error)
	Update(ctx context.Context, id uint, req *AttributeSetUpdateRequest, actor Actor) (*AttributeSetResponse, error)
	Delete(ctx context.Context, id uint, actor Actor) (*AttributeSetResponse, error)
}

type AttributeSetCreateRequest struct {
	BaseInput
	Name         string `json:"name" validate:"notblank,max=100"`
	CategoryID   *uint  `json:"category_id" validate:"omitempty,gt=0"`
	AttributeIDs []uint `json:"attribute_ids" validate:"omitempty,dive,gt=0"`
}

// AttributeSetUpdateRequest replaces links only for the lists that are sent.
type AttributeSetUpdateRequest struct {
	BaseInput
	Name         *string `json:"name" validate:"omitempty,notblank,max=100"`
	AttributeIDs []uint  `json:"attribute_ids" validate:"omitempty,dive,gt=0"`
	CategoryIDs  []uint  `json:"category_ids" validate:"omitempty,dive,gt=0"`
}

type attributeSetService struct {
	repo         repository.AttributeSetRepository
	attrRepo     repository.AttributeRepository
	categoryRepo repository.CategoryRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewAttributeSetService(
	repo repository.AttributeSetRepository,
	attrRepo repository.AttributeRepository,
	categoryRepo repository.CategoryRepository,
	db *gorm.DB,
	hub *ws.Hub,
) AttributeSetService {
	return &attributeSetService{repo: repo, attrRepo: attrRepo, categoryRepo: categoryRepo, db: db, wsHub: hub}
}

func (s *attributeSetService) List(ctx context.Context, filter repository.AttributeSetFilter, page repository.Page) ([]AttributeSetResponse, int64, error) {
	items, total, err := s.repo.List(ctx, filter.Scope(), page, "Attributes", "Categories")
	if err != nil {
		return nil, 0, err
	}
	out := make([]AttributeSetResponse, 0, len(items))
	for i := range items {
		out = append(out, newAttributeSetResponse(&items[i]))
	}
	return out, total, nil
}

func (s *attributeSetService) Get(ctx context.Context, id uint) (*AttributeSetResponse, error) {
	return s.detail(ctx, s.repo, id)
}

func (s *attributeSetService) Create(ctx context.Context, req *AttributeSetCreateRequest, actor Actor) (*AttributeSetResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	ctx = actor.Context(ctx)

	var created *AttributeSetResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := s.ensureUniqueName(ctx, repo, req.Name, 0); err != nil {
			return err
		}
		attrs, err := s.loadAttributes(ctx, s.attrRepo.WithTx(tx), req.AttributeIDs)
		if err != nil {
			return err
		}
		var categoryIDs []uint
		if req.CategoryID != nil {
			categoryIDs = []uint{*req.CategoryID}
		}
		categories, err := s.loadCategories(ctx, s.categoryRepo.WithTx(tx), categoryIDs)
		if err != nil {
			return err
		}

		set := &model.AttributeSet{Name: req.Name}
		req.init(&set.BaseModel)
		if err := repo.Create(ctx, set); err != nil {
			return writeError(err, entityAttributeSet)
		}
		if err := repo.ReplaceAttributes(ctx, set, attrs); err != nil {
			return err
		}
		if err := repo.ReplaceCategories(ctx, set, categories); err != nil {
			return err
		}

		created, err = s.detail(ctx, repo, set.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("attribute_sets", ws.ActionCreated, created.ID, created.Name))
	return created, nil
}

func (s *attributeSetService) Update(ctx context.Context, id uint, req *AttributeSetUpdateRequest, actor Actor) (*AttributeSetResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	ctx = actor.Context(ctx)

	var updated *AttributeSetResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.Lock(ctx, id)
		if err != nil {
			return lookupError(err, entityAttributeSet, id)
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
			return writeError(err, entityAttributeSet)
		}

		if req.AttributeIDs != nil {
			attrs, err := s.loadAttributes(ctx, s.attrRepo.WithTx(tx), req.AttributeIDs)
			if err != nil {
				return err
			}
			if err := repo.ReplaceAttributes(ctx, existing, attrs); err != nil {
				return err
			}
		}
		if req.CategoryIDs != nil {
			categories, err := s.loadCategories(ctx, s.categoryRepo.WithTx(tx), req.CategoryIDs)
			if err != nil {
				return err
			}
			if err := repo.ReplaceCategories(ctx, existing, categories); err != nil {
				return err
			}
		}

		updated, err = s.detail(ctx, repo, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("attribute_sets", ws.ActionUpdated, updated.ID, updated.Name))
	return updated, nil
}

func (s *attributeSetService) Delete(ctx context.Context, id uint, actor Actor) (*AttributeSetResponse, error) {
	var deleted *AttributeSetResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.Lock(ctx, id)
		if err != nil {
			return lookupError(err, entityAttributeSet, id)
		}
		if err := actor.CanModify(existing.Owner()); err != nil {
			return err
		}
		if deleted, err = s.detail(ctx, repo, id); err != nil {
			return err
		}
		return repo.DeleteWithLinks(ctx, existing)
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("attribute_sets", ws.ActionDeleted, deleted.ID, deleted.Name))
	return deleted, nil
}

func (s *attributeSetService) loadAttributes(ctx context.Context, repo repository.AttributeRepository, ids []uint) ([]model.Attribute, error) {
	ids = uniqueIDs(ids)
	missing, err := repo.MissingIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, apperror.NotFound("Attributes with IDs %s not found", formatIDs(missing))
	}
	return repo.FindByIDs(ctx, ids)
}

func (s *attributeSetService) loadCategories(ctx context.Context, repo repository.CategoryRepository, ids []uint) ([]model.Category, error) {
	categories := make([]model.Category, 0, len(ids))
	for _, id := range uniqueIDs(ids) {
		c, err := repo.FindByID(ctx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, apperror.NotFound("Categories with id %d not found", id)
			}
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, nil
}

func (s *attributeSetService) detail(ctx context.Context, repo repository.AttributeSetRepository, id uint) (*AttributeSetResponse, error) {
	set, err := repo.FindDetail(ctx, id)
	if err != nil {
		return nil, lookupError(err, entityAttributeSet, id)
	}
	resp := newAttributeSetResponse(set)
	return &resp, nil
}

func (s *attributeSetService) ensureUniqueName(ctx context.Context, repo repository.AttributeSetRepository, name string, excludeID uint) error {
	exists, err := repo.Exists(ctx, "name", name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return apperror.BadRequest("%s with name '%s' already exists", entityAttributeSet, name)
	}
	return nil
}

func newAttributeSetResponse(set *model.AttributeSet) AttributeSetResponse {
	resp := AttributeSetResponse{
		AttributeSet: *set,
		Categories:   make([]CategorySummary, 0, len(set.Categories)),
		Attributes:   make([]AttributeSummary, 0, len(set.Attributes)),
	}
	for _, c := range set.Categories {
		resp.Categories = append(resp.Categories, CategorySummary{ID: c.ID, Name: c.Name, Slug: c.Slug})
	}
	for _, a := range set.Attributes {
		resp.Attributes = append(resp.Attributes, AttributeSummary{ID: a.ID, Name: a.Name, Code: a.Code, DataType: a.DataType, Uom: a.Uom})
	}
	return resp
}
