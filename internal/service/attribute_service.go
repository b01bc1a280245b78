package service

import (
	"context"
	"strings"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/ws"
	"go-catalog-api/pkg/apperror"

	"gorm.io/gorm"
)

const entityAttribute = "Attribute"

type AttributeService interface {
	List(ctx context.Context, filter repository.AttributeFilter, page repository.Page) ([]model.Attribute, int64, error)
	Get(ctx context.Context, id uint) (*model.Attribute, error)
	Create(ctx context.Context, req *AttributeCreateRequest, actor Actor) (*model.Attribute, error)
	Update(ctx context.Context, id uint, req *AttributeUpdateRequest, actor Actor) (*model.Attribute, error)
	Delete(ctx context.Context, id uint, actor Actor) (*model.Attribute, error)
}

type AttributeCreateRequest struct {
	BaseInput
	Name     string  `json:"name" validate:"notblank,max=50"`
	DataType string  `json:"data_type" validate:"omitempty,oneof=TEXT NUMBER BOOLEAN DATE"`
	Uom      *string `json:"uom" validate:"omitempty,max=15"`
}

type AttributeUpdateRequest struct {
	BaseInput
	Name     *string `json:"name" validate:"omitempty,notblank,max=50"`
	DataType *string `json:"data_type" validate:"omitempty,oneof=TEXT NUMBER BOOLEAN DATE"`
	Uom      *string `json:"uom" validate:"omitempty,max=15"`
}

type attributeService struct {
	repo      repository.AttributeRepository
	valueRepo repository.SkuAttributeValueRepository
	db        *gorm.DB
	wsHub     *ws.Hub
}

func NewAttributeService(repo repository.AttributeRepository, valueRepo repository.SkuAttributeValueRepository, db *gorm.DB, hub *ws.Hub) AttributeService {
	return &attributeService{repo: repo, valueRepo: valueRepo, db: db, wsHub: hub}
}

func (s *attributeService) List(ctx context.Context, filter repository.AttributeFilter, page repository.Page) ([]model.Attribute, int64, error) {
	return s.repo.List(ctx, filter.Scope(), page)
}

func (s *attributeService) Get(ctx context.Context, id uint) (*model.Attribute, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, entityAttribute, id)
	}
	return a, nil
}

func (s *attributeService) Create(ctx context.Context, req *AttributeCreateRequest, actor Actor) (*model.Attribute, error) {
	req.DataType = strings.ToUpper(strings.TrimSpace(req.DataType))
	if err := validate(req); err != nil {
		return nil, err
	}
	ctx = actor.Context(ctx)

	a := &model.Attribute{Name: req.Name, DataType: req.DataType, Uom: req.Uom}
	req.init(&a.BaseModel)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := s.ensureUnique(ctx, repo, req.Name, 0); err != nil {
			return err
		}
		return writeError(repo.Create(ctx, a), entityAttribute)
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("attributes", ws.ActionCreated, a.ID, a.Name))
	return a, nil
}

// Update changes an attribute. Existing SKU values are not re-checked when the
// data type changes.
func (s *attributeService) Update(ctx context.Context, id uint, req *AttributeUpdateRequest, actor Actor) (*model.Attribute, error) {
	if req.DataType != nil {
		upper := strings.ToUpper(strings.TrimSpace(*req.DataType))
		req.DataType = &upper
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	ctx = actor.Context(ctx)

	var updated *model.Attribute
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.Lock(ctx, id)
		if err != nil {
			return lookupError(err, entityAttribute, id)
		}
		if err := actor.CanModify(existing.Owner()); err != nil {
			return err
		}

		if req.Name != nil && *req.Name != existing.Name {
			if err := s.ensureUnique(ctx, repo, *req.Name, id); err != nil {
				return err
			}
			existing.Name = *req.Name
		}
		if req.DataType != nil {
			existing.DataType = *req.DataType
		}
		if req.Uom != nil {
			existing.Uom = req.Uom
		}
		req.apply(&existing.BaseModel)

		if err := repo.Save(ctx, existing); err != nil {
			return writeError(err, entityAttribute)
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("attributes", ws.ActionUpdated, updated.ID, updated.Name))
	return updated, nil
}

func (s *attributeService) Delete(ctx context.Context, id uint, actor Actor) (*model.Attribute, error) {
	var deleted *model.Attribute
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.Lock(ctx, id)
		if err != nil {
			return lookupError(err, entityAttribute, id)
		}
		if err := actor.CanModify(existing.Owner()); err != nil {
			return err
		}

		n, err := s.valueRepo.WithTx(tx).CountByAttribute(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperror.BadRequest("Cannot delete attribute. It has %d associated SKU attribute values", n)
		}
		if err := repo.DeleteWithLinks(ctx, existing); err != nil {
			return err
		}
		deleted = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("attributes", ws.ActionDeleted, deleted.ID, deleted.Name))
	return deleted, nil
}

func (s *attributeService) ensureUnique(ctx context.Context, repo repository.AttributeRepository, name string, excludeID uint) error {
	exists, err := repo.Exists(ctx, "name", name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return apperror.BadRequest("%s with name '%s' already exists", entityAttribute, name)
	}
	code := model.Codify(name)
	if exists, err = repo.Exists(ctx, "code", code, excludeID); err != nil {
		return err
	}
	if exists {
		return apperror.BadRequest("%s with code '%s' already exists", entityAttribute, code)
	}
	return nil
}
