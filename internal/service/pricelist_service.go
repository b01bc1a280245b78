package service

import (
	"context"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/ws"
	"go-catalog-api/pkg/apperror"

	"gorm.io/gorm"
)

const entityPricelist = "Pricelist"

type PricelistService interface {
	List(ctx context.Context, filter repository.PricelistFilter, page repository.Page) ([]model.Pricelist, int64, error)
	Get(ctx context.Context, id uint) (*model.Pricelist, error)
	Create(ctx context.Context, req *PricelistCreateRequest, actor Actor) (*model.Pricelist, error)
	Update(ctx context.Context, id uint, req *PricelistUpdateRequest, actor Actor) (*model.Pricelist, error)
	Delete(ctx context.Context, id uint, actor Actor) (*model.Pricelist, error)
}

type PricelistCreateRequest struct {
	BaseInput
	Name        string  `json:"name" validate:"notblank,max=50"`
	Description *string `json:"description"`
}

type PricelistUpdateRequest struct {
	BaseInput
	Name        *string `json:"name" validate:"omitempty,notblank,max=50"`
	Description *string `json:"description"`
}

type pricelistService struct {
	repo      repository.PricelistRepository
	priceRepo repository.PriceDetailRepository
	db        *gorm.DB
	wsHub     *ws.Hub
}

func NewPricelistService(repo repository.PricelistRepository, priceRepo repository.PriceDetailRepository, db *gorm.DB, hub *ws.Hub) PricelistService {
	return &pricelistService{repo: repo, priceRepo: priceRepo, db: db, wsHub: hub}
}

func (s *pricelistService) List(ctx context.Context, filter repository.PricelistFilter, page repository.Page) ([]model.Pricelist, int64, error) {
	return s.repo.List(ctx, filter.Scope(), page)
}

func (s *pricelistService) Get(ctx context.Context, id uint) (*model.Pricelist, error) {
	pl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, entityPricelist, id)
	}
	return pl, nil
}

func (s *pricelistService) Create(ctx context.Context, req *PricelistCreateRequest, actor Actor) (*model.Pricelist, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	ctx = actor.Context(ctx)

	pl := &model.Pricelist{Name: req.Name, Description: req.Description}
	req.init(&pl.BaseModel)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := s.ensureUnique(ctx, repo, req.Name, 0); err != nil {
			return err
		}
		return writeError(repo.Create(ctx, pl), entityPricelist)
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("pricelists", ws.ActionCreated, pl.ID, pl.Name))
	return pl, nil
}

func (s *pricelistService) Update(ctx context.Context, id uint, req *PricelistUpdateRequest, actor Actor) (*model.Pricelist, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	ctx = actor.Context(ctx)

	var updated *model.Pricelist
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.Lock(ctx, id)
		if err != nil {
			return lookupError(err, entityPricelist, id)
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
		if req.Description != nil {
			existing.Description = req.Description
		}
		req.apply(&existing.BaseModel)

		if err := repo.Save(ctx, existing); err != nil {
			return writeError(err, entityPricelist)
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("pricelists", ws.ActionUpdated, updated.ID, updated.Name))
	return updated, nil
}

func (s *pricelistService) Delete(ctx context.Context, id uint, actor Actor) (*model.Pricelist, error) {
	var deleted *model.Pricelist
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.Lock(ctx, id)
		if err != nil {
			return lookupError(err, entityPricelist, id)
		}
		if err := actor.CanModify(existing.Owner()); err != nil {
			return err
		}

		n, err := s.priceRepo.WithTx(tx).CountByPricelist(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperror.BadRequest("Cannot delete pricelist. It has %d associated price details", n)
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

	s.wsHub.Emit(actor.event("pricelists", ws.ActionDeleted, deleted.ID, deleted.Name))
	return deleted, nil
}

// ensureUnique checks the name and the code derived from it.
func (s *pricelistService) ensureUnique(ctx context.Context, repo repository.PricelistRepository, name string, excludeID uint) error {
	exists, err := repo.Exists(ctx, "name", name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return apperror.BadRequest("%s with name '%s' already exists", entityPricelist, name)
	}
	code := model.Codify(name)
	if exists, err = repo.Exists(ctx, "code", code, excludeID); err != nil {
		return err
	}
	if exists {
		return apperror.BadRequest("%s with code '%s' already exists", entityPricelist, code)
	}
	return nil
}
