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

const entitySupplier = "Supplier"

type SupplierService interface {
	List(ctx context.Context, filter repository.SupplierFilter, page repository.Page) ([]model.Supplier, int64, error)
	Get(ctx context.Context, id uint) (*model.Supplier, error)
	Create(ctx context.Context, req *SupplierCreateRequest, actor Actor) (*model.Supplier, error)
	Update(ctx context.Context, id uint, req *SupplierUpdateRequest, actor Actor) (*model.Supplier, error)
	Delete(ctx context.Context, id uint, actor Actor) (*model.Supplier, error)
}

type SupplierCreateRequest struct {
	BaseInput
	Name        string  `json:"name" validate:"notblank,max=100"`
	CompanyType string  `json:"company_type" validate:"required,oneof=INDIVIDUAL PT CV UD"`
	Address     *string `json:"address"`
	Contact     string  `json:"contact" validate:"required,digits,min=10,max=13"`
	Email       string  `json:"email" validate:"required,email,max=50"`
}

type SupplierUpdateRequest struct {
	BaseInput
	Name        *string `json:"name" validate:"omitempty,notblank,max=100"`
	CompanyType *string `json:"company_type" validate:"omitempty,oneof=INDIVIDUAL PT CV UD"`
	Address     *string `json:"address"`
	Contact     *string `json:"contact" validate:"omitempty,digits,min=10,max=13"`
	Email       *string `json:"email" validate:"omitempty,email,max=50"`
}

type supplierService struct {
	repo  repository.SupplierRepository
	db    *gorm.DB
	wsHub *ws.Hub
}

func NewSupplierService(repo repository.SupplierRepository, db *gorm.DB, hub *ws.Hub) SupplierService {
	return &supplierService{repo: repo, db: db, wsHub: hub}
}

func (s *supplierService) List(ctx context.Context, filter repository.SupplierFilter, page repository.Page) ([]model.Supplier, int64, error) {
	return s.repo.List(ctx, filter.Scope(), page)
}

func (s *supplierService) Get(ctx context.Context, id uint) (*model.Supplier, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, entitySupplier, id)
	}
	return sup, nil
}

func (s *supplierService) Create(ctx context.Context, req *SupplierCreateRequest, actor Actor) (*model.Supplier, error) {
	req.CompanyType = strings.ToUpper(strings.TrimSpace(req.CompanyType))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate(req); err != nil {
		return nil, err
	}
	ctx = actor.Context(ctx)

	sup := &model.Supplier{
		Name:        req.Name,
		CompanyType: req.CompanyType,
		Address:     req.Address,
		Contact:     req.Contact,
		Email:       req.Email,
	}
	req.init(&sup.BaseModel)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := s.ensureUnique(ctx, repo, 0, sup.Name, sup.Email, sup.Contact); err != nil {
			return err
		}
		return writeError(repo.Create(ctx, sup), entitySupplier)
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("suppliers", ws.ActionCreated, sup.ID, sup.Name))
	return sup, nil
}

func (s *supplierService) Update(ctx context.Context, id uint, req *SupplierUpdateRequest, actor Actor) (*model.Supplier, error) {
	if req.CompanyType != nil {
		upper := strings.ToUpper(strings.TrimSpace(*req.CompanyType))
		req.CompanyType = &upper
	}
	if req.Email != nil {
		lower := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &lower
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	ctx = actor.Context(ctx)

	var updated *model.Supplier
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.Lock(ctx, id)
		if err != nil {
			return lookupError(err, entitySupplier, id)
		}
		if err := actor.CanModify(existing.Owner()); err != nil {
			return err
		}

		var name, email, contact string
		if req.Name != nil && *req.Name != existing.Name {
			name = *req.Name
			existing.Name = name
		}
		if req.Email != nil && *req.Email != existing.Email {
			email = *req.Email
			existing.Email = email
		}
		if req.Contact != nil && *req.Contact != existing.Contact {
			contact = *req.Contact
			existing.Contact = contact
		}
		if err := s.ensureUnique(ctx, repo, id, name, email, contact); err != nil {
			return err
		}
		if req.CompanyType != nil {
			existing.CompanyType = *req.CompanyType
		}
		if req.Address != nil {
			existing.Address = req.Address
		}
		req.apply(&existing.BaseModel)

		if err := repo.Save(ctx, existing); err != nil {
			return writeError(err, entitySupplier)
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("suppliers", ws.ActionUpdated, updated.ID, updated.Name))
	return updated, nil
}

func (s *supplierService) Delete(ctx context.Context, id uint, actor Actor) (*model.Supplier, error) {
	var deleted *model.Supplier
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.Lock(ctx, id)
		if err != nil {
			return lookupError(err, entitySupplier, id)
		}
		if err := actor.CanModify(existing.Owner()); err != nil {
			return err
		}

		n, err := repo.CountProducts(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperror.BadRequest("Cannot delete supplier. It has %d products", n)
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

	s.wsHub.Emit(actor.event("suppliers", ws.ActionDeleted, deleted.ID, deleted.Name))
	return deleted, nil
}

// ensureUnique checks the unique columns that are being set; empty values are skipped.
func (s *supplierService) ensureUnique(ctx context.Context, repo repository.SupplierRepository, excludeID uint, name, email, contact string) error {
	checks := []struct{ column, value string }{
		{"name", name},
		{"email", email},
		{"contact", contact},
	}
	for _, c := range checks {
		if c.value == "" {
			continue
		}
		exists, err := repo.Exists(ctx, c.column, c.value, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return apperror.BadRequest("%s with %s '%s' already exists", entitySupplier, c.column, c.value)
		}
	}
	return nil
}
