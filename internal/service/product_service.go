package service

import (
	"context"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/ws"
	"go-catalog-api/pkg/apperror"

	"gorm.io/gorm"
)

const entityProduct = "Product"

// ProductResponse is a product with its breadcrumb and images.
type ProductResponse struct {
	model.Product
	FullPath []model.PathItem `json:"full_path"`
	Images   []model.Image    `json:"images"`
}

type ProductService interface {
	List(ctx context.Context, filter repository.ProductFilter, page repository.Page) ([]ProductResponse, int64, error)
	Get(ctx context.Context, id uint) (*ProductResponse, error)
	Create(ctx context.Context, req *ProductCreateRequest, actor Actor) (*ProductResponse, error)
	Update(ctx context.Context, id uint, req *ProductUpdateRequest, actor Actor) (*ProductResponse, error)
	Delete(ctx context.Context, id uint, actor Actor) (*ProductResponse, error)
}

type ProductCreateRequest struct {
	BaseInput
	Name        string       `json:"name" validate:"notblank,max=100"`
	Description *string      `json:"description"`
	CategoryID  uint         `json:"category_id" validate:"required,gt=0"`
	SupplierID  uint         `json:"supplier_id" validate:"required,gt=0"`
	Images      []ImageInput `json:"images" validate:"omitempty,dive"`
}

type ProductUpdateRequest struct {
	BaseInput
	ImageChanges
	Name        *string `json:"name" validate:"omitempty,notblank,max=100"`
	Description *string `json:"description"`
	CategoryID  *uint   `json:"category_id" validate:"omitempty,gt=0"`
	SupplierID  *uint   `json:"supplier_id" validate:"omitempty,gt=0"`
}

type productService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	imageRepo    repository.ImageRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewProductService(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	imageRepo repository.ImageRepository,
	db *gorm.DB,
	hub *ws.Hub,
) ProductService {
	return &productService{
		repo:         repo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		imageRepo:    imageRepo,
		db:           db,
		wsHub:        hub,
	}
}

func (s *productService) List(ctx context.Context, filter repository.ProductFilter, page repository.Page) ([]ProductResponse, int64, error) {
	items, total, err := s.repo.List(ctx, filter.Scope(), page, "Category", "Supplier")
	if err != nil {
		return nil, 0, err
	}
	out := make([]ProductResponse, 0, len(items))
	for i := range items {
		resp, err := s.response(ctx, s.categoryRepo, s.imageRepo, &items[i])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *resp)
	}
	return out, total, nil
}

func (s *productService) Get(ctx context.Context, id uint) (*ProductResponse, error) {
	return s.detail(ctx, s.repo, s.categoryRepo, s.imageRepo, id)
}

func (s *productService) Create(ctx context.Context, req *ProductCreateRequest, actor Actor) (*ProductResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	ctx = actor.Context(ctx)

	p := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		SupplierID:  req.SupplierID,
	}
	req.init(&p.BaseModel)

	var created *ProductResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		categories := s.categoryRepo.WithTx(tx)
		images := s.imageRepo.WithTx(tx)

		if err := s.ensureUniqueName(ctx, repo, req.Name, 0); err != nil {
			return err
		}
		if err := s.ensureRefs(ctx, categories, s.supplierRepo.WithTx(tx), &p.CategoryID, &p.SupplierID); err != nil {
			return err
		}
		if err := repo.Create(ctx, p); err != nil {
			return writeError(err, entityProduct)
		}
		if err := createImages(ctx, images, p.TableName(), p.ID, req.Images); err != nil {
			return err
		}

		var err error
		created, err = s.detail(ctx, repo, categories, images, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("products", ws.ActionCreated, created.ID, created.Name))
	return created, nil
}

func (s *productService) Update(ctx context.Context, id uint, req *ProductUpdateRequest, actor Actor) (*ProductResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	ctx = actor.Context(ctx)

	var updated *ProductResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		categories := s.categoryRepo.WithTx(tx)
		images := s.imageRepo.WithTx(tx)

		existing, err := repo.Lock(ctx, id)
		if err != nil {
			return lookupError(err, entityProduct, id)
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
		if err := s.ensureRefs(ctx, categories, s.supplierRepo.WithTx(tx), req.CategoryID, req.SupplierID); err != nil {
			return err
		}
		if req.CategoryID != nil {
			existing.CategoryID = *req.CategoryID
		}
		if req.SupplierID != nil {
			existing.SupplierID = *req.SupplierID
		}
		if req.Description != nil {
			existing.Description = req.Description
		}
		req.apply(&existing.BaseModel)

		if err := repo.Save(ctx, existing); err != nil {
			return writeError(err, entityProduct)
		}
		if err := applyImageChanges(ctx, images, existing.TableName(), id, req.ImageChanges); err != nil {
			return err
		}

		updated, err = s.detail(ctx, repo, categories, images, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("products", ws.ActionUpdated, updated.ID, updated.Name))
	return updated, nil
}

func (s *productService) Delete(ctx context.Context, id uint, actor Actor) (*ProductResponse, error) {
	var deleted *ProductResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		images := s.imageRepo.WithTx(tx)

		existing, err := repo.Lock(ctx, id)
		if err != nil {
			return lookupError(err, entityProduct, id)
		}
		if err := actor.CanModify(existing.Owner()); err != nil {
			return err
		}

		n, err := repo.CountSkus(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperror.BadRequest("Cannot delete product. It has %d SKUs", n)
		}

		if deleted, err = s.detail(ctx, repo, s.categoryRepo.WithTx(tx), images, id); err != nil {
			return err
		}
		if err := images.DeleteByObject(ctx, existing.TableName(), id); err != nil {
			return err
		}
		return repo.Delete(ctx, existing)
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("products", ws.ActionDeleted, deleted.ID, deleted.Name))
	return deleted, nil
}

func (s *productService) detail(ctx context.Context, repo repository.ProductRepository, categories repository.CategoryRepository, images repository.ImageRepository, id uint) (*ProductResponse, error) {
	p, err := repo.FindByID(ctx, id, "Category", "Supplier")
	if err != nil {
		return nil, lookupError(err, entityProduct, id)
	}
	return s.response(ctx, categories, images, p)
}

func (s *productService) response(ctx context.Context, categories repository.CategoryRepository, images repository.ImageRepository, p *model.Product) (*ProductResponse, error) {
	path, err := productPath(ctx, categories, p)
	if err != nil {
		return nil, err
	}
	imgs, err := images.ListByObject(ctx, p.TableName(), p.ID)
	if err != nil {
		return nil, err
	}
	return &ProductResponse{Product: *p, FullPath: path, Images: imgs}, nil
}

func (s *productService) ensureRefs(ctx context.Context, categories repository.CategoryRepository, suppliers repository.SupplierRepository, categoryID, supplierID *uint) error {
	if categoryID != nil {
		missing, err := categories.MissingIDs(ctx, []uint{*categoryID})
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return apperror.NotFound("Categories with id %d not found", *categoryID)
		}
	}
	if supplierID != nil {
		missing, err := suppliers.MissingIDs(ctx, []uint{*supplierID})
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return apperror.NotFound("Suppliers with id %d not found", *supplierID)
		}
	}
	return nil
}

func (s *productService) ensureUniqueName(ctx context.Context, repo repository.ProductRepository, name string, excludeID uint) error {
	exists, err := repo.Exists(ctx, "name", name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return apperror.BadRequest("%s with name '%s' already exists", entityProduct, name)
	}
	return nil
}
