package service

import (
	"context"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/ws"
	"go-catalog-api/pkg/apperror"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const entitySku = "SKU"

type PricelistSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type PriceDetailResponse struct {
	ID              uint             `json:"id"`
	Price           decimal.Decimal  `json:"price"`
	MinimumQuantity int              `json:"minimum_quantity"`
	PricelistID     uint             `json:"pricelist_id"`
	IsActive        bool             `json:"is_active"`
	Pricelist       PricelistSummary `json:"pricelist"`
}

type AttributeSummary struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Code     string  `json:"code"`
	DataType string  `json:"data_type"`
	Uom      *string `json:"uom"`
}

type AttributeValueResponse struct {
	ID          uint             `json:"id"`
	AttributeID uint             `json:"attribute_id"`
	Value       string           `json:"value"`
	Attribute   AttributeSummary `json:"attribute"`
}

// SkuResponse is a SKU with its breadcrumb, active price tiers and attribute values.
type SkuResponse struct {
	model.Sku
	FullPath        []model.PathItem         `json:"full_path"`
	PriceDetails    []PriceDetailResponse    `json:"price_details"`
	AttributeValues []AttributeValueResponse `json:"attribute_values"`
}

type SkuService interface {
	List(ctx context.Context, filter repository.SkuFilter, page repository.Page) ([]SkuResponse, int64, error)
	Get(ctx context.Context, id uint) (*SkuResponse, error)
	Create(ctx context.Context, req *SkuCreateRequest, actor Actor) (*SkuResponse, error)
	Update(ctx context.Context, id uint, req *SkuUpdateRequest, actor Actor) (*SkuResponse, error)
	Delete(ctx context.Context, id uint, actor Actor) (*SkuResponse, error)
}

type PriceDetailInput struct {
	PricelistID     uint            `json:"pricelist_id" validate:"required,gt=0"`
	Price           decimal.Decimal `json:"price" validate:"positive_decimal"`
	MinimumQuantity *int            `json:"minimum_quantity" validate:"omitempty,gt=0"`
}

func (in PriceDetailInput) minimumQuantity() int {
	if in.MinimumQuantity == nil {
		return 1
	}
	return *in.MinimumQuantity
}

type PriceDetailUpdateInput struct {
	ID              uint             `json:"id" validate:"required,gt=0"`
	Price           *decimal.Decimal `json:"price" validate:"omitempty,positive_decimal"`
	MinimumQuantity *int             `json:"minimum_quantity" validate:"omitempty,gt=0"`
}

type AttributeValueInput struct {
	AttributeID uint   `json:"attribute_id" validate:"required,gt=0"`
	Value       string `json:"value" validate:"notblank,max=50"`
}

type SkuCreateRequest struct {
	BaseInput
	Name            string                `json:"name" validate:"notblank,max=100"`
	Description     *string               `json:"description"`
	ProductID       uint                  `json:"product_id" validate:"required,gt=0"`
	PriceDetails    []PriceDetailInput    `json:"price_details" validate:"required,min=1,dive"`
	AttributeValues []AttributeValueInput `json:"attribute_values" validate:"omitempty,dive"`
}

type SkuUpdateRequest struct {
	BaseInput
	Name                 *string                  `json:"name" validate:"omitempty,notblank,max=100"`
	Description          *string                  `json:"description"`
	ProductID            *uint                    `json:"product_id" validate:"omitempty,gt=0"`
	PriceDetailsToCreate []PriceDetailInput       `json:"price_details_to_create" validate:"omitempty,dive"`
	PriceDetailsToUpdate []PriceDetailUpdateInput `json:"price_details_to_update" validate:"omitempty,dive"`
	PriceDetailsToDelete []uint                   `json:"price_details_to_delete" validate:"omitempty,dive,gt=0"`
	AttributeValues      []AttributeValueInput    `json:"attribute_values" validate:"omitempty,dive"`
}

// skuRepos is the set of repositories a SKU write touches, bound to one transaction.
type skuRepos struct {
	skus       repository.SkuRepository
	products   repository.ProductRepository
	categories repository.CategoryRepository
	pricelists repository.PricelistRepository
	prices     repository.PriceDetailRepository
	attributes repository.AttributeRepository
	values     repository.SkuAttributeValueRepository
}

func (r skuRepos) withTx(tx *gorm.DB) skuRepos {
	return skuRepos{
		skus:       r.skus.WithTx(tx),
		products:   r.products.WithTx(tx),
		categories: r.categories.WithTx(tx),
		pricelists: r.pricelists.WithTx(tx),
		prices:     r.prices.WithTx(tx),
		attributes: r.attributes.WithTx(tx),
		values:     r.values.WithTx(tx),
	}
}

type skuService struct {
	repos skuRepos
	db    *gorm.DB
	wsHub *ws.Hub
}

func NewSkuService(
	skus repository.SkuRepository,
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	pricelists repository.PricelistRepository,
	prices repository.PriceDetailRepository,
	attributes repository.AttributeRepository,
	values repository.SkuAttributeValueRepository,
	db *gorm.DB,
	hub *ws.Hub,
) SkuService {
	return &skuService{
		repos: skuRepos{
			skus:       skus,
			products:   products,
			categories: categories,
			pricelists: pricelists,
			prices:     prices,
			attributes: attributes,
			values:     values,
		},
		db:    db,
		wsHub: hub,
	}
}

func (s *skuService) List(ctx context.Context, filter repository.SkuFilter, page repository.Page) ([]SkuResponse, int64, error) {
	items, total, err := s.repos.skus.List(ctx, filter.Scope(), page)
	if err != nil {
		return nil, 0, err
	}
	out := make([]SkuResponse, 0, len(items))
	for _, item := range items {
		resp, err := s.detail(ctx, s.repos, item.ID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *resp)
	}
	return out, total, nil
}

func (s *skuService) Get(ctx context.Context, id uint) (*SkuResponse, error) {
	return s.detail(ctx, s.repos, id)
}

func (s *skuService) Create(ctx context.Context, req *SkuCreateRequest, actor Actor) (*SkuResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	ctx = actor.Context(ctx)

	var created *SkuResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		r := s.repos.withTx(tx)

		if err := s.ensureProduct(ctx, r, req.ProductID); err != nil {
			return err
		}
		if err := s.ensureUniqueName(ctx, r, req.Name, 0); err != nil {
			return err
		}
		if err := s.checkAttributeValues(ctx, r, req.AttributeValues); err != nil {
			return err
		}
		if err := s.ensurePricelists(ctx, r, req.PriceDetails); err != nil {
			return err
		}

		sku := &model.Sku{Name: req.Name, Description: req.Description, ProductID: req.ProductID}
		req.init(&sku.BaseModel)
		if err := r.skus.Create(ctx, sku); err != nil {
			return writeError(err, entitySku)
		}

		if err := s.createPriceDetails(ctx, r, sku.ID, req.PriceDetails); err != nil {
			return err
		}
		for _, in := range req.AttributeValues {
			v := &model.SkuAttributeValue{SkuID: sku.ID, AttributeID: in.AttributeID, Value: in.Value}
			v.IsActive = true
			if err := r.values.Create(ctx, v); err != nil {
				return writeError(err, "Attribute value")
			}
		}

		var err error
		created, err = s.detail(ctx, r, sku.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("skus", ws.ActionCreated, created.ID, created.Name))
	return created, nil
}

// Update applies base fields, then price detail deletes, creates and updates,
// then attribute values. The SKU must end with at least one active price detail.
func (s *skuService) Update(ctx context.Context, id uint, req *SkuUpdateRequest, actor Actor) (*SkuResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	ctx = actor.Context(ctx)

	var updated *SkuResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		r := s.repos.withTx(tx)

		sku, err := r.skus.Lock(ctx, id)
		if err != nil {
			return lookupError(err, entitySku, id)
		}
		if err := actor.CanModify(sku.Owner()); err != nil {
			return err
		}

		if req.Name != nil && *req.Name != sku.Name {
			if err := s.ensureUniqueName(ctx, r, *req.Name, id); err != nil {
				return err
			}
			sku.Name = *req.Name
		}
		if req.ProductID != nil {
			if err := s.ensureProduct(ctx, r, *req.ProductID); err != nil {
				return err
			}
			sku.ProductID = *req.ProductID
		}
		if req.Description != nil {
			sku.Description = req.Description
		}
		req.apply(&sku.BaseModel)
		if err := r.skus.Save(ctx, sku); err != nil {
			return writeError(err, entitySku)
		}

		if err := s.deletePriceDetails(ctx, r, id, req.PriceDetailsToDelete); err != nil {
			return err
		}
		if len(req.PriceDetailsToCreate) > 0 {
			if err := s.ensurePricelists(ctx, r, req.PriceDetailsToCreate); err != nil {
				return err
			}
			if err := s.createPriceDetails(ctx, r, id, req.PriceDetailsToCreate); err != nil {
				return err
			}
		}
		if err := s.updatePriceDetails(ctx, r, id, req.PriceDetailsToUpdate); err != nil {
			return err
		}
		if err := s.updateAttributeValues(ctx, r, id, req.AttributeValues); err != nil {
			return err
		}

		active, err := r.prices.CountActiveBySku(ctx, id)
		if err != nil {
			return err
		}
		if active < 1 {
			return apperror.BadRequest("SKU must have at least one active price detail")
		}

		updated, err = s.detail(ctx, r, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("skus", ws.ActionUpdated, updated.ID, updated.Name))
	return updated, nil
}

func (s *skuService) Delete(ctx context.Context, id uint, actor Actor) (*SkuResponse, error) {
	var deleted *SkuResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		r := s.repos.withTx(tx)

		sku, err := r.skus.Lock(ctx, id)
		if err != nil {
			return lookupError(err, entitySku, id)
		}
		if err := actor.CanModify(sku.Owner()); err != nil {
			return err
		}
		if deleted, err = s.detail(ctx, r, id); err != nil {
			return err
		}
		return r.skus.DeleteWithDetails(ctx, sku)
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Emit(actor.event("skus", ws.ActionDeleted, deleted.ID, deleted.Name))
	return deleted, nil
}

func (s *skuService) deletePriceDetails(ctx context.Context, r skuRepos, skuID uint, ids []uint) error {
	for _, pdID := range uniqueIDs(ids) {
		pd, err := s.ownedPriceDetail(ctx, r, skuID, pdID)
		if err != nil {
			return err
		}
		if !pd.IsActive {
			continue
		}
		pd.IsActive = false
		if err := r.prices.Save(ctx, pd); err != nil {
			return writeError(err, "Price detail")
		}
	}
	return nil
}

// createPriceDetails inserts new tiers. A tier that exists but was deactivated
// is reactivated with the new price.
func (s *skuService) createPriceDetails(ctx context.Context, r skuRepos, skuID uint, inputs []PriceDetailInput) error {
	for _, in := range inputs {
		qty := in.minimumQuantity()
		existing, err := r.prices.FindTier(ctx, skuID, in.PricelistID, qty)
		switch {
		case err == nil && existing.IsActive:
			return tierExists(in.PricelistID, qty)
		case err == nil:
			existing.Price = in.Price
			existing.IsActive = true
			if err := r.prices.Save(ctx, existing); err != nil {
				return writeError(err, "Price detail")
			}
			continue
		case !repository.IsNotFound(err):
			return err
		}

		pd := &model.PriceDetail{
			Price:           in.Price,
			MinimumQuantity: qty,
			SkuID:           skuID,
			PricelistID:     in.PricelistID,
		}
		pd.IsActive = true
		if err := r.prices.Create(ctx, pd); err != nil {
			return writeError(err, "Price detail")
		}
	}
	return nil
}

func (s *skuService) updatePriceDetails(ctx context.Context, r skuRepos, skuID uint, inputs []PriceDetailUpdateInput) error {
	for _, in := range inputs {
		pd, err := s.ownedPriceDetail(ctx, r, skuID, in.ID)
		if err != nil {
			return err
		}
		if !pd.IsActive {
			return apperror.NotFound("Price detail with ID %d not found", in.ID)
		}
		if in.MinimumQuantity != nil && *in.MinimumQuantity != pd.MinimumQuantity {
			other, err := r.prices.FindTier(ctx, skuID, pd.PricelistID, *in.MinimumQuantity)
			if err == nil && other.ID != pd.ID {
				return tierExists(pd.PricelistID, *in.MinimumQuantity)
			}
			if err != nil && !repository.IsNotFound(err) {
				return err
			}
			pd.MinimumQuantity = *in.MinimumQuantity
		}
		if in.Price != nil {
			pd.Price = *in.Price
		}
		if err := r.prices.Save(ctx, pd); err != nil {
			return writeError(err, "Price detail")
		}
	}
	return nil
}

func (s *skuService) ownedPriceDetail(ctx context.Context, r skuRepos, skuID, id uint) (*model.PriceDetail, error) {
	pd, err := r.prices.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.NotFound("Price detail with ID %d not found", id)
		}
		return nil, err
	}
	if pd.SkuID != skuID {
		return nil, apperror.BadRequest("Price detail with ID %d does not belong to SKU %d", id, skuID)
	}
	return pd, nil
}

// updateAttributeValues changes values the SKU already has; it never adds new ones.
func (s *skuService) updateAttributeValues(ctx context.Context, r skuRepos, skuID uint, inputs []AttributeValueInput) error {
	if len(inputs) == 0 {
		return nil
	}
	ids := make([]uint, len(inputs))
	for i, in := range inputs {
		ids[i] = in.AttributeID
	}
	ids = uniqueIDs(ids)

	rows, err := r.values.FindBySku(ctx, skuID, ids)
	if err != nil {
		return err
	}
	byAttr := make(map[uint]*model.SkuAttributeValue, len(rows))
	for i := range rows {
		byAttr[rows[i].AttributeID] = &rows[i]
	}
	var missing []uint
	for _, id := range ids {
		if byAttr[id] == nil {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return apperror.NotFound("Attribute values with sku id %d and attribute ids %s not found", skuID, formatIDs(missing))
	}

	for _, in := range inputs {
		row := byAttr[in.AttributeID]
		if row.Attribute != nil && !row.Attribute.AcceptsValue(in.Value) {
			return apperror.BadRequest("%s", row.Attribute.InvalidValueMessage(in.Value))
		}
		row.Value = in.Value
		row.Attribute = nil
		if err := r.values.Save(ctx, row); err != nil {
			return writeError(err, "Attribute value")
		}
	}
	return nil
}

// checkAttributeValues verifies that the attributes exist and accept the values.
func (s *skuService) checkAttributeValues(ctx context.Context, r skuRepos, inputs []AttributeValueInput) error {
	if len(inputs) == 0 {
		return nil
	}
	ids := make([]uint, len(inputs))
	for i, in := range inputs {
		ids[i] = in.AttributeID
	}
	unique := uniqueIDs(ids)
	if len(unique) != len(ids) {
		return apperror.BadRequest("Attribute values must not repeat an attribute")
	}

	attrs, err := r.attributes.FindByIDs(ctx, unique)
	if err != nil {
		return err
	}
	byID := make(map[uint]*model.Attribute, len(attrs))
	for i := range attrs {
		byID[attrs[i].ID] = &attrs[i]
	}
	var missing []uint
	for _, id := range unique {
		if byID[id] == nil {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return apperror.NotFound("Attributes with IDs %s not found", formatIDs(missing))
	}

	for _, in := range inputs {
		if a := byID[in.AttributeID]; !a.AcceptsValue(in.Value) {
			return apperror.BadRequest("%s", a.InvalidValueMessage(in.Value))
		}
	}
	return nil
}

func (s *skuService) ensurePricelists(ctx context.Context, r skuRepos, inputs []PriceDetailInput) error {
	ids := make([]uint, len(inputs))
	for i, in := range inputs {
		ids[i] = in.PricelistID
	}
	missing, err := r.pricelists.MissingIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return apperror.NotFound("Pricelists with IDs %s not found", formatIDs(missing))
	}
	return nil
}

func (s *skuService) ensureProduct(ctx context.Context, r skuRepos, productID uint) error {
	missing, err := r.products.MissingIDs(ctx, []uint{productID})
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return apperror.NotFound("Products with id %d not found", productID)
	}
	return nil
}

func (s *skuService) ensureUniqueName(ctx context.Context, r skuRepos, name string, excludeID uint) error {
	exists, err := r.skus.Exists(ctx, "name", name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return apperror.BadRequest("%s with name '%s' already exists", entitySku, name)
	}
	return nil
}

func (s *skuService) detail(ctx context.Context, r skuRepos, id uint) (*SkuResponse, error) {
	sku, err := r.skus.FindDetail(ctx, id)
	if err != nil {
		return nil, lookupError(err, entitySku, id)
	}
	path, err := skuPath(ctx, r.categories, r.products, sku)
	if err != nil {
		return nil, err
	}

	resp := &SkuResponse{
		Sku:             *sku,
		FullPath:        path,
		PriceDetails:    make([]PriceDetailResponse, 0, len(sku.PriceDetails)),
		AttributeValues: make([]AttributeValueResponse, 0, len(sku.AttributeValues)),
	}
	for _, pd := range sku.PriceDetails {
		item := PriceDetailResponse{
			ID:              pd.ID,
			Price:           pd.Price,
			MinimumQuantity: pd.MinimumQuantity,
			PricelistID:     pd.PricelistID,
			IsActive:        pd.IsActive,
		}
		if pd.Pricelist != nil {
			item.Pricelist = PricelistSummary{ID: pd.Pricelist.ID, Name: pd.Pricelist.Name, Code: pd.Pricelist.Code}
		}
		resp.PriceDetails = append(resp.PriceDetails, item)
	}
	for _, v := range sku.AttributeValues {
		item := AttributeValueResponse{ID: v.ID, AttributeID: v.AttributeID, Value: v.Value}
		if a := v.Attribute; a != nil {
			item.Attribute = AttributeSummary{ID: a.ID, Name: a.Name, Code: a.Code, DataType: a.DataType, Uom: a.Uom}
		}
		resp.AttributeValues = append(resp.AttributeValues, item)
	}
	return resp, nil
}

func tierExists(pricelistID uint, qty int) error {
	return apperror.BadRequest("Price detail for pricelist %d with minimum quantity %d already exists", pricelistID, qty)
}
