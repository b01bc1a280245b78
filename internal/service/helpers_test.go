package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-catalog-api/internal/constraint"
	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/service"
	"go-catalog-api/internal/testutil"
	"go-catalog-api/pkg/apperror"
)

var (
	manager = service.Actor{ID: 2, Username: "manager", Role: model.RoleManager}
	alice   = service.Actor{ID: 10, Username: "alice", Role: model.RoleUser}
	bob     = service.Actor{ID: 11, Username: "bob", Role: model.RoleUser}
)

// services wires every catalog service against one in-memory database.
type services struct {
	db            *gorm.DB
	categoryTypes service.CategoryTypeService
	categories    service.CategoryService
	suppliers     service.SupplierService
	products      service.ProductService
	skus          service.SkuService
	pricelists    service.PricelistService
	attributes    service.AttributeService
	attributeSets service.AttributeSetService
	images        service.ImageService
}

func newServices(t *testing.T) *services {
	t.Helper()
	db := testutil.NewDB(t, constraint.Plugin{})

	typeRepo := repository.NewCategoryTypeRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	productRepo := repository.NewProductRepo(db)
	skuRepo := repository.NewSkuRepo(db)
	pricelistRepo := repository.NewPricelistRepo(db)
	priceRepo := repository.NewPriceDetailRepo(db)
	attrRepo := repository.NewAttributeRepo(db)
	valueRepo := repository.NewSkuAttributeValueRepo(db)
	setRepo := repository.NewAttributeSetRepo(db)
	imageRepo := repository.NewImageRepo(db)

	return &services{
		db:            db,
		categoryTypes: service.NewCategoryTypeService(typeRepo, db, nil),
		categories:    service.NewCategoryService(categoryRepo, typeRepo, imageRepo, db, nil),
		suppliers:     service.NewSupplierService(supplierRepo, db, nil),
		products:      service.NewProductService(productRepo, categoryRepo, supplierRepo, imageRepo, db, nil),
		skus:          service.NewSkuService(skuRepo, productRepo, categoryRepo, pricelistRepo, priceRepo, attrRepo, valueRepo, db, nil),
		pricelists:    service.NewPricelistService(pricelistRepo, priceRepo, db, nil),
		attributes:    service.NewAttributeService(attrRepo, valueRepo, db, nil),
		attributeSets: service.NewAttributeSetService(setRepo, attrRepo, categoryRepo, db, nil),
		images:        service.NewImageService(imageRepo),
	}
}

func requireAppError(t *testing.T, err error, status int, msg string) *apperror.Error {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok, "unexpected error: %v", err)
	assert.Equal(t, status, appErr.Status)
	if msg != "" {
		assert.Equal(t, msg, appErr.Message)
	}
	return appErr
}

func requireValueError(t *testing.T, err error, field, msg string) {
	t.Helper()
	appErr := requireAppError(t, err, 422, "Validation error")
	require.NotEmpty(t, appErr.Details)
	assert.Equal(t, []string{"body", field}, appErr.Details[0].Loc)
	if msg != "" {
		assert.Equal(t, msg, appErr.Details[0].Msg)
	}
}
