package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/service"
	"go-catalog-api/internal/testutil"
)

func TestSupplierService_Uniqueness(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	sup, err := s.suppliers.Create(ctx, &service.SupplierCreateRequest{
		Name: "Acme", CompanyType: "cv", Contact: "0812345678", Email: "Sales@Acme.com",
	}, alice)
	require.NoError(t, err)
	assert.Equal(t, "CV", sup.CompanyType)
	assert.Equal(t, "sales@acme.com", sup.Email)
	assert.Equal(t, "acme", sup.Slug)

	_, err = s.suppliers.Create(ctx, &service.SupplierCreateRequest{
		Name: "Other", CompanyType: "PT", Contact: "0899999999", Email: "sales@acme.com",
	}, alice)
	requireAppError(t, err, 400, "Supplier with email 'sales@acme.com' already exists")

	_, err = s.suppliers.Create(ctx, &service.SupplierCreateRequest{
		Name: "Other", CompanyType: "PT", Contact: "0812345678", Email: "other@acme.com",
	}, alice)
	requireAppError(t, err, 400, "Supplier with contact '0812345678' already exists")

	_, err = s.suppliers.Create(ctx, &service.SupplierCreateRequest{
		Name: "Other", CompanyType: "LLC", Contact: "08123-4567", Email: "other@acme.com",
	}, alice)
	appErr := requireAppError(t, err, 422, "Validation error")
	assert.Len(t, appErr.Details, 2)

	updated, err := s.suppliers.Update(ctx, sup.ID, &service.SupplierUpdateRequest{Address: testutil.Ptr("Jl. Merdeka 1")}, alice)
	require.NoError(t, err)
	require.NotNil(t, updated.Address)

	email := "vendor"
	list, total, err := s.suppliers.List(ctx, repository.SupplierFilter{Email: testutil.Ptr("ACME")}, repository.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, sup.ID, list[0].ID)
	_, total, err = s.suppliers.List(ctx, repository.SupplierFilter{Email: &email}, repository.Page{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestProductService_CreateAndDelete(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	_, _, child := seedCategories(t, s)
	sup, err := s.suppliers.Create(ctx, &service.SupplierCreateRequest{
		Name: "Acme", CompanyType: "PT", Contact: "0812345678", Email: "sales@acme.com",
	}, alice)
	require.NoError(t, err)

	_, err = s.products.Create(ctx, &service.ProductCreateRequest{Name: "Tea", CategoryID: 999, SupplierID: sup.ID}, alice)
	requireAppError(t, err, 404, "Categories with id 999 not found")
	_, err = s.products.Create(ctx, &service.ProductCreateRequest{Name: "Tea", CategoryID: child.ID, SupplierID: 999}, alice)
	requireAppError(t, err, 404, "Suppliers with id 999 not found")

	p, err := s.products.Create(ctx, &service.ProductCreateRequest{
		Name:       "Green Tea",
		CategoryID: child.ID,
		SupplierID: sup.ID,
		Images:     []service.ImageInput{{File: "green-tea.png", IsPrimary: true}},
	}, alice)
	require.NoError(t, err)
	require.Len(t, p.FullPath, 3)
	assert.Equal(t, "Product", p.FullPath[2].Type)
	assert.Equal(t, "green-tea", p.FullPath[2].Slug)
	require.NotNil(t, p.Category)
	assert.Equal(t, "Hot Drinks", p.Category.Name)
	require.Len(t, p.Images, 1)

	detail, err := s.images.Get(ctx, p.Images[0].ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Parent)
	assert.Equal(t, p.ID, detail.Parent.GetID())

	_, err = s.suppliers.Delete(ctx, sup.ID, alice)
	requireAppError(t, err, 400, "Cannot delete supplier. It has 1 products")

	list, total, err := s.products.List(ctx, repository.ProductFilter{SupplierID: &sup.ID}, repository.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Green Tea", list[0].Name)

	sku := createSku(t, s, p.ID, "Green Tea 100g")
	_, err = s.products.Delete(ctx, p.ID, alice)
	requireAppError(t, err, 400, "Cannot delete product. It has 1 SKUs")

	_, err = s.skus.Delete(ctx, sku.ID, alice)
	require.NoError(t, err)
	deleted, err := s.products.Delete(ctx, p.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, "Green Tea", deleted.Name)

	_, total, err = s.images.ListByObject(ctx, "products", p.ID, repository.Page{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestImageService_UnknownContentType(t *testing.T) {
	s := newServices(t)
	_, _, err := s.images.ListByObject(context.Background(), "widgets", 1, repository.Page{Limit: 10})
	requireAppError(t, err, 400, "Unknown content type 'widgets'")

	_, err = s.images.Get(context.Background(), 42)
	requireAppError(t, err, 404, "Image with id 42 not found")
}
