package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/service"
	"go-catalog-api/internal/testutil"
)

func TestCategoryTypeService_CRUD(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	ct, err := s.categoryTypes.Create(ctx, &service.CategoryTypeCreateRequest{Name: "Finished Goods"}, alice)
	require.NoError(t, err)
	assert.Equal(t, "finished-goods", ct.Slug)
	assert.True(t, ct.IsActive)
	assert.Equal(t, alice.ID, ct.Owner())

	_, err = s.categoryTypes.Create(ctx, &service.CategoryTypeCreateRequest{Name: "Finished Goods"}, alice)
	requireAppError(t, err, 400, "Category type with name 'Finished Goods' already exists")

	_, err = s.categoryTypes.Create(ctx, &service.CategoryTypeCreateRequest{Name: "  "}, alice)
	requireValueError(t, err, "name", "Field required")

	_, err = s.categoryTypes.Create(ctx, &service.CategoryTypeCreateRequest{
		Name:      "Raw",
		BaseInput: service.BaseInput{Sequence: testutil.Ptr(-1)},
	}, alice)
	requireValueError(t, err, "sequence", "")

	_, err = s.categoryTypes.Update(ctx, ct.ID, &service.CategoryTypeUpdateRequest{Name: testutil.Ptr("Goods")}, bob)
	requireAppError(t, err, 403, "You can only modify your own resources")

	updated, err := s.categoryTypes.Update(ctx, ct.ID, &service.CategoryTypeUpdateRequest{Name: testutil.Ptr("Goods")}, manager)
	require.NoError(t, err)
	assert.Equal(t, "goods", updated.Slug)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, manager.ID, *updated.UpdatedBy)

	_, err = s.categoryTypes.Get(ctx, 999)
	requireAppError(t, err, 404, "Category type with id 999 not found")

	_, err = s.categories.Create(ctx, &service.CategoryCreateRequest{Name: "Drinks", CategoryTypeID: &ct.ID}, alice)
	require.NoError(t, err)
	_, err = s.categoryTypes.Delete(ctx, ct.ID, alice)
	requireAppError(t, err, 400, "Cannot delete category type. It has 1 categories")
}

func seedCategories(t *testing.T, s *services) (ct *model.CategoryType, root, child *service.CategoryResponse) {
	t.Helper()
	ctx := context.Background()
	ct, err := s.categoryTypes.Create(ctx, &service.CategoryTypeCreateRequest{Name: "Goods"}, alice)
	require.NoError(t, err)
	root, err = s.categories.Create(ctx, &service.CategoryCreateRequest{Name: "Drinks", CategoryTypeID: &ct.ID}, alice)
	require.NoError(t, err)
	child, err = s.categories.Create(ctx, &service.CategoryCreateRequest{Name: "Hot Drinks", ParentID: &root.ID}, alice)
	require.NoError(t, err)
	return ct, root, child
}

func TestCategoryService_CreateHierarchy(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	ct, root, child := seedCategories(t, s)

	_, err := s.categories.Create(ctx, &service.CategoryCreateRequest{Name: "Loose"}, alice)
	requireValueError(t, err, "category_type_id", "Top-level categories must have a category_type_id")

	_, err = s.categories.Create(ctx, &service.CategoryCreateRequest{Name: "Both", ParentID: &root.ID, CategoryTypeID: &ct.ID}, alice)
	requireValueError(t, err, "category_type_id", "Child categories must not have a category_type_id")

	_, err = s.categories.Create(ctx, &service.CategoryCreateRequest{Name: "Orphan", ParentID: testutil.Ptr(uint(404))}, alice)
	requireAppError(t, err, 404, "Categories with id 404 not found")

	_, err = s.categories.Create(ctx, &service.CategoryCreateRequest{Name: "Typed", CategoryTypeID: testutil.Ptr(uint(77))}, alice)
	requireAppError(t, err, 404, "CategoryTypes with id 77 not found")

	leaf, err := s.categories.Create(ctx, &service.CategoryCreateRequest{
		Name:     "Tea",
		ParentID: &child.ID,
		Images:   []service.ImageInput{{File: "tea.png", IsPrimary: true}},
	}, alice)
	require.NoError(t, err)
	require.Len(t, leaf.FullPath, 3)
	assert.Equal(t, "Drinks", leaf.FullPath[0].Name)
	require.NotNil(t, leaf.FullPath[0].CategoryType)
	assert.Equal(t, "Goods", *leaf.FullPath[0].CategoryType)
	assert.Nil(t, leaf.FullPath[2].CategoryType)
	assert.Equal(t, "Category", leaf.FullPath[2].Type)
	require.Len(t, leaf.Images, 1)
	assert.Equal(t, "categories", leaf.Images[0].ContentType)

	got, err := s.categories.Get(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, got.Children, 1)
	assert.Equal(t, "Hot Drinks", got.Children[0].Name)

	children, total, err := s.categories.Children(ctx, child.ID, repository.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Tea", children[0].Name)

	_, _, err = s.categories.Children(ctx, 999, repository.Page{Limit: 10})
	requireAppError(t, err, 404, "Parent category with id 999 not found")
}

func TestCategoryService_UpdateMoves(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	ct, root, child := seedCategories(t, s)
	leaf, err := s.categories.Create(ctx, &service.CategoryCreateRequest{Name: "Tea", ParentID: &child.ID}, alice)
	require.NoError(t, err)

	_, err = s.categories.Update(ctx, child.ID, &service.CategoryUpdateRequest{CategoryTypeID: &ct.ID}, alice)
	requireAppError(t, err, 400, "Child categories must not have a category_type_id")

	_, err = s.categories.Update(ctx, root.ID, &service.CategoryUpdateRequest{ParentID: &root.ID, CategoryTypeID: testutil.Ptr(uint(0))}, alice)
	requireAppError(t, err, 400, "A category cannot be its own parent")

	_, err = s.categories.Update(ctx, root.ID, &service.CategoryUpdateRequest{ParentID: &leaf.ID, CategoryTypeID: testutil.Ptr(uint(0))}, alice)
	requireAppError(t, err, 400, "A category cannot be moved under its own descendant")

	_, err = s.categories.Update(ctx, child.ID, &service.CategoryUpdateRequest{ParentID: testutil.Ptr(uint(999))}, alice)
	requireAppError(t, err, 404, "Categories with id 999 not found")

	moved, err := s.categories.Update(ctx, leaf.ID, &service.CategoryUpdateRequest{ParentID: &root.ID}, alice)
	require.NoError(t, err)
	require.Len(t, moved.FullPath, 2)

	promoted, err := s.categories.Update(ctx, child.ID, &service.CategoryUpdateRequest{
		ParentID:       testutil.Ptr(uint(0)),
		CategoryTypeID: &ct.ID,
	}, alice)
	require.NoError(t, err)
	assert.True(t, promoted.IsRoot())
	require.Len(t, promoted.FullPath, 1)
}

func TestCategoryService_ImageChanges(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	ct, _, _ := seedCategories(t, s)

	c, err := s.categories.Create(ctx, &service.CategoryCreateRequest{
		Name:           "Snacks",
		CategoryTypeID: &ct.ID,
		Images:         []service.ImageInput{{File: "a.png"}, {File: "b.png"}},
	}, alice)
	require.NoError(t, err)
	require.Len(t, c.Images, 2)
	first, second := c.Images[0], c.Images[1]

	_, err = s.categories.Update(ctx, c.ID, &service.CategoryUpdateRequest{
		ImageChanges: service.ImageChanges{ImagesToDelete: []uint{first.ID, 999}},
	}, alice)
	requireAppError(t, err, 404, "Images with IDs [999] not found")

	_, err = s.categories.Create(ctx, &service.CategoryCreateRequest{
		Name:           "Bad",
		CategoryTypeID: &ct.ID,
		Images:         []service.ImageInput{{File: "1.png"}},
	}, alice)
	requireValueError(t, err, "file", "Column file must start with a letter")

	_, err = s.categories.Update(ctx, c.ID, &service.CategoryUpdateRequest{
		ImageChanges: service.ImageChanges{ImagesToCreate: []service.ImageInput{{File: "a.png"}}},
	}, alice)
	requireAppError(t, err, 400, "Image with file 'a.png' already exists")

	updated, err := s.categories.Update(ctx, c.ID, &service.CategoryUpdateRequest{
		ImageChanges: service.ImageChanges{
			ImagesToDelete: []uint{first.ID},
			ImagesToUpdate: []service.ImageUpdateInput{{ID: second.ID, IsPrimary: testutil.Ptr(true), Title: testutil.Ptr("Front")}},
			ImagesToCreate: []service.ImageInput{{File: "c.png"}},
		},
	}, alice)
	require.NoError(t, err)
	require.Len(t, updated.Images, 2)
	assert.Equal(t, second.ID, updated.Images[0].ID)
	assert.True(t, updated.Images[0].IsPrimary)
	assert.Equal(t, "c.png", updated.Images[1].File)

	deleted, err := s.categories.Delete(ctx, c.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, "Snacks", deleted.Name)
	imgs, total, err := s.images.ListByObject(ctx, "categories", c.ID, repository.Page{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, imgs)
}

func TestCategoryService_DeleteGuards(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	_, root, child := seedCategories(t, s)

	_, err := s.categories.Delete(ctx, root.ID, alice)
	requireAppError(t, err, 400, "Cannot delete category. It has 1 child categories")

	sup, err := s.suppliers.Create(ctx, &service.SupplierCreateRequest{
		Name: "Acme", CompanyType: "pt", Contact: "0812345678", Email: "Sales@Acme.com",
	}, alice)
	require.NoError(t, err)
	_, err = s.products.Create(ctx, &service.ProductCreateRequest{Name: "Green Tea", CategoryID: child.ID, SupplierID: sup.ID}, alice)
	require.NoError(t, err)

	_, err = s.categories.Delete(ctx, child.ID, bob)
	requireAppError(t, err, 403, "")
	_, err = s.categories.Delete(ctx, child.ID, alice)
	requireAppError(t, err, 400, "Cannot delete category. It has 1 products")
}
