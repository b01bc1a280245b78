package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/testutil"
)

func seedTree(t *testing.T, db *gorm.DB) (root, mid, leaf *model.Category) {
	t.Helper()
	ct := &model.CategoryType{Name: "Goods"}
	testutil.Seed(t, db, ct)
	root = &model.Category{Name: "Drinks", CategoryTypeID: &ct.ID}
	testutil.Seed(t, db, root)
	mid = &model.Category{Name: "Hot Drinks", ParentID: &root.ID}
	testutil.Seed(t, db, mid)
	leaf = &model.Category{Name: "Tea", ParentID: &mid.ID}
	testutil.Seed(t, db, leaf)
	return root, mid, leaf
}

func TestStore_ListPaginatesWithTotal(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewPricelistRepo(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &model.Pricelist{Name: fmt.Sprintf("Tier %c", 'A'+i)}))
	}

	items, total, err := repo.List(ctx, nil, repository.Page{Skip: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, items, 2)
	assert.Equal(t, "Tier C", items[0].Name)

	name := "tier b"
	items, total, err = repo.List(ctx, repository.PricelistFilter{Name: &name}.Scope(), repository.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "TIER-B", items[0].Code)

	items, _, err = repo.List(ctx, nil, repository.Page{Skip: 10, Limit: 10})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestStore_ExistsAndMissingIDs(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewCategoryTypeRepo(db)
	ctx := context.Background()

	ct := &model.CategoryType{Name: "Goods"}
	require.NoError(t, repo.Create(ctx, ct))

	exists, err := repo.Exists(ctx, "name", "Goods", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, "name", "Goods", ct.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	missing, err := repo.MissingIDs(ctx, []uint{99, ct.ID, 98, 99})
	require.NoError(t, err)
	assert.Equal(t, []uint{99, 98}, missing)

	_, err = repo.FindByID(ctx, 12345)
	assert.True(t, repository.IsNotFound(err))
}

func TestCategoryRepo_PathAndDescendants(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewCategoryRepo(db)
	ctx := context.Background()
	root, mid, leaf := seedTree(t, db)

	path, err := repo.Path(ctx, leaf.ID)
	require.NoError(t, err)
	require.Len(t, path, 3)
	assert.Equal(t, []string{"Drinks", "Hot Drinks", "Tea"}, []string{path[0].Name, path[1].Name, path[2].Name})
	require.NotNil(t, path[0].CategoryType)
	assert.Equal(t, "Goods", path[0].CategoryType.Name)

	isDesc, err := repo.IsDescendant(ctx, root.ID, leaf.ID)
	require.NoError(t, err)
	assert.True(t, isDesc)

	isDesc, err = repo.IsDescendant(ctx, leaf.ID, root.ID)
	require.NoError(t, err)
	assert.False(t, isDesc)

	n, err := repo.CountChildren(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	detail, err := repo.FindDetail(ctx, mid.ID)
	require.NoError(t, err)
	require.Len(t, detail.Children, 1)
	assert.Equal(t, "Tea", detail.Children[0].Name)

	parentID := root.ID
	items, total, err := repo.List(ctx, repository.CategoryFilter{ParentID: &parentID}.Scope(), repository.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Hot Drinks", items[0].Name)
}

func TestSkuRepo_DetailAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	_, _, leaf := seedTree(t, db)

	sup := &model.Supplier{Name: "Acme", CompanyType: model.CompanyPT, Contact: "0812345678", Email: "acme@example.com"}
	testutil.Seed(t, db, sup)
	prod := &model.Product{Name: "Green Tea", CategoryID: leaf.ID, SupplierID: sup.ID}
	testutil.Seed(t, db, prod)
	pl := &model.Pricelist{Name: "Retail"}
	attr := &model.Attribute{Name: "Weight", DataType: model.DataTypeNumber}
	testutil.Seed(t, db, pl, attr)

	sku := &model.Sku{
		Name:      "Green Tea 100g",
		ProductID: prod.ID,
		PriceDetails: []model.PriceDetail{
			{Price: decimal.NewFromInt(10), MinimumQuantity: 1, PricelistID: pl.ID},
			{Price: decimal.NewFromInt(9), MinimumQuantity: 10, PricelistID: pl.ID},
		},
		AttributeValues: []model.SkuAttributeValue{{AttributeID: attr.ID, Value: "100"}},
	}
	require.NoError(t, db.Create(sku).Error)
	require.NoError(t, db.Model(&sku.PriceDetails[1]).Update("is_active", false).Error)

	skus := repository.NewSkuRepo(db)
	detail, err := skus.FindDetail(ctx, sku.ID)
	require.NoError(t, err)
	require.Len(t, detail.PriceDetails, 1)
	require.NotNil(t, detail.PriceDetails[0].Pricelist)
	assert.Equal(t, "RETAIL", detail.PriceDetails[0].Pricelist.Code)
	require.Len(t, detail.AttributeValues, 1)
	assert.Equal(t, "Weight", detail.AttributeValues[0].Attribute.Name)

	details := repository.NewPriceDetailRepo(db)
	tier, err := details.FindTier(ctx, sku.ID, pl.ID, 10)
	require.NoError(t, err)
	assert.False(t, tier.IsActive)

	active, err := details.CountActiveBySku(ctx, sku.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), active)

	values := repository.NewSkuAttributeValueRepo(db)
	found, err := values.FindBySku(ctx, sku.ID, []uint{attr.ID, 777})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, skus.DeleteWithDetails(ctx, sku))
	n, err := details.CountByPricelist(ctx, pl.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = values.CountByAttribute(ctx, attr.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAttributeSetRepo_ReplaceLinks(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	root, _, _ := seedTree(t, db)

	color := &model.Attribute{Name: "Color"}
	size := &model.Attribute{Name: "Size"}
	testutil.Seed(t, db, color, size)

	repo := repository.NewAttributeSetRepo(db)
	set := &model.AttributeSet{Name: "Apparel"}
	require.NoError(t, repo.Create(ctx, set))
	require.NoError(t, repo.ReplaceAttributes(ctx, set, []model.Attribute{*color, *size}))
	require.NoError(t, repo.ReplaceCategories(ctx, set, []model.Category{*root}))

	got, err := repo.FindDetail(ctx, set.ID)
	require.NoError(t, err)
	assert.Len(t, got.Attributes, 2)
	assert.Len(t, got.Categories, 1)

	require.NoError(t, repo.ReplaceAttributes(ctx, set, []model.Attribute{*size}))
	got, err = repo.FindDetail(ctx, set.ID)
	require.NoError(t, err)
	require.Len(t, got.Attributes, 1)
	assert.Equal(t, "Size", got.Attributes[0].Name)

	require.NoError(t, repo.DeleteWithLinks(ctx, got))
	_, err = repo.FindByID(ctx, set.ID)
	assert.True(t, repository.IsNotFound(err))
}

func TestImageRepo_ResolveParent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	root, _, _ := seedTree(t, db)

	repo := repository.NewImageRepo(db)
	require.NoError(t, repo.Create(ctx, &model.Image{File: "b.png", ContentType: "categories", ObjectID: root.ID}))
	require.NoError(t, repo.Create(ctx, &model.Image{File: "a.png", ContentType: "categories", ObjectID: root.ID, IsPrimary: true}))

	images, err := repo.ListByObject(ctx, "categories", root.ID)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "a.png", images[0].File)

	parent, err := repo.ResolveParent(ctx, "categories", root.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drinks", parent.(*model.Category).Name)

	_, err = repo.ResolveParent(ctx, "widgets", 1)
	assert.True(t, repository.IsNotFound(err))

	require.NoError(t, repo.DeleteByObject(ctx, "categories", root.ID))
	images, err = repo.ListByObject(ctx, "categories", root.ID)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestUserRepo(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := repository.NewUserRepo(db)

	u := &model.User{Username: "alice", Email: "alice@example.com", Password: "secret1", Name: "Alice"}
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	require.NoError(t, repo.UpdateTokenVersion(ctx, u.ID, "v2"))
	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdateLastLogin(ctx, u.ID, now))

	got, err = repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.TokenVersion)
	require.NotNil(t, got.LastLogin)
	assert.True(t, now.Equal(got.LastLogin.UTC()))

	role := "user"
	items, total, err := repo.List(ctx, repository.UserFilter{Role: &role}.Scope(), repository.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "alice", items[0].Username)
}

func TestStatsRepo(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	_, _, leaf := seedTree(t, db)
	sup := &model.Supplier{Name: "Acme", CompanyType: model.CompanyPT, Contact: "0812345678", Email: "acme@example.com"}
	testutil.Seed(t, db, sup)
	testutil.Seed(t, db, &model.Product{Name: "Green Tea", CategoryID: leaf.ID, SupplierID: sup.ID})

	repo := repository.NewStatsRepo(db)
	stats, err := repo.GetCatalogStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalCategories)
	assert.Equal(t, int64(1), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.TotalSuppliers)

	activity, err := repo.GetCatalogActivity(ctx, time.Now().Add(-24*time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, activity, 1)
	assert.Equal(t, 1, activity[0].Products)
	assert.Equal(t, 0, activity[0].Skus)
}

func TestStore_CreateKeepsInactiveFlag(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := repository.NewCategoryTypeRepo(db)

	active := &model.CategoryType{Name: "Goods"}
	active.IsActive = true
	inactive := &model.CategoryType{Name: "Archive"}
	require.NoError(t, repo.Create(ctx, active))
	require.NoError(t, repo.Create(ctx, inactive))
	assert.False(t, inactive.IsActive)

	got, err := repo.FindByID(ctx, inactive.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	flag := true
	items, total, err := repo.List(ctx, repository.CategoryTypeFilter{IsActive: &flag}.Scope(), repository.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Goods", items[0].Name)
}
