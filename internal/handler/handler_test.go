package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-catalog-api/internal/constraint"
	"go-catalog-api/internal/handler"
	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/service"
	"go-catalog-api/internal/testutil"
	"go-catalog-api/pkg/response"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    *response.Meta  `json:"meta"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Loc []string `json:"loc"`
			Msg string   `json:"msg"`
		} `json:"details"`
	} `json:"error"`
}

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	db := testutil.NewDB(t, constraint.Plugin{})

	userRepo := repository.NewUserRepo(db)
	for _, u := range []*model.User{
		{Username: "admin", Email: "admin@example.com", Password: "admin123", Name: "Admin", Role: model.RoleAdmin},
		{Username: "alice", Email: "alice@example.com", Password: "secret1", Name: "Alice", Role: model.RoleUser},
	} {
		u.IsActive = true
		require.NoError(t, userRepo.Create(context.Background(), u))
	}

	typeRepo := repository.NewCategoryTypeRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	productRepo := repository.NewProductRepo(db)
	skuRepo := repository.NewSkuRepo(db)
	pricelistRepo := repository.NewPricelistRepo(db)
	priceRepo := repository.NewPriceDetailRepo(db)
	attrRepo := repository.NewAttributeRepo(db)
	valueRepo := repository.NewSkuAttributeValueRepo(db)
	imageRepo := repository.NewImageRepo(db)

	app := fiber.New(fiber.Config{ErrorHandler: response.ErrorHandler(nil)})
	handler.Register(app.Group("/api/v1"), handler.Services{
		Auth:          service.NewAuthService(userRepo),
		Users:         service.NewUserService(userRepo, db, nil),
		Dashboard:     service.NewDashboardService(repository.NewStatsRepo(db)),
		CategoryTypes: service.NewCategoryTypeService(typeRepo, db, nil),
		Categories:    service.NewCategoryService(categoryRepo, typeRepo, imageRepo, db, nil),
		Suppliers:     service.NewSupplierService(supplierRepo, db, nil),
		Products:      service.NewProductService(productRepo, categoryRepo, supplierRepo, imageRepo, db, nil),
		Skus:          service.NewSkuService(skuRepo, productRepo, categoryRepo, pricelistRepo, priceRepo, attrRepo, valueRepo, db, nil),
		Pricelists:    service.NewPricelistService(pricelistRepo, priceRepo, db, nil),
		Attributes:    service.NewAttributeService(attrRepo, valueRepo, db, nil),
		AttributeSets: service.NewAttributeSetService(repository.NewAttributeSetRepo(db), attrRepo, categoryRepo, db, nil),
		Images:        service.NewImageService(imageRepo),
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	status, env := do(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{"username": username, "password": password})
	require.Equal(t, http.StatusOK, status)
	var tokens service.TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &tokens))
	return tokens.AccessToken
}

func TestPagination(t *testing.T) {
	app := newApp(t)

	status, env := do(t, app, http.MethodGet, "/api/v1/category-types?skip=-1&limit=5000", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.False(t, env.Success)
	assert.Equal(t, "null", string(env.Data))
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	require.Len(t, env.Error.Details, 2)
	assert.Equal(t, []string{"query", "skip"}, env.Error.Details[0].Loc)
	assert.Equal(t, []string{"query", "limit"}, env.Error.Details[1].Loc)

	token := login(t, app, "alice", "secret1")
	for _, name := range []string{"Goods", "Services", "Digital"} {
		status, _ := do(t, app, http.MethodPost, "/api/v1/category-types", token, fiber.Map{"name": name})
		require.Equal(t, http.StatusCreated, status)
	}

	status, env = do(t, app, http.MethodGet, "/api/v1/category-types?skip=2&limit=2", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
	require.NotNil(t, env.Meta)
	assert.Equal(t, response.Meta{Page: 2, Limit: 2, Total: 3, Pages: 2}, *env.Meta)
	var page []model.CategoryType
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page, 1)
}

func TestAuthRequiredForMutations(t *testing.T) {
	app := newApp(t)

	status, env := do(t, app, http.MethodPost, "/api/v1/suppliers", "", fiber.Map{"name": "Acme"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Could not validate credentials", env.Error.Message)

	status, env = do(t, app, http.MethodPost, "/api/v1/suppliers", "not-a-token", fiber.Map{"name": "Acme"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "HTTP_ERROR_401", env.Error.Code)

	token := login(t, app, "alice", "secret1")
	status, _ = do(t, app, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = do(t, app, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Could not validate credentials", env.Error.Message)
}

func TestUsersRequireAdmin(t *testing.T) {
	app := newApp(t)

	status, env := do(t, app, http.MethodGet, "/api/v1/users", login(t, app, "alice", "secret1"), nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Admin access required", env.Error.Message)

	status, env = do(t, app, http.MethodGet, "/api/v1/users?role=admin", login(t, app, "admin", "admin123"), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), env.Meta.Total)
}

func TestOwnership(t *testing.T) {
	app := newApp(t)
	alice := login(t, app, "alice", "secret1")
	admin := login(t, app, "admin", "admin123")

	status, env := do(t, app, http.MethodPost, "/api/v1/pricelists", admin, fiber.Map{"name": "Retail"})
	require.Equal(t, http.StatusCreated, status)
	var pricelist model.Pricelist
	require.NoError(t, json.Unmarshal(env.Data, &pricelist))
	assert.Equal(t, "RETAIL", pricelist.Code)

	status, env = do(t, app, http.MethodPut, "/api/v1/pricelists/"+itoa(pricelist.ID), alice, fiber.Map{"name": "Wholesale"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "You can only modify your own resources", env.Error.Message)

	status, _ = do(t, app, http.MethodDelete, "/api/v1/pricelists/"+itoa(pricelist.ID), admin, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = do(t, app, http.MethodGet, "/api/v1/pricelists/"+itoa(pricelist.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "HTTP_ERROR_404", env.Error.Code)
}

func TestPathAndBodyErrors(t *testing.T) {
	app := newApp(t)

	status, env := do(t, app, http.MethodGet, "/api/v1/categories/abc", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, []string{"path", "id"}, env.Error.Details[0].Loc)

	status, env = do(t, app, http.MethodGet, "/api/v1/images", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Len(t, env.Error.Details, 2)

	status, env = do(t, app, http.MethodGet, "/api/v1/categories/7/products", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	token := login(t, app, "alice", "secret1")
	status, env = do(t, app, http.MethodPost, "/api/v1/suppliers", token, fiber.Map{
		"name": "Acme", "company_type": "llc", "contact": "12ab", "email": "x@example.com",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Len(t, env.Error.Details, 2)
}

func TestRoles(t *testing.T) {
	app := newApp(t)
	status, env := do(t, app, http.MethodGet, "/api/v1/roles", "", nil)
	require.Equal(t, http.StatusOK, status)
	var roles []model.RoleInfo
	require.NoError(t, json.Unmarshal(env.Data, &roles))
	assert.Len(t, roles, len(model.DefaultRoles))
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
