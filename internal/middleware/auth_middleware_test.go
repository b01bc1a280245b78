package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-catalog-api/internal/middleware"
	"go-catalog-api/internal/model"
	"go-catalog-api/pkg/response"
)

func withRole(role model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(7))
		c.Locals("user_name", "kim")
		c.Locals("user_role", role)
		return c.Next()
	}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		role   model.Role
		guard  fiber.Handler
		status int
	}{
		{model.RoleAdmin, middleware.RequireAdmin(), http.StatusOK},
		{model.RoleSystem, middleware.RequireAdmin(), http.StatusOK},
		{model.RoleManager, middleware.RequireAdmin(), http.StatusForbidden},
		{model.RoleManager, middleware.RequireManager(), http.StatusOK},
		{model.RoleUser, middleware.RequireManager(), http.StatusForbidden},
	}
	for _, tc := range cases {
		app := fiber.New(fiber.Config{ErrorHandler: response.ErrorHandler(nil)})
		app.Get("/", withRole(tc.role), tc.guard, func(c *fiber.Ctx) error {
			actor := middleware.CurrentActor(c)
			assert.Equal(t, uint(7), actor.ID)
			assert.Equal(t, tc.role, actor.Role)
			return c.SendStatus(http.StatusOK)
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, "role %s", tc.role)
	}
}

func TestRequireRole_Unauthenticated(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: response.ErrorHandler(nil)})
	app.Get("/", middleware.RequireAdmin(), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCurrentActor_Public(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.Zero(t, middleware.CurrentActor(c))
		return c.SendStatus(http.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
