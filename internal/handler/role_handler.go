package handler

import (
	"go-catalog-api/internal/model"
	"go-catalog-api/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type RoleHandler struct {
	roles []model.RoleInfo
}

func NewRoleHandler(roles []model.RoleInfo) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// GetRoles returns all available roles
// GET /api/v1/roles
func (h *RoleHandler) GetRoles(c *fiber.Ctx) error {
	return response.OK(c, h.roles)
}
