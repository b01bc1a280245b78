package handler

import (
	"strconv"

	"go-catalog-api/internal/service"
	"go-catalog-api/pkg/apperror"
	"go-catalog-api/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetCatalogActivity returns products and SKUs created per day
// GET /api/v1/dashboard/activity?days=7
func (h *DashboardHandler) GetCatalogActivity(c *fiber.Ctx) error {
	days := 7
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return apperror.Validation(queryDetail("days", "Input should be a valid integer", "int_parsing"))
		}
		days = n
	}

	data, err := h.service.GetCatalogActivity(c.UserContext(), days)
	if err != nil {
		return err
	}
	return response.OK(c, fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetDashboardStats returns overview statistics
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetCatalogStats(c.UserContext())
	if err != nil {
		return err
	}
	return response.OK(c, stats)
}
