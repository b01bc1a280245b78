package handler

import (
	"go-catalog-api/internal/middleware"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/service"
	"go-catalog-api/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type SkuHandler struct {
	service service.SkuService
}

func NewSkuHandler(s service.SkuService) *SkuHandler {
	return &SkuHandler{service: s}
}

// List returns SKUs with their active price details and attribute values
// GET /api/v1/skus
func (h *SkuHandler) List(c *fiber.Ctx) error {
	q := newQuery(c)
	filter := repository.SkuFilter{
		Name:      q.text("name"),
		Slug:      q.text("slug"),
		SkuNumber: q.text("sku_number"),
		ProductID: q.id("product_id"),
		IsActive:  q.flag("is_active"),
	}
	page, err := q.page()
	if err != nil {
		return err
	}
	skus, total, err := h.service.List(c.UserContext(), filter, page)
	if err != nil {
		return err
	}
	return response.List(c, skus, page.Skip, page.Limit, total)
}

// GET /api/v1/skus/:id
func (h *SkuHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	sku, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.OK(c, sku)
}

// POST /api/v1/skus
func (h *SkuHandler) Create(c *fiber.Ctx) error {
	var req service.SkuCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	sku, err := h.service.Create(c.UserContext(), &req, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.Created(c, sku)
}

// Update applies price detail and attribute value changes in one transaction
// PUT /api/v1/skus/:id
func (h *SkuHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.SkuUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	sku, err := h.service.Update(c.UserContext(), id, &req, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.OK(c, sku)
}

// DELETE /api/v1/skus/:id
func (h *SkuHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	sku, err := h.service.Delete(c.UserContext(), id, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.OK(c, sku)
}
