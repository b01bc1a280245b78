package handler

import (
	"go-catalog-api/internal/middleware"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/service"
	"go-catalog-api/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type PricelistHandler struct {
	service service.PricelistService
}

func NewPricelistHandler(s service.PricelistService) *PricelistHandler {
	return &PricelistHandler{service: s}
}

// GET /api/v1/pricelists
func (h *PricelistHandler) List(c *fiber.Ctx) error {
	q := newQuery(c)
	filter := repository.PricelistFilter{
		Name:     q.text("name"),
		Code:     q.text("code"),
		IsActive: q.flag("is_active"),
	}
	page, err := q.page()
	if err != nil {
		return err
	}
	pricelists, total, err := h.service.List(c.UserContext(), filter, page)
	if err != nil {
		return err
	}
	return response.List(c, pricelists, page.Skip, page.Limit, total)
}

// GET /api/v1/pricelists/:id
func (h *PricelistHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	pricelist, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.OK(c, pricelist)
}

// POST /api/v1/pricelists
func (h *PricelistHandler) Create(c *fiber.Ctx) error {
	var req service.PricelistCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	pricelist, err := h.service.Create(c.UserContext(), &req, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.Created(c, pricelist)
}

// PUT /api/v1/pricelists/:id
func (h *PricelistHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.PricelistUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	pricelist, err := h.service.Update(c.UserContext(), id, &req, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.OK(c, pricelist)
}

// DELETE /api/v1/pricelists/:id
func (h *PricelistHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	pricelist, err := h.service.Delete(c.UserContext(), id, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.OK(c, pricelist)
}
