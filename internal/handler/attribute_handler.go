package handler

import (
	"go-catalog-api/internal/middleware"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/service"
	"go-catalog-api/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type AttributeHandler struct {
	service service.AttributeService
}

func NewAttributeHandler(s service.AttributeService) *AttributeHandler {
	return &AttributeHandler{service: s}
}

// GET /api/v1/attributes
func (h *AttributeHandler) List(c *fiber.Ctx) error {
	q := newQuery(c)
	filter := repository.AttributeFilter{
		Name:     q.text("name"),
		Code:     q.text("code"),
		DataType: q.text("data_type"),
		IsActive: q.flag("is_active"),
	}
	page, err := q.page()
	if err != nil {
		return err
	}
	attributes, total, err := h.service.List(c.UserContext(), filter, page)
	if err != nil {
		return err
	}
	return response.List(c, attributes, page.Skip, page.Limit, total)
}

// GET /api/v1/attributes/:id
func (h *AttributeHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	attribute, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.OK(c, attribute)
}

// POST /api/v1/attributes
func (h *AttributeHandler) Create(c *fiber.Ctx) error {
	var req service.AttributeCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	attribute, err := h.service.Create(c.UserContext(), &req, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.Created(c, attribute)
}

// PUT /api/v1/attributes/:id
func (h *AttributeHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.AttributeUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	attribute, err := h.service.Update(c.UserContext(), id, &req, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.OK(c, attribute)
}

// DELETE /api/v1/attributes/:id
func (h *AttributeHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	attribute, err := h.service.Delete(c.UserContext(), id, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.OK(c, attribute)
}

type AttributeSetHandler struct {
	service service.AttributeSetService
}

func NewAttributeSetHandler(s service.AttributeSetService) *AttributeSetHandler {
	return &AttributeSetHandler{service: s}
}

// GET /api/v1/attribute-sets
func (h *AttributeSetHandler) List(c *fiber.Ctx) error {
	q := newQuery(c)
	filter := repository.AttributeSetFilter{
		Name:     q.text("name"),
		Slug:     q.text("slug"),
		IsActive: q.flag("is_active"),
	}
	page, err := q.page()
	if err != nil {
		return err
	}
	sets, total, err := h.service.List(c.UserContext(), filter, page)
	if err != nil {
		return err
	}
	return response.List(c, sets, page.Skip, page.Limit, total)
}

// GET /api/v1/attribute-sets/:id
func (h *AttributeSetHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	set, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.OK(c, set)
}

// POST /api/v1/attribute-sets
func (h *AttributeSetHandler) Create(c *fiber.Ctx) error {
	var req service.AttributeSetCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	set, err := h.service.Create(c.UserContext(), &req, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.Created(c, set)
}

// PUT /api/v1/attribute-sets/:id
func (h *AttributeSetHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.AttributeSetUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	set, err := h.service.Update(c.UserContext(), id, &req, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.OK(c, set)
}

// DELETE /api/v1/attribute-sets/:id
func (h *AttributeSetHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	set, err := h.service.Delete(c.UserContext(), id, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.OK(c, set)
}
