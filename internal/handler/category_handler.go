package handler

import (
	"go-catalog-api/internal/middleware"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/service"
	"go-catalog-api/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type CategoryTypeHandler struct {
	service service.CategoryTypeService
}

func NewCategoryTypeHandler(s service.CategoryTypeService) *CategoryTypeHandler {
	return &CategoryTypeHandler{service: s}
}

// GET /api/v1/category-types
func (h *CategoryTypeHandler) List(c *fiber.Ctx) error {
	q := newQuery(c)
	filter := repository.CategoryTypeFilter{
		Name:     q.text("name"),
		Slug:     q.text("slug"),
		IsActive: q.flag("is_active"),
	}
	page, err := q.page()
	if err != nil {
		return err
	}
	types, total, err := h.service.List(c.UserContext(), filter, page)
	if err != nil {
		return err
	}
	return response.List(c, types, page.Skip, page.Limit, total)
}

// GET /api/v1/category-types/:id
func (h *CategoryTypeHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ct, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.OK(c, ct)
}

// POST /api/v1/category-types
func (h *CategoryTypeHandler) Create(c *fiber.Ctx) error {
	var req service.CategoryTypeCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ct, err := h.service.Create(c.UserContext(), &req, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.Created(c, ct)
}

// PUT /api/v1/category-types/:id
func (h *CategoryTypeHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.CategoryTypeUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ct, err := h.service.Update(c.UserContext(), id, &req, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.OK(c, ct)
}

// DELETE /api/v1/category-types/:id
func (h *CategoryTypeHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ct, err := h.service.Delete(c.UserContext(), id, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.OK(c, ct)
}

type CategoryHandler struct {
	service  service.CategoryService
	products service.ProductService
}

func NewCategoryHandler(s service.CategoryService, products service.ProductService) *CategoryHandler {
	return &CategoryHandler{service: s, products: products}
}

// List returns categories with their full path and images
// GET /api/v1/categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	q := newQuery(c)
	filter := repository.CategoryFilter{
		Name:           q.text("name"),
		Slug:           q.text("slug"),
		CategoryTypeID: q.id("category_type_id"),
		ParentID:       q.id("parent_id"),
		IsActive:       q.flag("is_active"),
	}
	page, err := q.page()
	if err != nil {
		return err
	}
	categories, total, err := h.service.List(c.UserContext(), filter, page)
	if err != nil {
		return err
	}
	return response.List(c, categories, page.Skip, page.Limit, total)
}

// GET /api/v1/categories/:id
func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	category, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.OK(c, category)
}

// Children lists the direct children of a category
// GET /api/v1/categories/:id/children
func (h *CategoryHandler) Children(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	page, err := parsePage(c)
	if err != nil {
		return err
	}
	children, total, err := h.service.Children(c.UserContext(), id, page)
	if err != nil {
		return err
	}
	return response.List(c, children, page.Skip, page.Limit, total)
}

// Products lists the products filed directly under a category
// GET /api/v1/categories/:id/products
func (h *CategoryHandler) Products(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	q := newQuery(c)
	filter := repository.ProductFilter{
		Name:       q.text("name"),
		CategoryID: &id,
		IsActive:   q.flag("is_active"),
	}
	page, err := q.page()
	if err != nil {
		return err
	}
	if _, err := h.service.Get(c.UserContext(), id); err != nil {
		return err
	}
	products, total, err := h.products.List(c.UserContext(), filter, page)
	if err != nil {
		return err
	}
	return response.List(c, products, page.Skip, page.Limit, total)
}

// POST /api/v1/categories
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req service.CategoryCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	category, err := h.service.Create(c.UserContext(), &req, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.Created(c, category)
}

// PUT /api/v1/categories/:id
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.CategoryUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	category, err := h.service.Update(c.UserContext(), id, &req, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.OK(c, category)
}

// DELETE /api/v1/categories/:id
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	category, err := h.service.Delete(c.UserContext(), id, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.OK(c, category)
}
