package handler

import (
	"go-catalog-api/internal/middleware"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/service"
	"go-catalog-api/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.ProductService
	skus    service.SkuService
}

func NewProductHandler(s service.ProductService, skus service.SkuService) *ProductHandler {
	return &ProductHandler{service: s, skus: skus}
}

// GET /api/v1/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	q := newQuery(c)
	filter := repository.ProductFilter{
		Name:       q.text("name"),
		Slug:       q.text("slug"),
		CategoryID: q.id("category_id"),
		SupplierID: q.id("supplier_id"),
		IsActive:   q.flag("is_active"),
	}
	page, err := q.page()
	if err != nil {
		return err
	}
	products, total, err := h.service.List(c.UserContext(), filter, page)
	if err != nil {
		return err
	}
	return response.List(c, products, page.Skip, page.Limit, total)
}

// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.OK(c, product)
}

// Skus lists the SKUs of a product
// GET /api/v1/products/:id/skus
func (h *ProductHandler) Skus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	q := newQuery(c)
	filter := repository.SkuFilter{
		Name:      q.text("name"),
		ProductID: &id,
		IsActive:  q.flag("is_active"),
	}
	page, err := q.page()
	if err != nil {
		return err
	}
	if _, err := h.service.Get(c.UserContext(), id); err != nil {
		return err
	}
	skus, total, err := h.skus.List(c.UserContext(), filter, page)
	if err != nil {
		return err
	}
	return response.List(c, skus, page.Skip, page.Limit, total)
}

// POST /api/v1/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req service.ProductCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	product, err := h.service.Create(c.UserContext(), &req, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.Created(c, product)
}

// PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.ProductUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	product, err := h.service.Update(c.UserContext(), id, &req, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.OK(c, product)
}

// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.service.Delete(c.UserContext(), id, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.OK(c, product)
}
