package handler

import (
	"go-catalog-api/internal/middleware"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/service"
	"go-catalog-api/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type SupplierHandler struct {
	service  service.SupplierService
	products service.ProductService
}

func NewSupplierHandler(s service.SupplierService, products service.ProductService) *SupplierHandler {
	return &SupplierHandler{service: s, products: products}
}

// GET /api/v1/suppliers
func (h *SupplierHandler) List(c *fiber.Ctx) error {
	q := newQuery(c)
	filter := repository.SupplierFilter{
		Name:        q.text("name"),
		Slug:        q.text("slug"),
		CompanyType: q.text("company_type"),
		Email:       q.text("email"),
		Contact:     q.text("contact"),
		IsActive:    q.flag("is_active"),
	}
	page, err := q.page()
	if err != nil {
		return err
	}
	suppliers, total, err := h.service.List(c.UserContext(), filter, page)
	if err != nil {
		return err
	}
	return response.List(c, suppliers, page.Skip, page.Limit, total)
}

// GET /api/v1/suppliers/:id
func (h *SupplierHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	supplier, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.OK(c, supplier)
}

// Products lists the products delivered by a supplier
// GET /api/v1/suppliers/:id/products
func (h *SupplierHandler) Products(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	q := newQuery(c)
	filter := repository.ProductFilter{
		Name:       q.text("name"),
		SupplierID: &id,
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

// POST /api/v1/suppliers
func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	var req service.SupplierCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	supplier, err := h.service.Create(c.UserContext(), &req, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.Created(c, supplier)
}

// PUT /api/v1/suppliers/:id
func (h *SupplierHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.SupplierUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	supplier, err := h.service.Update(c.UserContext(), id, &req, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.OK(c, supplier)
}

// DELETE /api/v1/suppliers/:id
func (h *SupplierHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	supplier, err := h.service.Delete(c.UserContext(), id, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.OK(c, supplier)
}
