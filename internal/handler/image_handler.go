package handler

import (
	"go-catalog-api/internal/service"
	"go-catalog-api/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type ImageHandler struct {
	service service.ImageService
}

func NewImageHandler(s service.ImageService) *ImageHandler {
	return &ImageHandler{service: s}
}

// List returns the images attached to one object
// GET /api/v1/images?content_type=category&object_id=1
func (h *ImageHandler) List(c *fiber.Ctx) error {
	q := newQuery(c)
	contentType := q.text("content_type")
	objectID := q.id("object_id")
	if contentType == nil {
		q.details = append(q.details, queryDetail("content_type", "Field required", "missing"))
	}
	if objectID == nil && c.Query("object_id") == "" {
		q.details = append(q.details, queryDetail("object_id", "Field required", "missing"))
	}
	page, err := q.page()
	if err != nil {
		return err
	}

	images, total, err := h.service.ListByObject(c.UserContext(), *contentType, *objectID, page)
	if err != nil {
		return err
	}
	return response.List(c, images, page.Skip, page.Limit, total)
}

// Get returns an image with its parent object
// GET /api/v1/images/:id
func (h *ImageHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	image, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.OK(c, image)
}
