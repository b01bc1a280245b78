package handler

import (
	"go-catalog-api/internal/middleware"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/service"
	"go-catalog-api/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
	authService service.AuthService
}

func NewUserHandler(userService service.UserService, authService service.AuthService) *UserHandler {
	return &UserHandler{userService: userService, authService: authService}
}

// GetUsers lists users
// GET /api/v1/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	q := newQuery(c)
	filter := repository.UserFilter{
		Username: q.text("username"),
		Email:    q.text("email"),
		Name:     q.text("name"),
		Role:     q.text("role"),
		IsActive: q.flag("is_active"),
	}
	page, err := q.page()
	if err != nil {
		return err
	}

	users, total, err := h.userService.List(c.UserContext(), filter, page, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.List(c, users, page.Skip, page.Limit, total)
}

// GetUser returns a single user
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userService.Get(c.UserContext(), id, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.OK(c, user)
}

// CreateUser handles user creation
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.UserCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.userService.Create(c.UserContext(), &req, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.Created(c, user)
}

// UpdateUser handles user update
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.UserUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.userService.Update(c.UserContext(), id, &req, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.OK(c, user)
}

// DeleteUser handles user deletion
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userService.Delete(c.UserContext(), id, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.OK(c, user)
}

// GetProfile returns the caller's own account
// GET /api/v1/profile/me
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	user, err := h.authService.Me(c.UserContext(), middleware.CurrentActor(c).ID)
	if err != nil {
		return err
	}
	return response.OK(c, user)
}

// UpdateProfile edits the caller's own account
// PUT /api/v1/profile/me
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req service.UserUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.userService.UpdateProfile(c.UserContext(), &req, middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return response.OK(c, user)
}

// ChangePassword handles password change
// POST /api/v1/profile/change-password
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var req service.ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if _, err := h.userService.ChangePassword(c.UserContext(), &req, middleware.CurrentActor(c)); err != nil {
		return err
	}
	return response.OK(c, fiber.Map{"message": "Password updated successfully"})
}
