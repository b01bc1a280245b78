package handler

import (
	"go-catalog-api/internal/middleware"
	"go-catalog-api/internal/service"
	"go-catalog-api/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	tokens, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return response.OK(c, tokens)
}

// Refresh exchanges a refresh token for a new token pair
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req service.RefreshRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	tokens, err := h.authService.Refresh(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return response.OK(c, tokens)
}

// Logout invalidates every token issued to the caller
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	actor := middleware.CurrentActor(c)
	if err := h.authService.Logout(c.UserContext(), actor.ID); err != nil {
		return err
	}
	return response.OK(c, fiber.Map{"message": "Successfully logged out"})
}

// Me returns the authenticated user
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.authService.Me(c.UserContext(), middleware.CurrentActor(c).ID)
	if err != nil {
		return err
	}
	return response.OK(c, user)
}
