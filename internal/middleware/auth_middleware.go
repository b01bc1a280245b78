package middleware

import (
	"strings"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/service"
	"go-catalog-api/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

const (
	localUserID   = "user_id"
	localUserName = "user_name"
	localUserRole = "user_role"
)

// RequireAuth validates the bearer token against the current session of an
// active user and stores the caller in the request locals.
func RequireAuth(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Extract token from "Bearer <token>"
		parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return service.ErrCouldNotValidate
		}

		user, err := authService.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			return err
		}

		c.Locals(localUserID, user.ID)
		c.Locals(localUserName, user.Username)
		c.Locals(localUserRole, user.Role)

		return c.Next()
	}
}

// ErrManagerRequired rejects plain users from management routes.
var ErrManagerRequired = apperror.Forbidden("Manager or Admin access required")

// RequireRole rejects callers whose role is not listed with denied. It must
// run after RequireAuth.
func RequireRole(denied error, roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(localUserRole).(model.Role)
		if !ok {
			return service.ErrCouldNotValidate
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return denied
	}
}

func RequireAdmin() fiber.Handler {
	return RequireRole(service.ErrAdminRequired, model.RoleAdmin, model.RoleSystem)
}

func RequireManager() fiber.Handler {
	return RequireRole(ErrManagerRequired, model.RoleAdmin, model.RoleManager, model.RoleSystem)
}

// CurrentActor returns the authenticated caller, or the zero Actor on public routes.
func CurrentActor(c *fiber.Ctx) service.Actor {
	id, _ := c.Locals(localUserID).(uint)
	name, _ := c.Locals(localUserName).(string)
	role, _ := c.Locals(localUserRole).(model.Role)
	return service.Actor{ID: id, Username: name, Role: role}
}
