package middleware

import (
	"go-catalog-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// RequestLogger copies the request id set by the requestid middleware into the
// user context together with a request-scoped logger.
func RequestLogger(log *zap.Logger) fiber.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		id, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		c.SetUserContext(logger.WithRequestID(c.UserContext(), log, id))
		return c.Next()
	}
}
