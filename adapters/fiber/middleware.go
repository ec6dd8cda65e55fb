package fiber

import (
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/ddanshin/storozh/core"
)

// RequireAuth validates the request token against the directory and stores
// the resolved principal in the context for downstream handlers.
func (a *Adapter) RequireAuth(c fiber.Ctx) error {
	token := extractToken(c)
	if token == "" {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"error": core.ErrUnauthenticated.Error(),
		})
	}

	principal, err := a.auth.Resolve(c.Context(), token)
	if err != nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Locals("principal", principal)

	return c.Next()
}
