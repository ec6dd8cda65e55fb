package fiber

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/ddanshin/storozh/core"
)

func (a *Adapter) githubLogin(c fiber.Ctx) error {
	return a.providerLogin(c, "github")
}

func (a *Adapter) yandexLogin(c fiber.Ctx) error {
	return a.providerLogin(c, "yandex")
}

func (a *Adapter) providerLogin(c fiber.Ctx, provider string) error {
	var payload core.ProviderPayload
	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	result, err := a.auth.LoginWithProvider(c.Context(), provider, payload)
	if err != nil {
		return handleAuthError(c, err)
	}

	return c.Status(http.StatusOK).JSON(result)
}

// status reports whether the request carries a usable token. It never fails:
// any verification or lookup problem collapses to an unauthenticated answer.
func (a *Adapter) status(c fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(a.auth.Status(c.Context(), extractToken(c)))
}

// me returns the caller's directory row plus the zone permissions computed
// from it. The directory, not the token, is the source of truth here.
func (a *Adapter) me(c fiber.Ctx) error {
	principal, ok := c.Locals("principal").(*core.Principal)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"error": core.ErrUnauthenticated.Error(),
		})
	}

	canModerate := a.auth.AccessPolicy().CanAccessModeratorZone(*principal)
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"authenticated": true,
		"user": fiber.Map{
			"id":                     principal.ID,
			"username":               principal.Username,
			"email":                  principal.Email,
			"role":                   principal.Role,
			"auth_method":            principal.AuthMethod,
			"cabinet_access_enabled": principal.CabinetAccessEnabled,
			"can_access_moderator":   canModerate,
			"can_switch_zones":       canModerate,
		},
	})
}

// logout is a stateless acknowledgement. Tokens are self-contained, so the
// client discards its copy; the auth_token cookie is expired as a courtesy.
func (a *Adapter) logout(c fiber.Ctx) error {
	c.ClearCookie("auth_token")
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Successfully logged out",
	})
}

// extractToken extracts the authentication token from the request.
// Checks the auth_token cookie first, then falls back to the
// Authorization header (Bearer token).
func extractToken(c fiber.Ctx) string {
	if cookie := c.Cookies("auth_token"); cookie != "" {
		return cookie
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ""
}

// handleAuthError maps auth errors to appropriate HTTP responses
func handleAuthError(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// mapErrorToStatus maps core error types to HTTP status codes
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, core.ErrInvalidToken),
		errors.Is(err, core.ErrUnauthenticated):
		return http.StatusUnauthorized

	case errors.Is(err, core.ErrProviderRejected),
		errors.Is(err, core.ErrProviderTokenRequired),
		errors.Is(err, core.ErrEmailRequired),
		errors.Is(err, core.ErrInvalidEmail),
		errors.Is(err, core.ErrUnknownProvider),
		errors.Is(err, core.ErrAccountInactive):
		return http.StatusBadRequest

	case errors.Is(err, core.ErrCabinetAccessDenied):
		return http.StatusForbidden

	default:
		return http.StatusInternalServerError
	}
}
