package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/ddanshin/storozh/core"
)

// Adapter mounts the auth surface on a fiber application.
type Adapter struct {
	app  *fiber.App
	auth core.AuthHandler
}

var _ core.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{app: app}
}

func (a *Adapter) RegisterRoutes(handler core.AuthHandler, basePath string) error {
	a.auth = handler

	api := a.app.Group(basePath)

	// Login routes
	api.Post("/github-oauth", a.githubLogin)
	api.Post("/yandex-oauth", a.yandexLogin)

	// Token probe, never errors
	api.Get("/status", a.status)

	// Protected routes
	api.Get("/me", a.me, a.RequireAuth)
	api.Post("/logout", a.logout)

	return nil
}
