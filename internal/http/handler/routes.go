package handler

import (
	"github.com/gofiber/fiber/v2"

	"acadrepo/internal/http/middleware"
	"acadrepo/internal/model"
	"acadrepo/internal/service"
)

// Deps carries everything the HTTP surface dispatches to.
type Deps struct {
	// DB backs /health; leave nil when running without a database.
	DB Pinger

	Products service.ContentService[*model.Product]
	News     service.ContentService[*model.News]
	Ensino   service.ContentService[*model.Ensino]
	Extensao service.ContentService[*model.Extensao]

	Auth     service.AuthService
	Metadata service.MetadataService
	Stats    service.StatsService

	// LoginLimiter throttles /auth/login; nil disables throttling.
	LoginLimiter fiber.Handler
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Application
// routes live under /api; health probes are also served at the root.
func RegisterRoutes(app *fiber.App, d Deps) {
	v := NewValidator()
	requireAuth := middleware.RequireAuth(d.Auth)

	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")
	api.Get("/health", HealthCheck(d.DB))
	api.Get("/healthz", LivenessProbe())

	ah := &authHandler{svc: d.Auth, validate: v}
	limiter := d.LoginLimiter
	if limiter == nil {
		limiter = func(c *fiber.Ctx) error { return c.Next() }
	}
	api.Post("/auth/login", limiter, ah.login)
	api.Post("/auth/register", requireAuth, ah.register)
	api.Post("/auth/change-password", requireAuth, ah.changePassword)

	api.Get("/doi-metadata/*", doiMetadata(d.Metadata))
	api.Get("/stats", stats(d.Stats))

	products := newContentHandler(d.Products, productBinding, v)
	news := newContentHandler(d.News, newsBinding, v)
	ensino := newContentHandler(d.Ensino, ensinoBinding, v)
	extensao := newContentHandler(d.Extensao, extensaoBinding, v)

	products.mount(api, requireAuth)
	news.mount(api, requireAuth)
	ensino.mount(api, requireAuth)
	extensao.mount(api, requireAuth)

	api.Get("/download/:id/:role", products.download)
	api.Get("/download-ensino/:id", ensino.downloadRole(model.RoleMaterial))
	api.Get("/download-extensao/:id", extensao.downloadRole(model.RoleMaterial))
}
