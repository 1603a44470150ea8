package handler

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storesite/internal/service"
)

// Deps are the collaborators of the HTTP layer. DB and Builds may be nil when
// the site runs without Postgres or object storage.
type Deps struct {
	DB      *sql.DB
	Builds  service.BuildService
	Catalog CatalogSource
	Site    *SiteHandler
	Now     func() time.Time
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// The site catch-all is registered last.
func RegisterRoutes(app *fiber.App, d Deps) {
	now := d.Now
	if now == nil {
		now = time.Now
	}

	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", Liveness())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	if d.Builds != nil {
		api.Get("/builds", ListBuilds(d.Builds))
		api.Get("/builds/:id", GetBuild(d.Builds))
	} else {
		api.Get("/builds*", storageDisabled)
	}
	api.Get("/locations/:slug/availability", LocationAvailability(d.Catalog, now))

	if d.Site != nil {
		app.Get("/*", d.Site.Handle)
	}
}

func storageDisabled(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusServiceUnavailable, "STORAGE_DISABLED", "build publishing is not configured")
}
