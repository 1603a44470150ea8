package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"storesite/internal/availability"
	"storesite/internal/model"
)

// CatalogSource returns the catalog currently served.
type CatalogSource interface {
	Catalog() *model.Catalog
}

// LocationAvailability godoc
// @Summary Availability of every menu item and service at one store
// @Tags locations
// @Produce json
// @Param slug path string true "location slug"
// @Param at query string false "RFC3339 instant, defaults to now"
// @Success 200 {object} availability.Board
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/locations/{slug}/availability [get]
func LocationAvailability(src CatalogSource, now func() time.Time) fiber.Handler {
	return func(c *fiber.Ctx) error {
		at := now()
		if raw := c.Query("at"); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_TIME", "at must be an RFC3339 timestamp")
			}
			at = t
		}

		cat := src.Catalog()
		if cat == nil {
			return writeError(c, fiber.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "catalog not loaded yet")
		}
		loc := cat.LocationBySlug(c.Params("slug"))
		if loc == nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "location not found")
		}
		return c.JSON(availability.BoardFor(cat, *loc, at))
	}
}
