package handler

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"storesite/internal/http/middleware"
	"storesite/internal/model"
	"storesite/internal/prerender"
	"storesite/internal/storage"
)

// SiteHandler serves the prerendered site. Lookup order: a file under dist,
// a prerendered dist/<path>/index.html, an on-demand render from the current
// catalog, then the SPA shell.
type SiteHandler struct {
	dist     string
	template string
	company  *model.CompanyProfile
	catalog  CatalogSource
	log      zerolog.Logger
}

// NewSiteHandler creates a SiteHandler. template is the SPA shell on disk.
func NewSiteHandler(dist, template string, c *model.CompanyProfile, src CatalogSource, log zerolog.Logger) *SiteHandler {
	return &SiteHandler{dist: dist, template: template, company: c, catalog: src, log: log}
}

// Handle is the catch-all GET handler.
func (h *SiteHandler) Handle(c *fiber.Ctx) error {
	p := path.Clean("/" + c.Path())
	if p == "/api" || strings.HasPrefix(p, "/api/") {
		return fiber.ErrNotFound
	}

	rel := strings.TrimPrefix(p, "/")
	if rel != "" && h.isFile(rel) {
		return h.sendFile(c, rel)
	}
	if idx := prerender.RouteFile(p); h.isFile(idx) {
		return h.sendFile(c, idx)
	}

	if doc, ok := h.renderOnDemand(p, middleware.RequestIDFrom(c)); ok {
		c.Set("X-Prerender", "on-demand")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Type("html", "utf-8")
		return c.Send(doc)
	}

	// Missing assets must not be answered with the shell.
	if path.Ext(p) != "" {
		return fiber.ErrNotFound
	}
	shell, err := os.ReadFile(h.template)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fiber.ErrNotFound
		}
		return err
	}
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Type("html", "utf-8")
	return c.Send(shell)
}

func (h *SiteHandler) renderOnDemand(p, requestID string) ([]byte, bool) {
	cat := h.catalog.Catalog()
	if cat == nil {
		return nil, false
	}
	rt, ok := prerender.Find(prerender.Routes(cat, h.company), p)
	if !ok {
		return nil, false
	}
	log := h.log.With().Str("request_id", requestID).Logger()
	tpl, err := os.ReadFile(h.template)
	if err != nil {
		log.Warn().Err(err).Str("event", "render_on_demand_failed").Str("route", rt.Path).Msg("shell unreadable")
		return nil, false
	}
	doc, err := prerender.NewRenderer(tpl, h.company, log).Render(rt)
	if err != nil {
		log.Warn().Err(err).Str("event", "render_on_demand_failed").Str("route", rt.Path).Msg("render failed")
		return nil, false
	}
	return doc, true
}

func (h *SiteHandler) isFile(rel string) bool {
	fi, err := os.Stat(filepath.Join(h.dist, filepath.FromSlash(rel)))
	return err == nil && fi.Mode().IsRegular()
}

func (h *SiteHandler) sendFile(c *fiber.Ctx, rel string) error {
	body, err := os.ReadFile(filepath.Join(h.dist, filepath.FromSlash(rel)))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, storage.ContentType(rel))
	c.Set(fiber.HeaderCacheControl, storage.CacheControl(rel))
	return c.Send(body)
}
