// Package seo writes per-route head metadata and crawler-visible fallback
// markup into the single-page-app shell.
package seo

import (
	"strings"

	"storesite/internal/model"
	"storesite/internal/schema"
)

// PageMeta is what a route says about itself.
type PageMeta struct {
	Title       string
	Description string
	Path        string
	Image       string
	Type        string
	NoIndex     bool
}

// Head is the fully resolved set of head tags for one document.
type Head struct {
	Title       string
	Description string
	Canonical   string
	Image       string
	Type        string
	SiteName    string
	NoIndex     bool
}

// CanonicalPath normalizes a route path: leading slash, trailing slash except
// for the root, no query or fragment.
func CanonicalPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = "/" + strings.Trim(p, "/")
	if p == "/" {
		return p
	}
	return p + "/"
}

// Resolve fills defaults from the company profile: title suffix, description,
// share image and the canonical URL.
func (m PageMeta) Resolve(c *model.CompanyProfile) Head {
	title := m.Title
	switch {
	case title == "":
		title = c.Name
		if c.Tagline != "" {
			title += " | " + c.Tagline
		}
	case !strings.Contains(title, c.Name):
		title += " | " + c.Name
	}
	ogType := m.Type
	if ogType == "" {
		ogType = "website"
	}
	desc := m.Description
	if desc == "" {
		desc = c.Description
	}
	image := m.Image
	if image == "" {
		image = c.Image
	}
	return Head{
		Title:       title,
		Description: desc,
		Canonical:   strings.TrimRight(c.URL, "/") + CanonicalPath(m.Path),
		Image:       schema.AbsURL(c.URL, image),
		Type:        ogType,
		SiteName:    c.Name,
		NoIndex:     m.NoIndex,
	}
}
