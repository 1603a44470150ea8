// Package prerender turns the catalog into static per-route HTML documents,
// a sitemap, robots.txt and the service-worker precache list.
package prerender

import (
	"fmt"

	"storesite/internal/availability"
	"storesite/internal/model"
	"storesite/internal/schema"
	"storesite/internal/seo"
)

// Sitemap change frequencies.
const (
	FreqDaily   = "daily"
	FreqWeekly  = "weekly"
	FreqMonthly = "monthly"
)

// Route is one prerenderable page.
type Route struct {
	Path       string
	Meta       seo.PageMeta
	Page       seo.Page
	Blocks     []any
	Priority   float64
	ChangeFreq string
}

var (
	crumbHome      = schema.Crumb{Name: "Home", Path: "/"}
	crumbMenu      = schema.Crumb{Name: "Menu", Path: "/menu/"}
	crumbServices  = schema.Crumb{Name: "Services", Path: "/services/"}
	crumbLocations = schema.Crumb{Name: "Locations", Path: "/locations/"}
)

// Routes derives the route table from the catalog. Records without a slug
// get no detail page.
func Routes(cat *model.Catalog, c *model.CompanyProfile) []Route {
	base := func(kind seo.Kind, heading, intro string, crumbs ...schema.Crumb) seo.Page {
		return seo.Page{Kind: kind, Company: c, Heading: heading, Intro: intro, Crumbs: crumbs}
	}
	crumbBlock := func(crumbs ...schema.Crumb) *schema.BreadcrumbList {
		return schema.Breadcrumb(c.URL, crumbs)
	}

	routes := make([]Route, 0, 6+len(cat.Menu)+len(cat.Services)+len(cat.Locations))

	home := base(seo.KindHome, c.Name, c.Description)
	home.Menu, home.Services, home.Locations = cat.Menu, cat.Services, cat.Locations
	routes = append(routes, Route{
		Path:       "/",
		Meta:       seo.PageMeta{Path: "/", Description: c.Description},
		Page:       home,
		Blocks:     []any{schema.Organization(c), schema.WebSite(c)},
		Priority:   1.0,
		ChangeFreq: FreqDaily,
	})

	menu := base(seo.KindMenu, "Menu", fmt.Sprintf("Fresh food and drinks at every %s.", c.Name), crumbHome, crumbMenu)
	menu.Menu = cat.Menu
	routes = append(routes, Route{
		Path:       "/menu/",
		Meta:       seo.PageMeta{Title: "Menu", Description: fmt.Sprintf("Coffee, hot food, cold drinks and snacks at %s.", c.Name), Path: "/menu/"},
		Page:       menu,
		Blocks:     []any{schema.Menu(cat.Menu, c), crumbBlock(crumbHome, crumbMenu)},
		Priority:   0.9,
		ChangeFreq: FreqDaily,
	})
	for i := range cat.Menu {
		it := &cat.Menu[i]
		if it.Slug == "" {
			continue
		}
		path := "/menu/" + it.Slug + "/"
		crumbs := []schema.Crumb{crumbHome, crumbMenu, {Name: it.Name, Path: path}}
		p := base(seo.KindMenuItem, it.Name, it.Description, crumbs...)
		p.MenuItem = it
		for _, loc := range cat.Locations {
			if availability.OffersMenuItem(*it, loc) {
				p.Locations = append(p.Locations, loc)
			}
		}
		routes = append(routes, Route{
			Path:       path,
			Meta:       seo.PageMeta{Title: it.Name, Description: firstNonEmpty(it.Description, it.Name+" at "+c.Name+"."), Path: path, Image: it.Image, Type: "product"},
			Page:       p,
			Blocks:     []any{schema.MenuItem(it, c), crumbBlock(crumbs...)},
			Priority:   0.7,
			ChangeFreq: FreqWeekly,
		})
	}

	services := base(seo.KindServices, "Services", "Everyday conveniences under one roof.", crumbHome, crumbServices)
	services.Services = cat.Services
	links := make([]schema.Link, 0, len(cat.Services))
	for _, s := range cat.Services {
		if s.Slug != "" {
			links = append(links, schema.Link{Name: s.Name, URL: schema.AbsURL(c.URL, "/services/"+s.Slug+"/")})
		}
	}
	routes = append(routes, Route{
		Path:       "/services/",
		Meta:       seo.PageMeta{Title: "Services", Description: fmt.Sprintf("In-store services available at %s locations.", c.Name), Path: "/services/"},
		Page:       services,
		Blocks:     []any{schema.ItemList("Services", links), crumbBlock(crumbHome, crumbServices)},
		Priority:   0.8,
		ChangeFreq: FreqWeekly,
	})
	for i := range cat.Services {
		s := &cat.Services[i]
		if s.Slug == "" {
			continue
		}
		path := "/services/" + s.Slug + "/"
		crumbs := []schema.Crumb{crumbHome, crumbServices, {Name: s.Name, Path: path}}
		p := base(seo.KindService, s.Name, s.Description, crumbs...)
		p.Service = s
		for _, loc := range cat.Locations {
			if availability.OffersService(*s, loc) {
				p.Locations = append(p.Locations, loc)
			}
		}
		routes = append(routes, Route{
			Path:       path,
			Meta:       seo.PageMeta{Title: s.Name, Description: firstNonEmpty(s.Description, s.Name+" at "+c.Name+"."), Path: path, Image: s.Image},
			Page:       p,
			Blocks:     []any{schema.Service(s, c), crumbBlock(crumbs...)},
			Priority:   0.6,
			ChangeFreq: FreqMonthly,
		})
	}

	locations := base(seo.KindLocations, "Locations", "Find a store near you.", crumbHome, crumbLocations)
	locations.Locations = cat.Locations
	stores := make([]any, 0, len(cat.Locations)+1)
	stores = append(stores, crumbBlock(crumbHome, crumbLocations))
	for i := range cat.Locations {
		stores = append(stores, schema.LocalBusiness(&cat.Locations[i], c))
	}
	routes = append(routes, Route{
		Path:       "/locations/",
		Meta:       seo.PageMeta{Title: "Locations", Description: fmt.Sprintf("Store hours, addresses and directions for every %s.", c.Name), Path: "/locations/"},
		Page:       locations,
		Blocks:     stores,
		Priority:   0.9,
		ChangeFreq: FreqWeekly,
	})
	for i := range cat.Locations {
		loc := &cat.Locations[i]
		if loc.Slug == "" {
			continue
		}
		path := "/locations/" + loc.Slug + "/"
		crumbs := []schema.Crumb{crumbHome, crumbLocations, {Name: loc.Name, Path: path}}
		p := base(seo.KindLocation, loc.Name, "", crumbs...)
		p.Location = loc
		for _, it := range cat.Menu {
			if availability.OffersMenuItem(it, *loc) {
				p.Menu = append(p.Menu, it)
			}
		}
		for _, s := range cat.Services {
			if availability.OffersService(s, *loc) {
				p.Services = append(p.Services, s)
			}
		}
		routes = append(routes, Route{
			Path:       path,
			Meta:       seo.PageMeta{Title: loc.Name, Description: fmt.Sprintf("%s in %s: hours, phone and directions.", c.Name, firstNonEmpty(loc.City, loc.Name)), Path: path},
			Page:       p,
			Blocks:     []any{schema.LocalBusiness(loc, c), crumbBlock(crumbs...)},
			Priority:   0.8,
			ChangeFreq: FreqWeekly,
		})
	}

	about := base(seo.KindAbout, "About "+c.Name, "", crumbHome, schema.Crumb{Name: "About", Path: "/about/"})
	routes = append(routes, Route{
		Path:       "/about/",
		Meta:       seo.PageMeta{Title: "About " + c.Name, Description: c.Description, Path: "/about/"},
		Page:       about,
		Blocks:     []any{schema.Organization(c), crumbBlock(about.Crumbs...)},
		Priority:   0.5,
		ChangeFreq: FreqMonthly,
	})

	contact := base(seo.KindContact, "Contact us", "Questions, feedback or catering orders? Get in touch.", crumbHome, schema.Crumb{Name: "Contact", Path: "/contact/"})
	contact.Locations = cat.Locations
	routes = append(routes, Route{
		Path:       "/contact/",
		Meta:       seo.PageMeta{Title: "Contact", Description: fmt.Sprintf("Contact %s by phone or email.", c.Name), Path: "/contact/"},
		Page:       contact,
		Blocks:     []any{schema.Organization(c), crumbBlock(contact.Crumbs...)},
		Priority:   0.5,
		ChangeFreq: FreqMonthly,
	})

	return routes
}

// Find returns the route matching path after canonicalization.
func Find(routes []Route, path string) (Route, bool) {
	path = seo.CanonicalPath(path)
	for _, r := range routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
