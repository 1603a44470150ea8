// Package schema builds schema.org JSON-LD blocks from catalog records and
// the company profile. Builders are pure and return nil when the input is
// too thin to describe anything.
package schema

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"storesite/internal/model"
)

// Crumb is one breadcrumb step. Path is site-relative.
type Crumb struct {
	Name string
	Path string
}

// AbsURL joins a site-relative path onto base. Absolute URLs pass through.
func AbsURL(base, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

func orgRef(c *model.CompanyProfile) *Ref {
	return &Ref{Type: "Organization", ID: c.URL + "/#organization", Name: c.Name, URL: c.URL}
}

func address(street, city, region, postal, country string) *PostalAddress {
	if street == "" && city == "" && region == "" && postal == "" {
		return nil
	}
	return &PostalAddress{
		Type:            "PostalAddress",
		StreetAddress:   street,
		AddressLocality: city,
		AddressRegion:   region,
		PostalCode:      postal,
		AddressCountry:  country,
	}
}

// Organization describes the chain itself.
func Organization(c *model.CompanyProfile) *OrganizationLD {
	if c == nil || c.Name == "" {
		return nil
	}
	o := &OrganizationLD{
		Context:     Context,
		Type:        "Organization",
		ID:          c.URL + "/#organization",
		Name:        c.Name,
		LegalName:   c.LegalName,
		URL:         c.URL,
		Logo:        AbsURL(c.URL, c.Logo),
		Image:       AbsURL(c.URL, c.Image),
		Description: c.Description,
		Slogan:      c.Tagline,
		Telephone:   c.Phone,
		Email:       c.Email,
		Address:     address(c.Address.Street, c.Address.City, c.Address.Region, c.Address.PostalCode, c.Address.Country),
		SameAs:      c.SameAs,
	}
	if c.FoundingYear > 0 {
		o.FoundingDate = strconv.Itoa(c.FoundingYear)
	}
	return o
}

// WebSite describes the marketing site.
func WebSite(c *model.CompanyProfile) *WebSiteLD {
	if c == nil || c.Name == "" || c.URL == "" {
		return nil
	}
	return &WebSiteLD{
		Context:     Context,
		Type:        "WebSite",
		Name:        c.Name,
		URL:         c.URL + "/",
		Description: c.Description,
		Publisher:   orgRef(c),
		PotentialAction: &SearchAction{
			Type:       "SearchAction",
			Target:     c.URL + "/menu?q={search_term_string}",
			QueryInput: "required name=search_term_string",
		},
	}
}

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// LocalBusiness describes one store as a ConvenienceStore.
func LocalBusiness(l *model.Location, c *model.CompanyProfile) *LocalBusinessLD {
	if l == nil || l.Name == "" || c == nil {
		return nil
	}
	url := c.URL + "/locations/" + l.Slug + "/"
	lb := &LocalBusinessLD{
		Context:                   Context,
		Type:                      "ConvenienceStore",
		ID:                        url + "#store",
		Name:                      c.Name + " " + l.Name,
		URL:                       url,
		Image:                     AbsURL(c.URL, c.Image),
		Telephone:                 firstNonEmpty(l.Phone, c.Phone),
		PriceRange:                c.PriceRange,
		Address:                   address(l.Street, l.City, l.Region, l.PostalCode, l.Country),
		OpeningHoursSpecification: openingHours(l),
		ParentOrganization:        orgRef(c),
	}
	if l.Coordinates != nil {
		lb.Geo = &GeoCoordinates{Type: "GeoCoordinates", Latitude: l.Coordinates.Lat, Longitude: l.Coordinates.Lng}
	}
	return lb
}

// openingHours groups days sharing identical hours into one specification.
func openingHours(l *model.Location) []OpeningHoursSpecification {
	if l.Open24Hours {
		days := make([]string, 0, len(weekdays))
		for _, d := range weekdays {
			days = append(days, titleCase(d))
		}
		return []OpeningHoursSpecification{{Type: "OpeningHoursSpecification", DayOfWeek: days, Opens: "00:00", Closes: "23:59"}}
	}

	var specs []OpeningHoursSpecification
	index := map[string]int{}
	for _, d := range weekdays {
		for _, h := range l.Hours {
			if !strings.EqualFold(h.Day, d) || h.Closed || h.Open == "" || h.Close == "" {
				continue
			}
			key := h.Open + "-" + h.Close
			if i, ok := index[key]; ok {
				specs[i].DayOfWeek = append(specs[i].DayOfWeek, titleCase(d))
				break
			}
			index[key] = len(specs)
			specs = append(specs, OpeningHoursSpecification{
				Type:      "OpeningHoursSpecification",
				DayOfWeek: []string{titleCase(d)},
				Opens:     h.Open,
				Closes:    h.Close,
			})
			break
		}
	}
	return specs
}

// Breadcrumb returns nil for an empty trail.
func Breadcrumb(siteURL string, crumbs []Crumb) *BreadcrumbList {
	if len(crumbs) == 0 {
		return nil
	}
	items := make([]ListItem, 0, len(crumbs))
	for i, c := range crumbs {
		items = append(items, ListItem{
			Type:     "ListItem",
			Position: i + 1,
			Name:     c.Name,
			Item:     AbsURL(siteURL, c.Path),
		})
	}
	return &BreadcrumbList{Context: Context, Type: "BreadcrumbList", ItemListElement: items}
}

// MenuItem describes a menu item with one offer per size. It returns nil when
// the item has no name.
func MenuItem(it *model.MenuItem, c *model.CompanyProfile) *MenuItemLD {
	m := menuItem(it, c)
	if m != nil {
		m.Context = Context
	}
	return m
}

func menuItem(it *model.MenuItem, c *model.CompanyProfile) *MenuItemLD {
	if it == nil || strings.TrimSpace(it.Name) == "" || c == nil {
		return nil
	}
	m := &MenuItemLD{
		Type:        "MenuItem",
		Name:        it.Name,
		Description: it.Description,
		Image:       AbsURL(c.URL, it.Image),
	}
	if it.Slug != "" {
		m.URL = c.URL + "/menu/" + it.Slug + "/"
	}
	avail := offerAvailability(it.Status)
	for _, s := range it.Sizes {
		if s.Price <= 0 {
			continue
		}
		m.Offers = append(m.Offers, Offer{Type: "Offer", Name: s.Name, Price: formatPrice(s.Price), PriceCurrency: c.Currency, Availability: avail})
	}
	if len(m.Offers) == 0 && it.Price > 0 {
		m.Offers = []Offer{{Type: "Offer", Price: formatPrice(it.Price), PriceCurrency: c.Currency, Availability: avail}}
	}
	return m
}

// Menu groups items into sections by category, in first-seen order.
func Menu(items []model.MenuItem, c *model.CompanyProfile) *MenuLD {
	if len(items) == 0 || c == nil {
		return nil
	}
	var sections []MenuSection
	index := map[string]int{}
	for i := range items {
		mi := menuItem(&items[i], c)
		if mi == nil {
			continue
		}
		cat := firstNonEmpty(items[i].Category, "Menu")
		n, ok := index[cat]
		if !ok {
			n = len(sections)
			index[cat] = n
			sections = append(sections, MenuSection{Type: "MenuSection", Name: cat})
		}
		sections[n].HasMenuItem = append(sections[n].HasMenuItem, *mi)
	}
	if len(sections) == 0 {
		return nil
	}
	return &MenuLD{
		Context:        Context,
		Type:           "Menu",
		Name:           c.Name + " Menu",
		URL:            c.URL + "/menu/",
		HasMenuSection: sections,
	}
}

// Service describes a store service. It returns nil when the service has no name.
func Service(s *model.Service, c *model.CompanyProfile) *ServiceLD {
	if s == nil || strings.TrimSpace(s.Name) == "" || c == nil {
		return nil
	}
	out := &ServiceLD{
		Context:     Context,
		Type:        "Service",
		Name:        s.Name,
		Description: s.Description,
		Image:       AbsURL(c.URL, s.Image),
		ServiceType: s.Category,
		Provider:    orgRef(c),
	}
	if s.Slug != "" {
		out.URL = c.URL + "/services/" + s.Slug + "/"
	}
	if s.Price > 0 {
		out.Offers = &Offer{Type: "Offer", Price: formatPrice(s.Price), PriceCurrency: c.Currency, Availability: offerAvailability(s.Status)}
	}
	return out
}

// Link is a named URL for ItemList.
type Link struct {
	Name string
	URL  string
}

// ItemList lists links in order. It returns nil for an empty list.
func ItemList(name string, links []Link) *ItemListLD {
	if len(links) == 0 {
		return nil
	}
	items := make([]ListItem, 0, len(links))
	for i, l := range links {
		items = append(items, ListItem{Type: "ListItem", Position: i + 1, Name: l.Name, URL: l.URL})
	}
	return &ItemListLD{Context: Context, Type: "ItemList", Name: name, NumberOfItems: len(items), ItemListElement: items}
}

// Marshal encodes the non-nil blocks as one JSON array. A block that fails to
// encode is skipped with a warning. It returns nil when nothing is left.
func Marshal(log zerolog.Logger, blocks ...any) []byte {
	parts := make([]json.RawMessage, 0, len(blocks))
	for _, b := range blocks {
		if isNil(b) {
			continue
		}
		raw, err := json.Marshal(b)
		if err != nil {
			log.Warn().Err(err).
				Str("event", "jsonld_block_skipped").
				Str("block", reflect.TypeOf(b).String()).
				Msg("schema block skipped")
			continue
		}
		parts = append(parts, raw)
	}
	if len(parts) == 0 {
		return nil
	}
	out, err := json.Marshal(parts)
	if err != nil {
		return nil
	}
	return out
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func offerAvailability(s model.Status) string {
	switch s {
	case model.StatusComingSoon:
		return "https://schema.org/PreOrder"
	case model.StatusInactive:
		return "https://schema.org/OutOfStock"
	default:
		return "https://schema.org/InStock"
	}
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
