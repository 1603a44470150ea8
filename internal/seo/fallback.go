package seo

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"storesite/internal/company"
	"storesite/internal/model"
	"storesite/internal/schema"
)

// Kind selects the fallback template of a page.
type Kind string

const (
	KindHome      Kind = "home"
	KindMenu      Kind = "menu"
	KindMenuItem  Kind = "menu_item"
	KindServices  Kind = "services"
	KindService   Kind = "service"
	KindLocations Kind = "locations"
	KindLocation  Kind = "location"
	KindAbout     Kind = "about"
	KindContact   Kind = "contact"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var fallbackTmpl = template.Must(template.New("fallback").Funcs(template.FuncMap{
	"price":     formatPrice,
	"itemPrice": itemPrice,
	"address":   company.FullAddress,
	"locAddr":   locationAddress,
	"hours":     hoursLines,
}).ParseFS(templateFS, "templates/*.tmpl"))

// Page is the data available to fallback templates.
type Page struct {
	Kind      Kind
	Company   *model.CompanyProfile
	Heading   string
	Intro     string
	Crumbs    []schema.Crumb
	Menu      []model.MenuItem
	Services  []model.Service
	Locations []model.Location
	MenuItem  *model.MenuItem
	Service   *model.Service
	Location  *model.Location
}

// Fallback renders the crawler-visible markup placed inside the SPA root.
func Fallback(p Page) (string, error) {
	if p.Company == nil {
		return "", fmt.Errorf("fallback %s: company profile is required", p.Kind)
	}
	if fallbackTmpl.Lookup(string(p.Kind)) == nil {
		return "", fmt.Errorf("fallback %s: unknown page kind", p.Kind)
	}
	var buf bytes.Buffer
	if err := fallbackTmpl.ExecuteTemplate(&buf, string(p.Kind), p); err != nil {
		return "", fmt.Errorf("fallback %s: %w", p.Kind, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func formatPrice(p float64) string {
	return fmt.Sprintf("$%.2f", p)
}

func itemPrice(it model.MenuItem) string {
	if it.Price > 0 {
		return formatPrice(it.Price)
	}
	min := 0.0
	for _, s := range it.Sizes {
		if s.Price > 0 && (min == 0 || s.Price < min) {
			min = s.Price
		}
	}
	if min == 0 {
		return ""
	}
	return "from " + formatPrice(min)
}

func locationAddress(l model.Location) string {
	return company.FullAddress(model.Address{Street: l.Street, City: l.City, Region: l.Region, PostalCode: l.PostalCode})
}

// hoursLines formats a location's hours for display, one line per day.
func hoursLines(l model.Location) []string {
	if l.Open24Hours {
		return []string{"Open 24 hours"}
	}
	lines := make([]string, 0, len(l.Hours))
	for _, h := range l.Hours {
		if h.Closed || h.Open == "" || h.Close == "" {
			lines = append(lines, titleCase(h.Day)+": Closed")
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s - %s", titleCase(h.Day), h.Open, h.Close))
	}
	return lines
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
