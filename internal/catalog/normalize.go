package catalog

import (
	"errors"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"storesite/internal/model"
)

var validate = validator.New()

// ErrInvalidSlug is reported for slugs that are not usable as a URL path segment.
var ErrInvalidSlug = errors.New("slug must be lowercase letters, digits and single dashes")

// IsLikelyCents guesses whether prices are expressed in cents: any integral
// price of 100 or more is taken as a cents amount.
func IsLikelyCents(prices []float64) bool {
	for _, p := range prices {
		if p >= 100 && p == math.Trunc(p) {
			return true
		}
	}
	return false
}

// NormalizeMenu returns a copy of items with sizes ordered and, for API data
// that looks like cents, every price converted to dollars. Static data keeps
// its prices.
func NormalizeMenu(items []model.MenuItem, fromAPI bool) []model.MenuItem {
	cents := fromAPI && IsLikelyCents(menuPrices(items))

	out := make([]model.MenuItem, 0, len(items))
	for _, it := range items {
		it.Sizes = SortSizes(it.Sizes)
		if cents {
			it.Price = toDollars(it.Price)
			for i := range it.Sizes {
				it.Sizes[i].Price = toDollars(it.Sizes[i].Price)
			}
		}
		out = append(out, it)
	}
	return out
}

func menuPrices(items []model.MenuItem) []float64 {
	prices := make([]float64, 0, len(items))
	for _, it := range items {
		prices = append(prices, it.Price)
		for _, s := range it.Sizes {
			prices = append(prices, s.Price)
		}
	}
	return prices
}

func toDollars(cents float64) float64 {
	return cents / 100
}

var sizeRank = map[string]int{"s": 0, "m": 1, "l": 2}

// SortSizes moves sizes named exactly S, M and L (any case) to the front in
// that order. Every other size keeps its original relative order after them.
// The input slice is not modified.
func SortSizes(sizes []model.Size) []model.Size {
	if len(sizes) == 0 {
		return sizes
	}
	var known [3][]model.Size
	rest := make([]model.Size, 0, len(sizes))
	for _, s := range sizes {
		if r, ok := sizeRank[strings.ToLower(strings.TrimSpace(s.Name))]; ok {
			known[r] = append(known[r], s)
			continue
		}
		rest = append(rest, s)
	}
	out := make([]model.Size, 0, len(sizes))
	for _, group := range known {
		out = append(out, group...)
	}
	return append(out, rest...)
}

// Slugify lowercases s and collapses every run of non-alphanumerics into a dash.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// mergeBy reconciles API records with static ones. A non-empty API list wins
// and each record may borrow fields from the static record sharing its slug,
// or failing that its ID.
func mergeBy[T any](api, static []T, keys func(*T) (slug, id string), fill func(dst *T, src *T)) []T {
	if len(api) == 0 {
		return static
	}
	bySlug := make(map[string]*T, len(static))
	byID := make(map[string]*T, len(static))
	for i := range static {
		slug, id := keys(&static[i])
		if slug != "" {
			bySlug[slug] = &static[i]
		}
		if id != "" {
			byID[id] = &static[i]
		}
	}
	out := make([]T, len(api))
	copy(out, api)
	for i := range out {
		slug, id := keys(&out[i])
		src, ok := bySlug[slug]
		if !ok {
			src, ok = byID[id]
		}
		if ok {
			fill(&out[i], src)
		}
	}
	return out
}

// MergeMenu keeps API items and fills missing description, image and category
// from static items with the same slug or ID.
func MergeMenu(api, static []model.MenuItem) []model.MenuItem {
	return mergeBy(api, static,
		func(m *model.MenuItem) (string, string) { return m.Slug, m.ID },
		func(dst, src *model.MenuItem) {
			dst.Description = firstNonEmpty(dst.Description, src.Description)
			dst.Image = firstNonEmpty(dst.Image, src.Image)
			dst.Category = firstNonEmpty(dst.Category, src.Category)
		})
}

// MergeServices keeps API services and fills missing description and image.
func MergeServices(api, static []model.Service) []model.Service {
	return mergeBy(api, static,
		func(s *model.Service) (string, string) { return s.Slug, s.ID },
		func(dst, src *model.Service) {
			dst.Description = firstNonEmpty(dst.Description, src.Description)
			dst.Image = firstNonEmpty(dst.Image, src.Image)
		})
}

// MergeLocations keeps API locations and fills missing contact, geo and hours.
func MergeLocations(api, static []model.Location) []model.Location {
	return mergeBy(api, static,
		func(l *model.Location) (string, string) { return l.Slug, l.ID },
		func(dst, src *model.Location) {
			dst.Phone = firstNonEmpty(dst.Phone, src.Phone)
			dst.Timezone = firstNonEmpty(dst.Timezone, src.Timezone)
			if dst.Coordinates == nil {
				dst.Coordinates = src.Coordinates
			}
			if len(dst.Hours) == 0 && !dst.Open24Hours {
				dst.Hours = src.Hours
				dst.Open24Hours = src.Open24Hours
			}
		})
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// checkRecord validates v and requires slug to already be in Slugify form,
// since slugs become directory names under dist.
func checkRecord(v any, slug string) error {
	if err := validate.Struct(v); err != nil {
		return err
	}
	if slug == "" || Slugify(slug) != slug {
		return ErrInvalidSlug
	}
	return nil
}

// cleanMenu derives missing slugs and IDs and drops records that fail validation.
func cleanMenu(items []model.MenuItem, warn func(kind, id string, err error)) []model.MenuItem {
	out := items[:0:0]
	for _, it := range items {
		if it.Slug == "" {
			it.Slug = Slugify(it.Name)
		}
		if it.ID == "" {
			it.ID = it.Slug
		}
		if it.Status == "" {
			it.Status = model.StatusActive
		}
		if err := checkRecord(&it, it.Slug); err != nil {
			warn("menu_item", it.ID, err)
			continue
		}
		out = append(out, it)
	}
	return out
}

func cleanServices(items []model.Service, warn func(kind, id string, err error)) []model.Service {
	out := items[:0:0]
	for _, it := range items {
		if it.Slug == "" {
			it.Slug = Slugify(it.Name)
		}
		if it.ID == "" {
			it.ID = it.Slug
		}
		if it.Status == "" {
			it.Status = model.StatusActive
		}
		if err := checkRecord(&it, it.Slug); err != nil {
			warn("service", it.ID, err)
			continue
		}
		out = append(out, it)
	}
	return out
}

func cleanLocations(items []model.Location, warn func(kind, id string, err error)) []model.Location {
	out := items[:0:0]
	for _, it := range items {
		if it.Slug == "" {
			it.Slug = Slugify(it.Name)
		}
		if it.ID == "" {
			it.ID = it.Slug
		}
		if it.Status == "" {
			it.Status = model.LocationOpen
		}
		if err := checkRecord(&it, it.Slug); err != nil {
			warn("location", it.ID, err)
			continue
		}
		out = append(out, it)
	}
	return out
}
