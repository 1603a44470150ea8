package model

import "time"

// Status is the lifecycle state of a menu item or service as published by the catalog API.
type Status string

const (
	StatusActive     Status = "active"
	StatusComingSoon Status = "coming_soon"
	StatusInactive   Status = "inactive"
)

// Source records where a catalog collection came from.
type Source string

const (
	SourceAPI      Source = "api"
	SourceSnapshot Source = "snapshot"
	SourceStatic   Source = "static"
)

// Size is a purchasable size variant of a menu item.
type Size struct {
	Name  string  `json:"name" yaml:"name"`
	Price float64 `json:"price" yaml:"price"`
}

// MenuItem is a food or drink offered by the chain.
type MenuItem struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Price       float64  `json:"price,omitempty"`
	Sizes       []Size   `json:"sizes,omitempty"`
	Image       string   `json:"image,omitempty"`
	Status      Status   `json:"status,omitempty"`
	LocationIDs []string `json:"locationIds,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Service is a non-food offering such as ATM, lottery or propane exchange.
type Service struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Price       float64  `json:"price,omitempty"`
	Image       string   `json:"image,omitempty"`
	Status      Status   `json:"status,omitempty"`
	LocationIDs []string `json:"locationIds,omitempty"`
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// DayHours holds opening hours for one weekday. Open and Close use 24h "HH:MM".
// A Close earlier than Open means the store closes after midnight.
type DayHours struct {
	Day    string `json:"day" yaml:"day"`
	Open   string `json:"open,omitempty" yaml:"open,omitempty"`
	Close  string `json:"close,omitempty" yaml:"close,omitempty"`
	Closed bool   `json:"closed,omitempty" yaml:"closed,omitempty"`
}

// LocationStatus is the operating state of a store.
type LocationStatus string

const (
	LocationOpen       LocationStatus = "open"
	LocationComingSoon LocationStatus = "coming_soon"
	LocationClosed     LocationStatus = "closed"
)

// Location is a single store.
type Location struct {
	ID          string         `json:"id"`
	Slug        string         `json:"slug"`
	Name        string         `json:"name" validate:"required"`
	Street      string         `json:"street,omitempty"`
	City        string         `json:"city,omitempty"`
	Region      string         `json:"region,omitempty"`
	PostalCode  string         `json:"postalCode,omitempty"`
	Country     string         `json:"country,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	Coordinates *Coordinates   `json:"coordinates,omitempty"`
	Timezone    string         `json:"timezone,omitempty"`
	Hours       []DayHours     `json:"hours,omitempty"`
	Open24Hours bool           `json:"open24Hours,omitempty"`
	Status      LocationStatus `json:"status,omitempty"`
	MenuItemIDs []string       `json:"menuItemIds,omitempty"`
	ServiceIDs  []string       `json:"serviceIds,omitempty"`
}

// Catalog is the reconciled content used to render the site.
type Catalog struct {
	Menu      []MenuItem `json:"menu"`
	Services  []Service  `json:"services"`
	Locations []Location `json:"locations"`

	MenuSource     Source    `json:"menu_source"`
	ServiceSource  Source    `json:"service_source"`
	LocationSource Source    `json:"location_source"`
	FetchedAt      time.Time `json:"fetched_at"`
}

// LocationBySlug returns the location with the given slug, or nil.
func (c *Catalog) LocationBySlug(slug string) *Location {
	for i := range c.Locations {
		if c.Locations[i].Slug == slug {
			return &c.Locations[i]
		}
	}
	return nil
}

// MenuItemBySlug returns the menu item with the given slug, or nil.
func (c *Catalog) MenuItemBySlug(slug string) *MenuItem {
	for i := range c.Menu {
		if c.Menu[i].Slug == slug {
			return &c.Menu[i]
		}
	}
	return nil
}

// ServiceBySlug returns the service with the given slug, or nil.
func (c *Catalog) ServiceBySlug(slug string) *Service {
	for i := range c.Services {
		if c.Services[i].Slug == slug {
			return &c.Services[i]
		}
	}
	return nil
}
