package schema

// Context is the JSON-LD vocabulary every top-level block declares.
const Context = "https://schema.org"

type PostalAddress struct {
	Type            string `json:"@type"`
	StreetAddress   string `json:"streetAddress,omitempty"`
	AddressLocality string `json:"addressLocality,omitempty"`
	AddressRegion   string `json:"addressRegion,omitempty"`
	PostalCode      string `json:"postalCode,omitempty"`
	AddressCountry  string `json:"addressCountry,omitempty"`
}

type GeoCoordinates struct {
	Type      string  `json:"@type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type OpeningHoursSpecification struct {
	Type      string   `json:"@type"`
	DayOfWeek []string `json:"dayOfWeek"`
	Opens     string   `json:"opens"`
	Closes    string   `json:"closes"`
}

// Ref points at another node by type, name and URL.
type Ref struct {
	Type string `json:"@type"`
	ID   string `json:"@id,omitempty"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

type OrganizationLD struct {
	Context      string         `json:"@context"`
	Type         string         `json:"@type"`
	ID           string         `json:"@id,omitempty"`
	Name         string         `json:"name"`
	LegalName    string         `json:"legalName,omitempty"`
	URL          string         `json:"url,omitempty"`
	Logo         string         `json:"logo,omitempty"`
	Image        string         `json:"image,omitempty"`
	Description  string         `json:"description,omitempty"`
	Slogan       string         `json:"slogan,omitempty"`
	Telephone    string         `json:"telephone,omitempty"`
	Email        string         `json:"email,omitempty"`
	Address      *PostalAddress `json:"address,omitempty"`
	FoundingDate string         `json:"foundingDate,omitempty"`
	SameAs       []string       `json:"sameAs,omitempty"`
}

type SearchAction struct {
	Type       string `json:"@type"`
	Target     string `json:"target"`
	QueryInput string `json:"query-input"`
}

type WebSiteLD struct {
	Context         string        `json:"@context"`
	Type            string        `json:"@type"`
	Name            string        `json:"name"`
	URL             string        `json:"url"`
	Description     string        `json:"description,omitempty"`
	Publisher       *Ref          `json:"publisher,omitempty"`
	PotentialAction *SearchAction `json:"potentialAction,omitempty"`
}

type LocalBusinessLD struct {
	Context                   string                      `json:"@context"`
	Type                      string                      `json:"@type"`
	ID                        string                      `json:"@id,omitempty"`
	Name                      string                      `json:"name"`
	URL                       string                      `json:"url,omitempty"`
	Image                     string                      `json:"image,omitempty"`
	Telephone                 string                      `json:"telephone,omitempty"`
	PriceRange                string                      `json:"priceRange,omitempty"`
	Address                   *PostalAddress              `json:"address,omitempty"`
	Geo                       *GeoCoordinates             `json:"geo,omitempty"`
	OpeningHoursSpecification []OpeningHoursSpecification `json:"openingHoursSpecification,omitempty"`
	ParentOrganization        *Ref                        `json:"parentOrganization,omitempty"`
}

type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name,omitempty"`
	Item     string `json:"item,omitempty"`
	URL      string `json:"url,omitempty"`
}

type BreadcrumbList struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	ItemListElement []ListItem `json:"itemListElement"`
}

type ItemListLD struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	Name            string     `json:"name,omitempty"`
	NumberOfItems   int        `json:"numberOfItems"`
	ItemListElement []ListItem `json:"itemListElement"`
}

type Offer struct {
	Type          string `json:"@type"`
	Name          string `json:"name,omitempty"`
	Price         string `json:"price"`
	PriceCurrency string `json:"priceCurrency"`
	Availability  string `json:"availability,omitempty"`
}

type MenuItemLD struct {
	Context     string  `json:"@context,omitempty"`
	Type        string  `json:"@type"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
	URL         string  `json:"url,omitempty"`
	Offers      []Offer `json:"offers,omitempty"`
}

type MenuSection struct {
	Type        string     `json:"@type"`
	Name        string     `json:"name"`
	HasMenuItem []MenuItemLD `json:"hasMenuItem"`
}

type MenuLD struct {
	Context        string        `json:"@context"`
	Type           string        `json:"@type"`
	Name           string        `json:"name"`
	URL            string        `json:"url,omitempty"`
	HasMenuSection []MenuSection `json:"hasMenuSection"`
}

type ServiceLD struct {
	Context     string `json:"@context"`
	Type        string `json:"@type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	URL         string `json:"url,omitempty"`
	ServiceType string `json:"serviceType,omitempty"`
	Provider    *Ref   `json:"provider,omitempty"`
	Offers      *Offer `json:"offers,omitempty"`
}
