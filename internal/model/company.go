package model

// Address is a postal address.
type Address struct {
	Street     string `json:"street" yaml:"street" koanf:"street"`
	City       string `json:"city" yaml:"city" koanf:"city"`
	Region     string `json:"region" yaml:"region" koanf:"region"`
	PostalCode string `json:"postal_code" yaml:"postal_code" koanf:"postal_code"`
	Country    string `json:"country" yaml:"country" koanf:"country"`
}

// CompanyProfile is the single source of truth for brand, contact, address
// and hours text used across every page.
type CompanyProfile struct {
	Name         string   `json:"name" yaml:"name" koanf:"name" validate:"required"`
	LegalName    string   `json:"legal_name" yaml:"legal_name" koanf:"legal_name"`
	Tagline      string   `json:"tagline" yaml:"tagline" koanf:"tagline"`
	Description  string   `json:"description" yaml:"description" koanf:"description"`
	URL          string   `json:"url" yaml:"url" koanf:"url" validate:"required,url"`
	Logo         string   `json:"logo" yaml:"logo" koanf:"logo"`
	Image        string   `json:"image" yaml:"image" koanf:"image"`
	Phone        string   `json:"phone" yaml:"phone" koanf:"phone"`
	Email        string   `json:"email" yaml:"email" koanf:"email" validate:"omitempty,email"`
	Address      Address  `json:"address" yaml:"address" koanf:"address"`
	HoursText    string   `json:"hours_text" yaml:"hours_text" koanf:"hours_text"`
	PriceRange   string   `json:"price_range" yaml:"price_range" koanf:"price_range"`
	FoundingYear int      `json:"founding_year" yaml:"founding_year" koanf:"founding_year"`
	Currency     string   `json:"currency" yaml:"currency" koanf:"currency"`
	SameAs       []string `json:"same_as" yaml:"same_as" koanf:"same_as"`
}
