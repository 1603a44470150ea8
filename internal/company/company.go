// Package company loads the company profile that every page derives its
// brand, contact, address and hours text from.
package company

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"storesite/internal/model"
)

// EnvPrefix is the prefix of environment variables overriding profile fields.
// Nested keys use a double underscore, e.g. COMPANY_ADDRESS__CITY.
const EnvPrefix = "COMPANY_"

//go:embed company.yaml
var defaultProfile []byte

// Load reads the profile from path, or the embedded default when path is empty,
// then applies COMPANY_* environment overrides and validates the result.
func Load(path string) (*model.CompanyProfile, error) {
	raw := defaultProfile
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read company profile: %w", err)
		}
		raw = b
	}
	return Parse(raw)
}

// Parse decodes a YAML profile and applies environment overrides.
func Parse(raw []byte) (*model.CompanyProfile, error) {
	var p model.CompanyProfile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode company profile: %w", err)
	}

	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load company overrides: %w", err)
	}
	if len(k.Keys()) > 0 {
		if err := k.UnmarshalWithConf("", &p, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
			return nil, fmt.Errorf("apply company overrides: %w", err)
		}
	}

	if p.Currency == "" {
		p.Currency = "USD"
	}
	p.URL = strings.TrimRight(p.URL, "/")

	if err := validator.New().Struct(&p); err != nil {
		return nil, fmt.Errorf("invalid company profile: %w", err)
	}
	return &p, nil
}

// FullAddress formats the company address on one line.
func FullAddress(a model.Address) string {
	parts := make([]string, 0, 3)
	if a.Street != "" {
		parts = append(parts, a.Street)
	}
	if a.City != "" {
		parts = append(parts, a.City)
	}
	region := strings.TrimSpace(a.Region + " " + a.PostalCode)
	if region != "" {
		parts = append(parts, region)
	}
	return strings.Join(parts, ", ")
}
