package catalog

import (
	"embed"
	"encoding/json"
	"fmt"

	"storesite/internal/model"
)

//go:embed fixtures/*.json
var fixtureFS embed.FS

// StaticMenu returns the bundled fallback menu. Prices are in dollars.
func StaticMenu() ([]model.MenuItem, error) {
	var items []model.MenuItem
	if err := readFixture("fixtures/menu.json", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// StaticServices returns the bundled fallback services.
func StaticServices() ([]model.Service, error) {
	var items []model.Service
	if err := readFixture("fixtures/services.json", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// StaticLocations returns the bundled fallback locations.
func StaticLocations() ([]model.Location, error) {
	var items []model.Location
	if err := readFixture("fixtures/locations.json", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func readFixture(name string, v any) error {
	b, err := fixtureFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", name, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode fixture %s: %w", name, err)
	}
	return nil
}
