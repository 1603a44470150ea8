package catalog

import (
	"encoding/json"
	"errors"
	"fmt"

	"storesite/internal/model"
)

// Endpoint names of the public catalog API, relative to its base URL.
const (
	EndpointMenu      = "public-menu"
	EndpointServices  = "public-services"
	EndpointLocations = "public-locations"
)

// Endpoints lists every catalog endpoint in fetch order.
var Endpoints = []string{EndpointMenu, EndpointServices, EndpointLocations}

// ErrUnsuccessful is returned when an envelope reports success=false.
var ErrUnsuccessful = errors.New("catalog api reported failure")

type menuEnvelope struct {
	Menu []model.MenuItem `json:"menu"`
}

type servicesEnvelope struct {
	Success  bool            `json:"success"`
	Services []model.Service `json:"services"`
}

type locationsEnvelope struct {
	Success   bool             `json:"success"`
	Locations []model.Location `json:"locations"`
}

// DecodeMenu parses a { menu: [...] } payload.
func DecodeMenu(body []byte) ([]model.MenuItem, error) {
	var env menuEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode %s: %w", EndpointMenu, err)
	}
	return env.Menu, nil
}

// DecodeServices parses a { success, services: [...] } payload.
func DecodeServices(body []byte) ([]model.Service, error) {
	var env servicesEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode %s: %w", EndpointServices, err)
	}
	if !env.Success {
		return nil, fmt.Errorf("%s: %w", EndpointServices, ErrUnsuccessful)
	}
	return env.Services, nil
}

// DecodeLocations parses a { success, locations: [...] } payload.
func DecodeLocations(body []byte) ([]model.Location, error) {
	var env locationsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode %s: %w", EndpointLocations, err)
	}
	if !env.Success {
		return nil, fmt.Errorf("%s: %w", EndpointLocations, ErrUnsuccessful)
	}
	return env.Locations, nil
}
