package service

import (
	"sync/atomic"

	"storesite/internal/model"
)

// CatalogStore holds the catalog currently served. Readers never block a
// rebuild swapping in a new one.
type CatalogStore struct {
	p atomic.Pointer[model.Catalog]
}

// NewCatalogStore returns a store holding cat (which may be nil).
func NewCatalogStore(cat *model.Catalog) *CatalogStore {
	s := &CatalogStore{}
	if cat != nil {
		s.p.Store(cat)
	}
	return s
}

// Catalog returns the current catalog, or nil before the first load.
func (s *CatalogStore) Catalog() *model.Catalog { return s.p.Load() }

// Swap replaces the current catalog and returns the previous one.
func (s *CatalogStore) Swap(cat *model.Catalog) *model.Catalog { return s.p.Swap(cat) }
