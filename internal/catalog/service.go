package catalog

import (
	"context"
	"fmt"
)

type lister interface {
	ListProducts(ctx context.Context) ([]Product, error)
	FindByCode(ctx context.Context, code string) (*Product, error)
}

// Service fronts the back office catalog with a local cache. Listing and
// browsing read from the cache; barcode lookups always go upstream so a
// scan reflects current stock flags even when the listing is stale.
type Service struct {
	client lister
	cache  *Cache
}

func NewService(client lister, cache *Cache) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("catalog client is required")
	}
	if cache == nil {
		return nil, fmt.Errorf("catalog cache is required")
	}
	return &Service{client: client, cache: cache}, nil
}

// Refresh re-fetches the full listing and replaces the cache.
func (s *Service) Refresh(ctx context.Context) error {
	products, err := s.client.ListProducts(ctx)
	if err != nil {
		return err
	}
	s.cache.Replace(products)
	return nil
}

// List serves the cached listing, filtered by category and search term.
func (s *Service) List(category, search string) []Product {
	return s.cache.List(category, search)
}

// Get returns a cached product by id.
func (s *Service) Get(id int64) (Product, bool) {
	return s.cache.Get(id)
}

// FindByCode resolves a scanned code against the back office.
func (s *Service) FindByCode(ctx context.Context, code string) (*Product, error) {
	return s.client.FindByCode(ctx, code)
}
