package catalog

import (
	"strings"
	"sync"
)

// Cache holds the last product listing fetched from the back office so
// browsing and filtering work without a round trip per keystroke.
type Cache struct {
	mu       sync.RWMutex
	products []Product
	byID     map[int64]Product
}

func NewCache() *Cache {
	return &Cache{byID: map[int64]Product{}}
}

// Replace swaps the cached listing wholesale. Listing order from the
// back office is preserved.
func (c *Cache) Replace(products []Product) {
	byID := make(map[int64]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = append([]Product(nil), products...)
	c.byID = byID
}

// List returns cached products, optionally filtered by category and a
// case-insensitive name/SKU search term.
func (c *Cache) List(category, search string) []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.SKU), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Get returns the cached product with the given id.
func (c *Cache) Get(id int64) (Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	return p, ok
}

// Len reports the number of cached products.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}
