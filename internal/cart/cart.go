// Package cart holds the in-progress transaction for a single register.
// All mutations are serialized through one mutex and every mutation is
// followed by a snapshot publish so the customer display never observes
// a partial state.
package cart

import (
	"sync"

	"github.com/tillpoint/pos-terminal/internal/catalog"
	"github.com/tillpoint/pos-terminal/internal/tax"
)

// LineItem is one product row in the cart. A product appears at most once.
type LineItem struct {
	Product  catalog.Product
	Quantity int
}

// Snapshot is an immutable copy of the cart plus derived totals.
type Snapshot struct {
	Items  []LineItem
	Totals tax.Totals
}

// Empty reports whether the snapshot holds no items.
func (s Snapshot) Empty() bool {
	return len(s.Items) == 0
}

// Publisher receives a snapshot after every cart mutation. Implementations
// must not block; the store calls it while holding its lock to preserve
// publish order.
type Publisher interface {
	Publish(Snapshot)
}

// Store is the single-register cart. Items keep insertion order; removing
// and re-adding a product places it at the end.
type Store struct {
	mu        sync.Mutex
	items     []LineItem
	index     map[int64]int
	publisher Publisher
}

func NewStore(publisher Publisher) *Store {
	return &Store{
		index:     map[int64]int{},
		publisher: publisher,
	}
}

// Add merges the product into the cart. An existing line has its quantity
// incremented; a new product is appended with quantity one.
func (s *Store) Add(product catalog.Product) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pos, ok := s.index[product.ID]; ok {
		s.items[pos].Quantity++
	} else {
		s.index[product.ID] = len(s.items)
		s.items = append(s.items, LineItem{Product: product, Quantity: 1})
	}
	return s.publishLocked()
}

// AdjustQuantity applies a signed delta to the line for productID. A delta
// that would take the quantity to zero or below is ignored; removal is only
// ever explicit. Returns false when no line exists for productID.
func (s *Store) AdjustQuantity(productID int64, delta int) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[productID]
	if !ok {
		return s.snapshotLocked(), false
	}
	if next := s.items[pos].Quantity + delta; next >= 1 {
		s.items[pos].Quantity = next
	}
	return s.publishLocked(), true
}

// Remove deletes the line for productID regardless of quantity.
func (s *Store) Remove(productID int64) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[productID]
	if !ok {
		return s.snapshotLocked(), false
	}
	s.items = append(s.items[:pos], s.items[pos+1:]...)
	delete(s.index, productID)
	for i := pos; i < len(s.items); i++ {
		s.index[s.items[i].Product.ID] = i
	}
	return s.publishLocked(), true
}

// Clear empties the cart.
func (s *Store) Clear() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.index = map[int64]int{}
	return s.publishLocked()
}

// Snapshot returns the current cart state without mutating or publishing.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	items := make([]LineItem, len(s.items))
	copy(items, s.items)

	lines := make([]tax.Line, len(items))
	for i, item := range items {
		lines[i] = tax.Line{
			UnitPrice:     item.Product.Price,
			Quantity:      item.Quantity,
			SSTApplicable: item.Product.SSTApplicable,
		}
	}
	return Snapshot{Items: items, Totals: tax.Compute(lines)}
}

func (s *Store) publishLocked() Snapshot {
	snap := s.snapshotLocked()
	if s.publisher != nil {
		s.publisher.Publish(snap)
	}
	return snap
}
