package scanner

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tillpoint/pos-terminal/internal/cart"
	"github.com/tillpoint/pos-terminal/internal/catalog"
	"github.com/tillpoint/pos-terminal/pkg/enums"
	pkgerrors "github.com/tillpoint/pos-terminal/pkg/errors"
	"github.com/tillpoint/pos-terminal/pkg/logger"
)

type stubLookup struct {
	products map[string]catalog.Product
	err      error
}

func (s *stubLookup) FindByCode(_ context.Context, code string) (*catalog.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.products[code]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &p, nil
}

type stubCart struct {
	added []catalog.Product
}

func (s *stubCart) Add(p catalog.Product) cart.Snapshot {
	s.added = append(s.added, p)
	return cart.Snapshot{}
}

func newTestService(t *testing.T, lookup *stubLookup, store *stubCart) *Service {
	t.Helper()
	svc, err := NewService(
		NewDecoder(50*time.Millisecond),
		lookup,
		store,
		logger.New(logger.Options{ServiceName: "test"}),
		nil,
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestProcessEventsAddsScannedProduct(t *testing.T) {
	t.Parallel()

	lookup := &stubLookup{products: map[string]catalog.Product{
		"12345": {ID: 1, SKU: "12345", Name: "Kopi O", Price: decimal.RequireFromString("3.50")},
	}}
	store := &stubCart{}
	svc := newTestService(t, lookup, store)

	results := svc.ProcessEvents(context.Background(), burst(time.Now(), 5*time.Millisecond, "1", "2", "3", "4", "5", "Enter"))

	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Outcome != enums.ScanOutcomeAdded {
		t.Fatalf("outcome = %s", results[0].Outcome)
	}
	if len(store.added) != 1 || store.added[0].ID != 1 {
		t.Fatalf("cart additions = %+v", store.added)
	}
}

func TestProcessEventsUnknownCode(t *testing.T) {
	t.Parallel()

	lookup := &stubLookup{products: map[string]catalog.Product{}}
	store := &stubCart{}
	svc := newTestService(t, lookup, store)

	results := svc.ProcessEvents(context.Background(), burst(time.Now(), 5*time.Millisecond, "9", "9", "9", "Enter"))

	if len(results) != 1 || results[0].Outcome != enums.ScanOutcomeNotFound {
		t.Fatalf("results = %+v", results)
	}
	if results[0].Message != "item not found: 999" {
		t.Fatalf("message = %q", results[0].Message)
	}
	if len(store.added) != 0 {
		t.Fatal("unknown code must not touch the cart")
	}
}

func TestProcessEventsLookupFailure(t *testing.T) {
	t.Parallel()

	lookup := &stubLookup{err: pkgerrors.New(pkgerrors.CodeDependency, "catalog unreachable")}
	store := &stubCart{}
	svc := newTestService(t, lookup, store)

	results := svc.ProcessEvents(context.Background(), burst(time.Now(), 5*time.Millisecond, "1", "2", "Enter"))

	if len(results) != 1 || results[0].Outcome != enums.ScanOutcomeError {
		t.Fatalf("results = %+v", results)
	}
	if len(store.added) != 0 {
		t.Fatal("failed lookup must not touch the cart")
	}
}

func TestProcessEventsMultipleScansPerBatch(t *testing.T) {
	t.Parallel()

	lookup := &stubLookup{products: map[string]catalog.Product{
		"11": {ID: 1, SKU: "11"},
		"22": {ID: 2, SKU: "22"},
	}}
	store := &stubCart{}
	svc := newTestService(t, lookup, store)

	start := time.Now()
	events := burst(start, 5*time.Millisecond, "1", "1", "Enter")
	events = append(events, burst(start.Add(time.Second), 5*time.Millisecond, "2", "2", "Enter")...)

	results := svc.ProcessEvents(context.Background(), events)

	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if len(store.added) != 2 || store.added[0].ID != 1 || store.added[1].ID != 2 {
		t.Fatalf("cart additions = %+v", store.added)
	}
}
