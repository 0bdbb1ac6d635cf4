package cart

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tillpoint/pos-terminal/internal/catalog"
)

type recordingPublisher struct {
	snapshots []Snapshot
}

func (r *recordingPublisher) Publish(s Snapshot) {
	r.snapshots = append(r.snapshots, s)
}

func product(id int64, price string, sst bool) catalog.Product {
	return catalog.Product{
		ID:            id,
		SKU:           "SKU-" + decimal.NewFromInt(id).String(),
		Name:          "Product",
		Price:         decimal.RequireFromString(price),
		SSTApplicable: sst,
	}
}

func TestAddMergesExistingLine(t *testing.T) {
	t.Parallel()

	store := NewStore(nil)
	store.Add(product(1, "10.00", true))
	snap := store.Add(product(1, "10.00", true))

	if len(snap.Items) != 1 {
		t.Fatalf("items = %d, want a single merged line", len(snap.Items))
	}
	if snap.Items[0].Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", snap.Items[0].Quantity)
	}
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	store := NewStore(nil)
	store.Add(product(3, "1.00", false))
	store.Add(product(1, "1.00", false))
	snap := store.Add(product(2, "1.00", false))

	var ids []int64
	for _, item := range snap.Items {
		ids = append(ids, item.Product.ID)
	}
	want := []int64{3, 1, 2}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("order = %v, want %v", ids, want)
		}
	}
}

func TestAdjustQuantityFloorsAtOne(t *testing.T) {
	t.Parallel()

	store := NewStore(nil)
	store.Add(product(1, "4.00", false))

	if snap, ok := store.AdjustQuantity(1, 2); !ok || snap.Items[0].Quantity != 3 {
		t.Fatalf("increment failed: %+v, %v", snap.Items, ok)
	}

	// A decrement that would hit zero is ignored, not a removal.
	snap, ok := store.AdjustQuantity(1, -3)
	if !ok {
		t.Fatal("line should still exist")
	}
	if len(snap.Items) != 1 || snap.Items[0].Quantity != 3 {
		t.Fatalf("floored decrement changed the line: %+v", snap.Items)
	}
}

func TestAdjustQuantityUnknownProduct(t *testing.T) {
	t.Parallel()

	store := NewStore(nil)
	if _, ok := store.AdjustQuantity(42, 1); ok {
		t.Fatal("adjust on missing line should report false")
	}
}

func TestRemoveReindexesRemainingLines(t *testing.T) {
	t.Parallel()

	store := NewStore(nil)
	store.Add(product(1, "1.00", false))
	store.Add(product(2, "1.00", false))
	store.Add(product(3, "1.00", false))

	snap, ok := store.Remove(2)
	if !ok || len(snap.Items) != 2 {
		t.Fatalf("remove: %+v, %v", snap.Items, ok)
	}

	// Lines after the removed one must still be addressable.
	snap, ok = store.AdjustQuantity(3, 1)
	if !ok || snap.Items[1].Quantity != 2 {
		t.Fatalf("line 3 unreachable after remove: %+v, %v", snap.Items, ok)
	}

	// Re-adding goes to the end.
	snap = store.Add(product(2, "1.00", false))
	if snap.Items[len(snap.Items)-1].Product.ID != 2 {
		t.Fatalf("re-added line not at the end: %+v", snap.Items)
	}
}

func TestTotalsTaxOnlyFlaggedLines(t *testing.T) {
	t.Parallel()

	store := NewStore(nil)
	store.Add(product(1, "10.00", true))
	store.AdjustQuantity(1, 1)
	snap := store.Add(product(2, "5.00", false))

	if got := snap.Totals.Subtotal.StringFixed(2); got != "25.00" {
		t.Fatalf("subtotal = %s, want 25.00", got)
	}
	if got := snap.Totals.SSTTax.StringFixed(2); got != "1.20" {
		t.Fatalf("sst tax = %s, want 1.20", got)
	}
	if got := snap.Totals.GrandTotal.StringFixed(2); got != "26.20" {
		t.Fatalf("grand total = %s, want 26.20", got)
	}
}

func TestEveryMutationPublishes(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	store := NewStore(pub)

	store.Add(product(1, "2.00", false))
	store.AdjustQuantity(1, 1)
	store.AdjustQuantity(1, -5) // floored, still replicated
	store.Remove(1)
	store.Clear()

	if len(pub.snapshots) != 5 {
		t.Fatalf("published %d snapshots, want 5", len(pub.snapshots))
	}
	last := pub.snapshots[len(pub.snapshots)-1]
	if !last.Empty() {
		t.Fatalf("final snapshot should be empty: %+v", last.Items)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	store := NewStore(nil)
	store.Add(product(1, "2.00", false))

	snap := store.Snapshot()
	snap.Items[0].Quantity = 99

	if got := store.Snapshot().Items[0].Quantity; got != 1 {
		t.Fatalf("store mutated through snapshot: quantity = %d", got)
	}
}
