package display

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tillpoint/pos-terminal/internal/cart"
	"github.com/tillpoint/pos-terminal/internal/catalog"
	"github.com/tillpoint/pos-terminal/pkg/logger"
)

type captureChannel struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (c *captureChannel) Publish(_ context.Context, _ string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payloads = append(c.payloads, payload.([]byte))
	return nil
}

func (c *captureChannel) messages(t *testing.T) []Message {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.payloads))
	for i, p := range c.payloads {
		if err := json.Unmarshal(p, &out[i]); err != nil {
			t.Fatalf("decode payload %d: %v", i, err)
		}
	}
	return out
}

func (c *captureChannel) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.payloads)
}

func snapshotWith(qty int) cart.Snapshot {
	store := cart.NewStore(nil)
	var snap cart.Snapshot
	for i := 0; i < qty; i++ {
		snap = store.Add(catalog.Product{
			ID:            7,
			SKU:           "COF-001",
			Name:          "Kopi O",
			Price:         decimal.RequireFromString("3.50"),
			SSTApplicable: true,
		})
	}
	return snap
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func newTestSynchronizer(t *testing.T, ch Channel) *Synchronizer {
	t.Helper()
	sync, err := NewSynchronizer("pos.cart", ch, logger.New(logger.Options{ServiceName: "test"}), nil)
	if err != nil {
		t.Fatalf("NewSynchronizer: %v", err)
	}
	return sync
}

func TestSynchronizerPublishesFullState(t *testing.T) {
	t.Parallel()

	ch := &captureChannel{}
	sync := newTestSynchronizer(t, ch)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sync.Run(ctx)

	sync.Publish(snapshotWith(2))
	waitFor(t, func() bool { return ch.count() == 1 })

	msg := ch.messages(t)[0]
	if len(msg.Items) != 1 || msg.Items[0].Quantity != 2 {
		t.Fatalf("items = %+v", msg.Items)
	}
	if msg.Items[0].LineTotal != "7.00" {
		t.Fatalf("line total = %s, want 7.00", msg.Items[0].LineTotal)
	}
	if msg.Subtotal != "7.00" || msg.SSTTax != "0.42" || msg.GrandTotal != "7.42" {
		t.Fatalf("totals = %s / %s / %s", msg.Subtotal, msg.SSTTax, msg.GrandTotal)
	}
}

func TestSynchronizerLatestWins(t *testing.T) {
	t.Parallel()

	ch := &captureChannel{}
	sync := newTestSynchronizer(t, ch)

	// Queue several snapshots before the forwarder starts; only the newest
	// may survive the one-slot buffer.
	sync.Publish(snapshotWith(1))
	sync.Publish(snapshotWith(2))
	sync.Publish(snapshotWith(3))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sync.Run(ctx)

	waitFor(t, func() bool { return ch.count() == 1 })

	msg := ch.messages(t)[0]
	if msg.Items[0].Quantity != 3 {
		t.Fatalf("delivered quantity = %d, want the newest snapshot", msg.Items[0].Quantity)
	}
}

func TestRepublishBeforeAnyMutationSendsEmptyCart(t *testing.T) {
	t.Parallel()

	ch := &captureChannel{}
	sync := newTestSynchronizer(t, ch)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sync.Run(ctx)

	sync.Republish()
	waitFor(t, func() bool { return ch.count() == 1 })

	msg := ch.messages(t)[0]
	if len(msg.Items) != 0 || msg.GrandTotal != "0.00" {
		t.Fatalf("expected empty cart, got %+v", msg)
	}
}

func TestRepublishResendsLastSnapshot(t *testing.T) {
	t.Parallel()

	ch := &captureChannel{}
	sync := newTestSynchronizer(t, ch)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sync.Run(ctx)

	sync.Publish(snapshotWith(2))
	waitFor(t, func() bool { return ch.count() == 1 })

	sync.Republish()
	waitFor(t, func() bool { return ch.count() == 2 })

	msgs := ch.messages(t)
	if msgs[1].GrandTotal != msgs[0].GrandTotal {
		t.Fatalf("republished totals differ: %s vs %s", msgs[1].GrandTotal, msgs[0].GrandTotal)
	}
}
