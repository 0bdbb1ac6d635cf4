package redis

import (
	"context"
	"testing"
)

func TestIncrCountsUp(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	key := client.CounterKey("receipts:20260314")
	for want := int64(1); want <= 3; want++ {
		got, err := client.Incr(ctx, key)
		if err != nil {
			t.Fatalf("incr failed: %v", err)
		}
		if got != want {
			t.Fatalf("counter = %d, want %d", got, want)
		}
	}
}

func TestPublishRecordsChannelAndPayload(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	if err := client.Publish(ctx, "pos.cart", `{"items":[]}`); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if len(mock.published) != 1 {
		t.Fatalf("expected one publish, got %d", len(mock.published))
	}
	if mock.published[0].channel != "pos.cart" {
		t.Fatalf("unexpected channel %q", mock.published[0].channel)
	}
}

func TestPublishWithoutSubscribersIsNotAnError(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	mock.subscriberCount = 0
	client := &Client{store: mock}

	if err := client.Publish(ctx, "pos.cart", "snapshot"); err != nil {
		t.Fatalf("publish to empty channel should succeed: %v", err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.CounterKey("scans"); got != "tp:counter:scans" {
		t.Fatalf("unexpected counter key %s", got)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	client := &Client{}
	if err := client.Publish(context.Background(), "pos.cart", "x"); err == nil {
		t.Fatal("expected error on uninitialized client")
	}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected error on uninitialized client")
	}
}
