package display

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tillpoint/pos-terminal/pkg/logger"
)

// Subscriber opens pub/sub subscriptions; satisfied by the redis client.
type Subscriber interface {
	Subscribe(ctx context.Context, channels ...string) (*redis.PubSub, error)
}

// RunSyncResponder answers snapshot requests from newly opened displays by
// republishing the current cart state. Blocks until ctx is cancelled.
func RunSyncResponder(ctx context.Context, sub Subscriber, syncChannel string, sync *Synchronizer, logg *logger.Logger) error {
	pubsub, err := sub.Subscribe(ctx, syncChannel)
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", syncChannel, err)
	}
	defer pubsub.Close()

	logg.Info(logg.WithField(ctx, "channel", syncChannel), "sync responder listening")

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-messages:
			if !ok {
				return fmt.Errorf("sync subscription closed")
			}
			sync.Republish()
		}
	}
}

// Listener is the customer-display side of the channel: it subscribes to
// cart state, asks the register for the current snapshot on startup, and
// hands every decoded message to the render callback.
type Listener struct {
	sub         Subscriber
	transport   Channel
	channel     string
	syncChannel string
	logg        *logger.Logger
}

func NewListener(sub Subscriber, transport Channel, channel, syncChannel string, logg *logger.Logger) (*Listener, error) {
	if sub == nil || transport == nil {
		return nil, fmt.Errorf("subscriber and transport are required")
	}
	if channel == "" || syncChannel == "" {
		return nil, fmt.Errorf("channel names are required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Listener{
		sub:         sub,
		transport:   transport,
		channel:     channel,
		syncChannel: syncChannel,
		logg:        logg,
	}, nil
}

// Run subscribes, requests an initial snapshot, and dispatches messages to
// render until ctx is cancelled. The subscription must be live before the
// sync request goes out or the response could be missed.
func (l *Listener) Run(ctx context.Context, render func(Message)) error {
	pubsub, err := l.sub.Subscribe(ctx, l.channel)
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", l.channel, err)
	}
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("confirming subscription: %w", err)
	}

	if err := l.transport.Publish(ctx, l.syncChannel, "sync"); err != nil {
		l.logg.Error(ctx, "requesting initial snapshot", err)
	}

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw, ok := <-messages:
			if !ok {
				return fmt.Errorf("display subscription closed")
			}
			var msg Message
			if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
				l.logg.Error(ctx, "decoding display snapshot", err)
				continue
			}
			render(msg)
		}
	}
}
