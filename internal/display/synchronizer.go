package display

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/tillpoint/pos-terminal/internal/cart"
	"github.com/tillpoint/pos-terminal/pkg/logger"
	"github.com/tillpoint/pos-terminal/pkg/metrics"
)

// Channel is the pub/sub surface the synchronizer publishes to.
type Channel interface {
	Publish(ctx context.Context, channel string, payload any) error
}

const publishTimeout = 2 * time.Second

// Synchronizer forwards cart snapshots to the display channel without ever
// blocking a cart mutation. Publishes queue through a one-slot buffer where
// a newer snapshot overwrites an unsent older one; since every message is
// the full state, dropping stale intermediates loses nothing.
type Synchronizer struct {
	channel   string
	transport Channel
	logg      *logger.Logger
	metrics   *metrics.TerminalMetrics

	pending chan Message

	mu   sync.Mutex
	last *Message
}

func NewSynchronizer(channel string, transport Channel, logg *logger.Logger, m *metrics.TerminalMetrics) (*Synchronizer, error) {
	if channel == "" {
		return nil, fmt.Errorf("display channel name is required")
	}
	if transport == nil {
		return nil, fmt.Errorf("display transport is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Synchronizer{
		channel:   channel,
		transport: transport,
		logg:      logg,
		metrics:   m,
		pending:   make(chan Message, 1),
	}, nil
}

// Publish converts and enqueues a snapshot. Safe to call from under the
// cart lock; it never blocks.
func (s *Synchronizer) Publish(snap cart.Snapshot) {
	msg := NewMessage(snap)

	s.mu.Lock()
	s.last = &msg
	s.mu.Unlock()

	s.enqueue(msg)
}

// Republish re-sends the most recent snapshot, used to answer sync
// requests from displays that opened after the last mutation.
func (s *Synchronizer) Republish() {
	s.mu.Lock()
	last := s.last
	s.mu.Unlock()

	if last == nil {
		// Nothing published yet: a fresh display should show an empty cart.
		s.enqueue(NewMessage(cart.Snapshot{}))
		return
	}
	s.enqueue(*last)
}

func (s *Synchronizer) enqueue(msg Message) {
	for {
		select {
		case s.pending <- msg:
			return
		default:
		}
		select {
		case <-s.pending:
		default:
		}
	}
}

// Run drains the queue onto the transport until ctx is cancelled. Transport
// failures are logged and dropped; the register must keep selling when the
// display link is down.
func (s *Synchronizer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.pending:
			s.send(ctx, msg)
		}
	}
}

func (s *Synchronizer) send(ctx context.Context, msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logg.Error(ctx, "marshaling display snapshot", err)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := s.transport.Publish(sendCtx, s.channel, payload); err != nil {
		s.logg.Error(ctx, "publishing display snapshot", err)
		return
	}
	s.metrics.IncPublish()
}
