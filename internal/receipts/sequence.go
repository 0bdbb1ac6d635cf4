package receipts

import (
	"context"
	"fmt"
	"time"
)

type counterClient interface {
	Incr(ctx context.Context, key string) (int64, error)
	CounterKey(name string) string
}

// Sequence issues the short receipt number printed on each docket. Numbers
// restart every day; the till's local date is part of the counter key, so a
// register left running overnight rolls over on its own.
type Sequence struct {
	client  counterClient
	timeNow func() time.Time
}

func NewSequence(client counterClient) (*Sequence, error) {
	if client == nil {
		return nil, fmt.Errorf("counter client is required")
	}
	return &Sequence{client: client, timeNow: time.Now}, nil
}

// Next reserves the next receipt number for today.
func (s *Sequence) Next(ctx context.Context) (int64, error) {
	key := s.client.CounterKey("receipts:" + s.timeNow().Format("20060102"))
	return s.client.Incr(ctx, key)
}
