package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type publishedMessage struct {
	channel string
	payload string
}

type mockCmdable struct {
	incr            map[string]int64
	published       []publishedMessage
	subscriberCount int64
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		incr: make(map[string]int64),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

func (m *mockCmdable) Publish(ctx context.Context, channel string, payload any) *redis.IntCmd {
	m.published = append(m.published, publishedMessage{channel: channel, payload: fmt.Sprint(payload)})
	return redis.NewIntResult(m.subscriberCount, nil)
}
