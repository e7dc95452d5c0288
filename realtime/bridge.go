package realtime

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const inboxPrefix = "chat:inbox:"

// RedisBridge fans relayed payloads out across gateway instances through
// redis pub/sub. Every instance subscribes to the inbox pattern and
// delivers whatever lands for a participant with a local connection.
type RedisBridge struct {
	rdb *redis.Client
	log *zap.SugaredLogger
}

func NewRedisBridge(addr string, log *zap.SugaredLogger) *RedisBridge {
	return &RedisBridge{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		log: log,
	}
}

func (b *RedisBridge) Publish(ctx context.Context, receiverID string, payload []byte) error {
	return b.rdb.Publish(ctx, inboxPrefix+receiverID, payload).Err()
}

// Subscribe blocks delivering inbox payloads until the context is done.
func (b *RedisBridge) Subscribe(ctx context.Context, deliver func(receiverID string, payload []byte)) {
	pubsub := b.rdb.PSubscribe(ctx, inboxPrefix+"*")
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok {
				return
			}
			receiverID := strings.TrimPrefix(m.Channel, inboxPrefix)
			deliver(receiverID, []byte(m.Payload))
		}
	}
}

func (b *RedisBridge) Close() error {
	return b.rdb.Close()
}
