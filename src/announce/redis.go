package announce

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/stake-plus/govtool/src/data"
)

// RedisSink appends events to a redis stream.
type RedisSink struct {
	rdb    redis.Cmdable
	stream string
}

func NewRedisSink(rdb redis.Cmdable, stream string) *RedisSink {
	return &RedisSink{rdb: rdb, stream: stream}
}

func (s *RedisSink) Send(ctx context.Context, e Event) error {
	return data.Publish(ctx, s.rdb, s.stream, e.Values())
}
