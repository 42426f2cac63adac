package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	noncePrefix       = "nonce:"
	pendingVotePrefix = "pending:vote:"
	nonceTTL          = 5 * time.Minute
	pendingVoteTTL    = 30 * time.Minute
)

// ErrNoPending is returned when an identity has no pending vote transaction.
var ErrNoPending = errors.New("no pending vote")

// NewRedis parses a redis:// URL and returns a client.
func NewRedis(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return redis.NewClient(opt), nil
}

func SetNonce(ctx context.Context, rdb redis.Cmdable, addr, nonce string) error {
	return rdb.Set(ctx, noncePrefix+addr, nonce, nonceTTL).Err()
}

func GetAndDelNonce(ctx context.Context, rdb redis.Cmdable, addr string) (string, error) {
	return rdb.GetDel(ctx, noncePrefix+addr).Result()
}

// SetPendingVote records the hash of the identity's latest vote transaction.
func SetPendingVote(ctx context.Context, rdb redis.Cmdable, dRepID, txHash string) error {
	return rdb.Set(ctx, pendingVotePrefix+dRepID, txHash, pendingVoteTTL).Err()
}

// PendingVote returns the latest vote transaction hash or ErrNoPending.
func PendingVote(ctx context.Context, rdb redis.Cmdable, dRepID string) (string, error) {
	v, err := rdb.Get(ctx, pendingVotePrefix+dRepID).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoPending
	}
	return v, err
}

// Publish appends an event to a redis stream.
func Publish(ctx context.Context, rdb redis.Cmdable, stream string, payload map[string]interface{}) error {
	_, err := rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: payload,
	}).Result()
	return err
}
