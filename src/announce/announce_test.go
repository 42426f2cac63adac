package announce

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stake-plus/govtool/src/types"
)

type failingSink struct{}

func (failingSink) Send(context.Context, Event) error { return errors.New("down") }

func TestAnnounceToRedisStream(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	a := New(zap.NewNop(), NewRedisSink(rdb, "registrations"))
	reg := types.DRepRegistration{DRepID: "drep1xyz", Kind: types.RegistrationDRep, Name: "Alice", TxHash: "tx1"}
	require.NoError(t, a.AnnounceRegistration(context.Background(), reg))

	entries, err := rdb.XRange(context.Background(), "registrations", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "drep1xyz", entries[0].Values["drep_id"])
	assert.Equal(t, "tx1", entries[0].Values["tx_hash"])
}

func TestAnnounceContinuesAfterFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	a := New(zap.NewNop(), failingSink{}, NewRedisSink(rdb, "registrations"))
	err := a.AnnounceRegistration(context.Background(), types.DRepRegistration{DRepID: "drep1xyz"})
	assert.Error(t, err)

	n, err := rdb.XLen(context.Background(), "registrations").Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestFormatMessage(t *testing.T) {
	msg := FormatMessage(Event{DRepID: "drep1xyz", TxHash: "tx1", MetadataURL: "https://a.example/m.jsonld"})
	assert.True(t, strings.HasPrefix(msg, "**New DRep registration: drep1xyz**"))
	assert.Contains(t, msg, "<https://a.example/m.jsonld>")

	long := FormatMessage(Event{Name: strings.Repeat("x", 3000)})
	assert.Len(t, long, maxDiscordMessageLen)
}
