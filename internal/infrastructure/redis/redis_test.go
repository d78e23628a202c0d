package redisstore_test

import (
	"context"
	"testing"
	"time"

	"phoneprice-gateway/internal/domain"
	redisstore "phoneprice-gateway/internal/infrastructure/redis"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestQuoteStore_RoundTripAndTTL(t *testing.T) {
	mr, client := newRedis(t)
	pair := domain.NewPair("USD", "TRY")
	store := redisstore.NewQuoteStore(client, pair, time.Hour)
	ctx := context.Background()

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)

	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	q := domain.ExchangeQuote{Pair: pair, Rate: decimal.RequireFromString("34.5123"), FetchedAt: at, Source: "tcmb"}
	require.NoError(t, store.Save(ctx, q))

	require.True(t, mr.Exists("phoneprice:quote:USD:TRY"))
	require.Equal(t, time.Hour, mr.TTL("phoneprice:quote:USD:TRY"))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, pair, got.Pair)
	require.True(t, q.Rate.Equal(got.Rate))
	require.True(t, at.Equal(got.FetchedAt))
	require.Equal(t, "tcmb", got.Source)

	mr.FastForward(2 * time.Hour)
	_, err = store.Load(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuoteStore_CorruptValue(t *testing.T) {
	mr, client := newRedis(t)
	store := redisstore.NewQuoteStore(client, domain.NewPair("USD", "TRY"), time.Hour)
	require.NoError(t, mr.Set(store.Key, "{not json"))

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestWindowLimiter(t *testing.T) {
	mr, client := newRedis(t)
	l := redisstore.NewWindowLimiter(client, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		require.True(t, d.Allowed)
		require.Equal(t, 2-i, d.Remaining)
	}
	d, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.False(t, d.Allowed)
	require.Zero(t, d.Remaining)
	require.Positive(t, d.ResetIn)

	other, err := l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	require.True(t, other.Allowed)

	mr.FastForward(time.Minute + time.Second)
	d, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.True(t, d.Allowed)
}

func TestNoopLimiter(t *testing.T) {
	d, err := redisstore.NoopLimiter{}.Allow(context.Background(), "x")
	require.NoError(t, err)
	require.True(t, d.Allowed)
}
