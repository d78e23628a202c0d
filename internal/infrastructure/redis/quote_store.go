package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"phoneprice-gateway/internal/application"
	"phoneprice-gateway/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const quoteKeyPrefix = "phoneprice:quote:"

// QuoteStore shares the last live quote between gateway processes.
type QuoteStore struct {
	Client *redis.Client
	Key    string
	TTL    time.Duration
}

var _ application.SharedQuoteStore = (*QuoteStore)(nil)

type quoteSnapshot struct {
	Pair      string          `json:"pair"`
	Rate      decimal.Decimal `json:"rate"`
	FetchedAt time.Time       `json:"fetched_at"`
	Source    string          `json:"source"`
}

// QuoteKey is "phoneprice:quote:USD:TRY" for USD/TRY.
func QuoteKey(p domain.Pair) string {
	return quoteKeyPrefix + p.Base() + ":" + p.Quote()
}

func NewQuoteStore(client *redis.Client, pair domain.Pair, ttl time.Duration) *QuoteStore {
	return &QuoteStore{Client: client, Key: QuoteKey(pair), TTL: ttl}
}

func (s *QuoteStore) Load(ctx context.Context) (domain.ExchangeQuote, error) {
	raw, err := s.Client.Get(ctx, s.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ExchangeQuote{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.ExchangeQuote{}, err
	}
	var snap quoteSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return domain.ExchangeQuote{}, fmt.Errorf("%w: shared quote: %v", domain.ErrMalformedPayload, err)
	}
	return domain.ExchangeQuote{
		Pair:      domain.Pair(snap.Pair),
		Rate:      snap.Rate,
		FetchedAt: snap.FetchedAt,
		Source:    snap.Source,
	}, nil
}

func (s *QuoteStore) Save(ctx context.Context, q domain.ExchangeQuote) error {
	raw, err := json.Marshal(quoteSnapshot{
		Pair:      string(q.Pair),
		Rate:      q.Rate,
		FetchedAt: q.FetchedAt.UTC(),
		Source:    q.Source,
	})
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, s.Key, raw, s.TTL).Err()
}
