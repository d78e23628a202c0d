package pg

import (
	"context"
	"errors"

	"phoneprice-gateway/internal/application"
	"phoneprice-gateway/internal/domain"

	"github.com/jackc/pgx/v5"
)

// QuoteRepo keeps the last live quote per pair so a restarted or second
// gateway does not start from the hardcoded default.
type QuoteRepo struct {
	db   *DB
	pair domain.Pair
}

var _ application.SharedQuoteStore = (*QuoteRepo)(nil)

func NewQuoteRepo(db *DB, pair domain.Pair) *QuoteRepo { return &QuoteRepo{db: db, pair: pair} }

func (r *QuoteRepo) Load(ctx context.Context) (domain.ExchangeQuote, error) {
	const q = `SELECT pair, rate::text, fetched_at, source FROM quotes WHERE pair=$1`
	var (
		out  domain.ExchangeQuote
		rate string
	)
	err := r.db.Pool.QueryRow(ctx, q, string(r.pair)).Scan(&out.Pair, &rate, &out.FetchedAt, &out.Source)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ExchangeQuote{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.ExchangeQuote{}, err
	}
	if out.Rate, err = parseDecimal(rate); err != nil {
		return domain.ExchangeQuote{}, err
	}
	return out, nil
}

func (r *QuoteRepo) Save(ctx context.Context, q domain.ExchangeQuote) error {
	const up = `
        INSERT INTO quotes(pair, rate, fetched_at, source)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (pair) DO UPDATE
          SET rate=EXCLUDED.rate, fetched_at=EXCLUDED.fetched_at, source=EXCLUDED.source
          WHERE quotes.fetched_at <= EXCLUDED.fetched_at`
	_, err := r.db.Pool.Exec(ctx, up, string(q.Pair), q.Rate.String(), q.FetchedAt, q.Source)
	return err
}
