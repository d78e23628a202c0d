package pg_test

import (
	"context"
	"testing"
	"time"

	"phoneprice-gateway/internal/domain"
	"phoneprice-gateway/internal/infrastructure/pg"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPostgres_Repos(t *testing.T) {
	db := withPostgres(t)
	ctx := context.Background()

	t.Run("catalog seed", func(t *testing.T) {
		repo := pg.NewCatalogRepo(db)
		m, err := repo.LookupModel(ctx, 14)
		require.NoError(t, err)
		require.Equal(t, "Apple iPhone 14", m.Name)
		require.Equal(t, "Apple", m.Brand)

		_, err = repo.LookupModel(ctx, 1)
		require.ErrorIs(t, err, domain.ErrNotFound)

		models, err := repo.ListModels(ctx)
		require.NoError(t, err)
		require.Len(t, models, 9)

		conds, err := repo.Conditions(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"Mükemmel", "Çok İyi", "İyi", "Orta"}, conds)
	})

	t.Run("quote upsert keeps newest", func(t *testing.T) {
		pair := domain.NewPair("USD", "TRY")
		repo := pg.NewQuoteRepo(db, pair)
		_, err := repo.Load(ctx)
		require.ErrorIs(t, err, domain.ErrNotFound)

		newer := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Save(ctx, domain.ExchangeQuote{Pair: pair, Rate: decimal.RequireFromString("34.61"), FetchedAt: newer, Source: "frankfurter"}))
		require.NoError(t, repo.Save(ctx, domain.ExchangeQuote{Pair: pair, Rate: decimal.RequireFromString("30"), FetchedAt: newer.Add(-time.Hour), Source: "old"}))

		got, err := repo.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, "frankfurter", got.Source)
		require.True(t, decimal.RequireFromString("34.61").Equal(got.Rate))
		require.True(t, newer.Equal(got.FetchedAt))
	})

	t.Run("prediction record", func(t *testing.T) {
		repo := pg.NewPredictionRepo(db)
		rec := domain.PredictionRecord{
			ID: uuid.NewString(), ModelID: 14, RAMGB: 6, StorageGB: 256, Condition: "İyi",
			PredictedPrice: decimal.NewFromInt(32130), ConfidenceScore: 75,
			PricingPath: domain.PricingPathFallback, CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, repo.Record(ctx, rec))
		require.NoError(t, repo.Record(ctx, rec))

		var n int
		require.NoError(t, db.Pool.QueryRow(ctx, `SELECT count(*) FROM predictions WHERE pricing_source='fallback'`).Scan(&n))
		require.Equal(t, 1, n)
	})
}
