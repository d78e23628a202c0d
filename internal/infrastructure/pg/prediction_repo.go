package pg

import (
	"context"

	"phoneprice-gateway/internal/application"
	"phoneprice-gateway/internal/domain"
)

type PredictionRepo struct{ db *DB }

var _ application.PredictionRecorder = (*PredictionRepo)(nil)

func NewPredictionRepo(db *DB) *PredictionRepo { return &PredictionRepo{db: db} }

func (r *PredictionRepo) Record(ctx context.Context, rec domain.PredictionRecord) error {
	_, err := r.db.Pool.Exec(ctx, `
        INSERT INTO predictions(id, model_id, ram_gb, storage_gb, condition,
                                predicted_price, confidence_score, pricing_source, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (id) DO NOTHING
    `, rec.ID, rec.ModelID, rec.RAMGB, rec.StorageGB, rec.Condition,
		rec.PredictedPrice.StringFixed(2), rec.ConfidenceScore, string(rec.PricingPath), rec.CreatedAt)
	return err
}
