package pg

import (
	"context"
	"errors"
	"fmt"

	"phoneprice-gateway/internal/application"
	"phoneprice-gateway/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type CatalogRepo struct{ db *DB }

var _ application.Catalog = (*CatalogRepo)(nil)

func NewCatalogRepo(db *DB) *CatalogRepo { return &CatalogRepo{db: db} }

const modelColumns = `m.id, m.name, m.release_year, b.name FROM models m JOIN brands b ON b.id = m.brand_id`

func (r *CatalogRepo) LookupModel(ctx context.Context, id int) (domain.PhoneModel, error) {
	var m domain.PhoneModel
	err := r.db.Pool.QueryRow(ctx, `SELECT `+modelColumns+` WHERE m.id=$1`, id).
		Scan(&m.ID, &m.Name, &m.ReleaseYear, &m.Brand)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PhoneModel{}, fmt.Errorf("model %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.PhoneModel{}, err
	}
	return m, nil
}

func (r *CatalogRepo) ListModels(ctx context.Context) ([]domain.PhoneModel, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+modelColumns+` ORDER BY m.id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PhoneModel, error) {
		var m domain.PhoneModel
		err := row.Scan(&m.ID, &m.Name, &m.ReleaseYear, &m.Brand)
		return m, err
	})
}

func (r *CatalogRepo) Conditions(ctx context.Context) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT label FROM conditions ORDER BY position`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: numeric %q", domain.ErrMalformedPayload, s)
	}
	return d, nil
}
