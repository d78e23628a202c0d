package catalog

import (
	"context"
	"fmt"
	"sort"

	"phoneprice-gateway/internal/application"
	"phoneprice-gateway/internal/domain"
	"phoneprice-gateway/internal/pricing"
)

// Static is the built-in catalog keyed by series number.
type Static struct {
	models map[int]domain.PhoneModel
}

var _ application.Catalog = (*Static)(nil)

func NewStatic() *Static {
	models := map[int]domain.PhoneModel{}
	for _, m := range DefaultModels() {
		models[m.ID] = m
	}
	return &Static{models: models}
}

// DefaultModels is also the seed of the models table.
func DefaultModels() []domain.PhoneModel {
	return []domain.PhoneModel{
		{ID: 8, Name: "Apple iPhone 8", ReleaseYear: 2017, Brand: "Apple"},
		{ID: 9, Name: "Apple iPhone SE 2020", ReleaseYear: 2020, Brand: "Apple"},
		{ID: 10, Name: "Apple iPhone X", ReleaseYear: 2017, Brand: "Apple"},
		{ID: 11, Name: "Apple iPhone 11", ReleaseYear: 2019, Brand: "Apple"},
		{ID: 12, Name: "Apple iPhone 12", ReleaseYear: 2020, Brand: "Apple"},
		{ID: 13, Name: "Apple iPhone 13", ReleaseYear: 2021, Brand: "Apple"},
		{ID: 14, Name: "Apple iPhone 14", ReleaseYear: 2022, Brand: "Apple"},
		{ID: 15, Name: "Apple iPhone 15", ReleaseYear: 2023, Brand: "Apple"},
		{ID: 16, Name: "Apple iPhone 16", ReleaseYear: 2024, Brand: "Apple"},
	}
}

func (s *Static) LookupModel(_ context.Context, id int) (domain.PhoneModel, error) {
	m, ok := s.models[id]
	if !ok {
		return domain.PhoneModel{}, fmt.Errorf("model %d: %w", id, domain.ErrNotFound)
	}
	return m, nil
}

func (s *Static) ListModels(context.Context) ([]domain.PhoneModel, error) {
	out := make([]domain.PhoneModel, 0, len(s.models))
	for _, m := range s.models {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Static) Conditions(context.Context) ([]string, error) {
	return pricing.Conditions(), nil
}
