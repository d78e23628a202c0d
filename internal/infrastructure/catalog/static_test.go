package catalog

import (
	"context"
	"testing"

	"phoneprice-gateway/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	c := NewStatic()
	ctx := context.Background()

	m, err := c.LookupModel(ctx, 14)
	require.NoError(t, err)
	require.Equal(t, "Apple iPhone 14", m.Name)
	require.Equal(t, 2022, m.ReleaseYear)

	_, err = c.LookupModel(ctx, 7)
	require.ErrorIs(t, err, domain.ErrNotFound)

	models, err := c.ListModels(ctx)
	require.NoError(t, err)
	require.Len(t, models, 9)
	require.Equal(t, 8, models[0].ID)
	require.Equal(t, 16, models[8].ID)

	conds, err := c.Conditions(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Mükemmel", "Çok İyi", "İyi", "Orta"}, conds)
}
