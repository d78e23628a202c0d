package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeFallback_GoldenValues(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		model     int
		storage   int
		condition string
		price     string
		min, max  string
	}{
		{"iphone 14 256 good", 14, 256, "İyi", "32130", "28917", "35343"},
		{"iphone 16 1tb excellent", 16, 1024, "Mükemmel", "91200", "82080", "100320"},
		{"iphone 8 64 fair", 8, 64, "Orta", "6750", "6075", "7425"},
		{"iphone 13 128 very good", 13, 128, "Çok İyi", "25668", "23101", "28235"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			got := ComputeFallback(c.model, c.storage, c.condition)
			require.Equal(t, c.price, got.PredictedPrice.String())
			require.Equal(t, c.min, got.PriceRange.Min.String())
			require.Equal(t, c.max, got.PriceRange.Max.String())
			require.Equal(t, FallbackConfidence, got.ConfidenceScore)
			require.Equal(t, "fallback", got.Status)
		})
	}
}

func TestComputeFallback_UnknownKeysUseDefaults(t *testing.T) {
	t.Parallel()
	got := ComputeFallback(999, 48, "Kırık")
	// 20000 * 1.00 * 0.85
	require.Equal(t, "17000", got.PredictedPrice.String())
	require.Equal(t, "15300", got.PriceRange.Min.String())
	require.Equal(t, "18700", got.PriceRange.Max.String())
}

func TestComputeFallback_Deterministic(t *testing.T) {
	t.Parallel()
	for _, model := range []int{0, 8, 9, 10, 11, 12, 13, 14, 15, 16, 42} {
		for _, storage := range append(StorageTiers(), 0, 2048) {
			for _, cond := range append(Conditions(), "", "unknown") {
				a := ComputeFallback(model, storage, cond)
				b := ComputeFallback(model, storage, cond)
				require.True(t, a.PredictedPrice.Equal(b.PredictedPrice))
				require.True(t, a.PriceRange.Min.Equal(b.PriceRange.Min))
				require.True(t, a.PriceRange.Max.Equal(b.PriceRange.Max))
				require.Equal(t, a, b)
			}
		}
	}
}
