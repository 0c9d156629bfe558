package pricing_test

import (
	"testing"

	"github.com/assetline/inventory-api/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestResolveUnitPrice(t *testing.T) {
	purchase := dec("120.50")
	master := dec("100")

	tests := []struct {
		name     string
		purchase *decimal.Decimal
		master   *decimal.Decimal
		want     decimal.Decimal
	}{
		{"purchase price wins", &purchase, &master, dec("120.50")},
		{"falls back to master price", nil, &master, dec("100")},
		{"falls back to zero", nil, nil, decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.ResolveUnitPrice(tt.purchase, tt.master)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestComputeTotalPrice(t *testing.T) {
	tests := []struct {
		name                     string
		unitPrice                string
		active, broken, inactive int
		want                     string
	}{
		{"all counters contribute", "10", 3, 2, 1, "60"},
		{"zero quantities", "99.99", 0, 0, 0, "0"},
		{"fractional unit price", "2.50", 4, 0, 0, "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.ComputeTotalPrice(dec(tt.unitPrice), tt.active, tt.broken, tt.inactive)
			assert.True(t, dec(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestBlendUnitPrice(t *testing.T) {
	// Existing row worth 1000 over 10 units, purchase adds 5 units at 120
	got := pricing.BlendUnitPrice(dec("1000"), dec("600"), 10, 5, dec("120"))
	assert.True(t, dec("106.6667").Equal(got), "want 106.6667, got %s", got)
}

func TestBlendUnitPriceZeroQuantityFallsBack(t *testing.T) {
	got := pricing.BlendUnitPrice(decimal.Zero, decimal.Zero, 0, 0, dec("42"))
	assert.True(t, dec("42").Equal(got))
}
