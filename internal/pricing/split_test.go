package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// price=10, royalty=5%, fee rate 0.025 → 0.25 / 0.5 / 9.25.
func TestSplit_ReferenceScenario(t *testing.T) {
	split, err := Split(d("10"), d("5"))
	require.NoError(t, err)
	assert.True(t, split.MarketplaceFee.Equal(d("0.25")), "marketplace fee: %s", split.MarketplaceFee)
	assert.True(t, split.RoyaltyFee.Equal(d("0.5")), "royalty fee: %s", split.RoyaltyFee)
	assert.True(t, split.SellerProceeds.Equal(d("9.25")), "seller proceeds: %s", split.SellerProceeds)
}

func TestSplit_PartsSumToPrice(t *testing.T) {
	prices := []string{"0.000001", "1", "3.333333", "10", "99.99", "123456.789", "0.1"}
	royalties := []string{"0", "2.5", "5", "10", "33.33", "50"}
	for _, p := range prices {
		for _, r := range royalties {
			split, err := Split(d(p), d(r))
			require.NoError(t, err)
			total := split.MarketplaceFee.Add(split.RoyaltyFee).Add(split.SellerProceeds)
			assert.True(t, total.Equal(d(p)), "price=%s royalty=%s: parts sum to %s", p, r, total)
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	first, err := Split(d("42.424242"), d("12.5"))
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Split(d("42.424242"), d("12.5"))
		require.NoError(t, err)
		assert.True(t, first.MarketplaceFee.Equal(again.MarketplaceFee))
		assert.True(t, first.RoyaltyFee.Equal(again.RoyaltyFee))
		assert.True(t, first.SellerProceeds.Equal(again.SellerProceeds))
	}
}

func TestSplit_InvalidPrice(t *testing.T) {
	for _, p := range []string{"0", "-1", "-0.000001"} {
		_, err := Split(d(p), d("5"))
		assert.ErrorIs(t, err, ErrInvalidPrice, "price=%s", p)
	}
}

func TestSplit_InvalidRoyalty(t *testing.T) {
	for _, r := range []string{"-0.01", "50.01", "100"} {
		_, err := Split(d("10"), d(r))
		assert.ErrorIs(t, err, ErrInvalidRoyalty, "royalty=%s", r)
	}
	// Boundaries are valid.
	_, err := Split(d("10"), d("0"))
	assert.NoError(t, err)
	_, err = Split(d("10"), d("50"))
	assert.NoError(t, err)
}

func TestRound_DisplayOnly(t *testing.T) {
	split, err := Split(d("1"), d("33.333333"))
	require.NoError(t, err)
	rounded := split.Round(6)
	assert.True(t, rounded.RoyaltyFee.Equal(d("0.333333")), "rounded royalty: %s", rounded.RoyaltyFee)
	// The unrounded split still sums exactly.
	total := split.MarketplaceFee.Add(split.RoyaltyFee).Add(split.SellerProceeds)
	assert.True(t, total.Equal(d("1")))
}
