package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPrice   = errors.New("Price must be a positive amount")
	ErrInvalidRoyalty = errors.New("Royalty percentage must be between 0 and 50")
)

// MarketplaceFeeRate is the platform's cut of every sale (2.5%).
var MarketplaceFeeRate = decimal.NewFromFloat(0.025)

// maxRoyaltyPercentage caps the seller-chosen royalty.
var maxRoyaltyPercentage = decimal.NewFromInt(50)

var oneHundred = decimal.NewFromInt(100)

// FeeSplit is the three-way breakdown of a sale price. Computed once at settlement
// and stored verbatim on the SaleRecord.
type FeeSplit struct {
	MarketplaceFee decimal.Decimal `json:"marketplace_fee"`
	RoyaltyFee     decimal.Decimal `json:"royalty_fee"`
	SellerProceeds decimal.Decimal `json:"seller_proceeds"`
}

// Split computes the fee breakdown for a sale. SellerProceeds is derived by
// subtraction so the three parts always sum exactly to price. No rounding is
// applied here; callers round for display only (see FeeSplit.Round).
func Split(price, royaltyPercentage decimal.Decimal) (FeeSplit, error) {
	if !price.IsPositive() {
		return FeeSplit{}, ErrInvalidPrice
	}
	if royaltyPercentage.IsNegative() || royaltyPercentage.GreaterThan(maxRoyaltyPercentage) {
		return FeeSplit{}, ErrInvalidRoyalty
	}

	marketplaceFee := price.Mul(MarketplaceFeeRate)
	royaltyFee := price.Mul(royaltyPercentage).Div(oneHundred)
	sellerProceeds := price.Sub(marketplaceFee).Sub(royaltyFee)

	return FeeSplit{
		MarketplaceFee: marketplaceFee,
		RoyaltyFee:     royaltyFee,
		SellerProceeds: sellerProceeds,
	}, nil
}

// Round returns a copy rounded half-up to the given number of fractional digits.
// Display use only — never feed a rounded split back into settlement.
func (f FeeSplit) Round(places int32) FeeSplit {
	return FeeSplit{
		MarketplaceFee: f.MarketplaceFee.Round(places),
		RoyaltyFee:     f.RoyaltyFee.Round(places),
		SellerProceeds: f.SellerProceeds.Round(places),
	}
}
