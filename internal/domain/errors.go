package domain

import "errors"

// Marketplace error kinds. Services return these sentinels; handlers map them to
// HTTP status codes and the messages double as the user-facing text.
var (
	ErrInvalidPrice       = errors.New("Price must be a positive amount")
	ErrInvalidRoyalty     = errors.New("Royalty percentage must be between 0 and 50")
	ErrInvalidDuration    = errors.New("Listing duration is not allowed")
	ErrInvalidCurrency    = errors.New("Currency is not accepted")
	ErrAssetNotFound      = errors.New("Asset not found")
	ErrAssetNotOwned      = errors.New("Asset is not owned by the seller")
	ErrAssetAlreadyListed = errors.New("Asset already has an active listing")
	ErrListingNotFound    = errors.New("Listing not found")
	ErrNotListingOwner    = errors.New("Listing belongs to another seller")
	ErrListingNotActive   = errors.New("Listing is not active")
	ErrSelfPurchase       = errors.New("Cannot purchase your own listing")
	ErrInsufficientFunds  = errors.New("Insufficient funds")
)
