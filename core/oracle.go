package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceQuote spot price plus the time-weighted reference it is checked against
type PriceQuote struct {
	Spot      decimal.Decimal `json:"spot"`
	Reference decimal.Decimal `json:"reference"`
}

// IPriceFeed price collaborator. The engine treats prices as externally
// supplied and only verifies the spot/reference deviation bound.
type IPriceFeed interface {
	// Quote current spot price P of asset A in asset B and the
	// time-weighted reference price
	Quote(ctx context.Context) (*PriceQuote, error)
}
