package core

import "github.com/shopspring/decimal"

// IRiskPolicy policy collaborator: the utilization rate curve and the
// protocol's guard parameters. Implementations must keep BorrowRatePerSecond
// non-decreasing and bounded on [0, 0.95].
type IRiskPolicy interface {
	// BorrowRatePerSecond r(U), per-second borrow rate at a utilization
	BorrowRatePerSecond(utilization decimal.Decimal) decimal.Decimal
	// FeeFraction fraction of accrued interest diverted as protocol fee
	FeeFraction() decimal.Decimal
	// PriceDeviationLimit max relative distance of spot from reference
	PriceDeviationLimit() decimal.Decimal
	// ForcedSwapCap max fraction of reserves a forced rebalancing swap may move
	ForcedSwapCap() decimal.Decimal
}
