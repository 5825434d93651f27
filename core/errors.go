package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrOperationForbidden operation forbidden
	ErrOperationForbidden ErrorCode = 100001
	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100002

	// ErrVaultNotFound no vault
	ErrVaultNotFound ErrorCode = 100100
	// ErrPositionNotFound referenced range position does not exist
	ErrPositionNotFound ErrorCode = 100101
	// ErrInsufficientShares share or token balance does not suffice
	ErrInsufficientShares ErrorCode = 100102
	// ErrInsufficientCollateral post-operation LTV or solvency guard violated
	ErrInsufficientCollateral ErrorCode = 100103
	// ErrUtilizationCapExceeded operation would push utilization above the cap
	ErrUtilizationCapExceeded ErrorCode = 100104
	// ErrPriceDeviationExceeded spot price too far from the reference price
	ErrPriceDeviationExceeded ErrorCode = 100105
	// ErrForcedSwapTooLarge rebalancing swap exceeds the reserve fraction cap
	ErrForcedSwapTooLarge ErrorCode = 100106
	// ErrLiquidationNotAllowed LTV below the liquidation threshold
	ErrLiquidationNotAllowed ErrorCode = 100107
	// ErrNoDebt repay or liquidate against a zero-debt vault
	ErrNoDebt ErrorCode = 100108
	// ErrOrderNotFillable limit order price has not crossed the tick
	ErrOrderNotFillable ErrorCode = 100109
	// ErrInvalidPrice no usable price observation
	ErrInvalidPrice ErrorCode = 100110
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}
