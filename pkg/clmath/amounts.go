package clmath

import (
	"errors"

	"github.com/shopspring/decimal"

	"lever/pkg/number"
)

var (
	// ErrInvalidBounds bounds must satisfy 0 < lower <= upper
	ErrInvalidBounds = errors.New("invalid price bounds")
	// ErrNegativeLiquidity liquidity must be non-negative
	ErrNegativeLiquidity = errors.New("negative liquidity")
)

// ValidateBounds checks a position's sqrt-price bounds.
func ValidateBounds(lower, upper decimal.Decimal) error {
	if lower.Sign() <= 0 || upper.LessThan(lower) {
		return ErrInvalidBounds
	}
	return nil
}

// AmountA token A owed by a range position at sqrt price sigma.
//
//	sigma >= upper : 0 (fully converted to B)
//	in range       : L * (upper - sigma) / (sigma * upper)
//	sigma <= lower : L * (upper - lower) / (lower * upper)
func AmountA(liquidity, lower, upper, sigma decimal.Decimal) decimal.Decimal {
	if liquidity.Sign() == 0 {
		return decimal.Zero
	}

	if sigma.GreaterThanOrEqual(upper) {
		return decimal.Zero
	}

	if sigma.LessThanOrEqual(lower) {
		return liquidity.Mul(upper.Sub(lower)).DivRound(lower.Mul(upper), number.MaxPrecision)
	}

	return liquidity.Mul(upper.Sub(sigma)).DivRound(sigma.Mul(upper), number.MaxPrecision)
}

// AmountB token B owed by a range position at sqrt price sigma.
//
//	sigma <= lower : 0 (fully converted to A)
//	in range       : L * (sigma - lower)
//	sigma >= upper : L * (upper - lower)
func AmountB(liquidity, lower, upper, sigma decimal.Decimal) decimal.Decimal {
	if liquidity.Sign() == 0 {
		return decimal.Zero
	}

	if sigma.LessThanOrEqual(lower) {
		return decimal.Zero
	}

	if sigma.GreaterThanOrEqual(upper) {
		return liquidity.Mul(upper.Sub(lower)).Truncate(number.MaxPrecision)
	}

	return liquidity.Mul(sigma.Sub(lower)).Truncate(number.MaxPrecision)
}

// Amounts current token equivalents of a range position at sqrt price sigma.
func Amounts(liquidity, lower, upper, sigma decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	return AmountA(liquidity, lower, upper, sigma), AmountB(liquidity, lower, upper, sigma)
}

// WorstCase maximum single-asset exposure of a range position: all A if the
// price drops to/below the lower bound, all B if it rises to/above the upper.
func WorstCase(liquidity, lower, upper decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if liquidity.Sign() == 0 {
		return decimal.Zero, decimal.Zero
	}

	width := upper.Sub(lower)
	maxA := liquidity.Mul(width).DivRound(lower.Mul(upper), number.MaxPrecision)
	maxB := liquidity.Mul(width).Truncate(number.MaxPrecision)

	return maxA, maxB
}
