package lever

import (
	"github.com/shopspring/decimal"

	"lever/pkg/number"
)

var (
	// MaxUtilizationRate hard cap on utilization, operations beyond it are rejected
	MaxUtilizationRate = decimal.NewFromFloat(0.95)
	// SecondsPerYear seconds per year
	SecondsPerYear = decimal.NewFromInt(31536000)
	// ForcedSwapMaxFraction cap on any protocol-forced rebalancing swap
	ForcedSwapMaxFraction = decimal.New(1, 0).Div(decimal.NewFromInt(350))
)

// UtilizationRate fraction of full-range liquidity currently lent out
// utilization_rate = sum_debt / (free_fr_liquidity + sum_debt)
func UtilizationRate(sumDebt, freeFRLiquidity decimal.Decimal) decimal.Decimal {
	total := freeFRLiquidity.Add(sumDebt)
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	return sumDebt.DivRound(total, number.MaxPrecision)
}

// GetBorrowRatePerYear kinked two-slope borrow rate, flat slope up to the
// kink and a jump slope beyond it.
func GetBorrowRatePerYear(utilizationRate, baseRate, multiplier, jumpMultiplier, kink decimal.Decimal) decimal.Decimal {
	if kink.Equal(decimal.Zero) ||
		utilizationRate.LessThanOrEqual(kink) {
		return utilizationRate.Mul(multiplier).Add(baseRate).Truncate(number.MaxPrecision)
	}

	normalRate := kink.Mul(multiplier).Add(baseRate)
	excessUtilRate := utilizationRate.Sub(kink)
	return excessUtilRate.Mul(jumpMultiplier).Add(normalRate).Truncate(number.MaxPrecision)
}

// GetBorrowRatePerSecond borrow rate per second
func GetBorrowRatePerSecond(utilizationRate, baseRate, multiplier, jumpMultiplier, kink decimal.Decimal) decimal.Decimal {
	return GetBorrowRatePerYear(utilizationRate, baseRate, multiplier, jumpMultiplier, kink).
		DivRound(SecondsPerYear, number.MaxPrecision)
}

// MultiplierDelta compounding growth of the share multiplier over elapsed
// seconds, truncated. Truncation under-accrues by at most one base unit per
// update, which favors borrowers over the protocol.
func MultiplierDelta(multiplier, ratePerSecond decimal.Decimal, elapsed int64) decimal.Decimal {
	if elapsed <= 0 {
		return decimal.Zero
	}

	return multiplier.Mul(ratePerSecond).Mul(decimal.NewFromInt(elapsed)).Truncate(number.MaxPrecision)
}
