package lever

import (
	"github.com/shopspring/decimal"

	"lever/pkg/number"
)

var (
	// LiquidationThreshold LTV at which partial seizure becomes possible
	LiquidationThreshold = decimal.NewFromFloat(0.98)
	// SeizeRampStart LTV at which the seizure fraction starts ramping to 1
	SeizeRampStart = decimal.NewFromFloat(0.985)
	// FullSeizeThreshold LTV at which the whole debt may be seized
	FullSeizeThreshold = decimal.NewFromFloat(0.99)
	// MinSeizeFraction seizure fraction at the liquidation threshold
	MinSeizeFraction = decimal.NewFromFloat(0.0025)
	// SeizeRampBase seizure fraction at the start of the final ramp
	SeizeRampBase = decimal.NewFromFloat(0.2)
)

// Collateral geometric mean of the vault's total token equivalents, floored.
// Underestimating collateral is the conservative direction.
func Collateral(totalA, totalB decimal.Decimal) decimal.Decimal {
	if totalA.Sign() <= 0 || totalB.Sign() <= 0 {
		return decimal.Zero
	}

	return number.Floor(number.Sqrt(totalA.Mul(totalB)), number.LedgerPrecision)
}

// Debt multiplier-scaled borrowed shares, ceiled. Overestimating debt is the
// conservative direction.
func Debt(sharesBorrowed, shareMultiplier decimal.Decimal) decimal.Decimal {
	if sharesBorrowed.Sign() <= 0 {
		return decimal.Zero
	}

	return number.Ceil(sharesBorrowed.Mul(shareMultiplier), number.LedgerPrecision)
}

// LTV loan-to-value. A vault with no debt has LTV 0 regardless of collateral.
func LTV(debt, collateral decimal.Decimal) decimal.Decimal {
	if debt.Sign() <= 0 {
		return decimal.Zero
	}

	if collateral.Sign() <= 0 {
		return decimal.New(1, 0)
	}

	return debt.DivRound(collateral, number.MaxPrecision)
}

// SeizeFraction fraction of debt (and matching collateral) seized at a given
// LTV. Continuous and non-decreasing on [0.98, 0.99]:
//
//	ltv < 0.98          : 0, liquidation not allowed
//	0.98 <= ltv < 0.985 : 0.0025 ramping linearly to 0.2
//	0.985 <= ltv < 0.99 : 0.2 + 0.8*(ltv-0.985)/0.005
//	ltv >= 0.99         : 1
func SeizeFraction(ltv decimal.Decimal) decimal.Decimal {
	if ltv.LessThan(LiquidationThreshold) {
		return decimal.Zero
	}

	if ltv.GreaterThanOrEqual(FullSeizeThreshold) {
		return decimal.New(1, 0)
	}

	if ltv.LessThan(SeizeRampStart) {
		span := SeizeRampStart.Sub(LiquidationThreshold)
		rise := SeizeRampBase.Sub(MinSeizeFraction)
		return MinSeizeFraction.Add(ltv.Sub(LiquidationThreshold).Mul(rise).DivRound(span, number.MaxPrecision))
	}

	span := FullSeizeThreshold.Sub(SeizeRampStart)
	rise := decimal.New(1, 0).Sub(SeizeRampBase)
	return SeizeRampBase.Add(ltv.Sub(SeizeRampStart).Mul(rise).DivRound(span, number.MaxPrecision))
}
