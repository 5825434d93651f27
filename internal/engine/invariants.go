package engine

import (
	"github.com/shopspring/decimal"

	"lever/core"
	"lever/pkg/lever"
)

// checkInvariants standing post-conditions evaluated on the candidate state
// after every mutation. Any violation aborts the whole operation.
func checkInvariants(s *core.State, sigma decimal.Decimal) error {
	if s.Pool.X.Sign() < 0 || s.Pool.Y.Sign() < 0 ||
		s.Pool.TotalFRShares.Sign() < 0 || s.Pool.SumDebtShares.Sign() < 0 ||
		s.Pool.WorstA.Sign() < 0 || s.Pool.WorstB.Sign() < 0 {
		return core.ErrInvalidAmount
	}

	for _, v := range s.Vaults {
		if v.AssetA.Sign() < 0 || v.AssetB.Sign() < 0 ||
			v.SharesFR.Sign() < 0 || v.SharesBorrowed.Sign() < 0 {
			return core.ErrInsufficientShares
		}
	}

	for _, p := range s.Positions {
		if p.Liquidity.Sign() < 0 {
			return core.ErrInvalidAmount
		}
	}

	if utilization(s).GreaterThan(lever.MaxUtilizationRate) {
		return core.ErrUtilizationCapExceeded
	}

	// solvency guard: reserves must cover the worst-case ledgers
	netA, netB := netReserves(s, sigma)
	if netA.LessThan(s.Pool.WorstA) || netB.LessThan(s.Pool.WorstB) {
		return core.ErrInsufficientCollateral
	}

	return nil
}

// ensureHealthy rejects any non-liquidation mutation that would leave a
// borrowing vault at or beyond the liquidation threshold.
func ensureHealthy(s *core.State, v *core.Vault, sigma decimal.Decimal) error {
	if v.SharesBorrowed.Sign() <= 0 {
		return nil
	}

	totalA, totalB := vaultTotals(s, v, sigma)
	collateral := lever.Collateral(totalA, totalB)
	debt := lever.Debt(v.SharesBorrowed, s.Pool.ShareMultiplier)
	if lever.LTV(debt, collateral).GreaterThanOrEqual(lever.LiquidationThreshold) {
		return core.ErrInsufficientCollateral
	}

	return nil
}
