package engine

import (
	"github.com/shopspring/decimal"

	"lever/core"
	"lever/pkg/clmath"
	"lever/pkg/number"
)

// vaultTotals token equivalents of everything a vault holds at sqrt price
// sigma: idle balances, the pro-rata slice of pool reserves its full-range
// shares represent, and the current value of its open range positions.
// Re-derived on every call, never cached.
func vaultTotals(s *core.State, v *core.Vault, sigma decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	totalA := v.AssetA
	totalB := v.AssetB

	if v.SharesFR.Sign() > 0 && s.Pool.TotalFRShares.Sign() > 0 {
		totalA = totalA.Add(v.SharesFR.Mul(s.Pool.X).DivRound(s.Pool.TotalFRShares, number.MaxPrecision))
		totalB = totalB.Add(v.SharesFR.Mul(s.Pool.Y).DivRound(s.Pool.TotalFRShares, number.MaxPrecision))
	}

	for _, p := range s.OpenPositions(v) {
		a, b := clmath.Amounts(p.Liquidity, p.LowerSqrtPrice, p.UpperSqrtPrice, sigma)
		totalA = totalA.Add(a)
		totalB = totalB.Add(b)
	}

	return totalA, totalB
}

// netReserves system-wide token equivalents: pool reserves, every vault's
// idle balances, and the current value of every open range position.
func netReserves(s *core.State, sigma decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	netA := s.Pool.X
	netB := s.Pool.Y

	for _, v := range s.Vaults {
		netA = netA.Add(v.AssetA)
		netB = netB.Add(v.AssetB)
	}

	for _, p := range s.Positions {
		if !p.Open() {
			continue
		}

		a, b := clmath.Amounts(p.Liquidity, p.LowerSqrtPrice, p.UpperSqrtPrice, sigma)
		netA = netA.Add(a)
		netB = netB.Add(b)
	}

	return netA, netB
}
