package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"lever/core"
	"lever/pkg/clmath"
	"lever/pkg/number"
)

// MintRange opens a finite-range position funded from idle tokens.
func (e *Engine) MintRange(ctx context.Context, userID string, lower, upper, liquidity decimal.Decimal) (*core.MintResult, error) {
	var result *core.MintResult
	err := e.apply(ctx, func(s *core.State, px *priced) error {
		var err error
		result, err = mintRange(s, s.Vault(userID), core.PositionCR, lower, upper, liquidity, false, px.sigma)
		return err
	})

	return result, err
}

// BurnRange closes a finite-range position, crediting its current token
// value back to idle balances.
func (e *Engine) BurnRange(ctx context.Context, userID string, positionID uint64) (*core.TokenPair, error) {
	var out *core.TokenPair
	err := e.apply(ctx, func(s *core.State, px *priced) error {
		var err error
		out, err = burnRange(s, userID, positionID, px.sigma)
		return err
	})

	return out, err
}

// PlaceLimitOrder opens a one-tick-wide position entirely on one side of the
// current price, acting as a resting limit order.
func (e *Engine) PlaceLimitOrder(ctx context.Context, userID string, tickSqrtPrice, liquidity decimal.Decimal, sellA bool) (*core.MintResult, error) {
	var result *core.MintResult
	err := e.apply(ctx, func(s *core.State, px *priced) error {
		lower := tickSqrtPrice
		upper := tickSqrtPrice.Mul(e.tickSqrtRatio).Truncate(number.MaxPrecision)

		if sellA {
			// order sells A as the price rises through the tick
			if px.sigma.GreaterThan(lower) {
				return core.ErrInvalidAmount
			}
		} else {
			// order sells B as the price falls through the tick
			if px.sigma.LessThan(upper) {
				return core.ErrInvalidAmount
			}
		}

		var err error
		result, err = mintRange(s, s.Vault(userID), core.PositionLO, lower, upper, liquidity, sellA, px.sigma)
		return err
	})

	return result, err
}

// CancelLimitOrder withdraws an unfilled limit order, or clears the record
// of a filled one.
func (e *Engine) CancelLimitOrder(ctx context.Context, userID string, positionID uint64) (*core.TokenPair, error) {
	var out *core.TokenPair
	err := e.apply(ctx, func(s *core.State, px *priced) error {
		p, ok := s.Positions[positionID]
		if !ok || p.VaultID != userID {
			return core.ErrPositionNotFound
		}

		if p.Kind != core.PositionLO {
			return core.ErrPositionNotFound
		}

		if p.Filled {
			// proceeds were credited at fill time, just drop the record
			removePosition(s, p)
			out = &core.TokenPair{AmountA: decimal.Zero, AmountB: decimal.Zero}
			return nil
		}

		var err error
		out, err = burnRange(s, userID, positionID, px.sigma)
		return err
	})

	return out, err
}

// FillLimitOrder converts a crossed limit order into its single-asset
// proceeds. Callable by anyone once the price has crossed the tick.
func (e *Engine) FillLimitOrder(ctx context.Context, positionID uint64) (*core.TokenPair, error) {
	var out *core.TokenPair
	err := e.apply(ctx, func(s *core.State, px *priced) error {
		var err error
		out, err = fillLimitOrder(s, positionID, px.sigma)
		return err
	})

	return out, err
}

// applyWorstDelta updates the worst-case ledgers for a position whose
// liquidity moves from oldL to newL. The delta is the exact difference of
// the two worst-case evaluations, so the ledger always equals the sum over
// open positions.
func applyWorstDelta(pool *core.PoolState, p *core.RangePosition, oldL, newL decimal.Decimal) {
	oldA, oldB := clmath.WorstCase(oldL, p.LowerSqrtPrice, p.UpperSqrtPrice)
	newA, newB := clmath.WorstCase(newL, p.LowerSqrtPrice, p.UpperSqrtPrice)
	pool.WorstA = pool.WorstA.Add(newA).Sub(oldA)
	pool.WorstB = pool.WorstB.Add(newB).Sub(oldB)
}

func removePosition(s *core.State, p *core.RangePosition) {
	if v, ok := s.Vaults[p.VaultID]; ok {
		ids := v.PositionIDs[:0]
		for _, id := range v.PositionIDs {
			if id != p.ID {
				ids = append(ids, id)
			}
		}
		v.PositionIDs = ids
	}

	delete(s.Positions, p.ID)
}

func mintRange(s *core.State, v *core.Vault, kind core.PositionKind, lower, upper, liquidity decimal.Decimal, sellA bool, sigma decimal.Decimal) (*core.MintResult, error) {
	if err := clmath.ValidateBounds(lower, upper); err != nil {
		return nil, core.ErrInvalidAmount
	}

	if kind == core.PositionCR && !upper.GreaterThan(lower) {
		return nil, core.ErrInvalidAmount
	}

	if liquidity.Sign() <= 0 {
		return nil, core.ErrInvalidAmount
	}

	a, b := clmath.Amounts(liquidity, lower, upper, sigma)
	costA := number.Ceil(a, number.LedgerPrecision)
	costB := number.Ceil(b, number.LedgerPrecision)

	if v.AssetA.LessThan(costA) || v.AssetB.LessThan(costB) {
		return nil, core.ErrInsufficientShares
	}

	v.AssetA = v.AssetA.Sub(costA)
	v.AssetB = v.AssetB.Sub(costB)

	p := &core.RangePosition{
		ID:             s.NextPositionID,
		VaultID:        v.UserID,
		Kind:           kind,
		LowerSqrtPrice: lower,
		UpperSqrtPrice: upper,
		Liquidity:      liquidity,
		SellA:          sellA,
	}
	s.NextPositionID++
	s.Positions[p.ID] = p
	v.PositionIDs = append(v.PositionIDs, p.ID)

	applyWorstDelta(&s.Pool, p, decimal.Zero, liquidity)

	if err := ensureHealthy(s, v, sigma); err != nil {
		return nil, err
	}

	return &core.MintResult{
		PositionID: p.ID,
		Cost:       core.TokenPair{AmountA: costA, AmountB: costB},
	}, nil
}

func burnRange(s *core.State, userID string, positionID uint64, sigma decimal.Decimal) (*core.TokenPair, error) {
	p, ok := s.Positions[positionID]
	if !ok || p.VaultID != userID {
		return nil, core.ErrPositionNotFound
	}

	if !p.Open() {
		return nil, core.ErrPositionNotFound
	}

	v := s.Vaults[userID]
	if v == nil {
		return nil, core.ErrVaultNotFound
	}

	a, b := clmath.Amounts(p.Liquidity, p.LowerSqrtPrice, p.UpperSqrtPrice, sigma)
	outA := number.Floor(a, number.LedgerPrecision)
	outB := number.Floor(b, number.LedgerPrecision)

	applyWorstDelta(&s.Pool, p, p.Liquidity, decimal.Zero)
	p.Liquidity = decimal.Zero
	removePosition(s, p)

	v.AssetA = v.AssetA.Add(outA)
	v.AssetB = v.AssetB.Add(outB)

	if err := ensureHealthy(s, v, sigma); err != nil {
		return nil, err
	}

	return &core.TokenPair{AmountA: outA, AmountB: outB}, nil
}

func fillLimitOrder(s *core.State, positionID uint64, sigma decimal.Decimal) (*core.TokenPair, error) {
	p, ok := s.Positions[positionID]
	if !ok || p.Kind != core.PositionLO {
		return nil, core.ErrPositionNotFound
	}

	if !p.Open() || p.Filled {
		return nil, core.ErrPositionNotFound
	}

	v := s.Vaults[p.VaultID]
	if v == nil {
		return nil, core.ErrVaultNotFound
	}

	a, b := clmath.Amounts(p.Liquidity, p.LowerSqrtPrice, p.UpperSqrtPrice, sigma)
	out := &core.TokenPair{AmountA: decimal.Zero, AmountB: decimal.Zero}

	if p.SellA {
		// fully converted to B only once the price is at/above the tick top
		if sigma.LessThan(p.UpperSqrtPrice) {
			return nil, core.ErrOrderNotFillable
		}
		out.AmountB = number.Floor(b, number.LedgerPrecision)
	} else {
		if sigma.GreaterThan(p.LowerSqrtPrice) {
			return nil, core.ErrOrderNotFillable
		}
		out.AmountA = number.Floor(a, number.LedgerPrecision)
	}

	applyWorstDelta(&s.Pool, p, p.Liquidity, decimal.Zero)
	p.Liquidity = decimal.Zero
	p.Filled = true

	v.AssetA = v.AssetA.Add(out.AmountA)
	v.AssetB = v.AssetB.Add(out.AmountB)

	return out, nil
}
