package engine

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"lever/core"
	"lever/pkg/clmath"
	"lever/pkg/lever"
	"lever/pkg/number"
)

// Borrow mints debt against the pool, releasing the proportional slice of
// reserves into the vault's idle balances.
func (e *Engine) Borrow(ctx context.Context, userID string, shares decimal.Decimal) (*core.TokenPair, error) {
	var out *core.TokenPair
	err := e.apply(ctx, func(s *core.State, px *priced) error {
		e.accrue(s, e.now())

		var err error
		out, err = borrow(s, s.Vault(userID), shares, px.sigma)
		return err
	})

	return out, err
}

// RepayShares retires debt by returning full-range shares.
func (e *Engine) RepayShares(ctx context.Context, userID string, shares decimal.Decimal) error {
	return e.apply(ctx, func(s *core.State, px *priced) error {
		v, ok := s.Vaults[userID]
		if !ok {
			return core.ErrVaultNotFound
		}

		e.accrue(s, e.now())
		return repayShares(s, v, shares, px.sigma)
	})
}

// RepayTokens retires debt by depositing tokens, which the engine converts
// into shares at the current reserve ratio. Returns the raw debt shares
// retired.
func (e *Engine) RepayTokens(ctx context.Context, userID string, amountA, amountB decimal.Decimal) (decimal.Decimal, error) {
	var retired decimal.Decimal
	err := e.apply(ctx, func(s *core.State, px *priced) error {
		v, ok := s.Vaults[userID]
		if !ok {
			return core.ErrVaultNotFound
		}

		e.accrue(s, e.now())

		var err error
		retired, err = repayTokens(s, v, amountA, amountB, px.sigma)
		return err
	})

	return retired, err
}

// Accrue advances the global share multiplier. Returns the borrower-visible
// multiplier delta.
func (e *Engine) Accrue(ctx context.Context) (decimal.Decimal, error) {
	var delta decimal.Decimal
	err := e.apply(ctx, func(s *core.State, px *priced) error {
		delta = e.accrue(s, e.now())
		return nil
	})

	return delta, err
}

// Liquidate seizes a convex fraction of an unhealthy vault's debt and
// collateral. The only operation permitted at LTV >= 0.98.
func (e *Engine) Liquidate(ctx context.Context, userID string) (*core.LiquidationResult, error) {
	var result *core.LiquidationResult
	err := e.apply(ctx, func(s *core.State, px *priced) error {
		v, ok := s.Vaults[userID]
		if !ok {
			return core.ErrVaultNotFound
		}

		var err error
		result, err = e.liquidate(s, v, px.sigma)
		return err
	})

	return result, err
}

// Execute runs a composite call: every step in order, all-or-nothing.
func (e *Engine) Execute(ctx context.Context, userID string, actions []core.Action) error {
	if len(actions) == 0 {
		return core.ErrInvalidAmount
	}

	return e.apply(ctx, func(s *core.State, px *priced) error {
		v := s.Vault(userID)

		for _, action := range actions {
			var err error
			switch action.Type {
			case core.ActionDeposit:
				err = deposit(s, v, action.AmountA, action.AmountB, px.sigma)
			case core.ActionWithdraw:
				err = withdraw(s, v, action.AmountA, action.AmountB, px.sigma)
			case core.ActionMintFR:
				_, err = mintFR(s, v, action.AmountA, action.AmountB, px.sigma)
			case core.ActionBurnFR:
				_, err = burnFR(s, v, action.Shares, px.sigma)
			case core.ActionBorrow:
				e.accrue(s, e.now())
				_, err = borrow(s, v, action.Shares, px.sigma)
			case core.ActionRepay:
				e.accrue(s, e.now())
				err = repayShares(s, v, action.Shares, px.sigma)
			default:
				err = core.ErrOperationForbidden
			}

			if err != nil {
				return err
			}
		}

		return nil
	})
}

// accrue advances the multiplier by M * r(U) * dt, truncated. A fraction of
// the growth is booked to the protocol fee reserve without reducing the
// borrower-visible delta.
func (e *Engine) accrue(s *core.State, now time.Time) decimal.Decimal {
	pool := &s.Pool

	if pool.LastAccruedAt.IsZero() {
		pool.LastAccruedAt = now
		return decimal.Zero
	}

	elapsed := now.Unix() - pool.LastAccruedAt.Unix()
	if elapsed <= 0 {
		return decimal.Zero
	}

	rate := e.policy.BorrowRatePerSecond(utilization(s))
	delta := lever.MultiplierDelta(pool.ShareMultiplier, rate, elapsed)

	fee := delta.Mul(e.policy.FeeFraction()).Truncate(number.MaxPrecision)
	if fee.Sign() > 0 {
		pool.FeeReserve = pool.FeeReserve.Add(pool.SumDebtShares.Mul(fee).Truncate(number.MaxPrecision))
	}

	pool.ShareMultiplier = pool.ShareMultiplier.Add(delta)
	pool.LastAccruedAt = now

	return delta
}

func borrow(s *core.State, v *core.Vault, shares decimal.Decimal, sigma decimal.Decimal) (*core.TokenPair, error) {
	if shares.Sign() <= 0 {
		return nil, core.ErrInvalidAmount
	}

	pool := &s.Pool
	if pool.TotalFRShares.Sign() <= 0 {
		return nil, core.ErrInsufficientShares
	}

	// utilization cap, checked against the post-borrow level
	free := pool.TotalFRShares.Sub(pool.SumDebtShares.Add(shares))
	if lever.UtilizationRate(pool.SumDebtShares.Add(shares), free).GreaterThan(lever.MaxUtilizationRate) {
		return nil, core.ErrUtilizationCapExceeded
	}

	outA := number.Floor(shares.Mul(pool.X).DivRound(pool.TotalFRShares, number.MaxPrecision), number.LedgerPrecision)
	outB := number.Floor(shares.Mul(pool.Y).DivRound(pool.TotalFRShares, number.MaxPrecision), number.LedgerPrecision)

	pool.X = pool.X.Sub(outA)
	pool.Y = pool.Y.Sub(outB)
	v.AssetA = v.AssetA.Add(outA)
	v.AssetB = v.AssetB.Add(outB)
	v.SharesBorrowed = v.SharesBorrowed.Add(shares)
	pool.SumDebtShares = pool.SumDebtShares.Add(shares)

	if err := ensureHealthy(s, v, sigma); err != nil {
		return nil, err
	}

	return &core.TokenPair{AmountA: outA, AmountB: outB}, nil
}

func repayShares(s *core.State, v *core.Vault, shares decimal.Decimal, sigma decimal.Decimal) error {
	if v.SharesBorrowed.Sign() <= 0 {
		return core.ErrNoDebt
	}

	if shares.Sign() <= 0 || shares.GreaterThan(v.SharesBorrowed) {
		return core.ErrInvalidAmount
	}

	pool := &s.Pool

	// interest is settled in shares: retiring s raw debt shares costs
	// ceil(s * multiplier) full-range shares
	cost := number.Ceil(shares.Mul(pool.ShareMultiplier), number.LedgerPrecision)
	if v.SharesFR.LessThan(cost) {
		return core.ErrInsufficientShares
	}

	v.SharesFR = v.SharesFR.Sub(cost)
	pool.TotalFRShares = pool.TotalFRShares.Sub(cost)
	v.SharesBorrowed = v.SharesBorrowed.Sub(shares)
	pool.SumDebtShares = pool.SumDebtShares.Sub(shares)

	return ensureHealthy(s, v, sigma)
}

func repayTokens(s *core.State, v *core.Vault, amountA, amountB decimal.Decimal, sigma decimal.Decimal) (decimal.Decimal, error) {
	if v.SharesBorrowed.Sign() <= 0 {
		return decimal.Zero, core.ErrNoDebt
	}

	if amountA.Sign() <= 0 || amountB.Sign() <= 0 {
		return decimal.Zero, core.ErrInvalidAmount
	}

	if v.AssetA.LessThan(amountA) || v.AssetB.LessThan(amountB) {
		return decimal.Zero, core.ErrInsufficientShares
	}

	pool := &s.Pool
	if pool.TotalFRShares.Sign() <= 0 || pool.X.Sign() <= 0 || pool.Y.Sign() <= 0 {
		return decimal.Zero, core.ErrInvalidAmount
	}

	// tokens convert to raw debt shares at the reserve ratio, scaled down by
	// the multiplier; flooring under-credits the repayment by at most one unit
	byA := amountA.Mul(pool.TotalFRShares).DivRound(pool.X.Mul(pool.ShareMultiplier), number.MaxPrecision)
	byB := amountB.Mul(pool.TotalFRShares).DivRound(pool.Y.Mul(pool.ShareMultiplier), number.MaxPrecision)
	retired := number.Floor(decimal.Min(byA, byB, v.SharesBorrowed), number.LedgerPrecision)
	if retired.Sign() <= 0 {
		return decimal.Zero, core.ErrInvalidAmount
	}

	scaled := retired.Mul(pool.ShareMultiplier)
	costA := decimal.Min(amountA, number.Ceil(scaled.Mul(pool.X).DivRound(pool.TotalFRShares, number.MaxPrecision), number.LedgerPrecision))
	costB := decimal.Min(amountB, number.Ceil(scaled.Mul(pool.Y).DivRound(pool.TotalFRShares, number.MaxPrecision), number.LedgerPrecision))

	v.AssetA = v.AssetA.Sub(costA)
	v.AssetB = v.AssetB.Sub(costB)
	pool.X = pool.X.Add(costA)
	pool.Y = pool.Y.Add(costB)
	v.SharesBorrowed = v.SharesBorrowed.Sub(retired)
	pool.SumDebtShares = pool.SumDebtShares.Sub(retired)

	if err := ensureHealthy(s, v, sigma); err != nil {
		return decimal.Zero, err
	}

	return retired, nil
}

func (e *Engine) liquidate(s *core.State, v *core.Vault, sigma decimal.Decimal) (*core.LiquidationResult, error) {
	e.accrue(s, e.now())

	if v.SharesBorrowed.Sign() <= 0 {
		return nil, core.ErrNoDebt
	}

	pool := &s.Pool

	totalA, totalB := vaultTotals(s, v, sigma)
	collateral := lever.Collateral(totalA, totalB)
	debt := lever.Debt(v.SharesBorrowed, pool.ShareMultiplier)
	ltv := lever.LTV(debt, collateral)

	fraction := lever.SeizeFraction(ltv)
	if fraction.Sign() <= 0 {
		return nil, core.ErrLiquidationNotAllowed
	}

	// seized amounts round up so under-liquidation stays within one unit
	debtRetired := decimal.Min(debt, number.Ceil(fraction.Mul(debt), number.LedgerPrecision))
	sharesRetired := decimal.Min(v.SharesBorrowed,
		number.Ceil(debtRetired.DivRound(pool.ShareMultiplier, number.MaxPrecision), number.LedgerPrecision))

	seized := core.TokenPair{AmountA: decimal.Zero, AmountB: decimal.Zero}

	// idle balances
	seizeA := decimal.Min(v.AssetA, number.Ceil(fraction.Mul(v.AssetA), number.LedgerPrecision))
	seizeB := decimal.Min(v.AssetB, number.Ceil(fraction.Mul(v.AssetB), number.LedgerPrecision))
	v.AssetA = v.AssetA.Sub(seizeA)
	v.AssetB = v.AssetB.Sub(seizeB)
	pool.X = pool.X.Add(seizeA)
	pool.Y = pool.Y.Add(seizeB)
	seized.AmountA = seized.AmountA.Add(seizeA)
	seized.AmountB = seized.AmountB.Add(seizeB)

	// full-range shares, retired against the pool like a share repay so the
	// backing value stays in reserves
	seizeFR := decimal.Min(v.SharesFR, number.Ceil(fraction.Mul(v.SharesFR), number.LedgerPrecision))
	v.SharesFR = v.SharesFR.Sub(seizeFR)
	pool.TotalFRShares = pool.TotalFRShares.Sub(seizeFR)

	// range positions: the seized liquidity slice converts to tokens at the
	// current price and moves into reserves, with exact ledger deltas
	for _, p := range s.OpenPositions(v) {
		seizeL := decimal.Min(p.Liquidity, number.Ceil(fraction.Mul(p.Liquidity), number.LedgerPrecision))
		if seizeL.Sign() <= 0 {
			continue
		}

		a, b := clmath.Amounts(seizeL, p.LowerSqrtPrice, p.UpperSqrtPrice, sigma)
		outA := number.Floor(a, number.LedgerPrecision)
		outB := number.Floor(b, number.LedgerPrecision)

		remaining := p.Liquidity.Sub(seizeL)
		applyWorstDelta(pool, p, p.Liquidity, remaining)
		p.Liquidity = remaining
		if !p.Open() {
			removePosition(s, p)
		}

		pool.X = pool.X.Add(outA)
		pool.Y = pool.Y.Add(outB)
		seized.AmountA = seized.AmountA.Add(outA)
		seized.AmountB = seized.AmountB.Add(outB)
	}

	v.SharesBorrowed = v.SharesBorrowed.Sub(sharesRetired)
	pool.SumDebtShares = pool.SumDebtShares.Sub(sharesRetired)

	return &core.LiquidationResult{
		LTV:             ltv,
		SeizeFraction:   fraction,
		DebtRetired:     debtRetired,
		SharesRetired:   sharesRetired,
		CollateralValue: collateral,
		Seized:          seized,
	}, nil
}
