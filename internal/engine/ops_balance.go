package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"lever/core"
	"lever/pkg/number"
)

// Deposit credits idle token balances.
func (e *Engine) Deposit(ctx context.Context, userID string, amountA, amountB decimal.Decimal) error {
	return e.apply(ctx, func(s *core.State, px *priced) error {
		return deposit(s, s.Vault(userID), amountA, amountB, px.sigma)
	})
}

// Withdraw debits idle token balances.
func (e *Engine) Withdraw(ctx context.Context, userID string, amountA, amountB decimal.Decimal) error {
	return e.apply(ctx, func(s *core.State, px *priced) error {
		v, ok := s.Vaults[userID]
		if !ok {
			return core.ErrVaultNotFound
		}

		return withdraw(s, v, amountA, amountB, px.sigma)
	})
}

// MintFR allocates idle tokens into full-range shares.
func (e *Engine) MintFR(ctx context.Context, userID string, amountA, amountB decimal.Decimal) (decimal.Decimal, error) {
	var shares decimal.Decimal
	err := e.apply(ctx, func(s *core.State, px *priced) error {
		var err error
		shares, err = mintFR(s, s.Vault(userID), amountA, amountB, px.sigma)
		return err
	})

	return shares, err
}

// BurnFR redeems full-range shares back into idle tokens.
func (e *Engine) BurnFR(ctx context.Context, userID string, shares decimal.Decimal) (*core.TokenPair, error) {
	var out *core.TokenPair
	err := e.apply(ctx, func(s *core.State, px *priced) error {
		v, ok := s.Vaults[userID]
		if !ok {
			return core.ErrVaultNotFound
		}

		var err error
		out, err = burnFR(s, v, shares, px.sigma)
		return err
	})

	return out, err
}

func deposit(s *core.State, v *core.Vault, amountA, amountB, sigma decimal.Decimal) error {
	if amountA.Sign() < 0 || amountB.Sign() < 0 ||
		amountA.Add(amountB).Sign() == 0 {
		return core.ErrInvalidAmount
	}

	v.AssetA = v.AssetA.Add(amountA)
	v.AssetB = v.AssetB.Add(amountB)

	return ensureHealthy(s, v, sigma)
}

func withdraw(s *core.State, v *core.Vault, amountA, amountB, sigma decimal.Decimal) error {
	if amountA.Sign() < 0 || amountB.Sign() < 0 ||
		amountA.Add(amountB).Sign() == 0 {
		return core.ErrInvalidAmount
	}

	if v.AssetA.LessThan(amountA) || v.AssetB.LessThan(amountB) {
		return core.ErrInsufficientShares
	}

	v.AssetA = v.AssetA.Sub(amountA)
	v.AssetB = v.AssetB.Sub(amountB)

	return ensureHealthy(s, v, sigma)
}

// mintFR converts idle tokens into full-range shares. On an empty pool the
// first minter sets the ratio and receives sqrt(a*b) shares; afterwards
// shares are minted pro rata and floored, any remainder stays idle.
func mintFR(s *core.State, v *core.Vault, amountA, amountB, sigma decimal.Decimal) (decimal.Decimal, error) {
	if amountA.Sign() <= 0 || amountB.Sign() <= 0 {
		return decimal.Zero, core.ErrInvalidAmount
	}

	if v.AssetA.LessThan(amountA) || v.AssetB.LessThan(amountB) {
		return decimal.Zero, core.ErrInsufficientShares
	}

	pool := &s.Pool

	if pool.TotalFRShares.Sign() == 0 {
		shares := number.Floor(number.Sqrt(amountA.Mul(amountB)), number.LedgerPrecision)
		if shares.Sign() <= 0 {
			return decimal.Zero, core.ErrInvalidAmount
		}

		v.AssetA = v.AssetA.Sub(amountA)
		v.AssetB = v.AssetB.Sub(amountB)
		pool.X = pool.X.Add(amountA)
		pool.Y = pool.Y.Add(amountB)
		pool.TotalFRShares = shares
		v.SharesFR = v.SharesFR.Add(shares)

		return shares, ensureHealthy(s, v, sigma)
	}

	if pool.X.Sign() <= 0 || pool.Y.Sign() <= 0 {
		return decimal.Zero, core.ErrInvalidAmount
	}

	byA := amountA.Mul(pool.TotalFRShares).DivRound(pool.X, number.MaxPrecision)
	byB := amountB.Mul(pool.TotalFRShares).DivRound(pool.Y, number.MaxPrecision)
	shares := number.Floor(decimal.Min(byA, byB), number.LedgerPrecision)
	if shares.Sign() <= 0 {
		return decimal.Zero, core.ErrInvalidAmount
	}

	costA := decimal.Min(amountA, number.Ceil(shares.Mul(pool.X).DivRound(pool.TotalFRShares, number.MaxPrecision), number.LedgerPrecision))
	costB := decimal.Min(amountB, number.Ceil(shares.Mul(pool.Y).DivRound(pool.TotalFRShares, number.MaxPrecision), number.LedgerPrecision))

	v.AssetA = v.AssetA.Sub(costA)
	v.AssetB = v.AssetB.Sub(costB)
	pool.X = pool.X.Add(costA)
	pool.Y = pool.Y.Add(costB)
	pool.TotalFRShares = pool.TotalFRShares.Add(shares)
	v.SharesFR = v.SharesFR.Add(shares)

	return shares, ensureHealthy(s, v, sigma)
}

// burnFR redeems shares for the pro-rata slice of reserves, floored so the
// outflow never exceeds the exact proportional share.
func burnFR(s *core.State, v *core.Vault, shares, sigma decimal.Decimal) (*core.TokenPair, error) {
	if shares.Sign() <= 0 {
		return nil, core.ErrInvalidAmount
	}

	if v.SharesFR.LessThan(shares) {
		return nil, core.ErrInsufficientShares
	}

	pool := &s.Pool
	if pool.TotalFRShares.Sign() <= 0 {
		return nil, core.ErrInsufficientShares
	}

	outA := number.Floor(shares.Mul(pool.X).DivRound(pool.TotalFRShares, number.MaxPrecision), number.LedgerPrecision)
	outB := number.Floor(shares.Mul(pool.Y).DivRound(pool.TotalFRShares, number.MaxPrecision), number.LedgerPrecision)

	v.SharesFR = v.SharesFR.Sub(shares)
	pool.TotalFRShares = pool.TotalFRShares.Sub(shares)
	pool.X = pool.X.Sub(outA)
	pool.Y = pool.Y.Sub(outB)
	v.AssetA = v.AssetA.Add(outA)
	v.AssetB = v.AssetB.Add(outB)

	if err := ensureHealthy(s, v, sigma); err != nil {
		return nil, err
	}

	return &core.TokenPair{AmountA: outA, AmountB: outB}, nil
}
