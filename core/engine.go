package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// TokenPair a pair of token amounts moved by an operation
type TokenPair struct {
	AmountA decimal.Decimal `json:"amount_a"`
	AmountB decimal.Decimal `json:"amount_b"`
}

// MintResult result of minting a range position or placing a limit order
type MintResult struct {
	PositionID uint64    `json:"position_id"`
	Cost       TokenPair `json:"cost"`
}

// LiquidationResult amounts seized from an unhealthy vault
type LiquidationResult struct {
	LTV             decimal.Decimal `json:"ltv"`
	SeizeFraction   decimal.Decimal `json:"seize_fraction"`
	DebtRetired     decimal.Decimal `json:"debt_retired"`
	SharesRetired   decimal.Decimal `json:"shares_retired"`
	CollateralValue decimal.Decimal `json:"collateral_value"`
	Seized          TokenPair       `json:"seized"`
}

// RiskSummary read-only risk view of a vault
type RiskSummary struct {
	UserID     string          `json:"user_id"`
	TotalA     decimal.Decimal `json:"total_a"`
	TotalB     decimal.Decimal `json:"total_b"`
	Collateral decimal.Decimal `json:"collateral"`
	Debt       decimal.Decimal `json:"debt"`
	LTV        decimal.Decimal `json:"ltv"`
}

// PoolSummary read-only view of global pool accounting
type PoolSummary struct {
	X               decimal.Decimal `json:"x"`
	Y               decimal.Decimal `json:"y"`
	TotalFRShares   decimal.Decimal `json:"total_fr_shares"`
	ShareMultiplier decimal.Decimal `json:"share_multiplier"`
	SumDebtShares   decimal.Decimal `json:"sum_debt_shares"`
	Utilization     decimal.Decimal `json:"utilization"`
	WorstA          decimal.Decimal `json:"worst_a"`
	WorstB          decimal.Decimal `json:"worst_b"`
	NetA            decimal.Decimal `json:"net_a"`
	NetB            decimal.Decimal `json:"net_b"`
	FeeReserve      decimal.Decimal `json:"fee_reserve"`
}

// ActionType composite step discriminator
type ActionType int

const (
	// ActionDeposit deposit idle tokens
	ActionDeposit ActionType = iota + 1
	// ActionWithdraw withdraw idle tokens
	ActionWithdraw
	// ActionMintFR mint full-range shares from idle tokens
	ActionMintFR
	// ActionBurnFR redeem full-range shares into idle tokens
	ActionBurnFR
	// ActionBorrow borrow against full-range shares
	ActionBorrow
	// ActionRepay repay debt with shares
	ActionRepay
)

// Action one step of a composite call. Steps execute strictly in order inside
// a single atomic transition.
type Action struct {
	Type    ActionType      `json:"type"`
	AmountA decimal.Decimal `json:"amount_a"`
	AmountB decimal.Decimal `json:"amount_b"`
	Shares  decimal.Decimal `json:"shares"`
}

// IEngine the collateral/debt accounting and risk engine. Every mutating
// call is a synchronous all-or-nothing state transition: on any error the
// state is left exactly as it was.
type IEngine interface {
	// idle balances
	Deposit(ctx context.Context, userID string, amountA, amountB decimal.Decimal) error
	Withdraw(ctx context.Context, userID string, amountA, amountB decimal.Decimal) error

	// full-range shares
	MintFR(ctx context.Context, userID string, amountA, amountB decimal.Decimal) (decimal.Decimal, error)
	BurnFR(ctx context.Context, userID string, shares decimal.Decimal) (*TokenPair, error)

	// finite-range positions
	MintRange(ctx context.Context, userID string, lower, upper, liquidity decimal.Decimal) (*MintResult, error)
	BurnRange(ctx context.Context, userID string, positionID uint64) (*TokenPair, error)

	// limit orders
	PlaceLimitOrder(ctx context.Context, userID string, tickSqrtPrice, liquidity decimal.Decimal, sellA bool) (*MintResult, error)
	CancelLimitOrder(ctx context.Context, userID string, positionID uint64) (*TokenPair, error)
	FillLimitOrder(ctx context.Context, positionID uint64) (*TokenPair, error)

	// debt
	Borrow(ctx context.Context, userID string, shares decimal.Decimal) (*TokenPair, error)
	RepayShares(ctx context.Context, userID string, shares decimal.Decimal) error
	RepayTokens(ctx context.Context, userID string, amountA, amountB decimal.Decimal) (decimal.Decimal, error)

	// interest and liquidation
	Accrue(ctx context.Context) (decimal.Decimal, error)
	Liquidate(ctx context.Context, userID string) (*LiquidationResult, error)

	// composite call, atomic across all steps
	Execute(ctx context.Context, userID string, actions []Action) error

	// guard for externally requested rebalancing swaps
	CheckForcedSwap(ctx context.Context, amountA, amountB decimal.Decimal) error

	// read-only queries
	VaultRisk(ctx context.Context, userID string) (*RiskSummary, error)
	PoolInfo(ctx context.Context) (*PoolSummary, error)
	Snapshot(ctx context.Context) *State
}
