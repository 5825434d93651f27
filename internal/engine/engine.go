package engine

import (
	"context"
	"sync"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"

	"lever/core"
	"lever/pkg/lever"
	"lever/pkg/number"
)

// Engine implements core.IEngine. All operations are serialized behind a
// single mutex and applied copy-validate-commit: the mutation runs on a clone
// of the state, the invariant suite runs on the clone, and only then does the
// clone replace the live state. A failed operation leaves no trace.
type Engine struct {
	mu     sync.Mutex
	state  *core.State
	feed   core.IPriceFeed
	policy core.IRiskPolicy
	now    func() time.Time
	// sqrt price ratio spanned by one tick; limit orders are one tick wide
	tickSqrtRatio decimal.Decimal
}

// Option engine option
type Option func(*Engine)

// WithClock overrides the accrual clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithTickRatio sets the price ratio of one tick.
func WithTickRatio(ratio decimal.Decimal) Option {
	return func(e *Engine) { e.tickSqrtRatio = number.Sqrt(ratio) }
}

// New new engine
func New(state *core.State, feed core.IPriceFeed, policy core.IRiskPolicy, opts ...Option) *Engine {
	if state == nil {
		state = core.NewState()
	}

	e := &Engine{
		state:         state,
		feed:          feed,
		policy:        policy,
		now:           time.Now,
		tickSqrtRatio: number.Sqrt(number.Decimal("1.0001")),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// priced spot quote converted to sqrt price, deviation-checked
type priced struct {
	quote *core.PriceQuote
	sigma decimal.Decimal
}

func (e *Engine) quote(ctx context.Context) (*priced, error) {
	q, err := e.feed.Quote(ctx)
	if err != nil {
		return nil, err
	}

	if q.Spot.Sign() <= 0 || q.Reference.Sign() <= 0 {
		return nil, core.ErrPriceDeviationExceeded
	}

	deviation := q.Spot.Sub(q.Reference).Abs().DivRound(q.Reference, number.MaxPrecision)
	if deviation.GreaterThan(e.policy.PriceDeviationLimit()) {
		return nil, core.ErrPriceDeviationExceeded
	}

	return &priced{quote: q, sigma: number.Sqrt(q.Spot)}, nil
}

// apply runs one atomic state transition.
func (e *Engine) apply(ctx context.Context, mutate func(s *core.State, px *priced) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	px, err := e.quote(ctx)
	if err != nil {
		return err
	}

	next := e.state.Clone()
	if err := mutate(next, px); err != nil {
		logger.FromContext(ctx).WithError(err).Debugln("operation rejected")
		return err
	}

	if err := checkInvariants(next, px.sigma); err != nil {
		logger.FromContext(ctx).WithError(err).Debugln("invariant check rejected operation")
		return err
	}

	next.Pool.Version++
	e.state = next
	return nil
}

// view runs a read-only computation against the live state.
func (e *Engine) view(ctx context.Context, read func(s *core.State, px *priced) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	px, err := e.quote(ctx)
	if err != nil {
		return err
	}

	return read(e.state, px)
}

func utilization(s *core.State) decimal.Decimal {
	free := s.Pool.TotalFRShares.Sub(s.Pool.SumDebtShares)
	return lever.UtilizationRate(s.Pool.SumDebtShares, free)
}

// Snapshot deep copy of the current state.
func (e *Engine) Snapshot(ctx context.Context) *core.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// PoolInfo read-only global accounting view.
func (e *Engine) PoolInfo(ctx context.Context) (*core.PoolSummary, error) {
	var summary *core.PoolSummary
	err := e.view(ctx, func(s *core.State, px *priced) error {
		netA, netB := netReserves(s, px.sigma)
		summary = &core.PoolSummary{
			X:               s.Pool.X,
			Y:               s.Pool.Y,
			TotalFRShares:   s.Pool.TotalFRShares,
			ShareMultiplier: s.Pool.ShareMultiplier,
			SumDebtShares:   s.Pool.SumDebtShares,
			Utilization:     utilization(s),
			WorstA:          s.Pool.WorstA,
			WorstB:          s.Pool.WorstB,
			NetA:            netA,
			NetB:            netB,
			FeeReserve:      s.Pool.FeeReserve,
		}
		return nil
	})

	return summary, err
}

// VaultRisk read-only risk view of one vault.
func (e *Engine) VaultRisk(ctx context.Context, userID string) (*core.RiskSummary, error) {
	var summary *core.RiskSummary
	err := e.view(ctx, func(s *core.State, px *priced) error {
		v, ok := s.Vaults[userID]
		if !ok {
			return core.ErrVaultNotFound
		}

		totalA, totalB := vaultTotals(s, v, px.sigma)
		collateral := lever.Collateral(totalA, totalB)
		debt := lever.Debt(v.SharesBorrowed, s.Pool.ShareMultiplier)
		summary = &core.RiskSummary{
			UserID:     userID,
			TotalA:     totalA,
			TotalB:     totalB,
			Collateral: collateral,
			Debt:       debt,
			LTV:        lever.LTV(debt, collateral),
		}
		return nil
	})

	return summary, err
}

// CheckForcedSwap guards an externally requested rebalancing swap: neither
// leg may exceed the configured fraction of the matching reserve.
func (e *Engine) CheckForcedSwap(ctx context.Context, amountA, amountB decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amountA.Sign() < 0 || amountB.Sign() < 0 {
		return core.ErrInvalidAmount
	}

	limit := e.policy.ForcedSwapCap()
	maxA := e.state.Pool.X.Mul(limit)
	maxB := e.state.Pool.Y.Mul(limit)
	if amountA.GreaterThan(maxA) || amountB.GreaterThan(maxB) {
		return core.ErrForcedSwapTooLarge
	}

	return nil
}
