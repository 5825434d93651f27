package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionKind range position flavor
type PositionKind int

const (
	// PositionCR finite-range liquidity position
	PositionCR PositionKind = iota + 1
	// PositionLO single-tick limit order
	PositionLO
)

// PoolState global pool accounting, shared by all vaults. The engine is the
// sole writer of ShareMultiplier, SumDebtShares and the worst-case ledgers.
type PoolState struct {
	ID uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	// reserves of asset A and asset B
	X decimal.Decimal `sql:"type:decimal(32,16)" json:"x"`
	Y decimal.Decimal `sql:"type:decimal(32,16)" json:"y"`
	// total full-range shares outstanding
	TotalFRShares decimal.Decimal `sql:"type:decimal(32,16)" json:"total_fr_shares"`
	// global compounding factor scaling borrowed shares into current debt,
	// base unit 1.0, never decreases
	ShareMultiplier decimal.Decimal `sql:"type:decimal(32,16)" json:"share_multiplier"`
	// aggregate outstanding debt in full-range share units
	SumDebtShares decimal.Decimal `sql:"type:decimal(32,16)" json:"sum_debt_shares"`
	// worst-case single-asset exposure across all open range positions
	WorstA decimal.Decimal `sql:"type:decimal(32,16)" json:"worst_a"`
	WorstB decimal.Decimal `sql:"type:decimal(32,16)" json:"worst_b"`
	// accumulated protocol fee, in multiplier units on SumDebtShares
	FeeReserve    decimal.Decimal `sql:"type:decimal(32,16)" json:"fee_reserve"`
	LastAccruedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"last_accrued_at"`
	Version       int64           `sql:"default:0" json:"version"`
}

// Vault per-user account: idle balances, full-range shares, debt, and the
// ids of its open range positions.
type Vault struct {
	ID     uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID string `sql:"size:36;unique_index:user_idx" json:"user_id"`
	// idle token balances
	AssetA decimal.Decimal `sql:"type:decimal(32,16)" json:"asset_a"`
	AssetB decimal.Decimal `sql:"type:decimal(32,16)" json:"asset_b"`
	// full-range shares owned
	SharesFR decimal.Decimal `sql:"type:decimal(32,16)" json:"shares_fr"`
	// debt in full-range share units, scaled by the share multiplier
	SharesBorrowed decimal.Decimal `sql:"type:decimal(32,16)" json:"shares_borrowed"`
	PositionIDs    []uint64        `sql:"-" json:"position_ids"`
}

// RangePosition finite-range or limit-order liquidity, held in the state
// arena and referenced from its owner vault by id.
type RangePosition struct {
	ID      uint64       `sql:"PRIMARY_KEY" json:"id"`
	VaultID string       `sql:"size:36;index:vault_idx" json:"vault_id"`
	Kind    PositionKind `json:"kind"`
	// sqrt price bounds; a limit order spans exactly one tick
	LowerSqrtPrice decimal.Decimal `sql:"type:decimal(32,16)" json:"lower_sqrt_price"`
	UpperSqrtPrice decimal.Decimal `sql:"type:decimal(32,16)" json:"upper_sqrt_price"`
	// contributed liquidity; zero once a limit order fills
	Liquidity decimal.Decimal `sql:"type:decimal(32,16)" json:"liquidity"`
	// limit orders only: true when the order sells asset A into B as the
	// price rises through the tick
	SellA  bool `json:"sell_a"`
	Filled bool `json:"filled"`
}

// Open reports whether the position still carries liquidity.
func (p *RangePosition) Open() bool {
	return p.Liquidity.Sign() > 0
}

// State complete engine state: the pool plus every vault and range position.
// Mutating operations work on a clone and commit it wholesale, so a failed
// operation never leaks partial writes.
type State struct {
	Pool           PoolState                 `json:"pool"`
	Vaults         map[string]*Vault         `json:"vaults"`
	Positions      map[uint64]*RangePosition `json:"positions"`
	NextPositionID uint64                    `json:"next_position_id"`
}

// NewState empty state with the multiplier at its base unit.
func NewState() *State {
	return &State{
		Pool: PoolState{
			ShareMultiplier: decimal.New(1, 0),
		},
		Vaults:         make(map[string]*Vault),
		Positions:      make(map[uint64]*RangePosition),
		NextPositionID: 1,
	}
}

// Clone deep copy.
func (s *State) Clone() *State {
	c := &State{
		Pool:           s.Pool,
		Vaults:         make(map[string]*Vault, len(s.Vaults)),
		Positions:      make(map[uint64]*RangePosition, len(s.Positions)),
		NextPositionID: s.NextPositionID,
	}

	for id, v := range s.Vaults {
		cv := *v
		cv.PositionIDs = append([]uint64(nil), v.PositionIDs...)
		c.Vaults[id] = &cv
	}

	for id, p := range s.Positions {
		cp := *p
		c.Positions[id] = &cp
	}

	return c
}

// Vault returns the vault for a user, creating it on first use.
func (s *State) Vault(userID string) *Vault {
	v, ok := s.Vaults[userID]
	if !ok {
		v = &Vault{UserID: userID}
		s.Vaults[userID] = v
	}

	return v
}

// OpenPositions open range positions owned by a vault.
func (s *State) OpenPositions(v *Vault) []*RangePosition {
	positions := make([]*RangePosition, 0, len(v.PositionIDs))
	for _, id := range v.PositionIDs {
		if p, ok := s.Positions[id]; ok && p.Open() {
			positions = append(positions, p)
		}
	}

	return positions
}
