package policy

import (
	"github.com/shopspring/decimal"

	"lever/core"
	"lever/pkg/lever"
	"lever/pkg/number"
)

type policyService struct {
	cfg core.Policy
}

// New policy service from config. Anything left unset falls back to the
// standard curve parameters.
func New(cfg core.Policy) core.IRiskPolicy {
	if cfg.Kink.Sign() <= 0 {
		cfg.Kink = number.Decimal("0.8")
	}
	if cfg.Multiplier.Sign() <= 0 {
		cfg.Multiplier = number.Decimal("0.1")
	}
	if cfg.JumpMultiplier.Sign() <= 0 {
		cfg.JumpMultiplier = number.Decimal("1.5")
	}
	if cfg.PriceDeviation.Sign() <= 0 {
		cfg.PriceDeviation = number.Decimal("0.05")
	}
	if cfg.ForcedSwapCap.Sign() <= 0 {
		cfg.ForcedSwapCap = lever.ForcedSwapMaxFraction
	}

	return &policyService{cfg: cfg}
}

func (s *policyService) BorrowRatePerSecond(utilization decimal.Decimal) decimal.Decimal {
	return lever.GetBorrowRatePerSecond(utilization,
		s.cfg.BaseRate, s.cfg.Multiplier, s.cfg.JumpMultiplier, s.cfg.Kink)
}

func (s *policyService) FeeFraction() decimal.Decimal {
	return s.cfg.FeeFraction
}

func (s *policyService) PriceDeviationLimit() decimal.Decimal {
	return s.cfg.PriceDeviation
}

func (s *policyService) ForcedSwapCap() decimal.Decimal {
	// never allow configs beyond the protocol-wide cap
	return decimal.Min(s.cfg.ForcedSwapCap, lever.ForcedSwapMaxFraction)
}
