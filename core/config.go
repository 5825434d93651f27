package core

import (
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Config lever node config
type Config struct {
	App    App       `json:"app"`
	DB     db.Config `json:"db"`
	Policy Policy    `json:"policy"`
	Oracle Oracle    `json:"oracle"`
}

// App app config
type App struct {
	// cron spec for the accrual worker
	AccrualSpec string `json:"accrual_spec"`
	Location    string `json:"location"`
	// sqrt price ratio of one tick, limit orders span exactly one
	TickRatio decimal.Decimal `json:"tick_ratio"`
}

// Policy rate curve and guard parameters
type Policy struct {
	BaseRate       decimal.Decimal `json:"base_rate"`
	Multiplier     decimal.Decimal `json:"multiplier"`
	JumpMultiplier decimal.Decimal `json:"jump_multiplier"`
	Kink           decimal.Decimal `json:"kink"`
	FeeFraction    decimal.Decimal `json:"fee_fraction"`
	PriceDeviation decimal.Decimal `json:"price_deviation"`
	ForcedSwapCap  decimal.Decimal `json:"forced_swap_cap"`
}

// Oracle price feed config
type Oracle struct {
	// half life of the time-weighted reference, seconds
	TWAPWindow int64 `json:"twap_window"`
}
