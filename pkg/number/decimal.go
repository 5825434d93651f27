package number

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	// MaxPrecision max precision kept on intermediate math
	MaxPrecision int32 = 16
	// LedgerPrecision precision of balances and share counts
	LedgerPrecision int32 = 8
)

func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// Sqrt square root, seeded from float64 and refined with two Newton steps
// so ledger-precision quantities stay exact.
func Sqrt(d decimal.Decimal) decimal.Decimal {
	if d.Sign() <= 0 {
		return decimal.Zero
	}

	f, _ := d.Float64()
	r := decimal.NewFromFloat(math.Sqrt(f))
	if r.Sign() <= 0 {
		return decimal.Zero
	}

	two := decimal.New(2, 0)
	for i := 0; i < 2; i++ {
		r = r.Add(d.DivRound(r, MaxPrecision+2)).Div(two)
	}

	return r.Truncate(MaxPrecision)
}

func Ceil(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Ceil().Shift(-precision)
}

func Floor(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Floor().Shift(-precision)
}
