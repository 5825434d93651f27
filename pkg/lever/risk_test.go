package lever

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"lever/pkg/number"
)

func TestCollateral(t *testing.T) {
	// geometric mean of equal balances is the balance itself
	c := Collateral(number.Decimal("120"), number.Decimal("120"))
	assert.True(t, number.Decimal("120").Equal(c), "c = %s", c)

	c = Collateral(number.Decimal("100"), number.Decimal("400"))
	assert.True(t, number.Decimal("200").Equal(c), "c = %s", c)

	// floors toward zero
	c = Collateral(number.Decimal("2"), number.Decimal("1"))
	assert.True(t, c.LessThanOrEqual(number.Sqrt(number.Decimal("2"))))
	assert.True(t, number.Sqrt(number.Decimal("2")).Sub(c).LessThan(number.Decimal("0.00000001")))

	assert.True(t, Collateral(decimal.Zero, number.Decimal("10")).IsZero())
}

func TestDebtCeil(t *testing.T) {
	// exact product needs no rounding
	d := Debt(number.Decimal("100"), number.Decimal("1"))
	assert.True(t, number.Decimal("100").Equal(d), "d = %s", d)

	// ceiled debt is never more than one ledger unit above the exact value
	exact := number.Decimal("100").Mul(number.Decimal("1.0000000000000001"))
	d = Debt(number.Decimal("100"), number.Decimal("1.0000000000000001"))
	assert.True(t, d.GreaterThanOrEqual(exact))
	assert.True(t, d.Sub(exact).LessThan(number.Decimal("0.00000001")))

	assert.True(t, Debt(decimal.Zero, number.Decimal("2")).IsZero())
}

func TestLTVZeroDebt(t *testing.T) {
	assert.True(t, LTV(decimal.Zero, number.Decimal("1000000")).IsZero())
	assert.True(t, LTV(decimal.Zero, decimal.Zero).IsZero())
}

func TestLTV(t *testing.T) {
	l := LTV(number.Decimal("100"), number.Decimal("120"))
	assert.True(t, number.Decimal("0.8333333333333333").Equal(l), "l = %s", l)

	// debt with no collateral is fully seizable
	l = LTV(number.Decimal("1"), decimal.Zero)
	assert.True(t, l.GreaterThanOrEqual(FullSeizeThreshold))
}

func TestSeizeFractionCurve(t *testing.T) {
	cases := map[string]string{
		"0.5":    "0",
		"0.9799": "0",
		"0.98":   "0.0025",
		"0.985":  "0.2",
		"0.9875": "0.6",
		"0.99":   "1",
		"0.999":  "1",
	}

	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			p := SeizeFraction(number.Decimal(in))
			assert.True(t, number.Decimal(want).Equal(p), "p(%s) = %s", in, p)
		})
	}
}

func TestSeizeFractionMonotoneContinuous(t *testing.T) {
	step := number.Decimal("0.00005")
	prev := decimal.Zero
	ltv := number.Decimal("0.98")

	for ltv.LessThanOrEqual(number.Decimal("0.99")) {
		p := SeizeFraction(ltv)
		assert.True(t, p.GreaterThanOrEqual(prev), "non-decreasing at %s", ltv)
		// no jump larger than the steepest slope (160/unit LTV) allows
		assert.True(t, p.Sub(prev).LessThanOrEqual(number.Decimal("0.009")), "jump at %s", ltv)
		prev = p
		ltv = ltv.Add(step)
	}
}
