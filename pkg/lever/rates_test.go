package lever

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"lever/pkg/number"
)

func TestUtilizationRate(t *testing.T) {
	u := UtilizationRate(number.Decimal("100"), number.Decimal("900"))
	assert.True(t, number.Decimal("0.1").Equal(u), "u = %s", u)

	assert.True(t, UtilizationRate(decimal.Zero, decimal.Zero).IsZero())
	assert.True(t, UtilizationRate(decimal.Zero, number.Decimal("1000")).IsZero())

	// everything lent out
	u = UtilizationRate(number.Decimal("500"), decimal.Zero)
	assert.True(t, decimal.New(1, 0).Equal(u))
}

func TestBorrowRateKink(t *testing.T) {
	base := number.Decimal("0.02")
	mul := number.Decimal("0.1")
	jump := number.Decimal("1.5")
	kink := number.Decimal("0.8")

	// below kink: base + u*mul
	r := GetBorrowRatePerYear(number.Decimal("0.4"), base, mul, jump, kink)
	assert.True(t, number.Decimal("0.06").Equal(r), "r = %s", r)

	// at kink both branches agree
	atKink := GetBorrowRatePerYear(kink, base, mul, jump, kink)
	assert.True(t, number.Decimal("0.1").Equal(atKink), "r = %s", atKink)

	// above kink: jump slope on the excess
	r = GetBorrowRatePerYear(number.Decimal("0.9"), base, mul, jump, kink)
	assert.True(t, number.Decimal("0.25").Equal(r), "r = %s", r)

	// zero kink falls back to the single slope
	r = GetBorrowRatePerYear(number.Decimal("0.9"), base, mul, jump, decimal.Zero)
	assert.True(t, number.Decimal("0.11").Equal(r), "r = %s", r)
}

func TestBorrowRateMonotone(t *testing.T) {
	base := number.Decimal("0.02")
	mul := number.Decimal("0.1")
	jump := number.Decimal("1.5")
	kink := number.Decimal("0.8")

	prev := decimal.Zero
	for u := decimal.Zero; u.LessThanOrEqual(MaxUtilizationRate); u = u.Add(number.Decimal("0.01")) {
		r := GetBorrowRatePerYear(u, base, mul, jump, kink)
		assert.True(t, r.GreaterThanOrEqual(prev), "non-decreasing at %s", u)
		prev = r
	}
}

func TestMultiplierDelta(t *testing.T) {
	rate := number.Decimal("0.000000001")
	d := MultiplierDelta(number.Decimal("1"), rate, 3600)
	assert.True(t, number.Decimal("0.0000036").Equal(d), "d = %s", d)

	assert.True(t, MultiplierDelta(number.Decimal("1"), rate, 0).IsZero())
	assert.True(t, MultiplierDelta(number.Decimal("1"), rate, -5).IsZero())

	// truncation never rounds up
	exact := number.Decimal("1.5").Mul(rate).Mul(number.Decimal("7"))
	d = MultiplierDelta(number.Decimal("1.5"), rate, 7)
	assert.True(t, d.LessThanOrEqual(exact))
}
