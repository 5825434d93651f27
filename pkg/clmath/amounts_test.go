package clmath

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lever/pkg/number"
)

func TestAmountsBranches(t *testing.T) {
	l := number.Decimal("100")
	lower := number.Decimal("1")
	upper := number.Decimal("2")

	t.Run("below range all A", func(t *testing.T) {
		a, b := Amounts(l, lower, upper, number.Decimal("0.5"))
		// L(b-a)/(ab) = 100*1/2 = 50
		assert.True(t, number.Decimal("50").Equal(a), "a = %s", a)
		assert.True(t, b.IsZero())
	})

	t.Run("above range all B", func(t *testing.T) {
		a, b := Amounts(l, lower, upper, number.Decimal("3"))
		assert.True(t, a.IsZero())
		// L(b-a) = 100
		assert.True(t, number.Decimal("100").Equal(b), "b = %s", b)
	})

	t.Run("in range", func(t *testing.T) {
		sigma := number.Decimal("1.5")
		a, b := Amounts(l, lower, upper, sigma)
		// L(b-sigma)/(sigma*b) = 100*0.5/3
		assert.True(t, number.Decimal("16.6666666666666667").Equal(a), "a = %s", a)
		// L(sigma-a) = 50
		assert.True(t, number.Decimal("50").Equal(b), "b = %s", b)
	})

	t.Run("boundary equals extreme branch", func(t *testing.T) {
		aLow, _ := Amounts(l, lower, upper, lower)
		aBelow, _ := Amounts(l, lower, upper, number.Decimal("0.1"))
		assert.True(t, aLow.Equal(aBelow), "amount A freezes at the lower bound")

		_, bHigh := Amounts(l, lower, upper, upper)
		_, bAbove := Amounts(l, lower, upper, number.Decimal("10"))
		assert.True(t, bHigh.Equal(bAbove), "amount B freezes at the upper bound")
	})
}

func TestWorstCaseMatchesExtremes(t *testing.T) {
	l := number.Decimal("250")
	lower := number.Decimal("0.8")
	upper := number.Decimal("1.25")

	maxA, maxB := WorstCase(l, lower, upper)

	// worst case equals the valuation at either extreme
	a, _ := Amounts(l, lower, upper, number.Decimal("0.0001"))
	_, b := Amounts(l, lower, upper, number.Decimal("10000"))

	assert.True(t, maxA.Equal(a), "maxA %s vs %s", maxA, a)
	assert.True(t, maxB.Equal(b), "maxB %s vs %s", maxB, b)
}

func TestWorstCaseZeroLiquidity(t *testing.T) {
	maxA, maxB := WorstCase(decimal.Zero, number.Decimal("1"), number.Decimal("2"))
	assert.True(t, maxA.IsZero())
	assert.True(t, maxB.IsZero())
}

func TestValidateBounds(t *testing.T) {
	require.NoError(t, ValidateBounds(number.Decimal("1"), number.Decimal("1")))
	require.NoError(t, ValidateBounds(number.Decimal("1"), number.Decimal("2")))
	assert.Equal(t, ErrInvalidBounds, ValidateBounds(decimal.Zero, number.Decimal("2")))
	assert.Equal(t, ErrInvalidBounds, ValidateBounds(number.Decimal("2"), number.Decimal("1")))
	assert.Equal(t, ErrInvalidBounds, ValidateBounds(number.Decimal("-1"), number.Decimal("1")))
}
