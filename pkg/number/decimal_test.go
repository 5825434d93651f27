package number

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCeil(t *testing.T) {
	data := map[string]string{
		"0.10304":     "0.11",
		"0.100000001": "0.11",
		"0.108":       "0.11",
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			c := Ceil(Decimal(k), 2)
			assert.Equal(t, v, c.String(), "should be ceil")
		})
	}
}

func TestFloor(t *testing.T) {
	data := map[string]string{
		"0.10304":     "0.10",
		"0.119999999": "0.11",
		"0.108":       "0.1",
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			f := Floor(Decimal(k), 2)
			assert.True(t, Decimal(v).Equal(f), "should be floor: %s", f)
		})
	}
}

func TestSqrt(t *testing.T) {
	data := map[string]string{
		"4":       "2",
		"2.25":    "1.5",
		"0":       "0",
		"1000000": "1000",
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			s := Sqrt(Decimal(k))
			assert.True(t, Decimal(v).Equal(s), "sqrt(%s) = %s", k, s)
		})
	}

	// sqrt of a non-square stays within one ledger unit of the true root
	s := Sqrt(Decimal("2"))
	assert.True(t, s.Mul(s).Sub(Decimal("2")).Abs().LessThan(Decimal("0.00000001")))
}
