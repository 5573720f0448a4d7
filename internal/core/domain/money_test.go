package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
)

func TestMoney_MulRound(t *testing.T) {
	assert.Equal(t, domain.Money(500000), domain.Money(333333).MulRound(domain.MustDecimal("1.5")))
	assert.Equal(t, domain.Money(625000), domain.Money(500000).MulRound(domain.MustDecimal("1.25")))
}

func TestMoney_MulRound_SaturatesInsteadOfWrapping(t *testing.T) {
	got := domain.Money(math.MaxInt64 / 2).MulRound(domain.MustDecimal("3"))

	assert.Equal(t, domain.Money(math.MaxInt64), got)
}

func TestDecimalMoney_SaturatesInsteadOfWrapping(t *testing.T) {
	assert.Equal(t, domain.Money(math.MaxInt64), domain.DecimalMoney(domain.MustDecimal("10000000000000000000")))
}

func TestMoney_Plus_Saturates(t *testing.T) {
	assert.Equal(t, domain.Money(3), domain.Money(1).Plus(2))
	assert.Equal(t, domain.Money(math.MaxInt64), domain.Money(math.MaxInt64-1).Plus(5))
	assert.Equal(t, domain.Money(math.MinInt64), domain.Money(math.MinInt64+1).Plus(-5))
}

func TestNewDecimal_AcceptsPlainLiteralsOnly(t *testing.T) {
	for _, ok := range []string{"1", "1.25", "-2.5", " 0.000001 "} {
		_, err := domain.NewDecimal(ok)
		assert.NoError(t, err, ok)
	}

	for _, bad := range []string{"1/3", "1e5", ".5", "1.", "abc", ""} {
		_, err := domain.NewDecimal(bad)
		assert.Error(t, err, bad)
	}
}

func TestDecimal_UnmarshalJSON(t *testing.T) {
	var d domain.Decimal

	require.NoError(t, d.UnmarshalJSON([]byte("1.5")))
	assert.Equal(t, "1.5", d.String())

	require.NoError(t, d.UnmarshalJSON([]byte(`"2.25"`)))
	assert.Equal(t, "2.25", d.String())

	assert.Error(t, d.UnmarshalJSON([]byte(`"1/3"`)))
	assert.Error(t, d.UnmarshalJSON([]byte("1e2")))
}

func TestDecimal_FitsNumeric(t *testing.T) {
	assert.True(t, domain.MustDecimal("999999.999999").FitsNumeric(12, 6))
	assert.False(t, domain.MustDecimal("1000000").FitsNumeric(12, 6))
	assert.False(t, domain.MustDecimal("1.1234567").FitsNumeric(12, 6))
	assert.True(t, domain.MustDecimal("-12.5").FitsNumeric(14, 4))
}
