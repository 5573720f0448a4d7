package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
)

func fixedPromotion(value string) *domain.Promotion {
	return &domain.Promotion{
		Code:          "HUGE",
		DiscountType:  domain.DiscountFixed,
		DiscountValue: domain.MustDecimal(value),
		StartDate:     domain.MustParseDate("2026-01-01"),
		EndDate:       domain.MustParseDate("2026-12-31"),
		IsActive:      true,
	}
}

func TestPromotion_DiscountFor_FixedAboveSubtotalTakesSubtotal(t *testing.T) {
	assert.Equal(t, domain.Money(1000000), fixedPromotion("10000000000000000000").DiscountFor(1000000))
	assert.Equal(t, domain.Money(1000000), fixedPromotion("1000000").DiscountFor(1000000))
	assert.Equal(t, domain.Money(50000), fixedPromotion("50000").DiscountFor(1000000))
}

func TestQuote_ApplyPromotion_HugeFixedDiscountZeroesTotal(t *testing.T) {
	q := &domain.Quote{Subtotal: 1000000}
	q.ApplyPromotion(fixedPromotion("10000000000000000000"))

	assert.Equal(t, domain.Money(1000000), q.Discount)
	assert.Zero(t, q.Total)
}

func TestPromotion_Validate_DiscountValueMustFitColumn(t *testing.T) {
	err := fixedPromotion("10000000000000000000").Validate()
	require.Error(t, err)

	e, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Contains(t, e.Fields, "discountValue")

	assert.Error(t, fixedPromotion("10.12345").Validate())
	assert.NoError(t, fixedPromotion("9999999999.9999").Validate())
}

func TestSeasonalPrice_Validate_MultiplierMustFitColumn(t *testing.T) {
	season := func(multiplier string) *domain.SeasonalPrice {
		return &domain.SeasonalPrice{
			RoomTypeID:      1,
			Name:            "Tet",
			StartDate:       domain.MustParseDate("2026-01-25"),
			EndDate:         domain.MustParseDate("2026-02-05"),
			PriceMultiplier: domain.MustDecimal(multiplier),
		}
	}

	assert.NoError(t, season("2.0").Validate())
	assert.NoError(t, season("999999.999999").Validate())
	assert.Error(t, season("1000000").Validate())
	assert.Error(t, season("1.1234567").Validate())
}
