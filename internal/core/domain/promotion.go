package domain

import (
	"fmt"
	"strings"
	"time"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

func ParseDiscountType(s string) (DiscountType, error) {
	switch t := DiscountType(strings.ToUpper(s)); t {
	case DiscountPercentage, DiscountFixed:
		return t, nil
	default:
		return "", fmt.Errorf("unknown discount type %q", s)
	}
}

type Promotion struct {
	ID            int64        `json:"id" db:"id"`
	Code          string       `json:"code" db:"code"`
	Description   string       `json:"description" db:"description"`
	DiscountType  DiscountType `json:"discountType" db:"discount_type"`
	DiscountValue Decimal      `json:"discountValue" db:"discount_value"`
	StartDate     Date         `json:"startDate" db:"start_date"`
	EndDate       Date         `json:"endDate" db:"end_date"`
	MinNights     *int         `json:"minNights" db:"min_nights"`
	MaxUses       *int         `json:"maxUses" db:"max_uses"`
	UsedCount     int          `json:"usedCount" db:"used_count"`
	IsActive      bool         `json:"isActive" db:"is_active"`
	CreatedAt     time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time    `json:"updatedAt" db:"updated_at"`
}

// Column limits of discount_value, NUMERIC(14, 4).
const (
	DiscountPrecision = 14
	DiscountScale     = 4
)

func NormalizePromotionCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (p *Promotion) Validate() error {
	fields := FieldErrors{}

	if p.Code == "" {
		fields.Add("code", "code is required")
	}

	switch p.DiscountType {
	case DiscountPercentage:
		if p.DiscountValue.Sign() <= 0 || p.DiscountValue.Cmp(DecimalFromInt(100)) > 0 {
			fields.Add("discountValue", "percentage must be in (0, 100]")
		}
	case DiscountFixed:
		if p.DiscountValue.Sign() <= 0 {
			fields.Add("discountValue", "discount value must be positive")
		}
	default:
		fields.Add("discountType", "discount type must be PERCENTAGE or FIXED")
	}

	if p.DiscountValue.Sign() > 0 && !p.DiscountValue.FitsNumeric(DiscountPrecision, DiscountScale) {
		fields.Add("discountValue", "discount value must be below 10000000000 with at most 4 decimal places")
	}

	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		fields.Add("startDate", "start and end dates are required")
	} else if p.EndDate.Before(p.StartDate) {
		fields.Add("endDate", "end date must not be before start date")
	}

	if p.MinNights != nil && *p.MinNights < 0 {
		fields.Add("minNights", "min nights must not be negative")
	}

	if p.MaxUses != nil && *p.MaxUses < 0 {
		fields.Add("maxUses", "max uses must not be negative")
	}

	if p.UsedCount < 0 {
		fields.Add("usedCount", "used count must not be negative")
	}

	return fields.Err()
}

func (p *Promotion) Exhausted() bool {
	return p.MaxUses != nil && p.UsedCount >= *p.MaxUses
}

// CheckEligibility gates a promotion on its active flag, its date window
// (evaluated against the check-in date), minimum nights, and remaining uses.
func (p *Promotion) CheckEligibility(checkIn Date, nights int) error {
	if !p.IsActive {
		return NewInvalidPromotion(p.Code, "promotion is not active")
	}

	if !checkIn.Within(p.StartDate, p.EndDate) {
		return NewInvalidPromotion(p.Code, fmt.Sprintf("check-in %s is outside %s..%s", checkIn, p.StartDate, p.EndDate))
	}

	if p.MinNights != nil && nights < *p.MinNights {
		return NewInvalidPromotion(p.Code, fmt.Sprintf("requires at least %d nights", *p.MinNights))
	}

	if p.Exhausted() {
		return NewPromotionExhausted(p.Code)
	}

	return nil
}

// DiscountFor returns the discount on subtotal, never more than subtotal.
func (p *Promotion) DiscountFor(subtotal Money) Money {
	if subtotal <= 0 {
		return 0
	}

	var discount Money

	switch p.DiscountType {
	case DiscountPercentage:
		discount = subtotal.PercentFloor(p.DiscountValue)
	case DiscountFixed:
		if p.DiscountValue.CmpMoney(subtotal) >= 0 {
			return subtotal
		}

		discount = DecimalMoney(p.DiscountValue)
	}

	if discount < 0 {
		return 0
	}

	return MinMoney(discount, subtotal)
}

// DecimalMoney rounds a decimal amount half up to whole currency units.
func DecimalMoney(d Decimal) Money {
	return Money(1).MulRound(d)
}

// ApplyPromotion fills discount and total on q. A nil promotion leaves the subtotal as total.
func (q *Quote) ApplyPromotion(p *Promotion) {
	q.Discount = 0

	if p != nil {
		q.Discount = p.DiscountFor(q.Subtotal)
		q.PromotionCode = p.Code
		id := p.ID
		q.PromotionID = &id
	}

	q.Total = q.Subtotal - q.Discount
	if q.Total < 0 {
		q.Total = 0
	}
}
