package services

import (
	"context"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
	"github.com/srgjo27/hotel_booking/internal/core/ports"
)

type QuoteRequest struct {
	RoomTypeID    int64
	CheckIn       domain.Date
	CheckOut      domain.Date
	PromotionCode string
}

func (q QuoteRequest) validate() error {
	fields := domain.FieldErrors{}
	if q.RoomTypeID <= 0 {
		fields.Add("roomTypeId", "room type is required")
	}

	if err := fields.Err(); err != nil {
		return err
	}

	return domain.ValidateStay(q.CheckIn, q.CheckOut)
}

// PriceResolver composes nightly prices and an optional promotion inside the
// caller's transaction. It never changes promotion usage itself.
type PriceResolver struct{}

// Resolve returns the quote and the promotion that was applied, if any. The
// promotion row is locked so a caller consuming it sees a stable usedCount.
func (PriceResolver) Resolve(ctx context.Context, repos ports.Repositories, req QuoteRequest) (*domain.Quote, *domain.Promotion, error) {
	if err := req.validate(); err != nil {
		return nil, nil, err
	}

	roomType, err := repos.RoomTypes().GetByID(ctx, req.RoomTypeID)
	if err != nil {
		return nil, nil, err
	}

	lastNight := req.CheckOut.AddDays(-1)

	seasons, err := repos.SeasonalPrices().ListOverlapping(ctx, roomType.ID, req.CheckIn, lastNight)
	if err != nil {
		return nil, nil, err
	}

	daily, err := repos.DailyPrices().List(ctx, ports.DailyPriceFilter{
		RoomTypeID: &roomType.ID,
		StartDate:  &req.CheckIn,
		EndDate:    &lastNight,
	})
	if err != nil {
		return nil, nil, err
	}

	nights, subtotal := domain.PriceNights(roomType, req.CheckIn, req.CheckOut, seasons, daily)

	quote := &domain.Quote{
		RoomTypeID:        roomType.ID,
		CheckIn:           req.CheckIn,
		CheckOut:          req.CheckOut,
		Nights:            len(nights),
		PerNightBreakdown: nights,
		Subtotal:          subtotal,
	}

	code := domain.NormalizePromotionCode(req.PromotionCode)
	if code == "" {
		quote.ApplyPromotion(nil)
		return quote, nil, nil
	}

	promo, err := repos.Promotions().GetByCodeForUpdate(ctx, code)
	if domain.IsKind(err, domain.KindNotFound) {
		return nil, nil, domain.NewInvalidPromotion(code, "promotion does not exist")
	}

	if err != nil {
		return nil, nil, err
	}

	if err := promo.CheckEligibility(req.CheckIn, quote.Nights); err != nil {
		return nil, nil, err
	}

	quote.ApplyPromotion(promo)

	return quote, promo, nil
}
