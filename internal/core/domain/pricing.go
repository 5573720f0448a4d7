package domain

import "time"

type SeasonalPrice struct {
	ID              int64     `json:"id" db:"id"`
	RoomTypeID      int64     `json:"roomTypeId" db:"room_type_id"`
	Name            string    `json:"name" db:"name"`
	StartDate       Date      `json:"startDate" db:"start_date"`
	EndDate         Date      `json:"endDate" db:"end_date"`
	PriceMultiplier Decimal   `json:"priceMultiplier" db:"price_multiplier"`
	Priority        int       `json:"priority" db:"priority"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

// Column limits of price_multiplier, NUMERIC(12, 6).
const (
	MultiplierPrecision = 12
	MultiplierScale     = 6
)

func (sp *SeasonalPrice) Validate() error {
	fields := FieldErrors{}

	if sp.RoomTypeID <= 0 {
		fields.Add("roomTypeId", "room type is required")
	}

	if sp.Name == "" {
		fields.Add("name", "name is required")
	}

	if sp.StartDate.IsZero() || sp.EndDate.IsZero() {
		fields.Add("startDate", "start and end dates are required")
	} else if sp.EndDate.Before(sp.StartDate) {
		fields.Add("endDate", "end date must not be before start date")
	}

	if sp.PriceMultiplier.Sign() <= 0 {
		fields.Add("priceMultiplier", "multiplier must be positive")
	} else if !sp.PriceMultiplier.FitsNumeric(MultiplierPrecision, MultiplierScale) {
		fields.Add("priceMultiplier", "multiplier must be below 1000000 with at most 6 decimal places")
	}

	if sp.Priority < 0 {
		fields.Add("priority", "priority must not be negative")
	}

	return fields.Err()
}

// Covers reports whether the inclusive season range contains d.
func (sp *SeasonalPrice) Covers(d Date) bool {
	return d.Within(sp.StartDate, sp.EndDate)
}

// outranks orders seasons by priority desc, then id asc.
func (sp *SeasonalPrice) outranks(other *SeasonalPrice) bool {
	if sp.Priority != other.Priority {
		return sp.Priority > other.Priority
	}

	return sp.ID < other.ID
}

type DailyPrice struct {
	ID         int64     `json:"id" db:"id"`
	RoomTypeID int64     `json:"roomTypeId" db:"room_type_id"`
	Date       Date      `json:"date" db:"price_date"`
	Price      Money     `json:"price" db:"price"`
	Reason     string    `json:"reason" db:"reason"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

func (dp *DailyPrice) Validate() error {
	fields := FieldErrors{}

	if dp.RoomTypeID <= 0 {
		fields.Add("roomTypeId", "room type is required")
	}

	if dp.Date.IsZero() {
		fields.Add("date", "date is required")
	}

	if dp.Price < 0 {
		fields.Add("price", "price must not be negative")
	}

	return fields.Err()
}

type PriceSource string

const (
	SourceBase     PriceSource = "BASE"
	SourceSeasonal PriceSource = "SEASONAL"
	SourceDaily    PriceSource = "DAILY"
)

type NightlyPrice struct {
	Date            Date        `json:"date"`
	Price           Money       `json:"price"`
	Source          PriceSource `json:"source"`
	SeasonalPriceID *int64      `json:"seasonalPriceId,omitempty"`
	DailyPriceID    *int64      `json:"dailyPriceId,omitempty"`
}

type Quote struct {
	RoomTypeID        int64          `json:"roomTypeId"`
	CheckIn           Date           `json:"checkIn"`
	CheckOut          Date           `json:"checkOut"`
	Nights            int            `json:"nights"`
	PerNightBreakdown []NightlyPrice `json:"perNightBreakdown"`
	Subtotal          Money          `json:"subtotal"`
	Discount          Money          `json:"discount"`
	Total             Money          `json:"total"`
	PromotionCode     string         `json:"promotionCode,omitempty"`
	PromotionID       *int64         `json:"-"`
}

// PriceNights composes the nightly prices for [checkIn, checkOut).
// A daily override wins over any season; among covering seasons the highest
// priority wins and ties go to the lowest id.
func PriceNights(
	roomType *RoomType,
	checkIn, checkOut Date,
	seasons []SeasonalPrice,
	daily []DailyPrice,
) ([]NightlyPrice, Money) {
	overrides := make(map[string]*DailyPrice, len(daily))
	for i := range daily {
		if daily[i].RoomTypeID == roomType.ID {
			overrides[daily[i].Date.String()] = &daily[i]
		}
	}

	nights := make([]NightlyPrice, 0, DaysBetween(checkIn, checkOut))

	var subtotal Money

	for d := checkIn; d.Before(checkOut); d = d.AddDays(1) {
		night := priceNight(roomType, d, seasons, overrides)
		subtotal = subtotal.Plus(night.Price)
		nights = append(nights, night)
	}

	return nights, subtotal
}

func priceNight(roomType *RoomType, d Date, seasons []SeasonalPrice, overrides map[string]*DailyPrice) NightlyPrice {
	if dp, ok := overrides[d.String()]; ok {
		id := dp.ID
		return NightlyPrice{Date: d, Price: dp.Price, Source: SourceDaily, DailyPriceID: &id}
	}

	winner := WinningSeason(roomType.ID, d, seasons)
	if winner == nil {
		return NightlyPrice{Date: d, Price: roomType.BasePrice, Source: SourceBase}
	}

	id := winner.ID

	return NightlyPrice{
		Date:            d,
		Price:           roomType.BasePrice.MulRound(winner.PriceMultiplier),
		Source:          SourceSeasonal,
		SeasonalPriceID: &id,
	}
}

// WinningSeason returns the season that prices date d for the room type, or nil.
func WinningSeason(roomTypeID int64, d Date, seasons []SeasonalPrice) *SeasonalPrice {
	var winner *SeasonalPrice

	for i := range seasons {
		sp := &seasons[i]
		if sp.RoomTypeID != roomTypeID || !sp.Covers(d) {
			continue
		}

		if winner == nil || sp.outranks(winner) {
			winner = sp
		}
	}

	return winner
}
