package memory

import (
	"context"
	"slices"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
)

type promotionRepo struct{ t *transaction }

func (r promotionRepo) codeTaken(code string, exceptID int64) bool {
	for id, p := range r.t.s.promotions {
		if id != exceptID && p.Code == code {
			return true
		}
	}

	return false
}

func (r promotionRepo) Create(_ context.Context, p *domain.Promotion) error {
	if r.codeTaken(p.Code, 0) {
		return domain.NewConflict(nil)
	}

	p.ID = r.t.nextID("promotions")
	put(r.t, r.t.s.promotions, p.ID, *p)

	return nil
}

func (r promotionRepo) Update(_ context.Context, p *domain.Promotion) error {
	if _, ok := r.t.s.promotions[p.ID]; !ok {
		return domain.NewNotFound("promotion", p.ID)
	}

	if r.codeTaken(p.Code, p.ID) {
		return domain.NewConflict(nil)
	}

	put(r.t, r.t.s.promotions, p.ID, *p)

	return nil
}

func (r promotionRepo) Delete(_ context.Context, id int64) error {
	if !remove(r.t, r.t.s.promotions, id) {
		return domain.NewNotFound("promotion", id)
	}

	return nil
}

func (r promotionRepo) GetByID(_ context.Context, id int64) (*domain.Promotion, error) {
	p, ok := r.t.s.promotions[id]
	if !ok {
		return nil, domain.NewNotFound("promotion", id)
	}

	return &p, nil
}

func (r promotionRepo) GetByCode(_ context.Context, code string) (*domain.Promotion, error) {
	for _, p := range r.t.s.promotions {
		if p.Code == code {
			return &p, nil
		}
	}

	return nil, domain.NewNotFound("promotion", code)
}

func (r promotionRepo) GetByCodeForUpdate(ctx context.Context, code string) (*domain.Promotion, error) {
	return r.GetByCode(ctx, code)
}

func (r promotionRepo) List(_ context.Context) ([]domain.Promotion, error) {
	return sortedByID(r.t.s.promotions, func(p domain.Promotion) int64 { return p.ID }), nil
}

func (r promotionRepo) IncrementUsage(_ context.Context, id int64) (*domain.Promotion, error) {
	p, ok := r.t.s.promotions[id]
	if !ok {
		return nil, domain.NewNotFound("promotion", id)
	}

	if p.Exhausted() {
		return nil, domain.NewPromotionExhausted(p.Code)
	}

	p.UsedCount++
	put(r.t, r.t.s.promotions, id, p)

	return &p, nil
}

type bookingRepo struct{ t *transaction }

func (r bookingRepo) Create(_ context.Context, b *domain.Booking) error {
	if _, ok := r.t.s.rooms[b.RoomID]; !ok {
		return domain.NewNotFound("room", b.RoomID)
	}

	b.ID = r.t.nextID("bookings")
	put(r.t, r.t.s.bookings, b.ID, *b)

	return nil
}

func (r bookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := r.t.s.bookings[id]
	if !ok {
		return nil, domain.NewNotFound("booking", id)
	}

	return &b, nil
}

func (r bookingRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.GetByID(ctx, id)
}

func (r bookingRepo) List(_ context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	all := sortedByID(r.t.s.bookings, func(b domain.Booking) int64 { return b.ID })
	all = slices.DeleteFunc(all, func(b domain.Booking) bool {
		return (filter.Status != nil && b.Status != *filter.Status) ||
			(filter.CustomerID != nil && b.CustomerID != *filter.CustomerID) ||
			(filter.RoomID != nil && b.RoomID != *filter.RoomID) ||
			(filter.StartDate != nil && b.CheckInDate.Before(*filter.StartDate)) ||
			(filter.EndDate != nil && b.CheckOutDate.After(*filter.EndDate))
	})

	slices.Reverse(all)

	return all, nil
}

func (r bookingRepo) UpdateStatus(_ context.Context, b *domain.Booking) error {
	stored, ok := r.t.s.bookings[b.ID]
	if !ok {
		return domain.NewNotFound("booking", b.ID)
	}

	stored.Status = b.Status
	stored.UpdatedAt = b.UpdatedAt
	put(r.t, r.t.s.bookings, b.ID, stored)

	return nil
}

func (r bookingRepo) Delete(_ context.Context, id int64) error {
	if !remove(r.t, r.t.s.bookings, id) {
		return domain.NewNotFound("booking", id)
	}

	return nil
}

func (r bookingRepo) HasOverlap(_ context.Context, roomID int64, checkIn, checkOut domain.Date) (bool, error) {
	for _, b := range r.t.s.bookings {
		if b.RoomID == roomID && b.Status.HoldsRoom() && b.Overlaps(checkIn, checkOut) {
			return true, nil
		}
	}

	return false, nil
}

type historyRepo struct{ t *transaction }

func (r historyRepo) Append(_ context.Context, entry *domain.BookingHistory) error {
	entry.ID = r.t.nextID("booking_history")

	n := len(r.t.s.history)
	r.t.onRollback(func() { r.t.s.history = r.t.s.history[:n] })
	r.t.s.history = append(r.t.s.history, *entry)

	return nil
}

func (r historyRepo) ListByBooking(_ context.Context, bookingID int64) ([]domain.BookingHistory, error) {
	var out []domain.BookingHistory

	for _, entry := range r.t.s.history {
		if entry.BookingID == bookingID {
			out = append(out, entry)
		}
	}

	slices.SortStableFunc(out, domain.NewerFirst)

	return out, nil
}
