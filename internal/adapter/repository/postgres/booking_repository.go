package postgres

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
)

const (
	tableBookings       = "bookings"
	tableBookingHistory = "booking_history"
)

func activeStatuses() []string {
	out := make([]string, 0, len(domain.ActiveBookingStatuses))
	for _, s := range domain.ActiveBookingStatuses {
		out = append(out, string(s))
	}

	return out
}

// overlapping matches active bookings intersecting [checkIn, checkOut).
func overlapping(checkIn, checkOut domain.Date) exp.ExpressionList {
	return goqu.And(
		goqu.C("status").In(activeStatuses()),
		goqu.C("check_in_date").Lt(checkOut),
		goqu.C("check_out_date").Gt(checkIn),
	)
}

type bookingRepository struct{ repositories }

func (r bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	var promotionCode any
	if b.PromotionCode != nil {
		promotionCode = *b.PromotionCode
	}

	id, err := r.insert(ctx, dialect.Insert(tableBookings).Rows(goqu.Record{
		"customer_id":      b.CustomerID,
		"room_id":          b.RoomID,
		"check_in_date":    b.CheckInDate,
		"check_out_date":   b.CheckOutDate,
		"subtotal":         int64(b.Subtotal),
		"discount_amount":  int64(b.DiscountAmount),
		"total_price":      int64(b.TotalPrice),
		"promotion_code":   promotionCode,
		"status":           string(b.Status),
		"special_requests": b.SpecialRequests,
		"created_at":       b.CreatedAt,
		"updated_at":       b.UpdatedAt,
	}))

	switch domain.KindOf(err) {
	case "":
		b.ID = id
		return nil
	case domain.KindRoomUnavailable:
		return domain.NewRoomUnavailable(b.RoomID, b.CheckInDate, b.CheckOutDate)
	case domain.KindNotFound:
		return domain.NewNotFound("room", b.RoomID)
	default:
		return err
	}
}

func (r bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getBooking(ctx, dialect.From(tableBookings).Where(goqu.C("id").Eq(id)), id)
}

func (r bookingRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getBooking(ctx, dialect.From(tableBookings).Where(goqu.C("id").Eq(id)).ForUpdate(exp.Wait), id)
}

func (r bookingRepository) getBooking(ctx context.Context, q *goqu.SelectDataset, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.get(ctx, &b, q); err != nil {
		return nil, notFound(err, "booking", id)
	}

	return &b, nil
}

func (r bookingRepository) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	q := dialect.From(tableBookings).Order(goqu.C("id").Desc())

	if filter.Status != nil {
		q = q.Where(goqu.C("status").Eq(string(*filter.Status)))
	}

	if filter.CustomerID != nil {
		q = q.Where(goqu.C("customer_id").Eq(*filter.CustomerID))
	}

	if filter.RoomID != nil {
		q = q.Where(goqu.C("room_id").Eq(*filter.RoomID))
	}

	if filter.StartDate != nil {
		q = q.Where(goqu.C("check_in_date").Gte(*filter.StartDate))
	}

	if filter.EndDate != nil {
		q = q.Where(goqu.C("check_out_date").Lte(*filter.EndDate))
	}

	out := []domain.Booking{}
	if err := r.list(ctx, &out, q); err != nil {
		return nil, err
	}

	return out, nil
}

func (r bookingRepository) UpdateStatus(ctx context.Context, b *domain.Booking) error {
	n, err := r.update(ctx, dialect.Update(tableBookings).
		Set(goqu.Record{
			"status":     string(b.Status),
			"updated_at": b.UpdatedAt,
		}).
		Where(goqu.C("id").Eq(b.ID)))
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.NewNotFound("booking", b.ID)
	}

	return nil
}

func (r bookingRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.delete(ctx, dialect.Delete(tableBookings).Where(goqu.C("id").Eq(id)))
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.NewNotFound("booking", id)
	}

	return nil
}

func (r bookingRepository) HasOverlap(ctx context.Context, roomID int64, checkIn, checkOut domain.Date) (bool, error) {
	var count int64

	q := dialect.From(tableBookings).
		Select(goqu.COUNT("*")).
		Where(goqu.C("room_id").Eq(roomID), overlapping(checkIn, checkOut))

	if err := r.get(ctx, &count, q); err != nil {
		return false, err
	}

	return count > 0, nil
}

type historyRepository struct{ repositories }

func (r historyRepository) Append(ctx context.Context, entry *domain.BookingHistory) error {
	id, err := r.insert(ctx, dialect.Insert(tableBookingHistory).Rows(goqu.Record{
		"booking_id":   entry.BookingID,
		"action":       string(entry.Action),
		"performed_by": entry.PerformedBy,
		"timestamp":    entry.Timestamp,
		"notes":        entry.Notes,
	}))
	if err != nil {
		return err
	}

	entry.ID = id

	return nil
}

func (r historyRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.BookingHistory, error) {
	q := dialect.From(tableBookingHistory).
		Where(goqu.C("booking_id").Eq(bookingID)).
		Order(goqu.C("timestamp").Desc(), goqu.C("id").Desc())

	out := []domain.BookingHistory{}
	if err := r.list(ctx, &out, q); err != nil {
		return nil, err
	}

	return out, nil
}
