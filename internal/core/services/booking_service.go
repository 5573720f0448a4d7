package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
	"github.com/srgjo27/hotel_booking/internal/core/ports"
)

type CreateBookingRequest struct {
	CustomerID      int64
	RoomID          int64
	CheckInDate     domain.Date
	CheckOutDate    domain.Date
	SpecialRequests string
	PromotionCode   string
	PerformedBy     string
}

func (r CreateBookingRequest) validate() error {
	fields := domain.FieldErrors{}

	if r.CustomerID <= 0 {
		fields.Add("customerId", "customer is required")
	}

	if r.RoomID <= 0 {
		fields.Add("roomId", "room is required")
	}

	if err := fields.Err(); err != nil {
		return err
	}

	return domain.ValidateStay(r.CheckInDate, r.CheckOutDate)
}

// TransitionRequest carries the audit fields of a lifecycle call.
type TransitionRequest struct {
	PerformedBy string
	Reason      string
}

type BookingService struct {
	runner
	resolver PriceResolver
	recorder HistoryRecorder
}

func NewBookingService(d Deps) *BookingService {
	r := newRunner(d)

	return &BookingService{
		runner:   r,
		recorder: NewHistoryRecorder(r.now),
	}
}

func performer(name, fallback string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}

	return fallback
}

// CreateBooking prices the stay, consumes the promotion, inserts the booking in
// PENDING and records CREATED, all in one transaction.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var created *domain.Booking

	err := s.run(ctx, "BookingService.CreateBooking", func(ctx context.Context, repos ports.Repositories) error {
		room, err := repos.Rooms().GetByIDForUpdate(ctx, req.RoomID)
		if err != nil {
			return err
		}

		busy, err := repos.Bookings().HasOverlap(ctx, room.ID, req.CheckInDate, req.CheckOutDate)
		if err != nil {
			return err
		}

		if busy {
			return domain.NewRoomUnavailable(room.ID, req.CheckInDate, req.CheckOutDate)
		}

		quote, promo, err := s.resolver.Resolve(ctx, repos, QuoteRequest{
			RoomTypeID:    room.RoomTypeID,
			CheckIn:       req.CheckInDate,
			CheckOut:      req.CheckOutDate,
			PromotionCode: req.PromotionCode,
		})
		if err != nil {
			return err
		}

		if promo != nil {
			if _, err := repos.Promotions().IncrementUsage(ctx, promo.ID); err != nil {
				return err
			}
		}

		now := s.now()
		b := &domain.Booking{
			CustomerID:      req.CustomerID,
			RoomID:          room.ID,
			CheckInDate:     req.CheckInDate,
			CheckOutDate:    req.CheckOutDate,
			Subtotal:        quote.Subtotal,
			DiscountAmount:  quote.Discount,
			TotalPrice:      quote.Total,
			Status:          domain.BookingPending,
			SpecialRequests: req.SpecialRequests,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		notes := "Booking created"
		if promo != nil {
			code := promo.Code
			b.PromotionCode = &code
			notes = fmt.Sprintf("Booking created with promotion %s", code)
		}

		if err := repos.Bookings().Create(ctx, b); err != nil {
			return err
		}

		if _, err := s.recorder.Record(ctx, repos.History(), b.ID, domain.ActionCreated, performer(req.PerformedBy, domain.PerformerSystem), notes); err != nil {
			return err
		}

		created = b

		return nil
	}, idAttr("room_id", req.RoomID))
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (s *BookingService) ConfirmBooking(ctx context.Context, id int64, req TransitionRequest) (*domain.Booking, error) {
	return s.transition(ctx, "BookingService.ConfirmBooking", id, domain.BookingConfirmed, domain.ActionConfirmed, req, nil)
}

// CheckIn marks the room OCCUPIED. A room under maintenance or already occupied
// cannot take the guest.
func (s *BookingService) CheckIn(ctx context.Context, id int64, req TransitionRequest) (*domain.Booking, error) {
	return s.transition(ctx, "BookingService.CheckIn", id, domain.BookingCheckedIn, domain.ActionCheckedIn, req,
		func(ctx context.Context, repos ports.Repositories, b *domain.Booking, _ domain.BookingStatus) error {
			room, err := repos.Rooms().GetByIDForUpdate(ctx, b.RoomID)
			if err != nil {
				return err
			}

			if room.Status == domain.RoomMaintenance || room.Status == domain.RoomOccupied {
				return &domain.Error{
					Kind:    domain.KindRoomUnavailable,
					Message: fmt.Sprintf("room %d is %s", room.ID, room.Status),
				}
			}

			return repos.Rooms().UpdateStatus(ctx, room.ID, domain.RoomOccupied, s.now())
		})
}

func (s *BookingService) CheckOut(ctx context.Context, id int64, req TransitionRequest) (*domain.Booking, error) {
	return s.transition(ctx, "BookingService.CheckOut", id, domain.BookingCheckedOut, domain.ActionCheckedOut, req,
		func(ctx context.Context, repos ports.Repositories, b *domain.Booking, _ domain.BookingStatus) error {
			return repos.Rooms().UpdateStatus(ctx, b.RoomID, domain.RoomAvailable, s.now())
		})
}

// CancelBooking frees the room when the guest had already checked in.
func (s *BookingService) CancelBooking(ctx context.Context, id int64, req TransitionRequest) (*domain.Booking, error) {
	return s.transition(ctx, "BookingService.CancelBooking", id, domain.BookingCancelled, domain.ActionCancelled, req,
		func(ctx context.Context, repos ports.Repositories, b *domain.Booking, from domain.BookingStatus) error {
			if from != domain.BookingCheckedIn {
				return nil
			}

			room, err := repos.Rooms().GetByIDForUpdate(ctx, b.RoomID)
			if err != nil {
				return err
			}

			if room.Status != domain.RoomOccupied {
				return nil
			}

			return repos.Rooms().UpdateStatus(ctx, room.ID, domain.RoomAvailable, s.now())
		})
}

type sideEffect func(ctx context.Context, repos ports.Repositories, b *domain.Booking, from domain.BookingStatus) error

func (s *BookingService) transition(
	ctx context.Context,
	op string,
	id int64,
	target domain.BookingStatus,
	action domain.HistoryAction,
	req TransitionRequest,
	effect sideEffect,
) (*domain.Booking, error) {
	var updated *domain.Booking

	err := s.run(ctx, op, func(ctx context.Context, repos ports.Repositories) error {
		b, err := repos.Bookings().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		from := b.Status
		if err := b.TransitionTo(target, s.now()); err != nil {
			return err
		}

		if effect != nil {
			if err := effect(ctx, repos, b, from); err != nil {
				return err
			}
		}

		if err := repos.Bookings().UpdateStatus(ctx, b); err != nil {
			return err
		}

		notes := strings.TrimSpace(req.Reason)
		if notes == "" {
			notes = fmt.Sprintf("Status changed from %s to %s", from, target)
		}

		if _, err := s.recorder.Record(ctx, repos.History(), b.ID, action, performer(req.PerformedBy, domain.PerformerAdmin), notes); err != nil {
			return err
		}

		updated = b

		return nil
	}, idAttr("booking_id", id))
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteBooking hard-deletes a PENDING or CANCELLED booking. Its history stays.
func (s *BookingService) DeleteBooking(ctx context.Context, id int64, req TransitionRequest) error {
	return s.run(ctx, "BookingService.DeleteBooking", func(ctx context.Context, repos ports.Repositories) error {
		b, err := repos.Bookings().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if !b.Status.Deletable() {
			return domain.NewDeleteNotAllowed(b.ID, b.Status)
		}

		if err := repos.Bookings().Delete(ctx, b.ID); err != nil {
			return err
		}

		notes := strings.TrimSpace(req.Reason)
		if notes == "" {
			notes = fmt.Sprintf("Booking deleted in status %s", b.Status)
		}

		_, err = s.recorder.Record(ctx, repos.History(), b.ID, domain.ActionDeleted, performer(req.PerformedBy, domain.PerformerAdmin), notes)

		return err
	}, idAttr("booking_id", id))
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	var b *domain.Booking

	err := s.run(ctx, "BookingService.GetBooking", func(ctx context.Context, repos ports.Repositories) error {
		var err error
		b, err = repos.Bookings().GetByID(ctx, id)

		return err
	}, idAttr("booking_id", id))

	return b, err
}

func (s *BookingService) ListBookings(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	var out []domain.Booking

	err := s.run(ctx, "BookingService.ListBookings", func(ctx context.Context, repos ports.Repositories) error {
		var err error
		out, err = repos.Bookings().List(ctx, filter)

		return err
	})

	return out, err
}

// History lists entries newest first. Entries of a deleted booking remain
// readable; an id that never had entries nor a row is NotFound.
func (s *BookingService) History(ctx context.Context, id int64) ([]domain.BookingHistory, error) {
	var out []domain.BookingHistory

	err := s.run(ctx, "BookingService.History", func(ctx context.Context, repos ports.Repositories) error {
		entries, err := repos.History().ListByBooking(ctx, id)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			if _, err := repos.Bookings().GetByID(ctx, id); err != nil {
				return err
			}
		}

		out = entries

		return nil
	}, idAttr("booking_id", id))

	return out, err
}
