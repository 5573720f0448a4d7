package domain

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "PENDING"
	BookingConfirmed  BookingStatus = "CONFIRMED"
	BookingCheckedIn  BookingStatus = "CHECKED_IN"
	BookingCheckedOut BookingStatus = "CHECKED_OUT"
	BookingCancelled  BookingStatus = "CANCELLED"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:    {BookingConfirmed, BookingCancelled},
	BookingConfirmed:  {BookingCheckedIn, BookingCancelled},
	BookingCheckedIn:  {BookingCheckedOut, BookingCancelled},
	BookingCheckedOut: {},
	BookingCancelled:  {},
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if _, ok := bookingTransitions[status]; !ok {
		return "", fmt.Errorf("unknown booking status %q", s)
	}

	return status, nil
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == target {
			return true
		}
	}

	return false
}

func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// HoldsRoom reports whether a booking in this status blocks its room's dates.
func (s BookingStatus) HoldsRoom() bool {
	return s == BookingPending || s == BookingConfirmed || s == BookingCheckedIn
}

// Deletable reports whether the administrative surface may hard-delete the booking.
func (s BookingStatus) Deletable() bool {
	return s == BookingPending || s == BookingCancelled
}

// ActiveBookingStatuses are the statuses that hold a room.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingConfirmed, BookingCheckedIn}

type Booking struct {
	ID              int64         `json:"id" db:"id"`
	CustomerID      int64         `json:"customerId" db:"customer_id"`
	RoomID          int64         `json:"roomId" db:"room_id"`
	CheckInDate     Date          `json:"checkInDate" db:"check_in_date"`
	CheckOutDate    Date          `json:"checkOutDate" db:"check_out_date"`
	Subtotal        Money         `json:"subtotal" db:"subtotal"`
	DiscountAmount  Money         `json:"discountAmount" db:"discount_amount"`
	TotalPrice      Money         `json:"totalPrice" db:"total_price"`
	PromotionCode   *string       `json:"promotionCode" db:"promotion_code"`
	Status          BookingStatus `json:"status" db:"status"`
	SpecialRequests string        `json:"specialRequests" db:"special_requests"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`
}

func (b *Booking) Nights() int {
	return DaysBetween(b.CheckInDate, b.CheckOutDate)
}

func (b *Booking) Overlaps(checkIn, checkOut Date) bool {
	return RangesOverlap(b.CheckInDate, b.CheckOutDate, checkIn, checkOut)
}

// TransitionTo moves the booking along the state graph or fails with InvalidTransition
// leaving the booking unchanged.
func (b *Booking) TransitionTo(target BookingStatus, at time.Time) error {
	if !b.Status.CanTransitionTo(target) {
		return NewInvalidTransition(b.Status, target)
	}

	b.Status = target
	b.UpdatedAt = at

	return nil
}

type BookingFilter struct {
	Status     *BookingStatus
	CustomerID *int64
	RoomID     *int64
	StartDate  *Date
	EndDate    *Date
}

// ValidateStay checks that the stay spans at least one night.
func ValidateStay(checkIn, checkOut Date) error {
	fields := FieldErrors{}

	if checkIn.IsZero() {
		fields.Add("checkInDate", "check-in date is required")
	}

	if checkOut.IsZero() {
		fields.Add("checkOutDate", "check-out date is required")
	}

	if err := fields.Err(); err != nil {
		return err
	}

	if !checkIn.Before(checkOut) {
		return NewInvalidDateRange(checkIn, checkOut)
	}

	return nil
}
