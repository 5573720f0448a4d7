package domain

import "time"

type HistoryAction string

const (
	ActionCreated    HistoryAction = "CREATED"
	ActionConfirmed  HistoryAction = "CONFIRMED"
	ActionCheckedIn  HistoryAction = "CHECKED_IN"
	ActionCheckedOut HistoryAction = "CHECKED_OUT"
	ActionCancelled  HistoryAction = "CANCELLED"
	ActionDeleted    HistoryAction = "DELETED"
)

const (
	PerformerSystem = "system"
	PerformerAdmin  = "admin"
)

// BookingHistory is one immutable audit entry. IDs grow monotonically with insertion.
type BookingHistory struct {
	ID          int64         `json:"id" db:"id"`
	BookingID   int64         `json:"bookingId" db:"booking_id"`
	Action      HistoryAction `json:"action" db:"action"`
	PerformedBy string        `json:"performedBy" db:"performed_by"`
	Timestamp   time.Time     `json:"timestamp" db:"timestamp"`
	Notes       string        `json:"notes" db:"notes"`
}

// NewerFirst orders entries by timestamp desc, then id desc.
func NewerFirst(a, b BookingHistory) int {
	if !a.Timestamp.Equal(b.Timestamp) {
		if a.Timestamp.After(b.Timestamp) {
			return -1
		}

		return 1
	}

	switch {
	case a.ID > b.ID:
		return -1
	case a.ID < b.ID:
		return 1
	default:
		return 0
	}
}
