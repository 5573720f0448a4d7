package services

import (
	"context"
	"time"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
	"github.com/srgjo27/hotel_booking/internal/core/ports"
)

// HistoryRecorder is the only writer of booking history. It appends and never
// edits or removes entries.
type HistoryRecorder struct {
	now func() time.Time
}

func NewHistoryRecorder(now func() time.Time) HistoryRecorder {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	return HistoryRecorder{now: now}
}

func (h HistoryRecorder) Record(
	ctx context.Context,
	history ports.HistoryRepository,
	bookingID int64,
	action domain.HistoryAction,
	performedBy string,
	notes string,
) (*domain.BookingHistory, error) {
	entry := &domain.BookingHistory{
		BookingID:   bookingID,
		Action:      action,
		PerformedBy: performedBy,
		Timestamp:   h.now(),
		Notes:       notes,
	}

	if err := history.Append(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}
