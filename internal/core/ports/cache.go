package ports

import (
	"context"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
)

// QuoteCache stores promotion-free quotes per room type. Invalidate drops every
// quote of a room type after its catalog changes. Get reports the version it
// read; Set must be given that version, never a fresher one.
type QuoteCache interface {
	Get(ctx context.Context, roomTypeID int64, checkIn, checkOut domain.Date) (quote *domain.Quote, version int64, hit bool, err error)
	Set(ctx context.Context, version int64, quote *domain.Quote) error
	Invalidate(ctx context.Context, roomTypeID int64) error
}

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
