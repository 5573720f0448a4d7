package ports

import (
	"context"
	"time"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
)

type RoomTypeRepository interface {
	Create(ctx context.Context, roomType *domain.RoomType) error
	Update(ctx context.Context, roomType *domain.RoomType) error
	GetByID(ctx context.Context, id int64) (*domain.RoomType, error)
	List(ctx context.Context) ([]domain.RoomType, error)
}

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	// GetByIDForUpdate locks the room row until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Room, error)
	List(ctx context.Context, filter domain.RoomFilter) ([]domain.Room, error)
	UpdateStatus(ctx context.Context, id int64, status domain.RoomStatus, at time.Time) error
	ListAvailable(ctx context.Context, checkIn, checkOut domain.Date) ([]domain.Room, error)
}

type SeasonalPriceRepository interface {
	Create(ctx context.Context, price *domain.SeasonalPrice) error
	Update(ctx context.Context, price *domain.SeasonalPrice) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.SeasonalPrice, error)
	// List returns rows ordered by priority desc, id asc.
	List(ctx context.Context, roomTypeID *int64) ([]domain.SeasonalPrice, error)
	// ListOverlapping returns the seasons of a room type that intersect [from, to].
	ListOverlapping(ctx context.Context, roomTypeID int64, from, to domain.Date) ([]domain.SeasonalPrice, error)
}

type DailyPriceFilter struct {
	RoomTypeID *int64
	StartDate  *domain.Date
	EndDate    *domain.Date
}

type DailyPriceRepository interface {
	// Upsert inserts or replaces the override for (roomTypeID, date) and fills ID.
	Upsert(ctx context.Context, price *domain.DailyPrice) error
	Update(ctx context.Context, price *domain.DailyPrice) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.DailyPrice, error)
	List(ctx context.Context, filter DailyPriceFilter) ([]domain.DailyPrice, error)
}

type PromotionRepository interface {
	Create(ctx context.Context, promotion *domain.Promotion) error
	Update(ctx context.Context, promotion *domain.Promotion) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Promotion, error)
	GetByCode(ctx context.Context, code string) (*domain.Promotion, error)
	// GetByCodeForUpdate locks the promotion row until the transaction ends.
	GetByCodeForUpdate(ctx context.Context, code string) (*domain.Promotion, error)
	List(ctx context.Context) ([]domain.Promotion, error)
	// IncrementUsage adds one use unless the cap is reached; it reports PromotionExhausted then.
	IncrementUsage(ctx context.Context, id int64) (*domain.Promotion, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	// GetByIDForUpdate locks the booking row until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, booking *domain.Booking) error
	Delete(ctx context.Context, id int64) error
	// HasOverlap reports whether an active booking of the room intersects [checkIn, checkOut).
	HasOverlap(ctx context.Context, roomID int64, checkIn, checkOut domain.Date) (bool, error)
}

type HistoryRepository interface {
	Append(ctx context.Context, entry *domain.BookingHistory) error
	// ListByBooking returns entries newest first.
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.BookingHistory, error)
}

// Repositories is the set of repositories bound to one unit of work.
type Repositories interface {
	RoomTypes() RoomTypeRepository
	Rooms() RoomRepository
	SeasonalPrices() SeasonalPriceRepository
	DailyPrices() DailyPriceRepository
	Promotions() PromotionRepository
	Bookings() BookingRepository
	History() HistoryRepository
}

// TxFunc runs inside a transaction. Returning an error rolls every write back.
type TxFunc func(ctx context.Context, repos Repositories) error

// TxManager executes a TxFunc as one serializable unit against the store.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}
