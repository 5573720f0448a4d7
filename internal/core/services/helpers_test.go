package services_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/srgjo27/hotel_booking/internal/adapter/repository/memory"
	"github.com/srgjo27/hotel_booking/internal/core/domain"
	"github.com/srgjo27/hotel_booking/internal/core/ports"
	"github.com/srgjo27/hotel_booking/internal/core/services"
	"github.com/srgjo27/hotel_booking/internal/platform/logger"
)

// tickingClock advances one second per call so history order is observable.
func tickingClock() func() time.Time {
	var ticks atomic.Int64

	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	return func() time.Time {
		return start.Add(time.Duration(ticks.Add(1)) * time.Second)
	}
}

type env struct {
	store    *memory.Store
	deps     services.Deps
	bookings *services.BookingService
	catalog  *services.CatalogService
	pricing  *services.PricingService
	promos   *services.PromotionService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	l := logger.Discard()
	store := memory.New(memory.Config{L: l})
	deps := services.Deps{Tx: store, L: l, RequestTimeout: time.Second, Now: tickingClock()}

	return &env{
		store:    store,
		deps:     deps,
		bookings: services.NewBookingService(deps),
		catalog:  services.NewCatalogService(deps, nil),
		pricing:  services.NewPricingService(deps, nil),
		promos:   services.NewPromotionService(deps),
	}
}

func date(s string) domain.Date {
	return domain.MustParseDate(s)
}

func intPtr(v int) *int {
	return &v
}

func (e *env) roomType(t *testing.T, basePrice domain.Money) *domain.RoomType {
	t.Helper()

	rt, err := e.catalog.CreateRoomType(context.Background(), &domain.RoomType{
		Name:      "Deluxe",
		Capacity:  2,
		BasePrice: basePrice,
	})
	require.NoError(t, err)

	return rt
}

func (e *env) room(t *testing.T, roomTypeID int64, number string) *domain.Room {
	t.Helper()

	room, err := e.catalog.CreateRoom(context.Background(), &domain.Room{
		RoomTypeID: roomTypeID,
		RoomNumber: number,
		Floor:      1,
	})
	require.NoError(t, err)

	return room
}

func (e *env) season(t *testing.T, roomTypeID int64, name, from, to, multiplier string, priority int) *domain.SeasonalPrice {
	t.Helper()

	sp, err := e.catalog.CreateSeasonalPrice(context.Background(), &domain.SeasonalPrice{
		RoomTypeID:      roomTypeID,
		Name:            name,
		StartDate:       date(from),
		EndDate:         date(to),
		PriceMultiplier: domain.MustDecimal(multiplier),
		Priority:        priority,
	})
	require.NoError(t, err)

	return sp
}

func (e *env) daily(t *testing.T, roomTypeID int64, day string, price domain.Money, reason string) *domain.DailyPrice {
	t.Helper()

	dp, err := e.catalog.SetDailyPrice(context.Background(), &domain.DailyPrice{
		RoomTypeID: roomTypeID,
		Date:       date(day),
		Price:      price,
		Reason:     reason,
	})
	require.NoError(t, err)

	return dp
}

func (e *env) promotion(t *testing.T, p domain.Promotion) *domain.Promotion {
	t.Helper()

	used := p.UsedCount

	created, err := e.promos.Create(context.Background(), &p)
	require.NoError(t, err)

	if used == 0 {
		return created
	}

	err = e.store.WithinTx(context.Background(), func(ctx context.Context, repos ports.Repositories) error {
		created.UsedCount = used
		return repos.Promotions().Update(ctx, created)
	})
	require.NoError(t, err)

	return created
}

func (e *env) usedCount(t *testing.T, id int64) int {
	t.Helper()

	p, err := e.promos.Get(context.Background(), id)
	require.NoError(t, err)

	return p.UsedCount
}

func (e *env) roomStatus(t *testing.T, id int64) domain.RoomStatus {
	t.Helper()

	room, err := e.catalog.GetRoom(context.Background(), id)
	require.NoError(t, err)

	return room.Status
}

// tetCatalog seeds base 500000, a Tet season x2.0 and a Peak Eve override.
func (e *env) tetCatalog(t *testing.T) (*domain.RoomType, *domain.Room) {
	t.Helper()

	rt := e.roomType(t, 500000)
	room := e.room(t, rt.ID, "101")
	e.season(t, rt.ID, "Tet", "2026-01-25", "2026-02-05", "2.0", 5)
	e.daily(t, rt.ID, "2026-01-30", 3000000, "Peak Eve")

	return rt, room
}
