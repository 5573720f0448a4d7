package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
	"github.com/srgjo27/hotel_booking/internal/core/ports"
	"github.com/srgjo27/hotel_booking/internal/core/ports/mocks"
	"github.com/srgjo27/hotel_booking/internal/core/services"
)

func TestCreateRoomType_Fail_Validation(t *testing.T) {
	e := newEnv(t)

	_, err := e.catalog.CreateRoomType(context.Background(), &domain.RoomType{Name: "", Capacity: 0, BasePrice: -1})

	domainErr, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindValidation, domainErr.Kind)
	assert.Contains(t, domainErr.Fields, "name")
	assert.Contains(t, domainErr.Fields, "capacity")
	assert.Contains(t, domainErr.Fields, "basePrice")
}

func TestUpdateRoomType_RepricesNewQuotesOnly(t *testing.T) {
	e := newEnv(t)
	rt, room := e.tetCatalog(t)
	ctx := context.Background()

	b, err := e.bookings.CreateBooking(ctx, createReq(room.ID, "2026-03-01", "2026-03-02"))
	require.NoError(t, err)

	rt.BasePrice = 800000
	updated, err := e.catalog.UpdateRoomType(ctx, rt)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(800000), updated.BasePrice)

	q, err := e.pricing.Quote(ctx, quoteReq(rt.ID, "2026-03-01", "2026-03-02", ""))
	require.NoError(t, err)
	assert.Equal(t, domain.Money(800000), q.Total)

	got, err := e.bookings.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(500000), got.TotalPrice)
}

func TestCreateRooms_AllOrNone(t *testing.T) {
	e := newEnv(t)
	rt := e.roomType(t, 500000)
	e.room(t, rt.ID, "201")
	ctx := context.Background()

	_, err := e.catalog.CreateRooms(ctx, []domain.Room{
		{RoomTypeID: rt.ID, RoomNumber: "202", Floor: 2},
		{RoomTypeID: rt.ID, RoomNumber: "201", Floor: 2},
	})
	require.Error(t, err)

	rooms, err := e.catalog.ListRooms(ctx, domain.RoomFilter{})
	require.NoError(t, err)
	assert.Len(t, rooms, 1)

	created, err := e.catalog.CreateRooms(ctx, []domain.Room{
		{RoomTypeID: rt.ID, RoomNumber: "202", Floor: 2},
		{RoomTypeID: rt.ID, RoomNumber: "203", Floor: 2, Status: domain.RoomMaintenance},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, domain.RoomAvailable, created[0].Status)
	assert.Equal(t, domain.RoomMaintenance, created[1].Status)

	floor := 2
	rooms, err = e.catalog.ListRooms(ctx, domain.RoomFilter{Floor: &floor})
	require.NoError(t, err)
	assert.Len(t, rooms, 2)
}

func TestCreateRoom_Fail_UnknownRoomType(t *testing.T) {
	e := newEnv(t)

	_, err := e.catalog.CreateRoom(context.Background(), &domain.Room{RoomTypeID: 77, RoomNumber: "1"})

	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestUpdateRoomStatus(t *testing.T) {
	e := newEnv(t)
	rt := e.roomType(t, 500000)
	room := e.room(t, rt.ID, "301")
	ctx := context.Background()

	updated, err := e.catalog.UpdateRoomStatus(ctx, room.ID, domain.RoomReserved)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomReserved, updated.Status)

	_, err = e.catalog.UpdateRoomStatus(ctx, room.ID, domain.RoomOccupied)
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = e.catalog.UpdateRoomStatus(ctx, room.ID, domain.RoomStatus("CLEANING"))
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = e.catalog.UpdateRoomStatus(ctx, 999, domain.RoomAvailable)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	assert.Equal(t, domain.RoomReserved, e.roomStatus(t, room.ID))
}

func TestListAvailableRooms(t *testing.T) {
	e := newEnv(t)
	rt, booked := e.tetCatalog(t)
	free := e.room(t, rt.ID, "102")
	ctx := context.Background()

	_, err := e.bookings.CreateBooking(ctx, createReq(booked.ID, "2026-03-01", "2026-03-04"))
	require.NoError(t, err)

	rooms, err := e.catalog.ListAvailableRooms(ctx, date("2026-03-03"), date("2026-03-05"))
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, free.ID, rooms[0].ID)

	rooms, err = e.catalog.ListAvailableRooms(ctx, date("2026-03-04"), date("2026-03-05"))
	require.NoError(t, err)
	assert.Len(t, rooms, 2)

	_, err = e.catalog.ListAvailableRooms(ctx, date("2026-03-05"), date("2026-03-04"))
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestSeasonalPrices_CRUD(t *testing.T) {
	e := newEnv(t)
	rt := e.roomType(t, 500000)
	ctx := context.Background()

	sp := e.season(t, rt.ID, "Summer", "2026-06-01", "2026-08-31", "1.5", 1)

	_, err := e.catalog.CreateSeasonalPrice(ctx, &domain.SeasonalPrice{
		RoomTypeID:      rt.ID,
		Name:            "Backwards",
		StartDate:       date("2026-06-10"),
		EndDate:         date("2026-06-01"),
		PriceMultiplier: domain.MustDecimal("1.1"),
	})
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	sp.PriceMultiplier = domain.MustDecimal("1.25")
	updated, err := e.catalog.UpdateSeasonalPrice(ctx, sp)
	require.NoError(t, err)
	assert.Equal(t, "1.25", updated.PriceMultiplier.String())

	list, err := e.catalog.ListSeasonalPrices(ctx, &rt.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	q, err := e.pricing.Quote(ctx, quoteReq(rt.ID, "2026-07-01", "2026-07-02", ""))
	require.NoError(t, err)
	assert.Equal(t, domain.Money(625000), q.Total)

	require.NoError(t, e.catalog.DeleteSeasonalPrice(ctx, sp.ID))

	_, err = e.catalog.GetSeasonalPrice(ctx, sp.ID)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	missing := *sp
	missing.ID = 999
	_, err = e.catalog.UpdateSeasonalPrice(ctx, &missing)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestDailyPrices_UpsertReplacesExisting(t *testing.T) {
	e := newEnv(t)
	rt := e.roomType(t, 500000)
	ctx := context.Background()

	first := e.daily(t, rt.ID, "2026-12-31", 2000000, "New Year's Eve")
	second := e.daily(t, rt.ID, "2026-12-31", 2500000, "New Year's Eve gala")

	assert.Equal(t, first.ID, second.ID)

	list, err := e.catalog.ListDailyPrices(ctx, ports.DailyPriceFilter{RoomTypeID: &rt.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.Money(2500000), list[0].Price)
	assert.Equal(t, "New Year's Eve gala", list[0].Reason)

	second.Price = 1800000
	_, err = e.catalog.UpdateDailyPrice(ctx, second)
	require.NoError(t, err)

	got, err := e.catalog.GetDailyPrice(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(1800000), got.Price)

	require.NoError(t, e.catalog.DeleteDailyPrice(ctx, second.ID))

	err = e.catalog.DeleteDailyPrice(ctx, second.ID)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	_, err = e.catalog.SetDailyPrice(ctx, &domain.DailyPrice{RoomTypeID: 999, Date: date("2026-12-31"), Price: 1})
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestCatalogChanges_InvalidateCachedQuotes(t *testing.T) {
	e := newEnv(t)
	rt := e.roomType(t, 500000)
	ctx := context.Background()

	cache := mocks.NewQuoteCache(t)
	cache.On("Invalidate", mock.Anything, rt.ID).Return(nil).Times(4)

	catalog := services.NewCatalogService(e.deps, cache)

	sp, err := catalog.CreateSeasonalPrice(ctx, &domain.SeasonalPrice{
		RoomTypeID:      rt.ID,
		Name:            "Autumn",
		StartDate:       date("2026-09-01"),
		EndDate:         date("2026-11-30"),
		PriceMultiplier: domain.MustDecimal("1.1"),
	})
	require.NoError(t, err)

	_, err = catalog.SetDailyPrice(ctx, &domain.DailyPrice{RoomTypeID: rt.ID, Date: date("2026-10-01"), Price: 100})
	require.NoError(t, err)

	require.NoError(t, catalog.DeleteSeasonalPrice(ctx, sp.ID))

	rt.BasePrice = 550000
	_, err = catalog.UpdateRoomType(ctx, rt)
	require.NoError(t, err)

	_, err = catalog.SetDailyPrice(ctx, &domain.DailyPrice{RoomTypeID: 999, Date: date("2026-10-01"), Price: 100})
	require.Error(t, err)
}
