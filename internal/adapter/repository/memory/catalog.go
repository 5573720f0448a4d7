package memory

import (
	"context"
	"slices"
	"time"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
	"github.com/srgjo27/hotel_booking/internal/core/ports"
)

type roomTypeRepo struct{ t *transaction }

func (r roomTypeRepo) Create(_ context.Context, rt *domain.RoomType) error {
	rt.ID = r.t.nextID("room_types")
	put(r.t, r.t.s.roomTypes, rt.ID, *rt)

	return nil
}

func (r roomTypeRepo) Update(_ context.Context, rt *domain.RoomType) error {
	if _, ok := r.t.s.roomTypes[rt.ID]; !ok {
		return domain.NewNotFound("room type", rt.ID)
	}

	put(r.t, r.t.s.roomTypes, rt.ID, *rt)

	return nil
}

func (r roomTypeRepo) GetByID(_ context.Context, id int64) (*domain.RoomType, error) {
	rt, ok := r.t.s.roomTypes[id]
	if !ok {
		return nil, domain.NewNotFound("room type", id)
	}

	return &rt, nil
}

func (r roomTypeRepo) List(_ context.Context) ([]domain.RoomType, error) {
	return sortedByID(r.t.s.roomTypes, func(rt domain.RoomType) int64 { return rt.ID }), nil
}

type roomRepo struct{ t *transaction }

func (r roomRepo) Create(_ context.Context, room *domain.Room) error {
	if _, ok := r.t.s.roomTypes[room.RoomTypeID]; !ok {
		return domain.NewNotFound("room type", room.RoomTypeID)
	}

	for _, existing := range r.t.s.rooms {
		if existing.RoomNumber == room.RoomNumber {
			return domain.NewValidationError("room number %s already exists", room.RoomNumber)
		}
	}

	room.ID = r.t.nextID("rooms")
	put(r.t, r.t.s.rooms, room.ID, *room)

	return nil
}

func (r roomRepo) GetByID(_ context.Context, id int64) (*domain.Room, error) {
	room, ok := r.t.s.rooms[id]
	if !ok {
		return nil, domain.NewNotFound("room", id)
	}

	return &room, nil
}

// GetByIDForUpdate needs no row lock: the transaction already owns the store.
func (r roomRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Room, error) {
	return r.GetByID(ctx, id)
}

func (r roomRepo) List(_ context.Context, filter domain.RoomFilter) ([]domain.Room, error) {
	all := sortedByID(r.t.s.rooms, func(room domain.Room) int64 { return room.ID })

	return slices.DeleteFunc(all, func(room domain.Room) bool {
		return (filter.Status != nil && room.Status != *filter.Status) ||
			(filter.RoomTypeID != nil && room.RoomTypeID != *filter.RoomTypeID) ||
			(filter.Floor != nil && room.Floor != *filter.Floor)
	}), nil
}

func (r roomRepo) UpdateStatus(_ context.Context, id int64, status domain.RoomStatus, at time.Time) error {
	room, ok := r.t.s.rooms[id]
	if !ok {
		return domain.NewNotFound("room", id)
	}

	room.Status = status
	room.UpdatedAt = at
	put(r.t, r.t.s.rooms, id, room)

	return nil
}

func (r roomRepo) ListAvailable(ctx context.Context, checkIn, checkOut domain.Date) ([]domain.Room, error) {
	available := domain.RoomAvailable

	rooms, err := r.List(ctx, domain.RoomFilter{Status: &available})
	if err != nil {
		return nil, err
	}

	bookings := bookingRepo{r.t}
	free := rooms[:0]

	for _, room := range rooms {
		busy, err := bookings.HasOverlap(ctx, room.ID, checkIn, checkOut)
		if err != nil {
			return nil, err
		}

		if !busy {
			free = append(free, room)
		}
	}

	return free, nil
}

type seasonalRepo struct{ t *transaction }

func (r seasonalRepo) Create(_ context.Context, sp *domain.SeasonalPrice) error {
	if _, ok := r.t.s.roomTypes[sp.RoomTypeID]; !ok {
		return domain.NewNotFound("room type", sp.RoomTypeID)
	}

	sp.ID = r.t.nextID("seasonal_prices")
	put(r.t, r.t.s.seasonal, sp.ID, *sp)

	return nil
}

func (r seasonalRepo) Update(_ context.Context, sp *domain.SeasonalPrice) error {
	if _, ok := r.t.s.seasonal[sp.ID]; !ok {
		return domain.NewNotFound("seasonal price", sp.ID)
	}

	if _, ok := r.t.s.roomTypes[sp.RoomTypeID]; !ok {
		return domain.NewNotFound("room type", sp.RoomTypeID)
	}

	put(r.t, r.t.s.seasonal, sp.ID, *sp)

	return nil
}

func (r seasonalRepo) Delete(_ context.Context, id int64) error {
	if !remove(r.t, r.t.s.seasonal, id) {
		return domain.NewNotFound("seasonal price", id)
	}

	return nil
}

func (r seasonalRepo) GetByID(_ context.Context, id int64) (*domain.SeasonalPrice, error) {
	sp, ok := r.t.s.seasonal[id]
	if !ok {
		return nil, domain.NewNotFound("seasonal price", id)
	}

	return &sp, nil
}

func (r seasonalRepo) List(_ context.Context, roomTypeID *int64) ([]domain.SeasonalPrice, error) {
	all := sortedByID(r.t.s.seasonal, func(sp domain.SeasonalPrice) int64 { return sp.ID })
	all = slices.DeleteFunc(all, func(sp domain.SeasonalPrice) bool {
		return roomTypeID != nil && sp.RoomTypeID != *roomTypeID
	})

	slices.SortStableFunc(all, func(a, b domain.SeasonalPrice) int { return b.Priority - a.Priority })

	return all, nil
}

func (r seasonalRepo) ListOverlapping(ctx context.Context, roomTypeID int64, from, to domain.Date) ([]domain.SeasonalPrice, error) {
	all, err := r.List(ctx, &roomTypeID)
	if err != nil {
		return nil, err
	}

	return slices.DeleteFunc(all, func(sp domain.SeasonalPrice) bool {
		return sp.EndDate.Before(from) || sp.StartDate.After(to)
	}), nil
}

type dailyRepo struct{ t *transaction }

func (r dailyRepo) Upsert(_ context.Context, dp *domain.DailyPrice) error {
	if _, ok := r.t.s.roomTypes[dp.RoomTypeID]; !ok {
		return domain.NewNotFound("room type", dp.RoomTypeID)
	}

	for id, existing := range r.t.s.daily {
		if existing.RoomTypeID == dp.RoomTypeID && existing.Date.Equal(dp.Date) {
			dp.ID = id
			dp.CreatedAt = existing.CreatedAt
			put(r.t, r.t.s.daily, id, *dp)

			return nil
		}
	}

	dp.ID = r.t.nextID("daily_prices")
	put(r.t, r.t.s.daily, dp.ID, *dp)

	return nil
}

func (r dailyRepo) Update(_ context.Context, dp *domain.DailyPrice) error {
	if _, ok := r.t.s.daily[dp.ID]; !ok {
		return domain.NewNotFound("daily price", dp.ID)
	}

	for id, existing := range r.t.s.daily {
		if id != dp.ID && existing.RoomTypeID == dp.RoomTypeID && existing.Date.Equal(dp.Date) {
			return domain.NewConflict(nil)
		}
	}

	put(r.t, r.t.s.daily, dp.ID, *dp)

	return nil
}

func (r dailyRepo) Delete(_ context.Context, id int64) error {
	if !remove(r.t, r.t.s.daily, id) {
		return domain.NewNotFound("daily price", id)
	}

	return nil
}

func (r dailyRepo) GetByID(_ context.Context, id int64) (*domain.DailyPrice, error) {
	dp, ok := r.t.s.daily[id]
	if !ok {
		return nil, domain.NewNotFound("daily price", id)
	}

	return &dp, nil
}

func (r dailyRepo) List(_ context.Context, filter ports.DailyPriceFilter) ([]domain.DailyPrice, error) {
	all := sortedByID(r.t.s.daily, func(dp domain.DailyPrice) int64 { return dp.ID })
	all = slices.DeleteFunc(all, func(dp domain.DailyPrice) bool {
		return (filter.RoomTypeID != nil && dp.RoomTypeID != *filter.RoomTypeID) ||
			(filter.StartDate != nil && dp.Date.Before(*filter.StartDate)) ||
			(filter.EndDate != nil && dp.Date.After(*filter.EndDate))
	})

	slices.SortStableFunc(all, func(a, b domain.DailyPrice) int { return a.Date.Time().Compare(b.Date.Time()) })

	return all, nil
}

func sortedByID[V any](m map[int64]V, id func(V) int64) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}

	slices.SortFunc(out, func(a, b V) int {
		switch ia, ib := id(a), id(b); {
		case ia < ib:
			return -1
		case ia > ib:
			return 1
		default:
			return 0
		}
	})

	return out
}
