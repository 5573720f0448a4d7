package services

import (
	"context"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
	"github.com/srgjo27/hotel_booking/internal/core/ports"
)

// CatalogService manages room types, rooms, seasonal rules and daily overrides.
// Every committed price change drops the cached quotes of the room type.
type CatalogService struct {
	runner
	cache ports.QuoteCache
}

func NewCatalogService(d Deps, cache ports.QuoteCache) *CatalogService {
	return &CatalogService{runner: newRunner(d), cache: cache}
}

func (s *CatalogService) invalidate(ctx context.Context, roomTypeIDs ...int64) {
	if s.cache == nil {
		return
	}

	seen := map[int64]bool{}

	for _, id := range roomTypeIDs {
		if id <= 0 || seen[id] {
			continue
		}

		seen[id] = true

		if err := s.cache.Invalidate(ctx, id); err != nil {
			s.l.Warn("quote cache invalidation failed", "room_type_id", id, "error", err.Error())
		}
	}
}

func (s *CatalogService) CreateRoomType(ctx context.Context, rt *domain.RoomType) (*domain.RoomType, error) {
	if err := rt.Validate(); err != nil {
		return nil, err
	}

	err := s.run(ctx, "CatalogService.CreateRoomType", func(ctx context.Context, repos ports.Repositories) error {
		now := s.now()
		rt.ID, rt.CreatedAt, rt.UpdatedAt = 0, now, now

		return repos.RoomTypes().Create(ctx, rt)
	})
	if err != nil {
		return nil, err
	}

	return rt, nil
}

// UpdateRoomType edits name, description, capacity and base price. Existing
// bookings keep the price they were created with.
func (s *CatalogService) UpdateRoomType(ctx context.Context, rt *domain.RoomType) (*domain.RoomType, error) {
	if err := rt.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.RoomType

	err := s.run(ctx, "CatalogService.UpdateRoomType", func(ctx context.Context, repos ports.Repositories) error {
		current, err := repos.RoomTypes().GetByID(ctx, rt.ID)
		if err != nil {
			return err
		}

		current.Name = rt.Name
		current.Description = rt.Description
		current.Capacity = rt.Capacity
		current.BasePrice = rt.BasePrice
		current.UpdatedAt = s.now()

		if err := repos.RoomTypes().Update(ctx, current); err != nil {
			return err
		}

		updated = current

		return nil
	}, idAttr("room_type_id", rt.ID))
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, updated.ID)

	return updated, nil
}

func (s *CatalogService) GetRoomType(ctx context.Context, id int64) (*domain.RoomType, error) {
	var rt *domain.RoomType

	err := s.run(ctx, "CatalogService.GetRoomType", func(ctx context.Context, repos ports.Repositories) error {
		var err error
		rt, err = repos.RoomTypes().GetByID(ctx, id)

		return err
	})

	return rt, err
}

func (s *CatalogService) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var out []domain.RoomType

	err := s.run(ctx, "CatalogService.ListRoomTypes", func(ctx context.Context, repos ports.Repositories) error {
		var err error
		out, err = repos.RoomTypes().List(ctx)

		return err
	})

	return out, err
}

func (s *CatalogService) CreateRoom(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	rooms, err := s.CreateRooms(ctx, []domain.Room{*room})
	if err != nil {
		return nil, err
	}

	return &rooms[0], nil
}

// CreateRooms inserts all rooms or none.
func (s *CatalogService) CreateRooms(ctx context.Context, rooms []domain.Room) ([]domain.Room, error) {
	if len(rooms) == 0 {
		return nil, domain.NewValidationError("at least one room is required")
	}

	for i := range rooms {
		if rooms[i].Status == "" {
			rooms[i].Status = domain.RoomAvailable
		}

		if err := rooms[i].Validate(); err != nil {
			return nil, err
		}
	}

	var created []domain.Room

	err := s.run(ctx, "CatalogService.CreateRooms", func(ctx context.Context, repos ports.Repositories) error {
		now := s.now()
		created = make([]domain.Room, 0, len(rooms))

		for _, room := range rooms {
			room.ID, room.CreatedAt, room.UpdatedAt = 0, now, now

			if err := repos.Rooms().Create(ctx, &room); err != nil {
				return err
			}

			created = append(created, room)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (s *CatalogService) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	var room *domain.Room

	err := s.run(ctx, "CatalogService.GetRoom", func(ctx context.Context, repos ports.Repositories) error {
		var err error
		room, err = repos.Rooms().GetByID(ctx, id)

		return err
	})

	return room, err
}

func (s *CatalogService) ListRooms(ctx context.Context, filter domain.RoomFilter) ([]domain.Room, error) {
	var out []domain.Room

	err := s.run(ctx, "CatalogService.ListRooms", func(ctx context.Context, repos ports.Repositories) error {
		var err error
		out, err = repos.Rooms().List(ctx, filter)

		return err
	})

	return out, err
}

// UpdateRoomStatus applies a staff status change. OCCUPIED only follows a check-in.
func (s *CatalogService) UpdateRoomStatus(ctx context.Context, id int64, status domain.RoomStatus) (*domain.Room, error) {
	if _, err := domain.ParseRoomStatus(string(status)); err != nil {
		return nil, domain.NewValidationError("%s", err.Error())
	}

	if !status.ManuallySettable() {
		return nil, domain.NewValidationError("room status %s is set by check-in only", status)
	}

	var room *domain.Room

	err := s.run(ctx, "CatalogService.UpdateRoomStatus", func(ctx context.Context, repos ports.Repositories) error {
		if _, err := repos.Rooms().GetByIDForUpdate(ctx, id); err != nil {
			return err
		}

		if err := repos.Rooms().UpdateStatus(ctx, id, status, s.now()); err != nil {
			return err
		}

		var err error
		room, err = repos.Rooms().GetByID(ctx, id)

		return err
	}, idAttr("room_id", id))

	return room, err
}

func (s *CatalogService) ListAvailableRooms(ctx context.Context, checkIn, checkOut domain.Date) ([]domain.Room, error) {
	if err := domain.ValidateStay(checkIn, checkOut); err != nil {
		return nil, err
	}

	var out []domain.Room

	err := s.run(ctx, "CatalogService.ListAvailableRooms", func(ctx context.Context, repos ports.Repositories) error {
		var err error
		out, err = repos.Rooms().ListAvailable(ctx, checkIn, checkOut)

		return err
	})

	return out, err
}

func (s *CatalogService) ListSeasonalPrices(ctx context.Context, roomTypeID *int64) ([]domain.SeasonalPrice, error) {
	var out []domain.SeasonalPrice

	err := s.run(ctx, "CatalogService.ListSeasonalPrices", func(ctx context.Context, repos ports.Repositories) error {
		var err error
		out, err = repos.SeasonalPrices().List(ctx, roomTypeID)

		return err
	})

	return out, err
}

func (s *CatalogService) GetSeasonalPrice(ctx context.Context, id int64) (*domain.SeasonalPrice, error) {
	var sp *domain.SeasonalPrice

	err := s.run(ctx, "CatalogService.GetSeasonalPrice", func(ctx context.Context, repos ports.Repositories) error {
		var err error
		sp, err = repos.SeasonalPrices().GetByID(ctx, id)

		return err
	})

	return sp, err
}

func (s *CatalogService) CreateSeasonalPrice(ctx context.Context, sp *domain.SeasonalPrice) (*domain.SeasonalPrice, error) {
	if err := sp.Validate(); err != nil {
		return nil, err
	}

	err := s.run(ctx, "CatalogService.CreateSeasonalPrice", func(ctx context.Context, repos ports.Repositories) error {
		if _, err := repos.RoomTypes().GetByID(ctx, sp.RoomTypeID); err != nil {
			return err
		}

		sp.ID, sp.CreatedAt = 0, s.now()

		return repos.SeasonalPrices().Create(ctx, sp)
	}, idAttr("room_type_id", sp.RoomTypeID))
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, sp.RoomTypeID)

	return sp, nil
}

func (s *CatalogService) UpdateSeasonalPrice(ctx context.Context, sp *domain.SeasonalPrice) (*domain.SeasonalPrice, error) {
	if err := sp.Validate(); err != nil {
		return nil, err
	}

	var previousRoomType int64

	err := s.run(ctx, "CatalogService.UpdateSeasonalPrice", func(ctx context.Context, repos ports.Repositories) error {
		current, err := repos.SeasonalPrices().GetByID(ctx, sp.ID)
		if err != nil {
			return err
		}

		if _, err := repos.RoomTypes().GetByID(ctx, sp.RoomTypeID); err != nil {
			return err
		}

		previousRoomType = current.RoomTypeID
		sp.CreatedAt = current.CreatedAt

		return repos.SeasonalPrices().Update(ctx, sp)
	}, idAttr("seasonal_price_id", sp.ID))
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, previousRoomType, sp.RoomTypeID)

	return sp, nil
}

func (s *CatalogService) DeleteSeasonalPrice(ctx context.Context, id int64) error {
	var roomTypeID int64

	err := s.run(ctx, "CatalogService.DeleteSeasonalPrice", func(ctx context.Context, repos ports.Repositories) error {
		current, err := repos.SeasonalPrices().GetByID(ctx, id)
		if err != nil {
			return err
		}

		roomTypeID = current.RoomTypeID

		return repos.SeasonalPrices().Delete(ctx, id)
	}, idAttr("seasonal_price_id", id))
	if err != nil {
		return err
	}

	s.invalidate(ctx, roomTypeID)

	return nil
}

func (s *CatalogService) ListDailyPrices(ctx context.Context, filter ports.DailyPriceFilter) ([]domain.DailyPrice, error) {
	var out []domain.DailyPrice

	err := s.run(ctx, "CatalogService.ListDailyPrices", func(ctx context.Context, repos ports.Repositories) error {
		var err error
		out, err = repos.DailyPrices().List(ctx, filter)

		return err
	})

	return out, err
}

func (s *CatalogService) GetDailyPrice(ctx context.Context, id int64) (*domain.DailyPrice, error) {
	var dp *domain.DailyPrice

	err := s.run(ctx, "CatalogService.GetDailyPrice", func(ctx context.Context, repos ports.Repositories) error {
		var err error
		dp, err = repos.DailyPrices().GetByID(ctx, id)

		return err
	})

	return dp, err
}

// SetDailyPrice creates the override for (roomTypeId, date) or replaces the existing one.
func (s *CatalogService) SetDailyPrice(ctx context.Context, dp *domain.DailyPrice) (*domain.DailyPrice, error) {
	if err := dp.Validate(); err != nil {
		return nil, err
	}

	err := s.run(ctx, "CatalogService.SetDailyPrice", func(ctx context.Context, repos ports.Repositories) error {
		if _, err := repos.RoomTypes().GetByID(ctx, dp.RoomTypeID); err != nil {
			return err
		}

		dp.ID, dp.CreatedAt = 0, s.now()

		return repos.DailyPrices().Upsert(ctx, dp)
	}, idAttr("room_type_id", dp.RoomTypeID))
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, dp.RoomTypeID)

	return dp, nil
}

func (s *CatalogService) UpdateDailyPrice(ctx context.Context, dp *domain.DailyPrice) (*domain.DailyPrice, error) {
	if err := dp.Validate(); err != nil {
		return nil, err
	}

	var previousRoomType int64

	err := s.run(ctx, "CatalogService.UpdateDailyPrice", func(ctx context.Context, repos ports.Repositories) error {
		current, err := repos.DailyPrices().GetByID(ctx, dp.ID)
		if err != nil {
			return err
		}

		if _, err := repos.RoomTypes().GetByID(ctx, dp.RoomTypeID); err != nil {
			return err
		}

		previousRoomType = current.RoomTypeID
		dp.CreatedAt = current.CreatedAt

		return repos.DailyPrices().Update(ctx, dp)
	}, idAttr("daily_price_id", dp.ID))
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, previousRoomType, dp.RoomTypeID)

	return dp, nil
}

func (s *CatalogService) DeleteDailyPrice(ctx context.Context, id int64) error {
	var roomTypeID int64

	err := s.run(ctx, "CatalogService.DeleteDailyPrice", func(ctx context.Context, repos ports.Repositories) error {
		current, err := repos.DailyPrices().GetByID(ctx, id)
		if err != nil {
			return err
		}

		roomTypeID = current.RoomTypeID

		return repos.DailyPrices().Delete(ctx, id)
	}, idAttr("daily_price_id", id))
	if err != nil {
		return err
	}

	s.invalidate(ctx, roomTypeID)

	return nil
}
