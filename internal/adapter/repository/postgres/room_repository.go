package postgres

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
)

const (
	tableRoomTypes = "room_types"
	tableRooms     = "rooms"
)

type roomTypeRepository struct{ repositories }

func (r roomTypeRepository) Create(ctx context.Context, rt *domain.RoomType) error {
	id, err := r.insert(ctx, dialect.Insert(tableRoomTypes).Rows(goqu.Record{
		"name":        rt.Name,
		"description": rt.Description,
		"capacity":    rt.Capacity,
		"base_price":  int64(rt.BasePrice),
		"created_at":  rt.CreatedAt,
		"updated_at":  rt.UpdatedAt,
	}))
	if err != nil {
		return err
	}

	rt.ID = id

	return nil
}

func (r roomTypeRepository) Update(ctx context.Context, rt *domain.RoomType) error {
	n, err := r.update(ctx, dialect.Update(tableRoomTypes).
		Set(goqu.Record{
			"name":        rt.Name,
			"description": rt.Description,
			"capacity":    rt.Capacity,
			"base_price":  int64(rt.BasePrice),
			"updated_at":  rt.UpdatedAt,
		}).
		Where(goqu.C("id").Eq(rt.ID)))
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.NewNotFound("room type", rt.ID)
	}

	return nil
}

func (r roomTypeRepository) GetByID(ctx context.Context, id int64) (*domain.RoomType, error) {
	var rt domain.RoomType
	if err := r.get(ctx, &rt, dialect.From(tableRoomTypes).Where(goqu.C("id").Eq(id))); err != nil {
		return nil, notFound(err, "room type", id)
	}

	return &rt, nil
}

func (r roomTypeRepository) List(ctx context.Context) ([]domain.RoomType, error) {
	out := []domain.RoomType{}
	if err := r.list(ctx, &out, dialect.From(tableRoomTypes).Order(goqu.C("id").Asc())); err != nil {
		return nil, err
	}

	return out, nil
}

type roomRepository struct{ repositories }

func (r roomRepository) Create(ctx context.Context, room *domain.Room) error {
	id, err := r.insert(ctx, dialect.Insert(tableRooms).Rows(goqu.Record{
		"room_type_id": room.RoomTypeID,
		"room_number":  room.RoomNumber,
		"floor":        room.Floor,
		"status":       string(room.Status),
		"notes":        room.Notes,
		"created_at":   room.CreatedAt,
		"updated_at":   room.UpdatedAt,
	}))

	switch domain.KindOf(err) {
	case "":
		room.ID = id
		return nil
	case domain.KindConflict:
		return domain.NewValidationError("room number %s already exists", room.RoomNumber)
	case domain.KindNotFound:
		return domain.NewNotFound("room type", room.RoomTypeID)
	default:
		return err
	}
}

func (r roomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	return r.getRoom(ctx, dialect.From(tableRooms).Where(goqu.C("id").Eq(id)), id)
}

func (r roomRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Room, error) {
	return r.getRoom(ctx, dialect.From(tableRooms).Where(goqu.C("id").Eq(id)).ForUpdate(exp.Wait), id)
}

func (r roomRepository) getRoom(ctx context.Context, q *goqu.SelectDataset, id int64) (*domain.Room, error) {
	var room domain.Room
	if err := r.get(ctx, &room, q); err != nil {
		return nil, notFound(err, "room", id)
	}

	return &room, nil
}

func (r roomRepository) List(ctx context.Context, filter domain.RoomFilter) ([]domain.Room, error) {
	q := dialect.From(tableRooms).Order(goqu.C("id").Asc())

	if filter.Status != nil {
		q = q.Where(goqu.C("status").Eq(string(*filter.Status)))
	}

	if filter.RoomTypeID != nil {
		q = q.Where(goqu.C("room_type_id").Eq(*filter.RoomTypeID))
	}

	if filter.Floor != nil {
		q = q.Where(goqu.C("floor").Eq(*filter.Floor))
	}

	out := []domain.Room{}
	if err := r.list(ctx, &out, q); err != nil {
		return nil, err
	}

	return out, nil
}

func (r roomRepository) UpdateStatus(ctx context.Context, id int64, status domain.RoomStatus, at time.Time) error {
	n, err := r.update(ctx, dialect.Update(tableRooms).
		Set(goqu.Record{"status": string(status), "updated_at": at}).
		Where(goqu.C("id").Eq(id)))
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.NewNotFound("room", id)
	}

	return nil
}

func (r roomRepository) ListAvailable(ctx context.Context, checkIn, checkOut domain.Date) ([]domain.Room, error) {
	busy := dialect.From(tableBookings).
		Select("room_id").
		Where(overlapping(checkIn, checkOut))

	q := dialect.From(tableRooms).
		Where(
			goqu.C("status").Eq(string(domain.RoomAvailable)),
			goqu.C("id").NotIn(busy),
		).
		Order(goqu.C("id").Asc())

	out := []domain.Room{}
	if err := r.list(ctx, &out, q); err != nil {
		return nil, err
	}

	return out, nil
}
