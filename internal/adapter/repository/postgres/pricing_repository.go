package postgres

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
	"github.com/srgjo27/hotel_booking/internal/core/ports"
)

const (
	tableSeasonalPrices = "seasonal_prices"
	tableDailyPrices    = "daily_prices"
)

type seasonalPriceRepository struct{ repositories }

func (r seasonalPriceRepository) record(sp *domain.SeasonalPrice) goqu.Record {
	return goqu.Record{
		"room_type_id":     sp.RoomTypeID,
		"name":             sp.Name,
		"start_date":       sp.StartDate,
		"end_date":         sp.EndDate,
		"price_multiplier": sp.PriceMultiplier,
		"priority":         sp.Priority,
	}
}

func (r seasonalPriceRepository) Create(ctx context.Context, sp *domain.SeasonalPrice) error {
	rec := r.record(sp)
	rec["created_at"] = sp.CreatedAt

	id, err := r.insert(ctx, dialect.Insert(tableSeasonalPrices).Rows(rec))
	if err != nil {
		return roomTypeMissing(err, sp.RoomTypeID)
	}

	sp.ID = id

	return nil
}

func (r seasonalPriceRepository) Update(ctx context.Context, sp *domain.SeasonalPrice) error {
	n, err := r.update(ctx, dialect.Update(tableSeasonalPrices).
		Set(r.record(sp)).
		Where(goqu.C("id").Eq(sp.ID)))
	if err != nil {
		return roomTypeMissing(err, sp.RoomTypeID)
	}

	if n == 0 {
		return domain.NewNotFound("seasonal price", sp.ID)
	}

	return nil
}

func (r seasonalPriceRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.delete(ctx, dialect.Delete(tableSeasonalPrices).Where(goqu.C("id").Eq(id)))
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.NewNotFound("seasonal price", id)
	}

	return nil
}

func (r seasonalPriceRepository) GetByID(ctx context.Context, id int64) (*domain.SeasonalPrice, error) {
	var sp domain.SeasonalPrice
	if err := r.get(ctx, &sp, dialect.From(tableSeasonalPrices).Where(goqu.C("id").Eq(id))); err != nil {
		return nil, notFound(err, "seasonal price", id)
	}

	return &sp, nil
}

func (r seasonalPriceRepository) List(ctx context.Context, roomTypeID *int64) ([]domain.SeasonalPrice, error) {
	q := dialect.From(tableSeasonalPrices).Order(goqu.C("priority").Desc(), goqu.C("id").Asc())

	if roomTypeID != nil {
		q = q.Where(goqu.C("room_type_id").Eq(*roomTypeID))
	}

	out := []domain.SeasonalPrice{}
	if err := r.list(ctx, &out, q); err != nil {
		return nil, err
	}

	return out, nil
}

func (r seasonalPriceRepository) ListOverlapping(ctx context.Context, roomTypeID int64, from, to domain.Date) ([]domain.SeasonalPrice, error) {
	q := dialect.From(tableSeasonalPrices).
		Where(
			goqu.C("room_type_id").Eq(roomTypeID),
			goqu.C("start_date").Lte(to),
			goqu.C("end_date").Gte(from),
		).
		Order(goqu.C("priority").Desc(), goqu.C("id").Asc())

	out := []domain.SeasonalPrice{}
	if err := r.list(ctx, &out, q); err != nil {
		return nil, err
	}

	return out, nil
}

type dailyPriceRepository struct{ repositories }

func (r dailyPriceRepository) Upsert(ctx context.Context, dp *domain.DailyPrice) error {
	query, args, err := dialect.Insert(tableDailyPrices).
		Rows(goqu.Record{
			"room_type_id": dp.RoomTypeID,
			"price_date":   dp.Date,
			"price":        int64(dp.Price),
			"reason":       dp.Reason,
			"created_at":   dp.CreatedAt,
		}).
		OnConflict(goqu.DoUpdate("room_type_id, price_date", goqu.Record{
			"price":  goqu.L("EXCLUDED.price"),
			"reason": goqu.L("EXCLUDED.reason"),
		})).
		Returning("id", "created_at").
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if err := r.tx.QueryRowxContext(ctx, query, args...).Scan(&dp.ID, &dp.CreatedAt); err != nil {
		return roomTypeMissing(mapError(err), dp.RoomTypeID)
	}

	return nil
}

func (r dailyPriceRepository) Update(ctx context.Context, dp *domain.DailyPrice) error {
	n, err := r.update(ctx, dialect.Update(tableDailyPrices).
		Set(goqu.Record{
			"room_type_id": dp.RoomTypeID,
			"price_date":   dp.Date,
			"price":        int64(dp.Price),
			"reason":       dp.Reason,
		}).
		Where(goqu.C("id").Eq(dp.ID)))
	if err != nil {
		return roomTypeMissing(err, dp.RoomTypeID)
	}

	if n == 0 {
		return domain.NewNotFound("daily price", dp.ID)
	}

	return nil
}

func (r dailyPriceRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.delete(ctx, dialect.Delete(tableDailyPrices).Where(goqu.C("id").Eq(id)))
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.NewNotFound("daily price", id)
	}

	return nil
}

func (r dailyPriceRepository) GetByID(ctx context.Context, id int64) (*domain.DailyPrice, error) {
	var dp domain.DailyPrice
	if err := r.get(ctx, &dp, dialect.From(tableDailyPrices).Where(goqu.C("id").Eq(id))); err != nil {
		return nil, notFound(err, "daily price", id)
	}

	return &dp, nil
}

func (r dailyPriceRepository) List(ctx context.Context, filter ports.DailyPriceFilter) ([]domain.DailyPrice, error) {
	q := dialect.From(tableDailyPrices).Order(goqu.C("price_date").Asc(), goqu.C("id").Asc())

	if filter.RoomTypeID != nil {
		q = q.Where(goqu.C("room_type_id").Eq(*filter.RoomTypeID))
	}

	if filter.StartDate != nil {
		q = q.Where(goqu.C("price_date").Gte(*filter.StartDate))
	}

	if filter.EndDate != nil {
		q = q.Where(goqu.C("price_date").Lte(*filter.EndDate))
	}

	out := []domain.DailyPrice{}
	if err := r.list(ctx, &out, q); err != nil {
		return nil, err
	}

	return out, nil
}

func roomTypeMissing(err error, roomTypeID int64) error {
	if domain.IsKind(err, domain.KindNotFound) {
		return domain.NewNotFound("room type", roomTypeID)
	}

	return err
}
