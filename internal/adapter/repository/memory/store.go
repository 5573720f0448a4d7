package memory

import (
	"context"
	"fmt"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
	"github.com/srgjo27/hotel_booking/internal/core/ports"
)

type Config struct {
	L ports.Logger
}

type state struct {
	roomTypes  map[int64]domain.RoomType
	rooms      map[int64]domain.Room
	seasonal   map[int64]domain.SeasonalPrice
	daily      map[int64]domain.DailyPrice
	promotions map[int64]domain.Promotion
	bookings   map[int64]domain.Booking
	history    []domain.BookingHistory
	sequences  map[string]int64
}

// Store keeps all data in process memory. A single writer slot serializes
// transactions; a failed transaction replays its undo journal in reverse.
type Store struct {
	l     ports.Logger
	slot  chan struct{}
	state *state
}

func New(conf Config) *Store {
	return &Store{
		l:    conf.L,
		slot: make(chan struct{}, 1),
		state: &state{
			roomTypes:  make(map[int64]domain.RoomType),
			rooms:      make(map[int64]domain.Room),
			seasonal:   make(map[int64]domain.SeasonalPrice),
			daily:      make(map[int64]domain.DailyPrice),
			promotions: make(map[int64]domain.Promotion),
			bookings:   make(map[int64]domain.Booking),
			sequences:  make(map[string]int64),
		},
	}
}

type transaction struct {
	s               *state
	rollbackActions []func()
}

func (t *transaction) onRollback(action func()) {
	t.rollbackActions = append(t.rollbackActions, action)
}

func (t *transaction) nextID(table string) int64 {
	t.s.sequences[table]++
	return t.s.sequences[table]
}

func (t *transaction) rollback() {
	for i := len(t.rollbackActions) - 1; i >= 0; i-- {
		t.rollbackActions[i]()
	}
}

func (db *Store) WithinTx(ctx context.Context, fn ports.TxFunc) (err error) {
	select {
	case db.slot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-db.slot }()

	trx := &transaction{s: db.state}

	defer func() {
		if p := recover(); p != nil {
			trx.rollback()
			db.logWarn("transaction rolled back after panic", "panic", fmt.Sprint(p))

			panic(p)
		}

		if err == nil {
			err = ctx.Err()
		}

		if err != nil {
			trx.rollback()
			db.logWarn("transaction rolled back", "error", err.Error())
		}
	}()

	return fn(ctx, trx)
}

func (db *Store) logWarn(msg string, args ...any) {
	if db.l != nil {
		db.l.Warn(msg, args...)
	}
}

func (t *transaction) RoomTypes() ports.RoomTypeRepository           { return roomTypeRepo{t} }
func (t *transaction) Rooms() ports.RoomRepository                   { return roomRepo{t} }
func (t *transaction) SeasonalPrices() ports.SeasonalPriceRepository { return seasonalRepo{t} }
func (t *transaction) DailyPrices() ports.DailyPriceRepository       { return dailyRepo{t} }
func (t *transaction) Promotions() ports.PromotionRepository         { return promotionRepo{t} }
func (t *transaction) Bookings() ports.BookingRepository             { return bookingRepo{t} }
func (t *transaction) History() ports.HistoryRepository              { return historyRepo{t} }

// put stores v under id in m and journals the previous value.
func put[V any](t *transaction, m map[int64]V, id int64, v V) {
	prev, existed := m[id]

	t.onRollback(func() {
		if existed {
			m[id] = prev
			return
		}

		delete(m, id)
	})

	m[id] = v
}

func remove[V any](t *transaction, m map[int64]V, id int64) bool {
	prev, existed := m[id]
	if !existed {
		return false
	}

	t.onRollback(func() { m[id] = prev })
	delete(m, id)

	return true
}
