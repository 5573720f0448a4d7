package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jmoiron/sqlx"

	"github.com/srgjo27/hotel_booking/internal/core/ports"
	"github.com/srgjo27/hotel_booking/internal/platform/retry"
)

//go:embed schema.sql
var schema string

var dialect = goqu.Dialect("postgres")

type Config struct {
	DB          *sqlx.DB
	L           ports.Logger
	MaxAttempts int
	BaseDelay   time.Duration
}

// Store runs every unit of work in a SERIALIZABLE transaction and repeats it
// when Postgres reports a serialization failure or deadlock.
type Store struct {
	db      *sqlx.DB
	l       ports.Logger
	options []retry.Option
}

func New(conf Config) *Store {
	s := &Store{db: conf.DB, l: conf.L}

	if conf.MaxAttempts > 0 {
		s.options = append(s.options, retry.WithMaxAttempts(conf.MaxAttempts))
	}

	if conf.BaseDelay > 0 {
		s.options = append(s.options, retry.WithBaseDelay(conf.BaseDelay))
	}

	s.options = append(s.options, retry.WithRetryIf(isTransient), retry.WithOnRetry(func(attempt int, err error) {
		s.l.Warn("retrying transaction", "attempt", attempt, "error", err.Error())
	}))

	return s
}

// Migrate applies the embedded schema. Every statement is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	return nil
}

func (s *Store) WithinTx(ctx context.Context, fn ports.TxFunc) error {
	return retry.WithExponentialBackoff(ctx, func(ctx context.Context) error {
		return s.runTx(ctx, fn)
	}, s.options...)
}

func (s *Store) runTx(ctx context.Context, fn ports.TxFunc) (err error) {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return mapError(err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}

		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.l.Warn("rollback failed", "error", rbErr.Error())
			}

			return
		}

		if commitErr := tx.Commit(); commitErr != nil {
			err = commitError(ctx, commitErr)
		}
	}()

	return fn(ctx, repositories{tx: tx})
}

type repositories struct {
	tx *sqlx.Tx
}

func (r repositories) RoomTypes() ports.RoomTypeRepository           { return roomTypeRepository{r} }
func (r repositories) Rooms() ports.RoomRepository                   { return roomRepository{r} }
func (r repositories) SeasonalPrices() ports.SeasonalPriceRepository { return seasonalPriceRepository{r} }
func (r repositories) DailyPrices() ports.DailyPriceRepository       { return dailyPriceRepository{r} }
func (r repositories) Promotions() ports.PromotionRepository         { return promotionRepository{r} }
func (r repositories) Bookings() ports.BookingRepository             { return bookingRepository{r} }
func (r repositories) History() ports.HistoryRepository              { return historyRepository{r} }

func (r repositories) get(ctx context.Context, dest any, q *goqu.SelectDataset) error {
	query, args, err := q.Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	return mapError(r.tx.GetContext(ctx, dest, query, args...))
}

func (r repositories) list(ctx context.Context, dest any, q *goqu.SelectDataset) error {
	query, args, err := q.Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	return mapError(r.tx.SelectContext(ctx, dest, query, args...))
}

// update runs q and returns the number of affected rows.
func (r repositories) update(ctx context.Context, q *goqu.UpdateDataset) (int64, error) {
	query, args, err := q.Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	return r.exec(ctx, query, args)
}

func (r repositories) delete(ctx context.Context, q *goqu.DeleteDataset) (int64, error) {
	query, args, err := q.Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	return r.exec(ctx, query, args)
}

func (r repositories) exec(ctx context.Context, query string, args []any) (int64, error) {
	res, err := r.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, mapError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, mapError(err)
	}

	return n, nil
}

// insert runs an INSERT ... RETURNING id.
func (r repositories) insert(ctx context.Context, q *goqu.InsertDataset) (int64, error) {
	query, args, err := q.Returning("id").Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var id int64
	if err := r.tx.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapError(err)
	}

	return id, nil
}
