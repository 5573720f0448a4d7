package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
)

const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeExclusionViolation   = "23P01"
	codeQueryCanceled        = "57014"
)

var errOverlap = errors.New("booking overlaps an active booking of the same room")

// sqlState extracts the SQLSTATE from either driver's error type.
func sqlState(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

// isTransient reports serialization failures and deadlocks, the only
// failures worth repeating the whole transaction for.
func isTransient(err error) bool {
	switch sqlState(err) {
	case codeSerializationFailure, codeDeadlockDetected:
		return true
	default:
		return false
	}
}

// mapError turns driver failures into domain errors. sql.ErrNoRows is passed
// through so callers can name the missing entity.
func mapError(err error) error {
	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return err
	}

	if _, ok := domain.AsError(err); ok {
		return err
	}

	switch sqlState(err) {
	case codeSerializationFailure, codeDeadlockDetected, codeUniqueViolation:
		return domain.NewConflict(err)
	case codeExclusionViolation:
		return &domain.Error{Kind: domain.KindRoomUnavailable, Message: errOverlap.Error(), Err: err}
	case codeForeignKeyViolation:
		return &domain.Error{Kind: domain.KindNotFound, Message: "referenced entity does not exist", Err: err}
	case codeCheckViolation:
		return &domain.Error{Kind: domain.KindValidation, Message: "value violates a table constraint", Err: err}
	case codeQueryCanceled:
		return domain.NewTimeout(err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewTimeout(err)
	}

	return fmt.Errorf("postgres: %w", err)
}

// commitError maps a failed COMMIT. database/sql rolls the transaction back
// itself once ctx ends, so ErrTxDone after the deadline means the work was
// discarded for lack of time.
func commitError(ctx context.Context, err error) error {
	if errors.Is(err, sql.ErrTxDone) && ctx.Err() != nil {
		return domain.NewTimeout(fmt.Errorf("commit: %w", ctx.Err()))
	}

	return mapError(err)
}

func notFound(err error, entity string, id any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFound(entity, id)
	}

	return err
}
