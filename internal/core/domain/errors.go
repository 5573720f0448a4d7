package domain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind is the machine-readable class of a failure returned to callers.
type Kind string

const (
	KindValidation         Kind = "ValidationError"
	KindNotFound           Kind = "NotFound"
	KindRoomUnavailable    Kind = "RoomUnavailable"
	KindInvalidTransition  Kind = "InvalidTransition"
	KindInvalidPromotion   Kind = "InvalidPromotion"
	KindPromotionExhausted Kind = "PromotionExhausted"
	KindDeleteNotAllowed   Kind = "DeleteNotAllowed"
	KindConflict           Kind = "Conflict"
	KindTimeout            Kind = "Timeout"
	KindInternal           Kind = "Internal"
)

// Retryable reports whether a caller may safely repeat the failed operation.
func (k Kind) Retryable() bool {
	return k == KindConflict || k == KindTimeout
}

var ErrInvalidDateRange = errors.New("invalid date range")

type Error struct {
	Kind    Kind
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(string(e.Kind))

	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		for _, k := range keys {
			fmt.Fprintf(&b, "; %s: %s", k, strings.Join(e.Fields[k], ", "))
		}
	}

	if e.Err != nil && e.Message == "" {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NewValidationError(format string, args ...any) *Error {
	return newError(KindValidation, format, args...)
}

func NewNotFound(entity string, id any) *Error {
	return newError(KindNotFound, "%s %v not found", entity, id)
}

func NewRoomUnavailable(roomID int64, checkIn, checkOut Date) *Error {
	return newError(KindRoomUnavailable, "room %d is already booked between %s and %s", roomID, checkIn, checkOut)
}

func NewInvalidTransition(from, to BookingStatus) *Error {
	return newError(KindInvalidTransition, "booking cannot move from %s to %s", from, to)
}

func NewInvalidPromotion(code, reason string) *Error {
	return newError(KindInvalidPromotion, "promotion %s: %s", code, reason)
}

func NewPromotionExhausted(code string) *Error {
	return newError(KindPromotionExhausted, "promotion %s has no uses left", code)
}

func NewDeleteNotAllowed(id int64, status BookingStatus) *Error {
	return newError(KindDeleteNotAllowed, "booking %d in status %s cannot be deleted", id, status)
}

func NewConflict(err error) *Error {
	return &Error{Kind: KindConflict, Message: "concurrent modification detected, retry the request", Err: err}
}

func NewTimeout(err error) *Error {
	return &Error{Kind: KindTimeout, Message: "operation timed out and was rolled back, retry the request", Err: err}
}

func NewInvalidDateRange(checkIn, checkOut Date) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: fmt.Sprintf("check-in %s must be before check-out %s", checkIn, checkOut),
		Err:     ErrInvalidDateRange,
	}
}

// FieldErrors collects per-field validation messages.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// Err returns a ValidationError when at least one field failed, otherwise nil.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}

	return &Error{Kind: KindValidation, Message: "invalid input", Fields: f}
}

// KindOf classifies err. Context deadlines are reported as Timeout.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// AsError returns the *Error carried by err, if any.
func AsError(err error) (*Error, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr, true
	}

	return nil, false
}
