package handler

import (
	"context"
	"net/http"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
	"github.com/srgjo27/hotel_booking/internal/core/services"
)

type createBookingRequest struct {
	CustomerID      int64       `json:"customerId" validate:"required,gt=0"`
	RoomID          int64       `json:"roomId" validate:"required,gt=0"`
	CheckInDate     domain.Date `json:"checkInDate"`
	CheckOutDate    domain.Date `json:"checkOutDate"`
	SpecialRequests string      `json:"specialRequests" validate:"max=1000"`
	PromotionCode   string      `json:"promotionCode" validate:"max=50"`
}

type transitionRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type BookingHandler struct {
	svc *services.BookingService
}

func NewBookingHandler(svc *services.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.svc.CreateBooking(r.Context(), services.CreateBookingRequest{
		CustomerID:      req.CustomerID,
		RoomID:          req.RoomID,
		CheckInDate:     req.CheckInDate,
		CheckOutDate:    req.CheckOutDate,
		SpecialRequests: req.SpecialRequests,
		PromotionCode:   req.PromotionCode,
		PerformedBy:     r.Header.Get(headerPerformedBy),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)

	filter := domain.BookingFilter{
		CustomerID: q.optInt64("customerId"),
		RoomID:     q.optInt64("roomId"),
		StartDate:  q.optDate("startDate"),
		EndDate:    q.optDate("endDate"),
	}

	if raw := q.text("status"); raw != "" {
		status, err := domain.ParseBookingStatus(raw)
		if err != nil {
			q.fields.Add("status", err.Error())
		} else {
			filter.Status = &status
		}
	}

	if err := q.err(); err != nil {
		writeError(w, err)
		return
	}

	bookings, err := h.svc.ListBookings(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	if bookings == nil {
		bookings = []domain.Booking{}
	}

	writeJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	booking, err := h.svc.GetBooking(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.ConfirmBooking)
}

func (h *BookingHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.CheckIn)
}

func (h *BookingHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.CheckOut)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.CancelBooking)
}

type transitionFunc func(ctx context.Context, id int64, req services.TransitionRequest) (*domain.Booking, error)

func (h *BookingHandler) transition(w http.ResponseWriter, r *http.Request, fn transitionFunc) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req transitionRequest
	if err := decode(r, &req, true); err != nil {
		writeError(w, err)
		return
	}

	booking, err := fn(r.Context(), id, services.TransitionRequest{
		PerformedBy: r.Header.Get(headerPerformedBy),
		Reason:      req.Reason,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	err = h.svc.DeleteBooking(r.Context(), id, services.TransitionRequest{PerformedBy: r.Header.Get(headerPerformedBy)})
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *BookingHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	history, err := h.svc.History(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if history == nil {
		history = []domain.BookingHistory{}
	}

	writeJSON(w, http.StatusOK, history)
}
