package handler

import (
	"net/http"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
	"github.com/srgjo27/hotel_booking/internal/core/services"
)

type roomTypeRequest struct {
	Name        string       `json:"name" validate:"required,max=100"`
	Description string       `json:"description" validate:"max=1000"`
	Capacity    int          `json:"capacity" validate:"required,gt=0"`
	BasePrice   domain.Money `json:"basePrice" validate:"required,gt=0"`
}

func (req roomTypeRequest) toDomain(id int64) *domain.RoomType {
	return &domain.RoomType{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
		BasePrice:   req.BasePrice,
	}
}

type roomRequest struct {
	RoomTypeID int64             `json:"roomTypeId" validate:"required,gt=0"`
	RoomNumber string            `json:"roomNumber" validate:"required,max=20"`
	Floor      int               `json:"floor"`
	Status     domain.RoomStatus `json:"status" validate:"omitempty,oneof=AVAILABLE MAINTENANCE RESERVED"`
	Notes      string            `json:"notes" validate:"max=500"`
}

func (req roomRequest) toDomain() domain.Room {
	return domain.Room{
		RoomTypeID: req.RoomTypeID,
		RoomNumber: req.RoomNumber,
		Floor:      req.Floor,
		Status:     req.Status,
		Notes:      req.Notes,
	}
}

type bulkRoomsRequest struct {
	Rooms []roomRequest `json:"rooms" validate:"required,min=1,dive"`
}

type roomStatusRequest struct {
	Status domain.RoomStatus `json:"status" validate:"required"`
}

type CatalogHandler struct {
	svc *services.CatalogService
}

func NewCatalogHandler(svc *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) CreateRoomType(w http.ResponseWriter, r *http.Request) {
	var req roomTypeRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	rt, err := h.svc.CreateRoomType(r.Context(), req.toDomain(0))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, rt)
}

func (h *CatalogHandler) UpdateRoomType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req roomTypeRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	rt, err := h.svc.UpdateRoomType(r.Context(), req.toDomain(id))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rt)
}

func (h *CatalogHandler) GetRoomType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	rt, err := h.svc.GetRoomType(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rt)
}

func (h *CatalogHandler) ListRoomTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.svc.ListRoomTypes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if types == nil {
		types = []domain.RoomType{}
	}

	writeJSON(w, http.StatusOK, types)
}

func (h *CatalogHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	room := req.toDomain()

	created, err := h.svc.CreateRoom(r.Context(), &room)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *CatalogHandler) CreateRooms(w http.ResponseWriter, r *http.Request) {
	var req bulkRoomsRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	rooms := make([]domain.Room, 0, len(req.Rooms))
	for _, room := range req.Rooms {
		rooms = append(rooms, room.toDomain())
	}

	created, err := h.svc.CreateRooms(r.Context(), rooms)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *CatalogHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	room, err := h.svc.GetRoom(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, room)
}

func (h *CatalogHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)

	filter := domain.RoomFilter{
		RoomTypeID: q.optInt64("roomTypeId"),
		Floor:      q.optInt("floor"),
	}

	if raw := q.text("status"); raw != "" {
		status, err := domain.ParseRoomStatus(raw)
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

	rooms, err := h.svc.ListRooms(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	if rooms == nil {
		rooms = []domain.Room{}
	}

	writeJSON(w, http.StatusOK, rooms)
}

func (h *CatalogHandler) UpdateRoomStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req roomStatusRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	room, err := h.svc.UpdateRoomStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, room)
}

func (h *CatalogHandler) ListAvailableRooms(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	checkIn := q.requiredDate("checkIn")
	checkOut := q.requiredDate("checkOut")

	if err := q.err(); err != nil {
		writeError(w, err)
		return
	}

	rooms, err := h.svc.ListAvailableRooms(r.Context(), checkIn, checkOut)
	if err != nil {
		writeError(w, err)
		return
	}

	if rooms == nil {
		rooms = []domain.Room{}
	}

	writeJSON(w, http.StatusOK, rooms)
}
