package handler

import (
	"net/http"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
	"github.com/srgjo27/hotel_booking/internal/core/ports"
	"github.com/srgjo27/hotel_booking/internal/core/services"
)

type seasonalPriceRequest struct {
	RoomTypeID      int64          `json:"roomTypeId" validate:"required,gt=0"`
	Name            string         `json:"name" validate:"required,max=100"`
	StartDate       domain.Date    `json:"startDate"`
	EndDate         domain.Date    `json:"endDate"`
	PriceMultiplier domain.Decimal `json:"priceMultiplier"`
	Priority        int            `json:"priority" validate:"gte=0"`
}

func (req seasonalPriceRequest) toDomain(id int64) *domain.SeasonalPrice {
	return &domain.SeasonalPrice{
		ID:              id,
		RoomTypeID:      req.RoomTypeID,
		Name:            req.Name,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		PriceMultiplier: req.PriceMultiplier,
		Priority:        req.Priority,
	}
}

type dailyPriceRequest struct {
	RoomTypeID int64        `json:"roomTypeId" validate:"required,gt=0"`
	Date       domain.Date  `json:"date"`
	Price      domain.Money `json:"price" validate:"gte=0"`
	Reason     string       `json:"reason" validate:"max=255"`
}

func (req dailyPriceRequest) toDomain(id int64) *domain.DailyPrice {
	return &domain.DailyPrice{
		ID:         id,
		RoomTypeID: req.RoomTypeID,
		Date:       req.Date,
		Price:      req.Price,
		Reason:     req.Reason,
	}
}

type promotionRequest struct {
	Code          string              `json:"code" validate:"required,max=50"`
	Description   string              `json:"description" validate:"max=1000"`
	DiscountType  domain.DiscountType `json:"discountType" validate:"required,oneof=PERCENTAGE FIXED"`
	DiscountValue domain.Decimal      `json:"discountValue"`
	StartDate     domain.Date         `json:"startDate"`
	EndDate       domain.Date         `json:"endDate"`
	MinNights     *int                `json:"minNights" validate:"omitempty,gte=0"`
	MaxUses       *int                `json:"maxUses" validate:"omitempty,gte=0"`
}

func (req promotionRequest) toDomain(id int64) *domain.Promotion {
	return &domain.Promotion{
		ID:            id,
		Code:          req.Code,
		Description:   req.Description,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		MinNights:     req.MinNights,
		MaxUses:       req.MaxUses,
	}
}

// PricingHandler serves /pricing: the catalog rules, the promotion ledger and quotes.
type PricingHandler struct {
	catalog    *services.CatalogService
	pricing    *services.PricingService
	promotions *services.PromotionService
}

func NewPricingHandler(catalog *services.CatalogService, pricing *services.PricingService, promotions *services.PromotionService) *PricingHandler {
	return &PricingHandler{catalog: catalog, pricing: pricing, promotions: promotions}
}

func (h *PricingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)

	req := services.QuoteRequest{
		CheckIn:       q.requiredDate("checkIn"),
		CheckOut:      q.requiredDate("checkOut"),
		PromotionCode: q.text("promotionCode"),
	}

	if id := q.optInt64("roomTypeId"); id != nil {
		req.RoomTypeID = *id
	} else if q.values.Get("roomTypeId") == "" {
		q.fields.Add("roomTypeId", "is required")
	}

	if err := q.err(); err != nil {
		writeError(w, err)
		return
	}

	quote, err := h.pricing.Quote(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quote)
}

func (h *PricingHandler) ListSeasonal(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	roomTypeID := q.optInt64("roomTypeId")

	if err := q.err(); err != nil {
		writeError(w, err)
		return
	}

	prices, err := h.catalog.ListSeasonalPrices(r.Context(), roomTypeID)
	if err != nil {
		writeError(w, err)
		return
	}

	if prices == nil {
		prices = []domain.SeasonalPrice{}
	}

	writeJSON(w, http.StatusOK, prices)
}

func (h *PricingHandler) GetSeasonal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	sp, err := h.catalog.GetSeasonalPrice(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sp)
}

func (h *PricingHandler) CreateSeasonal(w http.ResponseWriter, r *http.Request) {
	var req seasonalPriceRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	sp, err := h.catalog.CreateSeasonalPrice(r.Context(), req.toDomain(0))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sp)
}

func (h *PricingHandler) UpdateSeasonal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req seasonalPriceRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	sp, err := h.catalog.UpdateSeasonalPrice(r.Context(), req.toDomain(id))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sp)
}

func (h *PricingHandler) DeleteSeasonal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.catalog.DeleteSeasonalPrice(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PricingHandler) ListDaily(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)

	filter := ports.DailyPriceFilter{
		RoomTypeID: q.optInt64("roomTypeId"),
		StartDate:  q.optDate("startDate"),
		EndDate:    q.optDate("endDate"),
	}

	if err := q.err(); err != nil {
		writeError(w, err)
		return
	}

	prices, err := h.catalog.ListDailyPrices(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	if prices == nil {
		prices = []domain.DailyPrice{}
	}

	writeJSON(w, http.StatusOK, prices)
}

func (h *PricingHandler) GetDaily(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	dp, err := h.catalog.GetDailyPrice(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dp)
}

// SetDaily creates or replaces the override for the posted (roomTypeId, date).
func (h *PricingHandler) SetDaily(w http.ResponseWriter, r *http.Request) {
	var req dailyPriceRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	dp, err := h.catalog.SetDailyPrice(r.Context(), req.toDomain(0))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dp)
}

func (h *PricingHandler) UpdateDaily(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req dailyPriceRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	dp, err := h.catalog.UpdateDailyPrice(r.Context(), req.toDomain(id))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dp)
}

func (h *PricingHandler) DeleteDaily(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.catalog.DeleteDailyPrice(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PricingHandler) ListPromotions(w http.ResponseWriter, r *http.Request) {
	promotions, err := h.promotions.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if promotions == nil {
		promotions = []domain.Promotion{}
	}

	writeJSON(w, http.StatusOK, promotions)
}

func (h *PricingHandler) GetPromotion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	p, err := h.promotions.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *PricingHandler) CreatePromotion(w http.ResponseWriter, r *http.Request) {
	var req promotionRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	p, err := h.promotions.Create(r.Context(), req.toDomain(0))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

func (h *PricingHandler) UpdatePromotion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req promotionRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	p, err := h.promotions.Update(r.Context(), req.toDomain(id))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *PricingHandler) DeletePromotion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.promotions.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PricingHandler) TogglePromotion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	p, err := h.promotions.Toggle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}
