package handler_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/hotel_booking/internal/adapter/handler"
	"github.com/srgjo27/hotel_booking/internal/adapter/repository/memory"
	"github.com/srgjo27/hotel_booking/internal/core/domain"
	"github.com/srgjo27/hotel_booking/internal/core/ports"
	"github.com/srgjo27/hotel_booking/internal/core/ports/mocks"
	"github.com/srgjo27/hotel_booking/internal/core/services"
	"github.com/srgjo27/hotel_booking/internal/platform/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type errorBody struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields"`
}

func newRouter(t *testing.T, tx ports.TxManager) http.Handler {
	t.Helper()

	l := logger.Discard()
	deps := services.Deps{Tx: tx, L: l, RequestTimeout: time.Second}

	return handler.NewRouter(handler.Config{
		Bookings:   services.NewBookingService(deps),
		Catalog:    services.NewCatalogService(deps, nil),
		Pricing:    services.NewPricingService(deps, nil),
		Promotions: services.NewPromotionService(deps),
		L:          l,
	})
}

func newMemoryRouter(t *testing.T) http.Handler {
	t.Helper()

	return newRouter(t, memory.New(memory.Config{L: logger.Discard()}))
}

func do(t *testing.T, h http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer

	switch v := body.(type) {
	case nil:
	case string:
		buf.WriteString(v)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(v))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())

	return v
}

// seed creates a room type with the Tet rules and one room, returning the ids.
func seed(t *testing.T, h http.Handler) (roomTypeID, roomID int64) {
	t.Helper()

	rec := do(t, h, http.MethodPost, "/room-types", map[string]any{"name": "Deluxe", "capacity": 2, "basePrice": 500000})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	roomTypeID = decodeBody[domain.RoomType](t, rec).ID

	rec = do(t, h, http.MethodPost, "/rooms", map[string]any{"roomTypeId": roomTypeID, "roomNumber": "101", "floor": 1})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	roomID = decodeBody[domain.Room](t, rec).ID

	rec = do(t, h, http.MethodPost, "/pricing/seasonal", map[string]any{
		"roomTypeId": roomTypeID, "name": "Tet", "startDate": "2026-01-25", "endDate": "2026-02-05",
		"priceMultiplier": 2.0, "priority": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/pricing/daily", map[string]any{
		"roomTypeId": roomTypeID, "date": "2026-01-30", "price": 3000000, "reason": "Peak Eve",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	return roomTypeID, roomID
}

func TestLiveness(t *testing.T) {
	rec := do(t, newMemoryRouter(t), http.MethodGet, "/liveness", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	rec := do(t, newMemoryRouter(t), http.MethodGet, "/nope", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NotFound", decodeBody[errorBody](t, rec).Error)
}

func TestBookingFlow(t *testing.T) {
	h := newMemoryRouter(t)
	roomTypeID, roomID := seed(t, h)

	rec := do(t, h, http.MethodPost, "/pricing/promotions", map[string]any{
		"code": "tet10", "discountType": "PERCENTAGE", "discountValue": 10,
		"startDate": "2026-01-01", "endDate": "2026-02-28", "minNights": 3, "maxUses": 100,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "TET10", decodeBody[domain.Promotion](t, rec).Code)

	rec = do(t, h, http.MethodGet, "/pricing/quote?roomTypeId="+itoa(roomTypeID)+"&checkIn=2026-01-28&checkOut=2026-02-01&promotionCode=TET10", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	quote := decodeBody[domain.Quote](t, rec)
	assert.Equal(t, domain.Money(6000000), quote.Subtotal)
	assert.Equal(t, domain.Money(5400000), quote.Total)
	assert.Len(t, quote.PerNightBreakdown, 4)

	rec = do(t, h, http.MethodPost, "/bookings", map[string]any{
		"customerId": 42, "roomId": roomID, "checkInDate": "2026-01-28", "checkOutDate": "2026-02-01",
		"specialRequests": "high floor", "promotionCode": "TET10",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	booking := decodeBody[domain.Booking](t, rec)
	assert.Equal(t, domain.BookingPending, booking.Status)
	assert.Equal(t, domain.Money(6000000), booking.Subtotal)
	assert.Equal(t, domain.Money(600000), booking.DiscountAmount)
	assert.Equal(t, domain.Money(5400000), booking.TotalPrice)

	path := "/bookings/" + itoa(booking.ID)

	rec = do(t, h, http.MethodPut, path+"/confirm", nil, "X-Performed-By", "front-desk")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.BookingConfirmed, decodeBody[domain.Booking](t, rec).Status)

	rec = do(t, h, http.MethodPut, path+"/confirm", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "InvalidTransition", decodeBody[errorBody](t, rec).Error)

	rec = do(t, h, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DeleteNotAllowed", decodeBody[errorBody](t, rec).Error)

	rec = do(t, h, http.MethodPut, path+"/cancel", map[string]string{"reason": "plans changed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, path+"/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	history := decodeBody[[]domain.BookingHistory](t, rec)
	require.Len(t, history, 3)
	assert.Equal(t, domain.ActionCancelled, history[0].Action)
	assert.Equal(t, "plans changed", history[0].Notes)
	assert.Equal(t, "front-desk", history[1].PerformedBy)
	assert.Equal(t, domain.PerformerSystem, history[2].PerformedBy)

	rec = do(t, h, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/bookings?status=CANCELLED", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestCreateBooking_ErrorMapping(t *testing.T) {
	h := newMemoryRouter(t)
	_, roomID := seed(t, h)

	rec := do(t, h, http.MethodPost, "/bookings", map[string]any{
		"customerId": 1, "roomId": roomID, "checkInDate": "2026-03-01", "checkOutDate": "2026-03-04",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	cases := []struct {
		name   string
		body   any
		status int
		kind   string
	}{
		{
			name:   "overlap",
			body:   map[string]any{"customerId": 2, "roomId": roomID, "checkInDate": "2026-03-03", "checkOutDate": "2026-03-05"},
			status: http.StatusConflict,
			kind:   "RoomUnavailable",
		},
		{
			name:   "zero nights",
			body:   map[string]any{"customerId": 2, "roomId": roomID, "checkInDate": "2026-03-10", "checkOutDate": "2026-03-10"},
			status: http.StatusBadRequest,
			kind:   "ValidationError",
		},
		{
			name:   "missing customer",
			body:   map[string]any{"roomId": roomID, "checkInDate": "2026-03-10", "checkOutDate": "2026-03-11"},
			status: http.StatusBadRequest,
			kind:   "ValidationError",
		},
		{
			name:   "malformed date",
			body:   `{"customerId": 2, "roomId": 1, "checkInDate": "10/03/2026", "checkOutDate": "2026-03-11"}`,
			status: http.StatusBadRequest,
			kind:   "ValidationError",
		},
		{
			name:   "unknown room",
			body:   map[string]any{"customerId": 2, "roomId": 999, "checkInDate": "2026-03-10", "checkOutDate": "2026-03-11"},
			status: http.StatusNotFound,
			kind:   "NotFound",
		},
		{
			name:   "unknown promotion",
			body:   map[string]any{"customerId": 2, "roomId": roomID, "checkInDate": "2026-03-10", "checkOutDate": "2026-03-11", "promotionCode": "GHOST"},
			status: http.StatusUnprocessableEntity,
			kind:   "InvalidPromotion",
		},
		{
			name:   "empty body",
			body:   nil,
			status: http.StatusBadRequest,
			kind:   "ValidationError",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/bookings", tc.body)

			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.Equal(t, tc.kind, decodeBody[errorBody](t, rec).Error)
		})
	}
}

func TestCreateBooking_ValidationFields(t *testing.T) {
	h := newMemoryRouter(t)

	rec := do(t, h, http.MethodPost, "/bookings", map[string]any{"roomId": -1, "checkInDate": "2026-03-10", "checkOutDate": "2026-03-11"})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody[errorBody](t, rec)
	assert.Contains(t, body.Fields, "customerId")
	assert.Contains(t, body.Fields, "roomId")
}

func TestPromotionExhausted_Is422(t *testing.T) {
	h := newMemoryRouter(t)
	_, roomID := seed(t, h)

	rec := do(t, h, http.MethodPost, "/pricing/promotions", map[string]any{
		"code": "ONCE", "discountType": "FIXED", "discountValue": 1000,
		"startDate": "2026-01-01", "endDate": "2026-12-31", "maxUses": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/bookings", map[string]any{
		"customerId": 1, "roomId": roomID, "checkInDate": "2026-05-01", "checkOutDate": "2026-05-02", "promotionCode": "ONCE",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/bookings", map[string]any{
		"customerId": 1, "roomId": roomID, "checkInDate": "2026-06-01", "checkOutDate": "2026-06-02", "promotionCode": "ONCE",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "PromotionExhausted", decodeBody[errorBody](t, rec).Error)
}

func TestTimeout_Is503WithRetryAfter(t *testing.T) {
	tx := mocks.NewTxManager(t)
	tx.On("WithinTx", mock.Anything, mock.Anything).Return(context.DeadlineExceeded)

	rec := do(t, newRouter(t, tx), http.MethodPut, "/bookings/1/confirm", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, "Timeout", decodeBody[errorBody](t, rec).Error)
}

func TestInternalErrorsAreMasked(t *testing.T) {
	tx := mocks.NewTxManager(t)
	tx.On("WithinTx", mock.Anything, mock.Anything).Return(assert.AnError)

	rec := do(t, newRouter(t, tx), http.MethodGet, "/bookings/1", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeBody[errorBody](t, rec)
	assert.Equal(t, "Internal", body.Error)
	assert.NotContains(t, body.Message, assert.AnError.Error())
}

func TestRoomsAndStatus(t *testing.T) {
	h := newMemoryRouter(t)
	roomTypeID, roomID := seed(t, h)

	rec := do(t, h, http.MethodPost, "/rooms/bulk", map[string]any{"rooms": []map[string]any{
		{"roomTypeId": roomTypeID, "roomNumber": "102", "floor": 1},
		{"roomTypeId": roomTypeID, "roomNumber": "201", "floor": 2, "status": "MAINTENANCE"},
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Len(t, decodeBody[[]domain.Room](t, rec), 2)

	rec = do(t, h, http.MethodGet, "/rooms?floor=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]domain.Room](t, rec), 2)

	rec = do(t, h, http.MethodPut, "/rooms/"+itoa(roomID)+"/status", map[string]string{"status": "OCCUPIED"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/rooms/"+itoa(roomID)+"/status", map[string]string{"status": "MAINTENANCE"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.RoomMaintenance, decodeBody[domain.Room](t, rec).Status)

	rec = do(t, h, http.MethodGet, "/rooms/available?checkIn=2026-03-01&checkOut=2026-03-02", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	available := decodeBody[[]domain.Room](t, rec)
	require.Len(t, available, 1)
	assert.Equal(t, "102", available[0].RoomNumber)

	rec = do(t, h, http.MethodGet, "/rooms/available?checkIn=2026-03-01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[errorBody](t, rec).Fields, "checkOut")

	rec = do(t, h, http.MethodGet, "/rooms?floor=ground", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPricingCRUD(t *testing.T) {
	h := newMemoryRouter(t)
	roomTypeID, _ := seed(t, h)

	rec := do(t, h, http.MethodGet, "/pricing/seasonal?roomTypeId="+itoa(roomTypeID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	seasons := decodeBody[[]domain.SeasonalPrice](t, rec)
	require.Len(t, seasons, 1)

	seasonPath := "/pricing/seasonal/" + itoa(seasons[0].ID)

	rec = do(t, h, http.MethodPut, seasonPath, map[string]any{
		"roomTypeId": roomTypeID, "name": "Tet", "startDate": "2026-01-25", "endDate": "2026-02-05",
		"priceMultiplier": 1.5, "priority": 5,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "1.5", decodeBody[domain.SeasonalPrice](t, rec).PriceMultiplier.String())

	rec = do(t, h, http.MethodPost, "/pricing/daily", map[string]any{
		"roomTypeId": roomTypeID, "date": "2026-01-30", "price": 2500000, "reason": "Peak Eve",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/pricing/daily?roomTypeId="+itoa(roomTypeID)+"&startDate=2026-01-01&endDate=2026-01-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	daily := decodeBody[[]domain.DailyPrice](t, rec)
	require.Len(t, daily, 1)
	assert.Equal(t, domain.Money(2500000), daily[0].Price)

	rec = do(t, h, http.MethodGet, "/pricing/quote?roomTypeId="+itoa(roomTypeID)+"&checkIn=2026-01-29&checkOut=2026-01-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.Money(3250000), decodeBody[domain.Quote](t, rec).Total)

	rec = do(t, h, http.MethodDelete, "/pricing/daily/"+itoa(daily[0].ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodDelete, seasonPath, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, seasonPath, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/pricing/quote?checkIn=2026-01-29&checkOut=2026-01-31", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[errorBody](t, rec).Fields, "roomTypeId")
}

func TestPromotionEndpoints(t *testing.T) {
	h := newMemoryRouter(t)

	body := map[string]any{
		"code": "SUMMER", "discountType": "FIXED", "discountValue": 100000,
		"startDate": "2026-06-01", "endDate": "2026-08-31",
	}

	rec := do(t, h, http.MethodPost, "/pricing/promotions", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	promo := decodeBody[domain.Promotion](t, rec)
	assert.True(t, promo.IsActive)

	rec = do(t, h, http.MethodPost, "/pricing/promotions", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	path := "/pricing/promotions/" + itoa(promo.ID)

	rec = do(t, h, http.MethodPut, path+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[domain.Promotion](t, rec).IsActive)

	body["discountValue"] = 150000
	rec = do(t, h, http.MethodPut, path, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "150000", decodeBody[domain.Promotion](t, rec).DiscountValue.String())

	body["discountType"] = "BOGO"
	rec = do(t, h, http.MethodPost, "/pricing/promotions", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[errorBody](t, rec).Fields, "discountType")

	rec = do(t, h, http.MethodGet, "/pricing/promotions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]domain.Promotion](t, rec), 1)

	rec = do(t, h, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
