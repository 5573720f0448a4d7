package handler

import (
	"fmt"
	"net/http"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
	"github.com/srgjo27/hotel_booking/internal/core/ports"
	"github.com/srgjo27/hotel_booking/internal/core/services"
)

type Config struct {
	Bookings       *services.BookingService
	Catalog        *services.CatalogService
	Pricing        *services.PricingService
	Promotions     *services.PromotionService
	L              ports.Logger
	AllowedOrigins []string
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

type recoveryLogger struct {
	l ports.Logger
}

func (r recoveryLogger) Println(v ...any) {
	r.l.Error("panic recovered", "panic", fmt.Sprint(v...))
}

// NewRouter wires every endpoint behind CORS and panic recovery.
func NewRouter(cfg Config) http.Handler {
	bookings := NewBookingHandler(cfg.Bookings)
	catalog := NewCatalogHandler(cfg.Catalog)
	pricing := NewPricingHandler(cfg.Catalog, cfg.Pricing, cfg.Promotions)

	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	router := mux.NewRouter()
	router.Use(accessLog(cfg.L, tp), contentTypeJSON)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, &domain.Error{Kind: domain.KindNotFound, Message: "route " + r.URL.Path + " not found"})
	})

	router.HandleFunc("/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)

	b := router.PathPrefix("/bookings").Subrouter()
	b.HandleFunc("", bookings.Create).Methods(http.MethodPost)
	b.HandleFunc("", bookings.List).Methods(http.MethodGet)
	b.HandleFunc("/{id:[0-9]+}", bookings.Get).Methods(http.MethodGet)
	b.HandleFunc("/{id:[0-9]+}", bookings.Delete).Methods(http.MethodDelete)
	b.HandleFunc("/{id:[0-9]+}/confirm", bookings.Confirm).Methods(http.MethodPut)
	b.HandleFunc("/{id:[0-9]+}/check-in", bookings.CheckIn).Methods(http.MethodPut)
	b.HandleFunc("/{id:[0-9]+}/check-out", bookings.CheckOut).Methods(http.MethodPut)
	b.HandleFunc("/{id:[0-9]+}/cancel", bookings.Cancel).Methods(http.MethodPut)
	b.HandleFunc("/{id:[0-9]+}/history", bookings.History).Methods(http.MethodGet)

	rt := router.PathPrefix("/room-types").Subrouter()
	rt.HandleFunc("", catalog.CreateRoomType).Methods(http.MethodPost)
	rt.HandleFunc("", catalog.ListRoomTypes).Methods(http.MethodGet)
	rt.HandleFunc("/{id:[0-9]+}", catalog.GetRoomType).Methods(http.MethodGet)
	rt.HandleFunc("/{id:[0-9]+}", catalog.UpdateRoomType).Methods(http.MethodPut)

	rooms := router.PathPrefix("/rooms").Subrouter()
	rooms.HandleFunc("", catalog.CreateRoom).Methods(http.MethodPost)
	rooms.HandleFunc("", catalog.ListRooms).Methods(http.MethodGet)
	rooms.HandleFunc("/bulk", catalog.CreateRooms).Methods(http.MethodPost)
	rooms.HandleFunc("/available", catalog.ListAvailableRooms).Methods(http.MethodGet)
	rooms.HandleFunc("/{id:[0-9]+}", catalog.GetRoom).Methods(http.MethodGet)
	rooms.HandleFunc("/{id:[0-9]+}/status", catalog.UpdateRoomStatus).Methods(http.MethodPut)

	p := router.PathPrefix("/pricing").Subrouter()
	p.HandleFunc("/quote", pricing.Quote).Methods(http.MethodGet)

	p.HandleFunc("/seasonal", pricing.ListSeasonal).Methods(http.MethodGet)
	p.HandleFunc("/seasonal", pricing.CreateSeasonal).Methods(http.MethodPost)
	p.HandleFunc("/seasonal/{id:[0-9]+}", pricing.GetSeasonal).Methods(http.MethodGet)
	p.HandleFunc("/seasonal/{id:[0-9]+}", pricing.UpdateSeasonal).Methods(http.MethodPut)
	p.HandleFunc("/seasonal/{id:[0-9]+}", pricing.DeleteSeasonal).Methods(http.MethodDelete)

	p.HandleFunc("/daily", pricing.ListDaily).Methods(http.MethodGet)
	p.HandleFunc("/daily", pricing.SetDaily).Methods(http.MethodPost)
	p.HandleFunc("/daily/{id:[0-9]+}", pricing.GetDaily).Methods(http.MethodGet)
	p.HandleFunc("/daily/{id:[0-9]+}", pricing.UpdateDaily).Methods(http.MethodPut)
	p.HandleFunc("/daily/{id:[0-9]+}", pricing.DeleteDaily).Methods(http.MethodDelete)

	p.HandleFunc("/promotions", pricing.ListPromotions).Methods(http.MethodGet)
	p.HandleFunc("/promotions", pricing.CreatePromotion).Methods(http.MethodPost)
	p.HandleFunc("/promotions/{id:[0-9]+}", pricing.GetPromotion).Methods(http.MethodGet)
	p.HandleFunc("/promotions/{id:[0-9]+}", pricing.UpdatePromotion).Methods(http.MethodPut)
	p.HandleFunc("/promotions/{id:[0-9]+}", pricing.DeletePromotion).Methods(http.MethodDelete)
	p.HandleFunc("/promotions/{id:[0-9]+}/toggle", pricing.TogglePromotion).Methods(http.MethodPut)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	cors := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(origins),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", headerPerformedBy, headerRequestID}),
		gorillaHandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		gorillaHandlers.ExposedHeaders([]string{headerRequestID, "Retry-After"}),
	)

	recovery := gorillaHandlers.RecoveryHandler(
		gorillaHandlers.RecoveryLogger(recoveryLogger{l: cfg.L}),
		gorillaHandlers.PrintRecoveryStack(true),
	)

	return recovery(cors(router))
}
