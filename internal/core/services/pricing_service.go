package services

import (
	"context"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
	"github.com/srgjo27/hotel_booking/internal/core/ports"
)

type PricingService struct {
	runner
	resolver PriceResolver
	cache    ports.QuoteCache
}

// NewPricingService builds the quote endpoint. cache may be nil.
func NewPricingService(d Deps, cache ports.QuoteCache) *PricingService {
	return &PricingService{runner: newRunner(d), cache: cache}
}

// Quote prices a stay without consuming a promotion use. Promotion-free quotes
// are served from and written to the cache; cache failures only log. The write
// reuses the version read before pricing, and is skipped when that read failed.
func (s *PricingService) Quote(ctx context.Context, req QuoteRequest) (*domain.Quote, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	cacheable := s.cache != nil && domain.NormalizePromotionCode(req.PromotionCode) == ""

	var version int64

	if cacheable {
		q, v, ok, err := s.cache.Get(ctx, req.RoomTypeID, req.CheckIn, req.CheckOut)
		if err != nil {
			s.l.Warn("quote cache read failed", "room_type_id", req.RoomTypeID, "error", err.Error())
			cacheable = false
		}

		if ok {
			return q, nil
		}

		version = v
	}

	var quote *domain.Quote

	err := s.run(ctx, "PricingService.Quote", func(ctx context.Context, repos ports.Repositories) error {
		q, _, err := s.resolver.Resolve(ctx, repos, req)
		quote = q

		return err
	}, idAttr("room_type_id", req.RoomTypeID))
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.Set(ctx, version, quote); err != nil {
			s.l.Warn("quote cache write failed", "room_type_id", req.RoomTypeID, "error", err.Error())
		}
	}

	return quote, nil
}
