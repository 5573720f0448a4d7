package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
)

type QuoteCache struct {
	mock.Mock
}

func (_m *QuoteCache) Get(ctx context.Context, roomTypeID int64, checkIn domain.Date, checkOut domain.Date) (*domain.Quote, int64, bool, error) {
	ret := _m.Called(ctx, roomTypeID, checkIn, checkOut)

	var r0 *domain.Quote
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Quote)
	}

	return r0, ret.Get(1).(int64), ret.Bool(2), ret.Error(3)
}

func (_m *QuoteCache) Set(ctx context.Context, version int64, quote *domain.Quote) error {
	ret := _m.Called(ctx, version, quote)

	return ret.Error(0)
}

func (_m *QuoteCache) Invalidate(ctx context.Context, roomTypeID int64) error {
	ret := _m.Called(ctx, roomTypeID)

	return ret.Error(0)
}

// NewQuoteCache creates a mock whose expectations are asserted at test cleanup.
func NewQuoteCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *QuoteCache {
	m := &QuoteCache{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
