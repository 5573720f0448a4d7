package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/srgjo27/hotel_booking/internal/core/ports"
)

type TxManager struct {
	mock.Mock
}

func (_m *TxManager) WithinTx(ctx context.Context, fn ports.TxFunc) error {
	ret := _m.Called(ctx, fn)

	if rf, ok := ret.Get(0).(func(context.Context, ports.TxFunc) error); ok {
		return rf(ctx, fn)
	}

	return ret.Error(0)
}

func NewTxManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *TxManager {
	m := &TxManager{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
