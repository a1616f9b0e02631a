package mocks

import (
	"context"

	"github.com/highvoltag3/BamVoo/internal/domain"
	"github.com/highvoltag3/BamVoo/internal/ports"
	"github.com/stretchr/testify/mock"
)

type MockOwnerResolver struct {
	mock.Mock
}

var _ ports.OwnerResolver = (*MockOwnerResolver)(nil)

func NewMockOwnerResolver(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockOwnerResolver {
	m := &MockOwnerResolver{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockOwnerResolver) ResolveOwner(ctx context.Context, printerID domain.PrinterID) (domain.UserID, bool, error) {
	args := m.Called(ctx, printerID)
	userID, _ := args.Get(0).(domain.UserID)
	return userID, args.Bool(1), args.Error(2)
}
