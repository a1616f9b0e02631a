package mocks

import (
	"context"

	"github.com/highvoltag3/BamVoo/internal/ports"
	"github.com/stretchr/testify/mock"
)

type MockSecretStore struct {
	mock.Mock
}

var _ ports.SecretStore = (*MockSecretStore)(nil)

func NewMockSecretStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSecretStore {
	m := &MockSecretStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSecretStore) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockSecretStore) Put(ctx context.Context, key string, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockSecretStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
