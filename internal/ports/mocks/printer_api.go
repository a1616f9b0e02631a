package mocks

import (
	"context"

	"github.com/highvoltag3/BamVoo/internal/domain"
	"github.com/highvoltag3/BamVoo/internal/ports"
	"github.com/stretchr/testify/mock"
)

type MockPrinterAPI struct {
	mock.Mock
}

var _ ports.PrinterAPI = (*MockPrinterAPI)(nil)

func NewMockPrinterAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPrinterAPI {
	m := &MockPrinterAPI{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPrinterAPI) ListPrinters(ctx context.Context) ([]domain.Printer, error) {
	args := m.Called(ctx)
	printers, _ := args.Get(0).([]domain.Printer)
	return printers, args.Error(1)
}

func (m *MockPrinterAPI) GetPrinterState(ctx context.Context, id domain.PrinterID) (domain.PrinterState, error) {
	args := m.Called(ctx, id)
	state, _ := args.Get(0).(domain.PrinterState)
	return state, args.Error(1)
}

func (m *MockPrinterAPI) GetWebcamSnapshot(ctx context.Context, id domain.PrinterID) (domain.WebcamSnapshot, error) {
	args := m.Called(ctx, id)
	snapshot, _ := args.Get(0).(domain.WebcamSnapshot)
	return snapshot, args.Error(1)
}
