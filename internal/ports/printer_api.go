package ports

import (
	"context"

	"github.com/highvoltag3/BamVoo/internal/domain"
)

type PrinterAPI interface {
	ListPrinters(ctx context.Context) ([]domain.Printer, error)
	GetPrinterState(ctx context.Context, id domain.PrinterID) (domain.PrinterState, error)
	GetWebcamSnapshot(ctx context.Context, id domain.PrinterID) (domain.WebcamSnapshot, error)
}
