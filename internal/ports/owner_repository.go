package ports

import (
	"context"

	"github.com/highvoltag3/BamVoo/internal/domain"
)

// OwnerResolver maps a printer to the voice-platform user that should hear
// about it. ok is false when nobody owns the printer.
type OwnerResolver interface {
	ResolveOwner(ctx context.Context, printerID domain.PrinterID) (userID domain.UserID, ok bool, err error)
}

type OwnerRepository interface {
	OwnerResolver
	List(ctx context.Context) ([]domain.Ownership, error)
	Save(ctx context.Context, ownership domain.Ownership) error
	Delete(ctx context.Context, printerID domain.PrinterID) error
}
