package ports

import (
	"context"

	"github.com/highvoltag3/BamVoo/internal/domain"
)

type Notifier interface {
	Notify(ctx context.Context, userID domain.UserID, message string) error
}
