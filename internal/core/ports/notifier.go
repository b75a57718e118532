package ports

import (
	"context"

	"github.com/hdfops/field-console/internal/core/domain"
)

// Notifier delivers toast-style notifications to the operator. Fire and
// forget: implementations must not block the caller on delivery.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}
