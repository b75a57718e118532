package notify

import (
	"context"

	"github.com/hdfops/field-console/internal/core/domain"
	"github.com/hdfops/field-console/internal/core/ports"
)

// Multi fans a notification out to every configured transport.
type Multi []ports.Notifier

func (m Multi) Notify(ctx context.Context, note domain.Notification) {
	for _, n := range m {
		n.Notify(ctx, note)
	}
}
