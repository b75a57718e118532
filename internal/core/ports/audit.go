package ports

import (
	"context"

	"github.com/hdfops/field-console/internal/core/domain"
)

// AuditRepository persists the authentication audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
	// ListRecent returns up to limit events, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.AuthEvent, error)
}

// AuditSink accepts audit events for asynchronous persistence. Enqueue must
// not block the login path.
type AuditSink interface {
	Enqueue(event domain.AuthEvent)
}
